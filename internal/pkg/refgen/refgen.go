package refgen

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	PaymentPrefix = "PAY"
	DuePrefix     = "TXN"

	suffixLength = 4
)

// Generator produces human-readable transaction references of the form
// <prefix><unix-millis><4 uppercase chars>. The clock and the randomness
// source are injected so reference generation is deterministic under test.
type Generator struct {
	now     func() time.Time
	newUUID func() uuid.UUID
}

func New(now func() time.Time, newUUID func() uuid.UUID) *Generator {
	if now == nil {
		now = time.Now
	}
	if newUUID == nil {
		newUUID = uuid.New
	}
	return &Generator{now: now, newUUID: newUUID}
}

// PaymentRef generates a reference for an immediately settled payment.
func (g *Generator) PaymentRef() string {
	return g.ref(PaymentPrefix)
}

// DueRef generates a reference for a "record now, pay later" transaction.
func (g *Generator) DueRef() string {
	return g.ref(DuePrefix)
}

func (g *Generator) ref(prefix string) string {
	millis := strconv.FormatInt(g.now().UnixMilli(), 10)
	raw := strings.ReplaceAll(g.newUUID().String(), "-", "")
	return prefix + millis + strings.ToUpper(raw[:suffixLength])
}

// HasPrefix reports whether ref carries one of the known reference prefixes.
func HasPrefix(ref string) bool {
	return strings.HasPrefix(ref, PaymentPrefix) || strings.HasPrefix(ref, DuePrefix)
}
