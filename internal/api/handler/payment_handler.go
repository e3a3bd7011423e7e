package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"trackloan/internal/api/handler/dto"
	"trackloan/internal/domain/loan"
	"trackloan/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	service loan.PaymentService
	logger  *slog.Logger
}

func NewPaymentHandler(s loan.PaymentService, l *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: s,
		logger:  l.With("component", "PaymentHandler"),
	}
}

func getTransactionIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "transactionID")
	if idStr == "" {
		return 0, fmt.Errorf("transactionID not found in URL path")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

func parseAmount(raw string) (float64, error) {
	amountDecimal, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid numeric format for amount", apperrors.ErrInvalidArgument)
	}
	amountFloat, _ := amountDecimal.Float64()
	return amountFloat, nil
}

// ProcessPayment handles POST /loans/{loanID}/payments.
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.ProcessPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	paymentDate, _ := time.Parse(time.RFC3339[:10], req.PaymentDate)

	result, err := h.service.ProcessPayment(r.Context(), loanID, amount, paymentDate)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewPaymentResponse(result))
}

// RecordDuePayment handles POST /loans/{loanID}/due-payments.
func (h *PaymentHandler) RecordDuePayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.RecordDuePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}
	paymentDate, _ := time.Parse(time.RFC3339[:10], req.PaymentDate)

	created, err := h.service.RecordDuePayment(r.Context(), loanID, amount, paymentDate)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewTransactionResponse(created))
}

// ListTransactions handles GET /loans/{loanID}/transactions.
func (h *PaymentHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	txns, err := h.service.ListTransactions(r.Context(), loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		resp[i] = dto.NewTransactionResponse(&txns[i])
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetTransaction handles GET /transactions/{transactionID}.
func (h *PaymentHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID, err := getTransactionIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	txn, err := h.service.GetTransaction(r.Context(), transactionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewTransactionResponse(txn))
}

// UpdateTransactionAmount handles PUT /transactions/{transactionID}/amount.
func (h *PaymentHandler) UpdateTransactionAmount(w http.ResponseWriter, r *http.Request) {
	transactionID, err := getTransactionIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var req dto.UpdateTransactionAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.UpdateTransactionAmount(r.Context(), transactionID, amount); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
