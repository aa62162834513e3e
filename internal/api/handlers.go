package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/Tarjei400/actors-vs-locks/actor"
	"github.com/Tarjei400/actors-vs-locks/bank"
)

// Handler holds the dependencies of the bank handlers.
type Handler struct {
	bank *bank.Bank
}

// NewHandler creates a new Handler.
func NewHandler(b *bank.Bank) *Handler {
	return &Handler{bank: b}
}

// OpenAccountRequest defines the expected JSON body for opening an account.
type OpenAccountRequest struct {
	ID      int     `json:"id"`
	Balance float64 `json:"balance"`
}

// AmountRequest defines the expected JSON body for deposits and withdraws.
type AmountRequest struct {
	Amount float64 `json:"amount"`
}

// TransferRequest defines the expected JSON body for a transfer.
type TransferRequest struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	Amount float64 `json:"amount"`
}

// AccountResponse is the balance of one account.
type AccountResponse struct {
	ID      int     `json:"id"`
	Balance float64 `json:"balance"`
}

// ResultResponse is the outcome of a deposit or withdraw.
type ResultResponse struct {
	Result string `json:"result"`
}

// TransferResponse is the outcome of a transfer.
type TransferResponse struct {
	Status string `json:"status"`
}

// AuditResponse lists the balances of all accounts.
type AuditResponse struct {
	Balances map[string]float64 `json:"balances"`
	Total    float64            `json:"total"`
}

// OpenAccount handles opening a new account.
func (h *Handler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := h.bank.Open(req.ID, req.Balance); err != nil {
		if errors.Is(err, actor.ErrInvalid) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, AccountResponse{ID: req.ID, Balance: req.Balance})
}

// ListAccounts handles listing the ids of all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ids := h.bank.Accounts()
	if ids == nil {
		ids = []int{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetAccount handles reading the balance of an account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	balance, err := h.bank.Balance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountResponse{ID: id, Balance: balance})
}

// Deposit handles a deposit into an account.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.transact(w, r, h.bank.Deposit)
}

// Withdraw handles a withdraw from an account.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.transact(w, r, h.bank.Withdraw)
}

type transactFunc func(ctx context.Context, id int, amount float64) (bank.TransactionResult, error)

func (h *Handler) transact(w http.ResponseWriter, r *http.Request, fn transactFunc) {
	id, ok := accountID(w, r)
	if !ok {
		return
	}
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res, err := fn(r.Context(), id, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if res != bank.Done {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, ResultResponse{Result: res.String()})
}

// Transfer handles a transfer between two accounts.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s, err := h.bank.Transfer(r.Context(), req.From, req.To, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if s != bank.TransferDone {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, TransferResponse{Status: s.String()})
}

// Audit handles listing the balances of all accounts.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	report, err := h.bank.Audit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuditResponse{Balances: report.Balances, Total: report.Total})
}

func accountID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid account id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// writeError maps actor errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, actor.ErrNoRoute):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, actor.ErrTimeout):
		http.Error(w, err.Error(), http.StatusGatewayTimeout)
	case errors.Is(err, actor.ErrClosed), errors.Is(err, actor.ErrMailboxFull):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		log.WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}
