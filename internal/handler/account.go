package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/rfmoraes/minibank/internal/bank"
	"github.com/rfmoraes/minibank/internal/storage"
)

// AccountHandler handles HTTP requests for accounts
type AccountHandler struct {
	bank  *bank.Bank
	store storage.Store
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(b *bank.Bank, store storage.Store) *AccountHandler {
	return &AccountHandler{bank: b, store: store}
}

// RegisterRoutes sets up the account routes on the given router
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Post("/", h.Open)
		r.Get("/{number}", h.GetByNumber)
		r.Post("/{number}/deposit", h.Deposit)
		r.Post("/{number}/withdraw", h.Withdraw)
		r.Get("/{number}/statement", h.Statement)
	})
}

// openAccountRequest is the payload for opening an account
type openAccountRequest struct {
	CustomerID string `json:"customer_id"`
}

// amountRequest is the payload for deposits and withdrawals
type amountRequest struct {
	Amount string `json:"amount"`
}

// accountResponse is the JSON view of an account
type accountResponse struct {
	Number  int    `json:"number"`
	OwnerID string `json:"owner_id"`
	Balance string `json:"balance"`
}

func newAccountResponse(a *bank.Account) accountResponse {
	return accountResponse{
		Number:  a.Number(),
		OwnerID: a.Owner().Identity().ID,
		Balance: a.Balance().StringFixed(2),
	}
}

// balanceResponse is returned after a successful deposit or withdrawal
type balanceResponse struct {
	Number  int    `json:"number"`
	Balance string `json:"balance"`
}

// statementResponse carries an account's formatted statement lines
type statementResponse struct {
	Number int      `json:"number"`
	Lines  []string `json:"lines"`
}

// Open handles POST /accounts
func (h *AccountHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, ok := h.bank.FindCustomerByID(req.CustomerID)
	if !ok {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}

	account, err := h.bank.OpenAccount(customer)
	if err != nil {
		if errors.Is(err, bank.ErrCustomerUnknown) {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to open account")
		return
	}

	persistSnapshot(r.Context(), h.bank, h.store)
	writeJSON(w, http.StatusCreated, newAccountResponse(account))
}

// GetByNumber handles GET /accounts/{number}
func (h *AccountHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	account, found := h.bank.FindAccountByNumber(number)
	if !found {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}

	writeJSON(w, http.StatusOK, newAccountResponse(account))
}

// Deposit handles POST /accounts/{number}/deposit
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applyTransaction(w, r, h.bank.Deposit)
}

// Withdraw handles POST /accounts/{number}/withdraw
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyTransaction(w, r, h.bank.Withdraw)
}

// applyTransaction runs a deposit or withdrawal against the account in the
// URL and answers with the new balance. The first failing domain check is
// the error the client sees.
func (h *AccountHandler) applyTransaction(w http.ResponseWriter, r *http.Request, apply func(int, decimal.Decimal) (decimal.Decimal, error)) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount format")
		return
	}

	balance, err := apply(number, amount)
	if err != nil {
		if errors.Is(err, bank.ErrAccountNotFound) {
			writeError(w, http.StatusNotFound, "Account not found")
			return
		}
		// Rule failures: invalid amount, insufficient funds, limits.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	persistSnapshot(r.Context(), h.bank, h.store)
	writeJSON(w, http.StatusOK, balanceResponse{Number: number, Balance: balance.StringFixed(2)})
}

// Statement handles GET /accounts/{number}/statement
func (h *AccountHandler) Statement(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	lines, err := h.bank.Statement(number)
	if err != nil {
		writeError(w, http.StatusNotFound, "Account not found")
		return
	}

	writeJSON(w, http.StatusOK, statementResponse{Number: number, Lines: lines})
}

// accountNumber parses the {number} URL parameter, answering 400 on failure
func accountNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid account number format")
		return 0, false
	}
	return number, true
}

// persistSnapshot writes the bank's current state through to the store.
// A failed save is logged, not surfaced: the in-memory operation already
// succeeded and the next successful save will catch the state up.
func persistSnapshot(ctx context.Context, b *bank.Bank, store storage.Store) {
	if store == nil {
		return
	}
	if err := store.Save(ctx, b.Snapshot()); err != nil {
		log.Printf("Failed to persist snapshot: %v", err)
	}
}

// Helper functions for HTTP responses

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
