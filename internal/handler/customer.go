package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rfmoraes/minibank/internal/bank"
	"github.com/rfmoraes/minibank/internal/storage"
)

// CustomerHandler handles HTTP requests for customer registration and lookup
type CustomerHandler struct {
	bank  *bank.Bank
	store storage.Store
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(b *bank.Bank, store storage.Store) *CustomerHandler {
	return &CustomerHandler{bank: b, store: store}
}

// RegisterRoutes sets up the customer routes on the given router
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Get("/", h.List)
		r.Get("/{id}", h.GetByID)
	})
	r.Post("/authenticate", h.Authenticate)
}

// registerCustomerRequest is the payload for registering a customer
type registerCustomerRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
}

var (
	errIDRequired        = errors.New("id is required")
	errNameRequired      = errors.New("name is required")
	errBirthDateRequired = errors.New("birth_date is required")
)

// Validate checks if the registration request has the required fields
func (r registerCustomerRequest) Validate() error {
	if r.ID == "" {
		return errIDRequired
	}
	if r.Name == "" {
		return errNameRequired
	}
	if r.BirthDate == "" {
		return errBirthDateRequired
	}
	return nil
}

// authenticateRequest is the payload for authenticating by identity id
type authenticateRequest struct {
	ID string `json:"id"`
}

// customerResponse is the JSON view of a customer
type customerResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	BirthDate      string `json:"birth_date"`
	Address        string `json:"address"`
	AccountNumbers []int  `json:"account_numbers"`
}

func newCustomerResponse(c *bank.Customer) customerResponse {
	identity := c.Identity()
	resp := customerResponse{
		ID:             identity.ID,
		Name:           identity.Name,
		BirthDate:      identity.BirthDate,
		Address:        c.Address(),
		AccountNumbers: []int{},
	}
	for _, a := range c.Accounts() {
		resp.AccountNumbers = append(resp.AccountNumbers, a.Number())
	}
	return resp
}

// Register handles POST /customers
func (h *CustomerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	customer, err := h.bank.RegisterCustomer(req.ID, req.Name, req.BirthDate, req.Address)
	if err != nil {
		if errors.Is(err, bank.ErrDuplicateIdentity) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to register customer")
		return
	}

	persistSnapshot(r.Context(), h.bank, h.store)
	writeJSON(w, http.StatusCreated, newCustomerResponse(customer))
}

// List handles GET /customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers := h.bank.ListCustomers()

	resp := make([]customerResponse, 0, len(customers))
	for _, c := range customers {
		resp = append(resp, newCustomerResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetByID handles GET /customers/{id}
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	customer, ok := h.bank.FindCustomerByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}

	writeJSON(w, http.StatusOK, newCustomerResponse(customer))
}

// Authenticate handles POST /authenticate
// Authentication is identity lookup only - there is no credential check
func (h *CustomerHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	customer, err := h.bank.Authenticate(req.ID)
	if err != nil {
		if errors.Is(err, bank.ErrCustomerNotFound) {
			writeError(w, http.StatusNotFound, "Customer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	writeJSON(w, http.StatusOK, newCustomerResponse(customer))
}
