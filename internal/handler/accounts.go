package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/AlexZinkM/devnet-accounts/accounts"
	"github.com/AlexZinkM/devnet-accounts/contracts"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/store"
)

// AccountsHandler serves fee payer accounts and deployed contracts
type AccountsHandler struct {
	service *accounts.Service
	store   *store.Store
	logger  *slog.Logger
}

// NewAccountsHandler creates a new AccountsHandler
func NewAccountsHandler(service *accounts.Service, st *store.Store, logger *slog.Logger) *AccountsHandler {
	return &AccountsHandler{
		service: service,
		store:   st,
		logger:  logger.With("component", "http"),
	}
}

// ListAccounts handles GET /accounts
// @Summary      List accounts
// @Description  Lists every readable account file grouped by groupName. Undecryptable or invalid files are skipped.
// @Tags         accounts
// @Produce      json
// @Success      200  {object}  map[string]map[string]model.Entry
// @Failure      500  {object}  model.ErrorResponse
// @Router       /accounts [get]
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.GetAll(model.KindAccounts)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// ListContracts handles GET /contracts
// @Summary      List deployed contracts
// @Description  Lists deployed contracts grouped by groupName
// @Tags         contracts
// @Produce      json
// @Param        group  query     string  false  "Only this group"
// @Success      200    {object}  map[string][]contracts.Deployed
// @Failure      500    {object}  model.ErrorResponse
// @Router       /contracts [get]
func (h *AccountsHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	all, err := contracts.List(h.store, r.URL.Query().Get("group"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// Status handles GET /accounts/status
// @Summary      Account status
// @Description  Live balance, nonce and transactions left of an address. code is 200, 400 (not on chain) or 503 (network error).
// @Tags         accounts
// @Produce      json
// @Param        address  query     string  true  "Public key"
// @Success      200      {object}  model.StatusResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /accounts/status [get]
func (h *AccountsHandler) Status(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "address query parameter is required"})
		return
	}

	status := h.service.FetchStatus(r.Context(), address)
	writeJSON(w, http.StatusOK, model.StatusResponse{
		Address:       address,
		Network:       h.service.Network().Name,
		AccountStatus: status,
	})
}

// Create handles POST /accounts
// @Summary      Create accounts
// @Description  Generates one funded account per name. A rate limited faucet records a manual funding attempt.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateAccountsRequest  true  "Names and optional group"
// @Success      200      {object}  model.CreateAccountsResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /accounts [post]
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	created, err := h.service.ForGroup(req.GroupName).CreateBatch(r.Context(), req.Names)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := model.CreateAccountsResponse{
		Success:  true,
		Message:  "Accounts created successfully",
		Accounts: make([]model.CreatedAccount, 0, len(created)),
	}
	for _, c := range created {
		resp.Accounts = append(resp.Accounts, model.CreatedAccount{
			Name:        c.Account.Data.Name,
			Address:     c.Account.Data.Address.Public,
			FilePath:    c.Path,
			Transaction: c.Faucet.Transaction,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Select handles POST /accounts/select
// @Summary      Select a fee payer
// @Description  Picks the richest funded account called name, else one still waiting for its faucet, else creates one
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request  body      model.SelectRequest  true  "Account name and optional group"
// @Success      200      {object}  model.SelectResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /accounts/select [post]
func (h *AccountsHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req model.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	service := h.service.ForGroup(req.GroupName)
	sel, err := service.Select(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	address := sel.Account.Data.Address.Public
	writeJSON(w, http.StatusOK, model.SelectResponse{
		Status:      string(sel.Status),
		Name:        sel.Account.Data.Name,
		Address:     address,
		Explorer:    service.Network().WalletURL(address),
		Transaction: sel.Transaction,
		Counts:      sel.Counts,
	})
}

func (h *AccountsHandler) writeError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:    validationErr.Scope + ": input error",
			Code:     "validation",
			Messages: validationErr.Messages,
		})
	case model.IsCollisionError(err):
		writeJSON(w, http.StatusConflict, model.ErrorResponse{Error: err.Error(), Code: "collision"})
	case model.IsNetworkError(err):
		h.logger.Warn("upstream request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{Error: err.Error(), Code: "network"})
	default:
		h.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
