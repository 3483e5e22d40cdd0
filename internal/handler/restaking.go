package handler

import (
	"context"
	"net/http"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/config"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"
)

// PageSource builds page views for one wallet state
type PageSource interface {
	Dashboard(ctx context.Context, session wallet.State) aggregator.Result[model.DashboardViewModel]
	Balances(ctx context.Context, session wallet.State) aggregator.Result[model.BalancesViewModel]
	Staking(ctx context.Context, session wallet.State) aggregator.Result[model.StakingViewModel]
	Restaking(ctx context.Context, session wallet.State) aggregator.Result[model.RestakingViewModel]
}

// Transactor validates and submits protocol transactions
type Transactor interface {
	Stake(ctx context.Context, amount float64) (*model.SubmitResponse, error)
	Unstake(ctx context.Context, amount float64) (*model.SubmitResponse, error)
	Restake(ctx context.Context, amount float64) (*model.SubmitResponse, error)
	Unrestake(ctx context.Context, amount float64) (*model.SubmitResponse, error)
	Initialize(ctx context.Context, seed string) (*model.SubmitResponse, error)
	Status(ctx context.Context) (*model.ProtocolStatusResponse, error)
}

// StateReader gives the current wallet session snapshot
type StateReader interface {
	State() wallet.State
}

// LedgerReader probes the node
type LedgerReader interface {
	LedgerInfo(ctx context.Context) (*client.LedgerInfo, error)
}

// RestakingHandler serves the protocol pages and transactions
type RestakingHandler struct {
	pages   PageSource
	service Transactor
	session StateReader
	ledger  LedgerReader
	board   *aggregator.Board[model.DashboardViewModel]
	network config.Network
}

// NewRestakingHandler creates a RestakingHandler
func NewRestakingHandler(pages PageSource, service Transactor, session StateReader, ledger LedgerReader, board *aggregator.Board[model.DashboardViewModel], network config.Network) *RestakingHandler {
	return &RestakingHandler{
		pages:   pages,
		service: service,
		session: session,
		ledger:  ledger,
		board:   board,
		network: network,
	}
}

// Dashboard handles GET /dashboard
// @Summary      Dashboard
// @Description  Balances, protocol totals and portfolio value. Mock data while no wallet is connected.
// @Tags         pages
// @Produce      json
// @Success      200  {object}  model.PageResponse[model.DashboardViewModel]
// @Router       /dashboard [get]
func (h *RestakingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	result := h.pages.Dashboard(r.Context(), h.session.State())
	h.board.Publish(result)
	writeJSON(w, http.StatusOK, toPage(result))
}

// Balances handles GET /balances
// @Summary      Token balances
// @Description  APT, stAPT and rAPT balances with USD values
// @Tags         pages
// @Produce      json
// @Success      200  {object}  model.PageResponse[model.BalancesViewModel]
// @Router       /balances [get]
func (h *RestakingHandler) Balances(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, toPage(h.pages.Balances(r.Context(), h.session.State())))
}

// Staking handles GET /staking
// @Summary      Staking page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  model.PageResponse[model.StakingViewModel]
// @Router       /staking [get]
func (h *RestakingHandler) Staking(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, toPage(h.pages.Staking(r.Context(), h.session.State())))
}

// Restaking handles GET /restaking
// @Summary      Restaking page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  model.PageResponse[model.RestakingViewModel]
// @Router       /restaking [get]
func (h *RestakingHandler) Restaking(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, toPage(h.pages.Restaking(r.Context(), h.session.State())))
}

// Stake handles POST /staking/stake
// @Summary      Stake APT
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.AmountRequest  true  "Amount in APT"
// @Success      200      {object}  model.SubmitResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /staking/stake [post]
func (h *RestakingHandler) Stake(w http.ResponseWriter, r *http.Request) {
	h.submitAmount(w, r, h.service.Stake)
}

// Unstake handles POST /staking/unstake
// @Summary      Unstake stAPT
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.AmountRequest  true  "Amount in stAPT"
// @Success      200      {object}  model.SubmitResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /staking/unstake [post]
func (h *RestakingHandler) Unstake(w http.ResponseWriter, r *http.Request) {
	h.submitAmount(w, r, h.service.Unstake)
}

// Restake handles POST /restaking/restake
// @Summary      Restake stAPT
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.AmountRequest  true  "Amount in stAPT"
// @Success      200      {object}  model.SubmitResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /restaking/restake [post]
func (h *RestakingHandler) Restake(w http.ResponseWriter, r *http.Request) {
	h.submitAmount(w, r, h.service.Restake)
}

// Unrestake handles POST /restaking/unrestake
// @Summary      Unrestake rAPT
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.AmountRequest  true  "Amount in rAPT"
// @Success      200      {object}  model.SubmitResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /restaking/unrestake [post]
func (h *RestakingHandler) Unrestake(w http.ResponseWriter, r *http.Request) {
	h.submitAmount(w, r, h.service.Unrestake)
}

func (h *RestakingHandler) submitAmount(w http.ResponseWriter, r *http.Request, submit func(context.Context, float64) (*model.SubmitResponse, error)) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.AmountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeValidation})
		return
	}

	resp, err := submit(r.Context(), req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Initialize handles POST /staking/initialize
// @Summary      Initialize staking protocol
// @Description  Admin only. Submits mock_staking_protocol::initialize with the given seed.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        request  body      model.InitializeRequest  true  "Seed"
// @Success      200      {object}  model.SubmitResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /staking/initialize [post]
func (h *RestakingHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req model.InitializeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeValidation})
		return
	}

	resp, err := h.service.Initialize(r.Context(), req.Seed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Status handles GET /protocol/status
// @Summary      Protocol status
// @Description  Whether the staking protocol is initialized and the connected account is registered
// @Tags         protocol
// @Produce      json
// @Success      200  {object}  model.ProtocolStatusResponse
// @Failure      502  {object}  model.ErrorResponse
// @Router       /protocol/status [get]
func (h *RestakingHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	status, err := h.service.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Health handles GET /health
// @Summary      Health check
// @Tags         protocol
// @Produce      json
// @Success      200  {object}  model.HealthResponse
// @Failure      503  {object}  model.HealthResponse
// @Router       /health [get]
func (h *RestakingHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	info, err := h.ledger.LedgerInfo(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, model.HealthResponse{
			Status:    "unhealthy",
			Network:   h.network.Name,
			FaucetURL: h.network.FaucetURL,
			Error:     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, model.HealthResponse{
		Status:        "healthy",
		Network:       h.network.Name,
		FaucetURL:     h.network.FaucetURL,
		ChainID:       info.ChainID,
		LedgerVersion: info.LedgerVersion,
	})
}
