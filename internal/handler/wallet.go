package handler

import (
	"context"
	"net/http"

	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/config"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"
)

// WalletSession is the session the wallet endpoints drive
type WalletSession interface {
	State() wallet.State
	Connect(ctx context.Context) (model.Account, error)
	Disconnect(ctx context.Context) error
}

// WalletHandler serves the wallet connection endpoints
type WalletHandler struct {
	session      WalletSession
	keystorePath string
	network      string
}

// NewWalletHandler creates a WalletHandler. An empty keystorePath disables POST /wallet/generate.
func NewWalletHandler(session WalletSession, keystorePath, network string) *WalletHandler {
	return &WalletHandler{
		session:      session,
		keystorePath: keystorePath,
		network:      network,
	}
}

func (h *WalletHandler) stateResponse() model.WalletStateResponse {
	state := h.session.State()
	resp := model.WalletStateResponse{
		Available: state.Available,
		Connected: state.Connected,
		Network:   h.network,
	}
	if state.Connected {
		resp.Address = state.Account.Address
		resp.ShortAddress = common.ShortAddress(state.Account.Address)
		resp.PublicKey = state.Account.PublicKey
	}
	return resp
}

// State handles GET /wallet
// @Summary      Wallet state
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletStateResponse
// @Router       /wallet [get]
func (h *WalletHandler) State(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse())
}

// Connect handles POST /wallet/connect
// @Summary      Connect wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletStateResponse
// @Failure      403  {object}  model.ErrorResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /wallet/connect [post]
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if _, err := h.session.Connect(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse())
}

// Disconnect handles POST /wallet/disconnect
// @Summary      Disconnect wallet
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletStateResponse
// @Failure      503  {object}  model.ErrorResponse
// @Router       /wallet/disconnect [post]
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.session.Disconnect(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.stateResponse())
}

// Generate handles POST /wallet/generate
// @Summary      Generate new keystore
// @Description  Generates a new ed25519 account and saves it to the configured keystore file
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if h.keystorePath == "" {
		writeError(w, r, wallet.ErrWalletUnavailable)
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := config.GetKeystorePasswordBytes()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodePasswordNotSet})
		return
	}
	defer clear(passwordBytes)

	account, err := wallet.GenerateKeystore(h.keystorePath, h.network, passwordBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success: true,
		Message: "Keystore generated successfully",
		Address: account.Address,
	})
}

// QR handles GET /wallet/qr
// @Summary      Account address QR code
// @Tags         wallet
// @Produce      png
// @Success      200
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/qr [get]
func (h *WalletHandler) QR(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	state := h.session.State()
	if !state.Connected {
		writeError(w, r, wallet.ErrNotConnected)
		return
	}

	png, err := wallet.QRCode(state.Account.Address)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
