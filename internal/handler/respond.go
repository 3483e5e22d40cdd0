package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/crypto"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"
	"github.com/AlexZinkM/restaking-dashboard/restaking"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes a model.ErrorResponse
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error("Request failed", zap.String("code", code), zap.Error(err))
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

func errorStatus(err error) (int, string) {
	switch {
	case restaking.IsValidationError(err):
		return http.StatusBadRequest, model.CodeValidation
	case errors.Is(err, wallet.ErrNotConnected):
		return http.StatusConflict, model.CodeNotConnected
	case errors.Is(err, wallet.ErrWalletUnavailable):
		return http.StatusServiceUnavailable, model.CodeWalletUnavailable
	case errors.Is(err, wallet.ErrUserRejected):
		return http.StatusForbidden, model.CodeUserRejected
	case errors.Is(err, crypto.ErrInvalidPassword):
		return http.StatusUnauthorized, model.CodeInvalidPassword
	case crypto.IsFileExistsError(err):
		return http.StatusConflict, model.CodeFileExists
	case client.IsNetworkError(err), client.IsTransportError(err):
		return http.StatusBadGateway, model.CodeNodeError
	}
	return http.StatusInternalServerError, model.CodeInternal
}

// allowMethod writes 405 unless r uses method
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed. Should be "+method, http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// decodeJSON decodes the request body into v, writing 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: model.CodeInvalidBody})
		return false
	}
	return true
}

// toPage converts one cycle to its response; failed cycles carry the banner only
func toPage[T any](r aggregator.Result[T]) model.PageResponse[T] {
	page := model.PageResponse[T]{
		State: string(r.State),
		Seq:   r.Seq,
		Data:  r.View,
	}
	if r.State == aggregator.StateError {
		page.Error = aggregator.ErrorBanner
	}
	return page
}
