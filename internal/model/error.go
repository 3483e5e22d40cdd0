package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"wallet not connected"`
	Code  string `json:"code,omitempty" example:"not_connected"`
}

// Error codes carried in ErrorResponse.Code
const (
	CodeInvalidBody       = "invalid_body"
	CodeValidation        = "validation_error"
	CodeNotConnected      = "not_connected"
	CodeWalletUnavailable = "wallet_unavailable"
	CodeUserRejected      = "user_rejected"
	CodeInvalidPassword   = "invalid_password"
	CodePasswordNotSet    = "password_not_set"
	CodeFileExists        = "file_exists"
	CodeNodeError         = "node_error"
	CodeInternal          = "internal_error"
)
