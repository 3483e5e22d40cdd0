package model

import (
	"fmt"
	"math"
)

// AmountRequest represents request for POST /staking/stake, /staking/unstake,
// /restaking/restake and /restaking/unrestake. Amount is in display units.
type AmountRequest struct {
	Amount float64 `json:"amount" example:"100"`
}

// Validate checks the amount is a positive finite number.
func (r *AmountRequest) Validate() error {
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return fmt.Errorf("amount must be a number")
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than 0")
	}
	return nil
}

// InitializeRequest represents request for POST /staking/initialize
type InitializeRequest struct {
	Seed string `json:"seed"`
}

// Validate validates InitializeRequest.
func (r *InitializeRequest) Validate() error {
	if r.Seed == "" {
		return fmt.Errorf("seed is required")
	}
	return nil
}

// SubmitResponse represents response for transaction submission endpoints
type SubmitResponse struct {
	Hash     string             `json:"hash"`
	Function string             `json:"function"`
	Payload  TransactionPayload `json:"payload"`
}
