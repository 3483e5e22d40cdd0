package restaking

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"
	"github.com/AlexZinkM/restaking-dashboard/internal/metrics"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/protocol"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"

	"go.uber.org/zap"
)

// ValidationError is returned when an amount or argument is rejected before submission
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if error is ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// Session is the wallet session transactions are submitted through
type Session interface {
	State() wallet.State
	SignAndSubmitTransaction(ctx context.Context, payload model.TransactionPayload) (model.TransactionResult, error)
}

// Pages reads the views amounts are validated against
type Pages interface {
	Staking(ctx context.Context, session wallet.State) aggregator.Result[model.StakingViewModel]
	Restaking(ctx context.Context, session wallet.State) aggregator.Result[model.RestakingViewModel]
}

// ResourceReader reads raw account resources
type ResourceReader interface {
	AccountResource(ctx context.Context, address, resourceType string) (json.RawMessage, error)
}

// Service validates and submits protocol transactions
type Service struct {
	session   Session
	pages     Pages
	resources ResourceReader
	contract  protocol.Contract
}

// NewService creates a Service
func NewService(session Session, pages Pages, resources ResourceReader, contract protocol.Contract) *Service {
	return &Service{
		session:   session,
		pages:     pages,
		resources: resources,
		contract:  contract,
	}
}

// connected returns the session snapshot or ErrNotConnected
func (s *Service) connected() (wallet.State, error) {
	state := s.session.State()
	if !state.Connected {
		return state, wallet.ErrNotConnected
	}
	return state, nil
}

// submit hands payload to the session and records the outcome
func (s *Service) submit(ctx context.Context, payload model.TransactionPayload) (*model.SubmitResponse, error) {
	name := functionName(payload.Function)

	result, err := s.session.SignAndSubmitTransaction(ctx, payload)
	if err != nil {
		metrics.ObserveSubmission(name, outcome(err))
		return nil, err
	}

	metrics.ObserveSubmission(name, "submitted")
	logger.WithContext(ctx).Info("Protocol transaction submitted",
		zap.String("function", name),
		zap.Strings("arguments", payload.Arguments),
		zap.String("hash", result.Hash))

	return &model.SubmitResponse{
		Hash:     result.Hash,
		Function: payload.Function,
		Payload:  payload,
	}, nil
}

func validateAmount(amount float64, action string) error {
	req := model.AmountRequest{Amount: amount}
	if err := req.Validate(); err != nil {
		return &ValidationError{Message: "Please enter a valid amount to " + action + " (greater than 0)"}
	}
	return nil
}

// functionName strips the address and module from a function id
func functionName(function string) string {
	if i := strings.LastIndex(function, "::"); i >= 0 {
		return function[i+2:]
	}
	return function
}

func outcome(err error) string {
	switch {
	case errors.Is(err, wallet.ErrUserRejected):
		return "rejected"
	case errors.Is(err, wallet.ErrNotConnected):
		return "not_connected"
	}
	return "failed"
}
