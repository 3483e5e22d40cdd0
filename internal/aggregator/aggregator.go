package aggregator

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"
	"github.com/AlexZinkM/restaking-dashboard/internal/metrics"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/protocol"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"

	"go.uber.org/zap"
)

// ErrorBanner is the user-facing message of a failed cycle
const ErrorBanner = "Failed to fetch data from the blockchain. Please try again or check your connection."

// Page names used in logs and metrics
const (
	PageDashboard = "dashboard"
	PageBalances  = "balances"
	PageStaking   = "staking"
	PageRestaking = "restaking"
)

// State is the outcome of one fetch cycle
type State string

const (
	StateLive  State = "live"
	StateMock  State = "mock"
	StateError State = "error"
)

// Result is the view of one fetch cycle.
// On StateError View is the zero value; a cycle never mixes live and mock fields.
// Epoch is the session epoch of the snapshot the cycle ran on.
type Result[T any] struct {
	Seq   uint64
	Epoch uint64
	State State
	View  T
	Err   error
}

// newer reports whether r comes from a later cycle than other:
// a newer session snapshot first, then a later sequence token
func (r Result[T]) newer(other Result[T]) bool {
	if r.Epoch != other.Epoch {
		return r.Epoch > other.Epoch
	}
	return r.Seq > other.Seq
}

// NodeReader is the part of the node client the aggregator reads through
type NodeReader interface {
	CoinBalance(ctx context.Context, address, coinType string) (uint64, error)
	ViewUint64(ctx context.Context, payload model.TransactionPayload) (uint64, error)
}

// Aggregator builds page view-models from concurrent node reads
type Aggregator struct {
	node     NodeReader
	contract protocol.Contract
	price    PriceSource
	seq      atomic.Uint64
}

// New creates an Aggregator
func New(node NodeReader, contract protocol.Contract, price PriceSource) *Aggregator {
	return &Aggregator{
		node:     node,
		contract: contract,
		price:    price,
	}
}

// next hands out the sequence token of a new cycle
func (a *Aggregator) next() uint64 {
	return a.seq.Add(1)
}

// run executes one cycle: mock when disconnected, otherwise fetch with all-or-nothing semantics.
// seq must be taken before any blocking work of the cycle.
func run[T any](ctx context.Context, page string, seq uint64, session wallet.State, mock func() T, fetch func(ctx context.Context, address string) (T, error)) Result[T] {
	if !session.Connected {
		metrics.ObserveFetchCycle(page, string(StateMock))
		return Result[T]{Seq: seq, Epoch: session.Epoch, State: StateMock, View: mock()}
	}

	view, err := fetch(ctx, session.Account.Address)
	if err != nil {
		metrics.ObserveFetchCycle(page, string(StateError))
		logger.WithContext(ctx).Error("Fetch cycle failed",
			zap.String("page", page),
			zap.Uint64("seq", seq),
			zap.String("address", session.Account.Address),
			zap.Error(err))
		var zero T
		return Result[T]{Seq: seq, Epoch: session.Epoch, State: StateError, View: zero, Err: err}
	}

	metrics.ObserveFetchCycle(page, string(StateLive))
	logger.WithContext(ctx).Debug("Fetch cycle completed", zap.String("page", page), zap.Uint64("seq", seq))
	return Result[T]{Seq: seq, Epoch: session.Epoch, State: StateLive, View: view}
}

// balance reads a coin store value into dst
func (a *Aggregator) balance(ctx context.Context, address, coinType string, dst *uint64) func() error {
	return func() error {
		value, err := a.node.CoinBalance(ctx, address, coinType)
		if err != nil {
			return err
		}
		*dst = value
		return nil
	}
}

// view reads a single-integer view function into dst
func (a *Aggregator) view(ctx context.Context, function string, dst *uint64, args ...string) func() error {
	return func() error {
		value, err := a.node.ViewUint64(ctx, protocol.ViewPayload(function, args...))
		if err != nil {
			return err
		}
		*dst = value
		return nil
	}
}

// rate reads an exchange rate into dst, 1.0 when the view returns nothing
func (a *Aggregator) rate(ctx context.Context, function string, dst *uint64) func() error {
	return func() error {
		value, err := a.node.ViewUint64(ctx, protocol.ViewPayload(function))
		if errors.Is(err, client.ErrEmptyViewResult) {
			*dst = common.ExchangeRateScale
			return nil
		}
		if err != nil {
			return err
		}
		*dst = value
		return nil
	}
}
