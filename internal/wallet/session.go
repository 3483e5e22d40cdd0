package wallet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrWalletUnavailable is returned when no extension handle exists
	ErrWalletUnavailable = errors.New("wallet extension is not available")
	// ErrNotConnected is returned when an operation requires a connected session
	ErrNotConnected = errors.New("wallet is not connected")
	// ErrUserRejected is returned by extensions when the user declines a request
	ErrUserRejected = errors.New("user rejected the request")
)

// Options attached to every submitted transaction
const (
	// MaxGasAmount is the maximum number of gas units a transaction may consume
	MaxGasAmount = "100000"
	// GasUnitPrice is the price per gas unit in octas
	GasUnitPrice = "100"
	// ExpirationOffset is how long after submission a transaction stays valid
	ExpirationOffset = 10 * time.Minute
)

// Extension is the wallet collaborator holding the keys
type Extension interface {
	Connect(ctx context.Context) (model.Account, error)
	Disconnect(ctx context.Context) error
	Account(ctx context.Context) (model.Account, error)
	SignAndSubmitTransaction(ctx context.Context, payload model.TransactionPayload, opts model.TransactionOptions) (model.TransactionResult, error)
}

// State is a read-only snapshot of the session
type State struct {
	Available bool
	Connected bool
	Account   model.Account
	// Epoch grows with every connect and disconnect
	Epoch uint64
}

// Session tracks the connection to a single wallet extension.
// Only Session methods write its state. ext is set once at construction.
// transition serializes extension connects and disconnects; mu only guards
// the snapshot fields so readers never wait on the extension.
type Session struct {
	ext        Extension
	connects   singleflight.Group
	transition sync.Mutex

	mu        sync.RWMutex
	connected bool
	account   model.Account
	epoch     uint64
	changed   chan struct{}

	now func() time.Time
}

// NewSession creates the session around ext.
// A nil ext leaves the session without a handle; every connect then fails with ErrWalletUnavailable.
func NewSession(ext Extension) *Session {
	if ext == nil {
		logger.GetLogger().Warn("No wallet extension available, session stays uninitialized")
	}
	return &Session{
		ext:     ext,
		changed: make(chan struct{}),
		now:     time.Now,
	}
}

// Connect asks the extension for access and stores the returned account.
// An already connected session returns its account without asking again.
// Extension errors are returned unchanged and leave the state untouched.
// Concurrent calls share one extension round trip; readers are not blocked by it.
func (s *Session) Connect(ctx context.Context) (model.Account, error) {
	if s.ext == nil {
		return model.Account{}, ErrWalletUnavailable
	}

	v, err, _ := s.connects.Do("connect", func() (any, error) {
		return s.connect(ctx)
	})
	if err != nil {
		return model.Account{}, err
	}
	return v.(model.Account), nil
}

func (s *Session) connect(ctx context.Context) (model.Account, error) {
	s.transition.Lock()
	defer s.transition.Unlock()

	if state := s.State(); state.Connected {
		return state.Account, nil
	}

	if _, err := s.ext.Connect(ctx); err != nil {
		logger.WithContext(ctx).Warn("Wallet connect failed", zap.Error(err))
		return model.Account{}, err
	}

	account, err := s.ext.Account(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn("Wallet account lookup failed", zap.Error(err))
		return model.Account{}, err
	}
	account.Address = common.FormatAddress(account.Address)

	s.mu.Lock()
	s.account = account
	s.connected = true
	s.bump()
	s.mu.Unlock()

	logger.WithContext(ctx).Info("Wallet connected", zap.String("address", account.Address))
	return account, nil
}

// Disconnect releases the extension and clears the account
func (s *Session) Disconnect(ctx context.Context) error {
	if s.ext == nil {
		return ErrWalletUnavailable
	}

	s.transition.Lock()
	defer s.transition.Unlock()

	if err := s.ext.Disconnect(ctx); err != nil {
		logger.WithContext(ctx).Warn("Wallet disconnect failed", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.account = model.Account{}
	s.connected = false
	s.bump()
	s.mu.Unlock()

	logger.WithContext(ctx).Info("Wallet disconnected")
	return nil
}

// SignAndSubmitTransaction hands payload to the extension with the fixed gas and expiration options
func (s *Session) SignAndSubmitTransaction(ctx context.Context, payload model.TransactionPayload) (model.TransactionResult, error) {
	s.mu.RLock()
	ext, connected := s.ext, s.connected
	s.mu.RUnlock()

	if ext == nil || !connected {
		return model.TransactionResult{}, ErrNotConnected
	}

	opts := model.TransactionOptions{
		MaxGasAmount:            MaxGasAmount,
		GasUnitPrice:            GasUnitPrice,
		ExpirationTimestampSecs: s.now().Add(ExpirationOffset).Unix(),
	}

	result, err := ext.SignAndSubmitTransaction(ctx, payload, opts)
	if err != nil {
		logger.WithContext(ctx).Warn("Transaction submission failed",
			zap.String("function", payload.Function), zap.Error(err))
		return model.TransactionResult{}, err
	}

	logger.WithContext(ctx).Info("Transaction submitted",
		zap.String("function", payload.Function), zap.String("hash", result.Hash))
	return result, nil
}

// State returns a snapshot of the session
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Available: s.ext != nil,
		Connected: s.connected,
		Account:   s.account,
		Epoch:     s.epoch,
	}
}

// Changed returns a channel that is closed on the next connect or disconnect
func (s *Session) Changed() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}

// bump must be called with mu held
func (s *Session) bump() {
	s.epoch++
	close(s.changed)
	s.changed = make(chan struct{})
}
