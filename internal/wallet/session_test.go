package wallet

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExtension struct {
	account    model.Account
	connectErr error
	signErr    error

	connects    int
	disconnects int
	submitted   []model.TransactionPayload
	options     []model.TransactionOptions
}

func (f *fakeExtension) Connect(ctx context.Context) (model.Account, error) {
	f.connects++
	if f.connectErr != nil {
		return model.Account{}, f.connectErr
	}
	return f.account, nil
}

func (f *fakeExtension) Disconnect(ctx context.Context) error {
	f.disconnects++
	return nil
}

func (f *fakeExtension) Account(ctx context.Context) (model.Account, error) {
	return f.account, nil
}

func (f *fakeExtension) SignAndSubmitTransaction(ctx context.Context, payload model.TransactionPayload, opts model.TransactionOptions) (model.TransactionResult, error) {
	if f.signErr != nil {
		return model.TransactionResult{}, f.signErr
	}
	f.submitted = append(f.submitted, payload)
	f.options = append(f.options, opts)
	return model.TransactionResult{Hash: "0xhash"}, nil
}

func TestSessionWithoutExtension(t *testing.T) {
	s := NewSession(nil)
	ctx := context.Background()

	_, err := s.Connect(ctx)
	assert.ErrorIs(t, err, ErrWalletUnavailable)

	assert.ErrorIs(t, s.Disconnect(ctx), ErrWalletUnavailable)

	_, err = s.SignAndSubmitTransaction(ctx, model.TransactionPayload{Function: "f"})
	assert.ErrorIs(t, err, ErrNotConnected)

	state := s.State()
	assert.False(t, state.Available)
	assert.False(t, state.Connected)
}

func TestSessionConnectDisconnect(t *testing.T) {
	ext := &fakeExtension{account: model.Account{Address: "0XABC", PublicKey: "0x01"}}
	s := NewSession(ext)
	ctx := context.Background()

	assert.True(t, s.State().Available)
	changed := s.Changed()

	account, err := s.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0xabc", account.Address)

	select {
	case <-changed:
	default:
		t.Fatal("connect did not signal a change")
	}

	state := s.State()
	assert.True(t, state.Connected)
	assert.Equal(t, "0xabc", state.Account.Address)
	assert.Equal(t, uint64(1), state.Epoch)

	require.NoError(t, s.Disconnect(ctx))
	state = s.State()
	assert.False(t, state.Connected)
	assert.Empty(t, state.Account.Address)
	assert.Equal(t, uint64(2), state.Epoch)
	assert.Equal(t, 1, ext.disconnects)
}

func TestSessionConnectRejected(t *testing.T) {
	ext := &fakeExtension{connectErr: ErrUserRejected}
	s := NewSession(ext)

	_, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrUserRejected)

	state := s.State()
	assert.False(t, state.Connected)
	assert.Equal(t, uint64(0), state.Epoch)
}

func TestSessionSignRequiresConnection(t *testing.T) {
	ext := &fakeExtension{account: model.Account{Address: "0x1"}}
	s := NewSession(ext)

	_, err := s.SignAndSubmitTransaction(context.Background(), model.TransactionPayload{Function: "f"})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, ext.submitted)
}

func TestSessionSignAttachesOptions(t *testing.T) {
	ext := &fakeExtension{account: model.Account{Address: "0x1"}}
	s := NewSession(ext)
	fixed := time.Unix(1700000000, 0)
	s.now = func() time.Time { return fixed }

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	payload := model.TransactionPayload{Function: "0x1::m::f", TypeArguments: []string{}, Arguments: []string{"1"}}
	result, err := s.SignAndSubmitTransaction(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, "0xhash", result.Hash)

	require.Len(t, ext.options, 1)
	assert.Equal(t, model.TransactionOptions{
		MaxGasAmount:            "100000",
		GasUnitPrice:            "100",
		ExpirationTimestampSecs: 1700000600,
	}, ext.options[0])
	assert.Equal(t, payload, ext.submitted[0])
}

func TestSessionSignErrorPropagates(t *testing.T) {
	rejected := errors.New("boom")
	ext := &fakeExtension{account: model.Account{Address: "0x1"}, signErr: rejected}
	s := NewSession(ext)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	_, err = s.SignAndSubmitTransaction(context.Background(), model.TransactionPayload{Function: "f"})
	assert.ErrorIs(t, err, rejected)
	assert.True(t, s.State().Connected)
}

// slowExtension blocks Connect until release is closed
type slowExtension struct {
	fakeExtension
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (f *slowExtension) Connect(ctx context.Context) (model.Account, error) {
	if f.calls.Add(1) == 1 {
		close(f.entered)
	}
	<-f.release
	return f.account, nil
}

func TestConnectDoesNotBlockReaders(t *testing.T) {
	ext := &slowExtension{
		fakeExtension: fakeExtension{account: model.Account{Address: "0xabc"}},
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	s := NewSession(ext)
	ctx := context.Background()

	var wg sync.WaitGroup
	accounts := make([]model.Account, 3)
	for i := range accounts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			account, err := s.Connect(ctx)
			assert.NoError(t, err)
			accounts[i] = account
		}(i)
	}
	<-ext.entered

	read := make(chan State)
	go func() { read <- s.State() }()
	select {
	case state := <-read:
		assert.False(t, state.Connected)
	case <-time.After(time.Second):
		t.Fatal("State blocked while the extension was connecting")
	}

	close(ext.release)
	wg.Wait()

	assert.Equal(t, int32(1), ext.calls.Load())
	for _, account := range accounts {
		assert.Equal(t, "0xabc", account.Address)
	}
	assert.True(t, s.State().Connected)
	assert.Equal(t, uint64(1), s.State().Epoch)
}
