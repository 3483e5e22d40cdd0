package restaking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/protocol"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contractAddress = "0xc0ffee"

type fakeSession struct {
	state     wallet.State
	err       error
	submitted []model.TransactionPayload
}

func (f *fakeSession) State() wallet.State { return f.state }

func (f *fakeSession) SignAndSubmitTransaction(ctx context.Context, payload model.TransactionPayload) (model.TransactionResult, error) {
	if f.err != nil {
		return model.TransactionResult{}, f.err
	}
	f.submitted = append(f.submitted, payload)
	return model.TransactionResult{Hash: "0xhash"}, nil
}

type fakePages struct {
	staking   aggregator.Result[model.StakingViewModel]
	restaking aggregator.Result[model.RestakingViewModel]
	reads     int
}

func (f *fakePages) Staking(ctx context.Context, session wallet.State) aggregator.Result[model.StakingViewModel] {
	f.reads++
	return f.staking
}

func (f *fakePages) Restaking(ctx context.Context, session wallet.State) aggregator.Result[model.RestakingViewModel] {
	f.reads++
	return f.restaking
}

type fakeResources map[string]error

func (f fakeResources) AccountResource(ctx context.Context, address, resourceType string) (json.RawMessage, error) {
	if err, ok := f[address+"/"+resourceType]; ok {
		return nil, err
	}
	return json.RawMessage(`{}`), nil
}

func connectedSession() *fakeSession {
	return &fakeSession{state: wallet.State{Available: true, Connected: true, Account: model.Account{Address: "0xabc"}}}
}

func livePages() *fakePages {
	return &fakePages{
		staking: aggregator.Result[model.StakingViewModel]{
			State: aggregator.StateLive,
			View:  model.StakingViewModel{UserStakedTokens: 10},
		},
		restaking: aggregator.Result[model.RestakingViewModel]{
			State: aggregator.StateLive,
			View:  model.RestakingViewModel{UserStakedBalance: 10, UserRestakedTokens: 4},
		},
	}
}

func newTestService(session Session, pages Pages, resources ResourceReader) *Service {
	return NewService(session, pages, resources, protocol.NewContract(contractAddress))
}

func TestStake(t *testing.T) {
	session := connectedSession()
	s := newTestService(session, livePages(), fakeResources{})

	resp, err := s.Stake(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, "0xhash", resp.Hash)
	assert.Equal(t, contractAddress+"::mock_staking_protocol::stake_apt", resp.Function)
	require.Len(t, session.submitted, 1)
	assert.Equal(t, []string{"10000000000"}, session.submitted[0].Arguments)
}

func TestAmountValidation(t *testing.T) {
	s := newTestService(connectedSession(), livePages(), fakeResources{})
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"StakeZero", func() error { _, err := s.Stake(ctx, 0); return err }},
		{"StakeNegative", func() error { _, err := s.Stake(ctx, -1); return err }},
		{"StakeBelowOneOcta", func() error { _, err := s.Stake(ctx, 0.000000001); return err }},
		{"UnstakeOverBalance", func() error { _, err := s.Unstake(ctx, 10.5); return err }},
		{"RestakeOverBalance", func() error { _, err := s.Restake(ctx, 11); return err }},
		{"UnrestakeOverBalance", func() error { _, err := s.Unrestake(ctx, 4.00000001); return err }},
		{"UnrestakeZero", func() error { _, err := s.Unrestake(ctx, 0); return err }},
		{"InitializeEmptySeed", func() error { _, err := s.Initialize(ctx, ""); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, IsValidationError(err), "got %v", err)
		})
	}
}

func TestUnstakeRestakeUnrestake(t *testing.T) {
	session := connectedSession()
	s := newTestService(session, livePages(), fakeResources{})
	ctx := context.Background()

	_, err := s.Unstake(ctx, 10)
	require.NoError(t, err)
	_, err = s.Restake(ctx, 2.5)
	require.NoError(t, err)
	_, err = s.Unrestake(ctx, 4)
	require.NoError(t, err)

	require.Len(t, session.submitted, 3)
	assert.Equal(t, contractAddress+"::mock_staking_protocol::unstake_apt", session.submitted[0].Function)
	assert.Equal(t, []string{"1000000000"}, session.submitted[0].Arguments)
	assert.Equal(t, contractAddress+"::restaking_engine::restake_tokens", session.submitted[1].Function)
	assert.Equal(t, []string{"250000000"}, session.submitted[1].Arguments)
	assert.Equal(t, contractAddress+"::restaking_engine::unstake_tokens", session.submitted[2].Function)
	assert.Equal(t, []string{"400000000"}, session.submitted[2].Arguments)
}

func TestNotConnected(t *testing.T) {
	pages := livePages()
	s := newTestService(&fakeSession{}, pages, fakeResources{})
	ctx := context.Background()

	_, err := s.Stake(ctx, 1)
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = s.Unstake(ctx, 1)
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = s.Restake(ctx, 1)
	assert.ErrorIs(t, err, wallet.ErrNotConnected)
	_, err = s.Initialize(ctx, "seed")
	assert.ErrorIs(t, err, wallet.ErrNotConnected)

	assert.Zero(t, pages.reads)
}

func TestFailedPageBlocksSubmission(t *testing.T) {
	session := connectedSession()
	pages := livePages()
	netErr := &client.NetworkError{Endpoint: "/view", StatusCode: 500}
	pages.restaking = aggregator.Result[model.RestakingViewModel]{State: aggregator.StateError, Err: netErr}
	s := newTestService(session, pages, fakeResources{})

	_, err := s.Restake(context.Background(), 1)
	assert.True(t, client.IsNetworkError(err))
	assert.Empty(t, session.submitted)
}

func TestRejectionPropagates(t *testing.T) {
	session := connectedSession()
	session.err = wallet.ErrUserRejected
	s := newTestService(session, livePages(), fakeResources{})

	_, err := s.Initialize(context.Background(), "seed")
	assert.ErrorIs(t, err, wallet.ErrUserRejected)
}

func TestStatus(t *testing.T) {
	c := protocol.NewContract(contractAddress)
	notFound := &client.NetworkError{StatusCode: http.StatusNotFound}

	t.Run("Disconnected", func(t *testing.T) {
		s := newTestService(&fakeSession{}, livePages(), fakeResources{
			contractAddress + "/" + c.StakingProtocolResource(): notFound,
		})

		status, err := s.Status(context.Background())
		require.NoError(t, err)
		assert.False(t, status.StakingInitialized)
		assert.Empty(t, status.Address)
	})

	t.Run("Connected", func(t *testing.T) {
		s := newTestService(connectedSession(), livePages(), fakeResources{
			"0xabc/" + client.CoinStoreType(c.RestakedTokenType()): notFound,
		})

		status, err := s.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, status.StakingInitialized)
		assert.Equal(t, "0xabc", status.Address)
		assert.True(t, status.RegisteredForStaking)
		assert.False(t, status.RegisteredForRestaking)
	})

	t.Run("NodeFailure", func(t *testing.T) {
		s := newTestService(&fakeSession{}, livePages(), fakeResources{
			contractAddress + "/" + c.StakingProtocolResource(): &client.TransportError{Err: errors.New("reset")},
		})

		_, err := s.Status(context.Background())
		assert.True(t, client.IsTransportError(err))
	})
}

func TestFunctionName(t *testing.T) {
	assert.Equal(t, "stake_apt", functionName("0x1::mock_staking_protocol::stake_apt"))
	assert.Equal(t, "plain", functionName("plain"))
}
