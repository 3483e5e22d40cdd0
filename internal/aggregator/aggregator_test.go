package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/protocol"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contractAddress = "0xc0ffee"
	userAddress     = "0xabc"
)

// fakeNode answers coin balances by coin type and views by function id
type fakeNode struct {
	mu       sync.Mutex
	balances map[string]uint64
	views    map[string]uint64
	failures map[string]error
	calls    int
	args     map[string][]string
}

func newFakeNode() *fakeNode {
	c := protocol.NewContract(contractAddress)
	return &fakeNode{
		balances: map[string]uint64{
			protocol.AptosCoinType: 150000000000, // 1500
			c.StakedTokenType():    40000000000,  // 400
			c.RestakedTokenType():  12550000000,  // 125.5
		},
		views: map[string]uint64{
			c.GetUserStake():     40000000000,
			c.GetUserRestake():   12550000000,
			c.GetTotalStaked():   100000000000000,
			c.GetStakingRate():   105000000,
			c.GetTotalRestaked(): 50000000000000,
			c.GetRestakingRate(): 110000000,
		},
		failures: map[string]error{},
		args:     map[string][]string{},
	}
}

func (f *fakeNode) CoinBalance(ctx context.Context, address, coinType string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err, ok := f.failures[coinType]; ok {
		return 0, err
	}
	value, ok := f.balances[coinType]
	if !ok {
		return 0, fmt.Errorf("unexpected coin type %s", coinType)
	}
	return value, nil
}

func (f *fakeNode) ViewUint64(ctx context.Context, payload model.TransactionPayload) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.args[payload.Function] = payload.Arguments
	if err, ok := f.failures[payload.Function]; ok {
		return 0, err
	}
	value, ok := f.views[payload.Function]
	if !ok {
		return 0, fmt.Errorf("unexpected function %s", payload.Function)
	}
	return value, nil
}

func connected() wallet.State {
	return wallet.State{Available: true, Connected: true, Account: model.Account{Address: userAddress}}
}

func newTestAggregator(node NodeReader) *Aggregator {
	return New(node, protocol.NewContract(contractAddress), StaticPrice(10))
}

func TestDisconnectedReturnsMock(t *testing.T) {
	node := newFakeNode()
	a := newTestAggregator(node)
	ctx := context.Background()
	session := wallet.State{Available: true}

	dashboard := a.Dashboard(ctx, session)
	assert.Equal(t, StateMock, dashboard.State)
	assert.Equal(t, MockUser(), dashboard.View.User)
	assert.Equal(t, 1250000.0, dashboard.View.Staking.TotalStaked)
	assert.Equal(t, (1000.0+500+250)*10, dashboard.View.PortfolioValue)

	staking := a.Staking(ctx, session)
	assert.Equal(t, StateMock, staking.State)
	assert.Equal(t, MockStaking(), staking.View)
	assert.Equal(t, 1250, staking.View.TotalStakers)
	assert.Equal(t, 500000.0, staking.View.TotalStaked)

	restaking := a.Restaking(ctx, session)
	assert.Equal(t, StateMock, restaking.State)
	assert.Equal(t, 892, restaking.View.TotalRestakers)
	assert.Equal(t, 100.0, restaking.View.UserRestake)
	require.Len(t, restaking.View.TopRestakers, 3)
	assert.Equal(t, 1500.0, restaking.View.TopRestakers[2].Amount)

	balances := a.Balances(ctx, session)
	assert.Equal(t, StateMock, balances.State)
	assert.Equal(t, 17500.0, balances.View.TotalUSDValue)

	assert.Zero(t, node.calls)
}

func TestDashboardLive(t *testing.T) {
	node := newFakeNode()
	a := newTestAggregator(node)

	r := a.Dashboard(context.Background(), connected())
	require.NoError(t, r.Err)
	assert.Equal(t, StateLive, r.State)

	user := r.View.User
	assert.Equal(t, 1500.0, user.AptBalance)
	assert.Equal(t, 400.0, user.StakedBalance)
	assert.Equal(t, 125.5, user.RestakedBalance)
	assert.Equal(t, 400.0, user.UserStake)
	assert.Equal(t, 125.5, user.UserRestake)
	assert.Equal(t, 1000000.0, user.StakingData.TotalStaked)
	assert.Equal(t, 1.05, user.StakingData.ExchangeRate)
	assert.Equal(t, 500000.0, user.RestakingData.TotalRestaked)
	assert.Equal(t, 1.1, user.RestakingData.ExchangeRate)
	assert.Zero(t, user.TVL)

	assert.Equal(t, (1500+400+125.5)*10, r.View.PortfolioValue)
	assert.Equal(t, 9, node.calls)

	c := protocol.NewContract(contractAddress)
	assert.Equal(t, []string{userAddress}, node.args[c.GetUserStake()])
	assert.Equal(t, []string{}, node.args[c.GetTotalStaked()])
}

func TestStakingAndRestakingLive(t *testing.T) {
	node := newFakeNode()
	a := newTestAggregator(node)

	staking := a.Staking(context.Background(), connected())
	require.Equal(t, StateLive, staking.State)
	assert.Equal(t, 1000000.0, staking.View.TotalStaked)
	assert.Equal(t, 1.05, staking.View.ExchangeRate)
	assert.Equal(t, 1250, staking.View.TotalStakers)
	assert.Equal(t, 400.0, staking.View.UserStake)
	assert.Equal(t, 1500.0, staking.View.UserBalance)
	assert.Equal(t, 400.0, staking.View.UserStakedTokens)
	assert.Len(t, staking.View.TopStakers, 3)

	restaking := a.Restaking(context.Background(), connected())
	require.Equal(t, StateLive, restaking.State)
	assert.Equal(t, 500000.0, restaking.View.TotalRestaked)
	assert.Equal(t, 1.1, restaking.View.ExchangeRate)
	assert.Equal(t, 892, restaking.View.TotalRestakers)
	assert.Equal(t, 400.0, restaking.View.UserStakedBalance)
	assert.Equal(t, 125.5, restaking.View.UserRestakedTokens)

	assert.Greater(t, restaking.Seq, staking.Seq)
}

func TestAnyFailureFailsTheCycle(t *testing.T) {
	c := protocol.NewContract(contractAddress)
	failing := []string{
		protocol.AptosCoinType,
		c.StakedTokenType(),
		c.RestakedTokenType(),
		c.GetUserStake(),
		c.GetUserRestake(),
		c.GetTotalStaked(),
		c.GetStakingRate(),
		c.GetTotalRestaked(),
		c.GetRestakingRate(),
	}

	for _, key := range failing {
		t.Run(key, func(t *testing.T) {
			node := newFakeNode()
			node.failures[key] = &client.NetworkError{Endpoint: "/view", StatusCode: 500}
			a := newTestAggregator(node)

			r := a.Dashboard(context.Background(), connected())

			assert.Equal(t, StateError, r.State)
			assert.Equal(t, model.DashboardViewModel{}, r.View)
			assert.True(t, client.IsNetworkError(r.Err))
		})
	}
}

func TestStakingFailureNeverFallsBackToMock(t *testing.T) {
	node := newFakeNode()
	node.failures[protocol.AptosCoinType] = &client.TransportError{Endpoint: "/accounts", Err: errors.New("reset")}
	a := newTestAggregator(node)

	r := a.Staking(context.Background(), connected())

	assert.Equal(t, StateError, r.State)
	assert.Equal(t, model.StakingViewModel{}, r.View)
	assert.True(t, client.IsTransportError(r.Err))
}

func TestEmptyExchangeRateDefaultsToOne(t *testing.T) {
	node := newFakeNode()
	c := protocol.NewContract(contractAddress)
	node.failures[c.GetStakingRate()] = fmt.Errorf("%s: %w", c.GetStakingRate(), client.ErrEmptyViewResult)
	a := newTestAggregator(node)

	r := a.Staking(context.Background(), connected())

	require.Equal(t, StateLive, r.State)
	assert.Equal(t, 1.0, r.View.ExchangeRate)
}

func TestBoardDropsStaleResults(t *testing.T) {
	var b Board[int]

	_, ok := b.Latest()
	assert.False(t, ok)

	assert.True(t, b.Publish(Result[int]{Seq: 2, State: StateLive, View: 2}))
	assert.False(t, b.Publish(Result[int]{Seq: 1, State: StateLive, View: 1}))

	latest, ok := b.Latest()
	require.True(t, ok)
	assert.Equal(t, 2, latest.View)

	assert.True(t, b.Publish(Result[int]{Seq: 3, State: StateError}))
	latest, _ = b.Latest()
	assert.Equal(t, StateError, latest.State)
}

func TestBoardOrdersByEpochFirst(t *testing.T) {
	var b Board[string]

	require.True(t, b.Publish(Result[string]{Seq: 5, Epoch: 1, State: StateLive, View: "live"}))
	assert.True(t, b.Publish(Result[string]{Seq: 3, Epoch: 2, State: StateMock, View: "mock"}))
	assert.False(t, b.Publish(Result[string]{Seq: 9, Epoch: 1, State: StateLive, View: "late"}))

	latest, _ := b.Latest()
	assert.Equal(t, "mock", latest.View)
}

// gatedPrice blocks the first call until release is closed
type gatedPrice struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (p *gatedPrice) APTPriceUSD(ctx context.Context) float64 {
	first := false
	p.once.Do(func() { first = true })
	if first {
		close(p.entered)
		<-p.release
	}
	return 10
}

func TestSlowCycleOnOldSnapshotIsDropped(t *testing.T) {
	price := &gatedPrice{entered: make(chan struct{}), release: make(chan struct{})}
	a := New(newFakeNode(), protocol.NewContract(contractAddress), price)
	var board Board[model.DashboardViewModel]
	ctx := context.Background()

	connectedState := connected()
	connectedState.Epoch = 1

	done := make(chan Result[model.DashboardViewModel])
	go func() {
		done <- a.Dashboard(ctx, connectedState)
	}()
	<-price.entered

	disconnected := a.Dashboard(ctx, wallet.State{Available: true, Epoch: 2})
	require.True(t, board.Publish(disconnected))

	close(price.release)
	stale := <-done
	require.Equal(t, StateLive, stale.State)

	assert.Less(t, stale.Seq, disconnected.Seq)
	assert.False(t, board.Publish(stale))
	latest, _ := board.Latest()
	assert.Equal(t, StateMock, latest.State)
}

type fakeFeed struct {
	rates []float64
	errs  []error
	calls int
}

func (f *fakeFeed) GetAPTtoUSDRate(ctx context.Context) (float64, error) {
	i := f.calls
	f.calls++
	return f.rates[i], f.errs[i]
}

func TestFeedPrice(t *testing.T) {
	feed := &fakeFeed{
		rates: []float64{0, 9.25, 0},
		errs:  []error{errors.New("rate limited"), nil, errors.New("down")},
	}
	p := NewFeedPrice(feed, time.Minute, 8.5)
	now := time.Unix(1700000000, 0)
	p.now = func() time.Time { return now }
	ctx := context.Background()

	assert.Equal(t, 8.5, p.APTPriceUSD(ctx))

	// a failed attempt is not retried within ttl
	assert.Equal(t, 8.5, p.APTPriceUSD(ctx))
	assert.Equal(t, 1, feed.calls)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 9.25, p.APTPriceUSD(ctx))
	assert.Equal(t, 9.25, p.APTPriceUSD(ctx))
	assert.Equal(t, 2, feed.calls)

	// last known price survives a failed refresh
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 9.25, p.APTPriceUSD(ctx))
	assert.Equal(t, 3, feed.calls)
}

// slowFeed fails after release is closed and counts its calls
type slowFeed struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (f *slowFeed) GetAPTtoUSDRate(ctx context.Context) (float64, error) {
	if f.calls.Add(1) == 1 {
		close(f.entered)
	}
	<-f.release
	return 0, errors.New("down")
}

func TestFeedPriceSharesConcurrentRefresh(t *testing.T) {
	feed := &slowFeed{entered: make(chan struct{}), release: make(chan struct{})}
	p := NewFeedPrice(feed, time.Minute, 8.5)
	ctx := context.Background()

	var wg sync.WaitGroup
	prices := make([]float64, 5)
	for i := range prices {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			prices[i] = p.APTPriceUSD(ctx)
		}(i)
	}

	<-feed.entered
	close(feed.release)
	wg.Wait()

	assert.Equal(t, int32(1), feed.calls.Load())
	for _, price := range prices {
		assert.Equal(t, 8.5, price)
	}
}
