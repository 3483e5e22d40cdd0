package aggregator

import (
	"context"

	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
	"github.com/AlexZinkM/restaking-dashboard/internal/protocol"
	"github.com/AlexZinkM/restaking-dashboard/internal/wallet"

	"golang.org/x/sync/errgroup"
)

// Static figures shown on the staking and restaking pages until the contracts expose them
const (
	totalStakers   = 1250
	totalRestakers = 892
)

// Dashboard runs one dashboard cycle
func (a *Aggregator) Dashboard(ctx context.Context, session wallet.State) Result[model.DashboardViewModel] {
	seq := a.next()
	price := a.price.APTPriceUSD(ctx)
	return run(ctx, PageDashboard, seq, session,
		func() model.DashboardViewModel { return model.NewDashboardViewModel(MockUser(), price) },
		func(ctx context.Context, address string) (model.DashboardViewModel, error) {
			user, err := a.fetchUser(ctx, address)
			if err != nil {
				return model.DashboardViewModel{}, err
			}
			return model.NewDashboardViewModel(user, price), nil
		})
}

// Balances runs one balances cycle
func (a *Aggregator) Balances(ctx context.Context, session wallet.State) Result[model.BalancesViewModel] {
	seq := a.next()
	price := a.price.APTPriceUSD(ctx)
	return run(ctx, PageBalances, seq, session,
		func() model.BalancesViewModel { return model.NewBalancesViewModel(MockUser(), price) },
		func(ctx context.Context, address string) (model.BalancesViewModel, error) {
			user, err := a.fetchUser(ctx, address)
			if err != nil {
				return model.BalancesViewModel{}, err
			}
			return model.NewBalancesViewModel(user, price), nil
		})
}

// Staking runs one staking page cycle
func (a *Aggregator) Staking(ctx context.Context, session wallet.State) Result[model.StakingViewModel] {
	return run(ctx, PageStaking, a.next(), session, MockStaking, a.fetchStaking)
}

// Restaking runs one restaking page cycle
func (a *Aggregator) Restaking(ctx context.Context, session wallet.State) Result[model.RestakingViewModel] {
	return run(ctx, PageRestaking, a.next(), session, MockRestaking, a.fetchRestaking)
}

func (a *Aggregator) fetchUser(ctx context.Context, address string) (model.UserViewModel, error) {
	var apt, staked, restaked, stake, restake, totalStaked, stakingRate, totalRestaked, restakingRate uint64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.balance(ctx, address, protocol.AptosCoinType, &apt))
	g.Go(a.balance(ctx, address, a.contract.StakedTokenType(), &staked))
	g.Go(a.balance(ctx, address, a.contract.RestakedTokenType(), &restaked))
	g.Go(a.view(ctx, a.contract.GetUserStake(), &stake, address))
	g.Go(a.view(ctx, a.contract.GetUserRestake(), &restake, address))
	g.Go(a.view(ctx, a.contract.GetTotalStaked(), &totalStaked))
	g.Go(a.rate(ctx, a.contract.GetStakingRate(), &stakingRate))
	g.Go(a.view(ctx, a.contract.GetTotalRestaked(), &totalRestaked))
	g.Go(a.rate(ctx, a.contract.GetRestakingRate(), &restakingRate))
	if err := g.Wait(); err != nil {
		return model.UserViewModel{}, err
	}

	return model.UserViewModel{
		AptBalance:      common.FormatAptAmount(apt),
		StakedBalance:   common.FormatTokenAmount(staked),
		RestakedBalance: common.FormatTokenAmount(restaked),
		UserStake:       common.FormatAptAmount(stake),
		UserRestake:     common.FormatTokenAmount(restake),
		StakingData: model.StakingTotals{
			TotalStaked:  common.FormatAptAmount(totalStaked),
			ExchangeRate: common.FormatExchangeRate(stakingRate),
		},
		RestakingData: model.RestakingTotals{
			TotalRestaked: common.FormatTokenAmount(totalRestaked),
			ExchangeRate:  common.FormatExchangeRate(restakingRate),
		},
	}, nil
}

func (a *Aggregator) fetchStaking(ctx context.Context, address string) (model.StakingViewModel, error) {
	var totalStaked, rate, stake, apt, staked uint64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.view(ctx, a.contract.GetTotalStaked(), &totalStaked))
	g.Go(a.rate(ctx, a.contract.GetStakingRate(), &rate))
	g.Go(a.view(ctx, a.contract.GetUserStake(), &stake, address))
	g.Go(a.balance(ctx, address, protocol.AptosCoinType, &apt))
	g.Go(a.balance(ctx, address, a.contract.StakedTokenType(), &staked))
	if err := g.Wait(); err != nil {
		return model.StakingViewModel{}, err
	}

	return model.StakingViewModel{
		TotalStaked:      common.FormatAptAmount(totalStaked),
		ExchangeRate:     common.FormatExchangeRate(rate),
		TotalStakers:     totalStakers,
		UserStake:        common.FormatAptAmount(stake),
		UserBalance:      common.FormatAptAmount(apt),
		UserStakedTokens: common.FormatTokenAmount(staked),
		TopStakers:       topStakers(),
	}, nil
}

func (a *Aggregator) fetchRestaking(ctx context.Context, address string) (model.RestakingViewModel, error) {
	var totalRestaked, rate, restake, staked, restaked uint64

	g, ctx := errgroup.WithContext(ctx)
	g.Go(a.view(ctx, a.contract.GetTotalRestaked(), &totalRestaked))
	g.Go(a.rate(ctx, a.contract.GetRestakingRate(), &rate))
	g.Go(a.view(ctx, a.contract.GetUserRestake(), &restake, address))
	g.Go(a.balance(ctx, address, a.contract.StakedTokenType(), &staked))
	g.Go(a.balance(ctx, address, a.contract.RestakedTokenType(), &restaked))
	if err := g.Wait(); err != nil {
		return model.RestakingViewModel{}, err
	}

	return model.RestakingViewModel{
		TotalRestaked:      common.FormatTokenAmount(totalRestaked),
		ExchangeRate:       common.FormatExchangeRate(rate),
		TotalRestakers:     totalRestakers,
		UserRestake:        common.FormatTokenAmount(restake),
		UserStakedBalance:  common.FormatTokenAmount(staked),
		UserRestakedTokens: common.FormatTokenAmount(restaked),
		TopRestakers:       topRestakers(),
	}, nil
}
