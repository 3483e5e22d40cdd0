package restaking

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/restaking-dashboard/internal/client"
	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
)

// IsStakingProtocolInitialized checks for the protocol resource at the contract address
func (s *Service) IsStakingProtocolInitialized(ctx context.Context) (bool, error) {
	return s.hasResource(ctx, s.contract.Address(), s.contract.StakingProtocolResource())
}

// IsUserRegisteredForStaking checks the account holds a staked token store
func (s *Service) IsUserRegisteredForStaking(ctx context.Context, address string) (bool, error) {
	return s.hasResource(ctx, address, client.CoinStoreType(s.contract.StakedTokenType()))
}

// IsUserRegisteredForRestaking checks the account holds a restaked token store
func (s *Service) IsUserRegisteredForRestaking(ctx context.Context, address string) (bool, error) {
	return s.hasResource(ctx, address, client.CoinStoreType(s.contract.RestakedTokenType()))
}

// Status reports protocol initialization and, when connected, the account registrations
func (s *Service) Status(ctx context.Context) (*model.ProtocolStatusResponse, error) {
	initialized, err := s.IsStakingProtocolInitialized(ctx)
	if err != nil {
		return nil, err
	}

	status := &model.ProtocolStatusResponse{StakingInitialized: initialized}

	state := s.session.State()
	if !state.Connected {
		return status, nil
	}
	status.Address = state.Account.Address

	if status.RegisteredForStaking, err = s.IsUserRegisteredForStaking(ctx, state.Account.Address); err != nil {
		return nil, err
	}
	if status.RegisteredForRestaking, err = s.IsUserRegisteredForRestaking(ctx, state.Account.Address); err != nil {
		return nil, err
	}
	return status, nil
}

// hasResource maps a 404 to false; any other failure is returned
func (s *Service) hasResource(ctx context.Context, address, resourceType string) (bool, error) {
	_, err := s.resources.AccountResource(ctx, common.FormatAddress(address), resourceType)
	if err == nil {
		return true, nil
	}
	if client.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to read %s: %w", resourceType, err)
}
