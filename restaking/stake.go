package restaking

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
)

// Stake stakes amount APT for staked tokens
func (s *Service) Stake(ctx context.Context, amount float64) (*model.SubmitResponse, error) {
	if err := validateAmount(amount, "stake"); err != nil {
		return nil, err
	}
	if _, err := s.connected(); err != nil {
		return nil, err
	}

	raw := common.ParseAptAmount(amount)
	if raw == 0 {
		return nil, &ValidationError{Message: "amount is smaller than one octa"}
	}

	return s.submit(ctx, s.contract.StakePayload(raw))
}

// Unstake burns amount staked tokens for APT.
// The amount may not exceed the staked token balance of the current staking page.
func (s *Service) Unstake(ctx context.Context, amount float64) (*model.SubmitResponse, error) {
	if err := validateAmount(amount, "unstake"); err != nil {
		return nil, err
	}
	state, err := s.connected()
	if err != nil {
		return nil, err
	}

	page := s.pages.Staking(ctx, state)
	if page.State != aggregator.StateLive {
		return nil, fmt.Errorf("failed to load staking data: %w", page.Err)
	}
	if amount > page.View.UserStakedTokens {
		return nil, &ValidationError{Message: "You cannot unstake more than your stAPT balance"}
	}

	return s.submit(ctx, s.contract.UnstakePayload(common.ParseTokenAmount(amount)))
}

// Initialize runs the admin-only protocol initialization
func (s *Service) Initialize(ctx context.Context, seed string) (*model.SubmitResponse, error) {
	req := model.InitializeRequest{Seed: seed}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if _, err := s.connected(); err != nil {
		return nil, err
	}

	return s.submit(ctx, s.contract.InitializePayload(seed))
}
