package restaking

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/restaking-dashboard/internal/aggregator"
	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
)

// Restake restakes amount staked tokens.
// The amount may not exceed the staked token balance of the current restaking page.
func (s *Service) Restake(ctx context.Context, amount float64) (*model.SubmitResponse, error) {
	if err := validateAmount(amount, "restake"); err != nil {
		return nil, err
	}
	view, err := s.restakingView(ctx)
	if err != nil {
		return nil, err
	}
	if amount > view.UserStakedBalance {
		return nil, &ValidationError{Message: "You cannot restake more than your stAPT balance"}
	}

	return s.submit(ctx, s.contract.RestakePayload(common.ParseTokenAmount(amount)))
}

// Unrestake returns amount restaked tokens to staked tokens
func (s *Service) Unrestake(ctx context.Context, amount float64) (*model.SubmitResponse, error) {
	if err := validateAmount(amount, "unrestake"); err != nil {
		return nil, err
	}
	view, err := s.restakingView(ctx)
	if err != nil {
		return nil, err
	}
	if amount > view.UserRestakedTokens {
		return nil, &ValidationError{Message: "You cannot unrestake more than your rAPT balance"}
	}

	return s.submit(ctx, s.contract.UnrestakePayload(common.ParseTokenAmount(amount)))
}

func (s *Service) restakingView(ctx context.Context) (model.RestakingViewModel, error) {
	state, err := s.connected()
	if err != nil {
		return model.RestakingViewModel{}, err
	}

	page := s.pages.Restaking(ctx, state)
	if page.State != aggregator.StateLive {
		return model.RestakingViewModel{}, fmt.Errorf("failed to load restaking data: %w", page.Err)
	}
	return page.View, nil
}
