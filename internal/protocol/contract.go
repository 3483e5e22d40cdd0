package protocol

import (
	"strconv"

	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"
)

// AptosCoinType is the native coin type
const AptosCoinType = "0x1::aptos_coin::AptosCoin"

// Move module names published at the contract address
const (
	stakingModule   = "mock_staking_protocol"
	restakingModule = "restaking_engine"
)

// Contract names the protocol's entry and view functions at one address
type Contract struct {
	address string
}

// NewContract creates a Contract for the given publisher address
func NewContract(address string) Contract {
	return Contract{address: common.FormatAddress(address)}
}

// Address returns the normalized contract address
func (c Contract) Address() string {
	return c.address
}

func (c Contract) function(module, name string) string {
	return c.address + "::" + module + "::" + name
}

// Staking module functions

func (c Contract) StakeAPT() string { return c.function(stakingModule, "stake_apt") }
func (c Contract) UnstakeAPT() string { return c.function(stakingModule, "unstake_apt") }
func (c Contract) GetTotalStaked() string { return c.function(stakingModule, "get_total_staked") }
func (c Contract) GetStakingRate() string { return c.function(stakingModule, "get_exchange_rate") }
func (c Contract) GetUserStake() string { return c.function(stakingModule, "get_user_stake") }
func (c Contract) InitializeStaking() string { return c.function(stakingModule, "initialize") }

// Restaking module functions

func (c Contract) RestakeTokens() string { return c.function(restakingModule, "restake_tokens") }
func (c Contract) UnstakeTokens() string { return c.function(restakingModule, "unstake_tokens") }
func (c Contract) GetTotalRestaked() string { return c.function(restakingModule, "get_total_restaked") }
func (c Contract) GetRestakingRate() string { return c.function(restakingModule, "get_exchange_rate") }
func (c Contract) GetUserRestake() string { return c.function(restakingModule, "get_user_restake") }

// StakedTokenType is the coin type minted for staked APT
func (c Contract) StakedTokenType() string {
	return c.address + "::staked_token::SToken"
}

// RestakedTokenType is the coin type minted for restaked tokens
func (c Contract) RestakedTokenType() string {
	return c.address + "::restaked_token::RSToken"
}

// StakingProtocolResource is stored at the contract address once initialize has run
func (c Contract) StakingProtocolResource() string {
	return c.function(stakingModule, "MockStakingProtocol")
}

// BuildPayload assembles an entry function call. Nothing is validated or reordered;
// nil slices become empty so the JSON always carries arrays.
func BuildPayload(function string, typeArgs, args []string) model.TransactionPayload {
	if typeArgs == nil {
		typeArgs = []string{}
	}
	if args == nil {
		args = []string{}
	}
	return model.TransactionPayload{
		Function:      function,
		TypeArguments: typeArgs,
		Arguments:     args,
	}
}

func amountArg(raw uint64) []string {
	return []string{strconv.FormatUint(raw, 10)}
}

// StakePayload stakes raw octas of APT
func (c Contract) StakePayload(raw uint64) model.TransactionPayload {
	return BuildPayload(c.StakeAPT(), nil, amountArg(raw))
}

// UnstakePayload burns raw staked tokens for APT
func (c Contract) UnstakePayload(raw uint64) model.TransactionPayload {
	return BuildPayload(c.UnstakeAPT(), nil, amountArg(raw))
}

// RestakePayload restakes raw staked tokens
func (c Contract) RestakePayload(raw uint64) model.TransactionPayload {
	return BuildPayload(c.RestakeTokens(), nil, amountArg(raw))
}

// UnrestakePayload returns raw restaked tokens to staked tokens
func (c Contract) UnrestakePayload(raw uint64) model.TransactionPayload {
	return BuildPayload(c.UnstakeTokens(), nil, amountArg(raw))
}

// InitializePayload initializes the staking protocol (admin only)
func (c Contract) InitializePayload(seed string) model.TransactionPayload {
	return BuildPayload(c.InitializeStaking(), nil, []string{seed})
}

// ViewPayload calls a view function, optionally scoped to an account
func ViewPayload(function string, args ...string) model.TransactionPayload {
	return BuildPayload(function, nil, args)
}
