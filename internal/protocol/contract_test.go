package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "0xc7a1e9b157d5facbb3fbc9b890b1ac059d0e5f31c9e31f4dd41c2ae600aab25b"

func TestContractFunctions(t *testing.T) {
	c := NewContract("0XC7A1E9B157D5FACBB3FBC9B890B1AC059D0E5F31C9E31F4DD41C2AE600AAB25B")

	assert.Equal(t, testAddress, c.Address())
	assert.Equal(t, testAddress+"::mock_staking_protocol::stake_apt", c.StakeAPT())
	assert.Equal(t, testAddress+"::mock_staking_protocol::unstake_apt", c.UnstakeAPT())
	assert.Equal(t, testAddress+"::mock_staking_protocol::get_total_staked", c.GetTotalStaked())
	assert.Equal(t, testAddress+"::mock_staking_protocol::get_exchange_rate", c.GetStakingRate())
	assert.Equal(t, testAddress+"::mock_staking_protocol::get_user_stake", c.GetUserStake())
	assert.Equal(t, testAddress+"::mock_staking_protocol::initialize", c.InitializeStaking())
	assert.Equal(t, testAddress+"::restaking_engine::restake_tokens", c.RestakeTokens())
	assert.Equal(t, testAddress+"::restaking_engine::unstake_tokens", c.UnstakeTokens())
	assert.Equal(t, testAddress+"::restaking_engine::get_total_restaked", c.GetTotalRestaked())
	assert.Equal(t, testAddress+"::restaking_engine::get_exchange_rate", c.GetRestakingRate())
	assert.Equal(t, testAddress+"::restaking_engine::get_user_restake", c.GetUserRestake())
	assert.Equal(t, testAddress+"::staked_token::SToken", c.StakedTokenType())
	assert.Equal(t, testAddress+"::restaked_token::RSToken", c.RestakedTokenType())
	assert.Equal(t, testAddress+"::mock_staking_protocol::MockStakingProtocol", c.StakingProtocolResource())
}

func TestBuildPayload(t *testing.T) {
	t.Run("NilSlicesBecomeEmpty", func(t *testing.T) {
		p := BuildPayload("0x1::m::f", nil, nil)

		raw, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"function":"0x1::m::f","type_arguments":[],"arguments":[]}`, string(raw))
	})

	t.Run("KeepsOrder", func(t *testing.T) {
		p := BuildPayload("0x1::m::f", []string{"T2", "T1"}, []string{"b", "a", ""})

		assert.Equal(t, []string{"T2", "T1"}, p.TypeArguments)
		assert.Equal(t, []string{"b", "a", ""}, p.Arguments)
	})
}

func TestStakePayload(t *testing.T) {
	c := NewContract(testAddress)

	p := c.StakePayload(10000000000)

	assert.Equal(t, testAddress+"::mock_staking_protocol::stake_apt", p.Function)
	assert.Empty(t, p.TypeArguments)
	assert.Equal(t, []string{"10000000000"}, p.Arguments)
}

func TestNamedPayloads(t *testing.T) {
	c := NewContract(testAddress)

	tests := []struct {
		name     string
		payload  func() (string, []string)
		function string
		args     []string
	}{
		{"Unstake", func() (string, []string) { p := c.UnstakePayload(5); return p.Function, p.Arguments }, c.UnstakeAPT(), []string{"5"}},
		{"Restake", func() (string, []string) { p := c.RestakePayload(7); return p.Function, p.Arguments }, c.RestakeTokens(), []string{"7"}},
		{"Unrestake", func() (string, []string) { p := c.UnrestakePayload(9); return p.Function, p.Arguments }, c.UnstakeTokens(), []string{"9"}},
		{"Initialize", func() (string, []string) { p := c.InitializePayload("seed-1"); return p.Function, p.Arguments }, c.InitializeStaking(), []string{"seed-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			function, args := tt.payload()
			assert.Equal(t, tt.function, function)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestViewPayload(t *testing.T) {
	c := NewContract(testAddress)

	assert.Equal(t, []string{}, ViewPayload(c.GetTotalStaked()).Arguments)
	assert.Equal(t, []string{"0xabc"}, ViewPayload(c.GetUserStake(), "0xabc").Arguments)
}
