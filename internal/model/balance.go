package model

// StakingTotals are protocol-wide staking figures
type StakingTotals struct {
	TotalStaked  float64 `json:"totalStaked"`
	ExchangeRate float64 `json:"exchangeRate"`
}

// RestakingTotals are protocol-wide restaking figures
type RestakingTotals struct {
	TotalRestaked float64 `json:"totalRestaked"`
	ExchangeRate  float64 `json:"exchangeRate"`
}

// UserViewModel is a read-only snapshot of one account's position
type UserViewModel struct {
	AptBalance      float64         `json:"aptBalance"`
	StakedBalance   float64         `json:"stakedBalance"`
	RestakedBalance float64         `json:"restakedBalance"`
	UserStake       float64         `json:"userStake"`
	UserRestake     float64         `json:"userRestake"`
	StakingData     StakingTotals   `json:"stakingData"`
	RestakingData   RestakingTotals `json:"restakingData"`
	TVL             float64         `json:"tvl,omitempty"`
	APY             float64         `json:"apy,omitempty"`
}

// TokenBalance is one row of the balances page
type TokenBalance struct {
	Token    string  `json:"token"`
	Symbol   string  `json:"symbol"`
	Balance  float64 `json:"balance"`
	USDValue float64 `json:"usdValue"`
}

// BalancesViewModel represents response for GET /balances
type BalancesViewModel struct {
	Tokens        []TokenBalance `json:"tokens"`
	TotalUSDValue float64        `json:"totalUsdValue"`
	AptPriceUSD   float64        `json:"aptPriceUsd"`
}

// NewBalancesViewModel prices every balance at the APT price
func NewBalancesViewModel(user UserViewModel, aptPriceUSD float64) BalancesViewModel {
	tokens := []TokenBalance{
		{Token: "APT", Symbol: "APT", Balance: user.AptBalance},
		{Token: "Staked APT", Symbol: "stAPT", Balance: user.StakedBalance},
		{Token: "Restaked APT", Symbol: "rAPT", Balance: user.RestakedBalance},
	}

	var total float64
	for i := range tokens {
		tokens[i].USDValue = tokens[i].Balance * aptPriceUSD
		total += tokens[i].USDValue
	}

	return BalancesViewModel{
		Tokens:        tokens,
		TotalUSDValue: total,
		AptPriceUSD:   aptPriceUSD,
	}
}
