package model

// TopHolder is a leaderboard row on the staking and restaking pages
type TopHolder struct {
	Address string  `json:"address"`
	Amount  float64 `json:"amount"`
	Tokens  float64 `json:"tokens"`
	Date    string  `json:"date"`
}

// DashboardViewModel represents response for GET /dashboard
type DashboardViewModel struct {
	User           UserViewModel   `json:"user"`
	Staking        StakingTotals   `json:"staking"`
	Restaking      RestakingTotals `json:"restaking"`
	PortfolioValue float64         `json:"portfolioValue"`
	AptPriceUSD    float64         `json:"aptPriceUsd"`
}

// NewDashboardViewModel builds the dashboard from a user snapshot.
// Protocol figures come from the same snapshot so the page never mixes cycles.
func NewDashboardViewModel(user UserViewModel, aptPriceUSD float64) DashboardViewModel {
	return DashboardViewModel{
		User:           user,
		Staking:        user.StakingData,
		Restaking:      user.RestakingData,
		PortfolioValue: (user.AptBalance + user.StakedBalance + user.RestakedBalance) * aptPriceUSD,
		AptPriceUSD:    aptPriceUSD,
	}
}

// StakingViewModel represents response for GET /staking
type StakingViewModel struct {
	TotalStaked      float64     `json:"totalStaked"`
	ExchangeRate     float64     `json:"exchangeRate"`
	TotalStakers     int         `json:"totalStakers"`
	UserStake        float64     `json:"userStake"`
	UserBalance      float64     `json:"userBalance"`
	UserStakedTokens float64     `json:"userStakedTokens"`
	TopStakers       []TopHolder `json:"topStakers"`
}

// RestakingViewModel represents response for GET /restaking
type RestakingViewModel struct {
	TotalRestaked      float64     `json:"totalRestaked"`
	ExchangeRate       float64     `json:"exchangeRate"`
	TotalRestakers     int         `json:"totalRestakers"`
	UserRestake        float64     `json:"userRestake"`
	UserStakedBalance  float64     `json:"userStakedBalance"`
	UserRestakedTokens float64     `json:"userRestakedTokens"`
	TopRestakers       []TopHolder `json:"topRestakers"`
}

// ProtocolStatusResponse represents response for GET /protocol/status
type ProtocolStatusResponse struct {
	StakingInitialized     bool   `json:"stakingInitialized"`
	Address                string `json:"address,omitempty"`
	RegisteredForStaking   bool   `json:"registeredForStaking"`
	RegisteredForRestaking bool   `json:"registeredForRestaking"`
}

// HealthResponse represents response for GET /health
type HealthResponse struct {
	Status        string `json:"status"`
	Network       string `json:"network"`
	FaucetURL     string `json:"faucetUrl,omitempty"`
	ChainID       int    `json:"chainId,omitempty"`
	LedgerVersion string `json:"ledgerVersion,omitempty"`
	Error         string `json:"error,omitempty"`
}
