package aggregator

import "github.com/AlexZinkM/restaking-dashboard/internal/model"

// MockUser is shown while no wallet is connected
func MockUser() model.UserViewModel {
	return model.UserViewModel{
		AptBalance:      1000,
		StakedBalance:   500,
		RestakedBalance: 250,
		UserStake:       500,
		UserRestake:     250,
		StakingData:     model.StakingTotals{TotalStaked: 1250000, ExchangeRate: 1.0},
		RestakingData:   model.RestakingTotals{TotalRestaked: 750000, ExchangeRate: 1.0},
		TVL:             15.2,
		APY:             8.5,
	}
}

// MockStaking is the staking page shown while no wallet is connected
func MockStaking() model.StakingViewModel {
	return model.StakingViewModel{
		TotalStaked:      500000,
		ExchangeRate:     1.0,
		TotalStakers:     totalStakers,
		UserStake:        250,
		UserBalance:      1000,
		UserStakedTokens: 250,
		TopStakers:       topStakers(),
	}
}

// MockRestaking is the restaking page shown while no wallet is connected
func MockRestaking() model.RestakingViewModel {
	return model.RestakingViewModel{
		TotalRestaked:      750000,
		ExchangeRate:       1.0,
		TotalRestakers:     totalRestakers,
		UserRestake:        100,
		UserStakedBalance:  500,
		UserRestakedTokens: 100,
		TopRestakers:       topRestakers(),
	}
}

func topStakers() []model.TopHolder {
	return []model.TopHolder{
		{Address: "0x1234567890abcdef", Amount: 5000, Tokens: 5000, Date: "2024-01-15"},
		{Address: "0xabcdef1234567890", Amount: 3000, Tokens: 3000, Date: "2024-01-14"},
		{Address: "0x7890abcdef123456", Amount: 2000, Tokens: 2000, Date: "2024-01-13"},
	}
}

func topRestakers() []model.TopHolder {
	return []model.TopHolder{
		{Address: "0x1234567890abcdef", Amount: 3000, Tokens: 3000, Date: "2024-01-15"},
		{Address: "0xabcdef1234567890", Amount: 2000, Tokens: 2000, Date: "2024-01-14"},
		{Address: "0x7890abcdef123456", Amount: 1500, Tokens: 1500, Date: "2024-01-13"},
	}
}
