package model

// Account is the account exposed by the wallet extension
type Account struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey"`
}

// WalletStateResponse represents response for GET /wallet
type WalletStateResponse struct {
	Available    bool   `json:"available"`
	Connected    bool   `json:"connected"`
	Address      string `json:"address,omitempty"`
	ShortAddress string `json:"shortAddress,omitempty"`
	PublicKey    string `json:"publicKey,omitempty"`
	Network      string `json:"network"`
}

// GenerateResponse represents response for POST /wallet/generate
type GenerateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Address string `json:"address,omitempty"`
}
