package model

// KeystoreFile represents the encrypted keystore file structure
type KeystoreFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	PublicKey  string `json:"publicKey"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// KeyData represents decrypted keystore data
type KeyData struct {
	Seed      []byte `json:"seed"` // 32 bytes ed25519 seed (stored as base64 in JSON)
	CreatedAt string `json:"createdAt"`
}
