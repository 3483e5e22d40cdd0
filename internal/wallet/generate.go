package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/crypto"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"

	"github.com/skip2/go-qrcode"
	"golang.org/x/crypto/sha3"
)

// ed25519Scheme is the authentication key scheme byte of single-signer ed25519 accounts
const ed25519Scheme = 0x00

// qrSize is the side of the generated QR PNG in pixels
const qrSize = 256

// DeriveAddress returns the account address of an ed25519 public key:
// sha3-256(public key || scheme byte)
func DeriveAddress(publicKey ed25519.PublicKey) string {
	h := sha3.New256()
	h.Write(publicKey)
	h.Write([]byte{ed25519Scheme})
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// GenerateKeystore creates a new ed25519 account and saves it to an encrypted keystore file.
// password must be []byte for security (caller should zero it after use)
func GenerateKeystore(filePath, network string, password []byte) (model.Account, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to generate key: %w", err)
	}
	defer clear(privateKey)

	account := model.Account{
		Address:   DeriveAddress(publicKey),
		PublicKey: "0x" + hex.EncodeToString(publicKey),
	}

	png, err := QRCode(account.Address)
	if err != nil {
		return model.Account{}, err
	}

	header := model.KeystoreFile{
		Network:   network,
		Address:   account.Address,
		PublicKey: account.PublicKey,
		QR:        base64.StdEncoding.EncodeToString(png),
	}
	keyData := &model.KeyData{
		Seed:      privateKey.Seed(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	defer clear(keyData.Seed)

	if err := crypto.EncryptKeystore(filePath, header, keyData, password); err != nil {
		return model.Account{}, fmt.Errorf("failed to encrypt keystore: %w", err)
	}

	return account, nil
}

// QRCode renders address as a PNG QR code
func QRCode(address string) ([]byte, error) {
	qr, err := qrcode.New(address, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}
	return png, nil
}

// Reencrypt decrypts the keystore at filePath with oldPassword and rewrites it under newPassword
// with a fresh salt and nonce. The public header is kept.
func Reencrypt(filePath string, oldPassword, newPassword []byte) error {
	header, keyData, err := crypto.DecryptKeystore(filePath, oldPassword)
	if err != nil {
		return err
	}
	defer clear(keyData.Seed)

	tmpPath := strings.TrimSuffix(filePath, crypto.KeystoreExt) + ".rekey" + crypto.KeystoreExt
	if err := crypto.EncryptKeystore(tmpPath, *header, keyData, newPassword); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace keystore: %w", err)
	}
	return nil
}
