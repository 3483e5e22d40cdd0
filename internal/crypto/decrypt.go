package crypto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/restaking-dashboard/internal/model"
)

// ErrInvalidPassword is returned when the keystore cannot be opened with the given password
var ErrInvalidPassword = errors.New("invalid password")

// DecryptKeystore reads and decrypts a keystore file.
// password must be []byte for security (caller should zero it after use)
func DecryptKeystore(filePath string, password []byte) (*model.KeystoreFile, *model.KeyData, error) {
	file, err := ReadKeystoreHeader(filePath)
	if err != nil {
		return nil, nil, err
	}

	salt, err := base64.StdEncoding.DecodeString(file.Salt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	nonce, err := base64.StdEncoding.DecodeString(file.Nonce)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode nonce: %w", err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(file.CipherText)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return nil, nil, err
	}
	if len(nonce) != aesGCM.NonceSize() {
		return nil, nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, nil, ErrInvalidPassword
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	var keyData model.KeyData
	if err := json.Unmarshal(plaintext, &keyData); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal key data: %w", err)
	}

	return file, &keyData, nil
}

// ReadKeystoreHeader reads the public part of a keystore file (address, public key, QR)
// without decryption
func ReadKeystoreHeader(filePath string) (*model.KeystoreFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("keystore %s does not exist: %w", filePath, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if fileInfo.Size() == 0 {
		return nil, errors.New("file is empty")
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Skip UTF-8 BOM if present
	if len(fileData) >= 3 && fileData[0] == 0xEF && fileData[1] == 0xBB && fileData[2] == 0xBF {
		fileData = fileData[3:]
	}

	var file model.KeystoreFile
	if err := json.Unmarshal(fileData, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal keystore file: %w", err)
	}

	return &file, nil
}
