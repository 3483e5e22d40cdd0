package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/restaking-dashboard/internal/model"

	"golang.org/x/crypto/scrypt"
)

// KeystoreExt is the required extension of keystore files
const KeystoreExt = ".keystore"

const (
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

// scryptN is the scrypt cost. N=2^18 needs ~256MB RAM and 0.5-2s per derivation.
var scryptN = 1 << 18

// FileExistsError is returned when the target keystore file already has content
type FileExistsError struct {
	Path string
}

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("file %s is not empty", e.Path)
}

// IsFileExistsError checks if error is FileExistsError
func IsFileExistsError(err error) bool {
	var feErr *FileExistsError
	return errors.As(err, &feErr)
}

// EncryptKeystore encrypts keyData and writes it together with the public header to filePath.
// header.Salt, header.Nonce and header.CipherText are overwritten.
// password must be []byte for security (caller should zero it after use)
func EncryptKeystore(filePath string, header model.KeystoreFile, keyData *model.KeyData, password []byte) error {
	if filepath.Ext(filePath) != KeystoreExt {
		return fmt.Errorf("file must have %s extension", KeystoreExt)
	}

	if fileInfo, err := os.Stat(filePath); err == nil && fileInfo.Size() > 0 {
		return &FileExistsError{Path: filePath}
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(password, salt)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(keyData)
	if err != nil {
		return fmt.Errorf("failed to marshal key data: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	header.Salt = base64.StdEncoding.EncodeToString(salt)
	header.Nonce = base64.StdEncoding.EncodeToString(nonce)
	header.CipherText = base64.StdEncoding.EncodeToString(ciphertext)

	fileData, err := json.MarshalIndent(header, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore file: %w", err)
	}

	// Add UTF-8 BOM for proper display in Windows
	utf8BOM := []byte{0xEF, 0xBB, 0xBF}
	if err := os.WriteFile(filePath, append(utf8BOM, fileData...), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// newGCM derives the AES-256 key from password and salt
func newGCM(password, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(password, salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
