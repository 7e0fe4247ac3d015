package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

const (
	ivLen  = 16 // one AES block, fresh for every Encrypt call
	keyLen = sha256.Size
)

// Vault encrypts credential payloads with a key derived from the environment secret.
type Vault struct {
	key []byte
}

// NewVault derives a 256-bit key from passphrase.
// Returns model.ErrInvalidSecret for an empty passphrase.
func NewVault(passphrase string) (*Vault, error) {
	if strings.TrimSpace(passphrase) == "" {
		return nil, model.ErrInvalidSecret
	}
	sum := sha256.Sum256([]byte(passphrase))
	key := make([]byte, keyLen)
	copy(key, sum[:])
	clear(sum[:])
	return &Vault{key: key}, nil
}

// Destroy wipes the derived key. The vault is unusable afterwards.
func (v *Vault) Destroy() {
	clear(v.key)
	v.key = nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	if len(v.key) != keyLen {
		return nil, model.ErrInvalidSecret
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCMWithNonceSize(block, ivLen)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

// Encrypt seals plaintext under a fresh random IV
func (v *Vault) Encrypt(plaintext []byte) (model.Envelope, error) {
	aesGCM, err := v.aead()
	if err != nil {
		return model.Envelope{}, err
	}

	iv := make([]byte, ivLen)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return model.Envelope{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	ciphertext := aesGCM.Seal(nil, iv, plaintext, nil)

	return model.Envelope{
		IV:      hex.EncodeToString(iv),
		Content: hex.EncodeToString(ciphertext),
	}, nil
}

// EncryptCredential splits rec into its plaintext header and an encrypted body holding the full record.
func (v *Vault) EncryptCredential(rec model.Record) (*model.CredentialFile, error) {
	plaintext, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	defer clear(plaintext) // wipe plaintext bytes from memory

	body, err := v.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	return &model.CredentialFile{
		Header: rec.Header(),
		Body:   body,
	}, nil
}

// WriteCredentialFile writes file to filePath. An existing path is a model.CollisionError, never overwritten.
func WriteCredentialFile(filePath string, file *model.CredentialFile) error {
	if !strings.HasSuffix(filePath, ".json") {
		return errors.New("file must have .json extension")
	}

	fileData, err := json.MarshalIndent(file, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal credential file: %w", err)
	}

	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &model.CollisionError{Path: filePath}
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := f.Write(fileData); err != nil {
		f.Close()
		os.Remove(filePath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return f.Close()
}
