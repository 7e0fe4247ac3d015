package crypto

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// Decrypt opens an envelope produced by Encrypt.
// Malformed input or a wrong key yields a *model.DecryptionError.
func (v *Vault) Decrypt(env model.Envelope) ([]byte, error) {
	iv, err := hex.DecodeString(env.IV)
	if err != nil {
		return nil, &model.DecryptionError{Reason: "iv is not hex"}
	}
	if len(iv) != ivLen {
		return nil, &model.DecryptionError{Reason: fmt.Sprintf("iv must be %d bytes, got %d", ivLen, len(iv))}
	}

	ciphertext, err := hex.DecodeString(env.Content)
	if err != nil {
		return nil, &model.DecryptionError{Reason: "content is not hex"}
	}

	aesGCM, err := v.aead()
	if err != nil {
		return nil, err
	}

	plaintext, err := aesGCM.Open(nil, iv, ciphertext, nil)
	if err != nil {
		return nil, &model.DecryptionError{Reason: "wrong secret or corrupt content"}
	}
	return plaintext, nil
}

// DecryptCredential decrypts the body of file into out (a *model.Account or *model.Contract).
func (v *Vault) DecryptCredential(file *model.CredentialFile, out model.Record) error {
	plaintext, err := v.Decrypt(file.Body)
	if err != nil {
		return err
	}
	defer clear(plaintext) // wipe decrypted bytes from memory

	if err := json.Unmarshal(plaintext, out); err != nil {
		return &model.StructuralError{Messages: []string{fmt.Sprintf("body does not match %s record: %v", out.Kind(), err)}}
	}
	return nil
}

// ReadCredentialFile reads a credential file without decrypting its body
func ReadCredentialFile(filePath string) (*model.CredentialFile, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("file does not exist")
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

	var file model.CredentialFile
	if err := json.Unmarshal(fileData, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential file: %w", err)
	}

	return &file, nil
}
