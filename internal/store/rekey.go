package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlexZinkM/devnet-accounts/internal/crypto"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

const rekeySuffix = ".rekey.json"

// RekeyReport lists what Rekey did
type RekeyReport struct {
	Rekeyed []string
	Skipped []string // files the current secret could not open or that failed validation
}

// Rekey re-encrypts every readable account and contract body under next, keeping the plaintext headers.
// All new files are written before any original is replaced; a failed write leaves the originals untouched.
func (s *Store) Rekey(next *crypto.Vault) (*RekeyReport, error) {
	report := &RekeyReport{}
	var staged []string

	rollback := func() {
		for _, path := range staged {
			os.Remove(path + rekeySuffix)
		}
	}

	for _, kind := range []model.Kind{model.KindAccounts, model.KindContracts} {
		infos, err := s.Scan(kind)
		if err != nil {
			rollback()
			return nil, err
		}
		for _, info := range infos {
			if _, err := s.Validate(kind, info.Path); err != nil {
				s.logger.Warn("not rekeying invalid credential", "file", filepath.Base(info.Path), "error", err)
				report.Skipped = append(report.Skipped, info.Path)
				continue
			}
			if err := s.stageRekey(info.Path, next); err != nil {
				rollback()
				return nil, err
			}
			staged = append(staged, info.Path)
		}
	}

	for _, path := range staged {
		if err := os.Rename(path+rekeySuffix, path); err != nil {
			return report, fmt.Errorf("failed to replace %s, the rest are still staged as *%s: %w", path, rekeySuffix, err)
		}
		report.Rekeyed = append(report.Rekeyed, path)
	}
	return report, nil
}

func (s *Store) stageRekey(path string, next *crypto.Vault) error {
	file, err := crypto.ReadCredentialFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	plaintext, err := s.vault.Decrypt(file.Body)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	defer clear(plaintext)

	body, err := next.Encrypt(plaintext)
	if err != nil {
		return err
	}
	file.Body = body

	return crypto.WriteCredentialFile(path+rekeySuffix, file)
}
