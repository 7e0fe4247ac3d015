package store

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/AlexZinkM/devnet-accounts/internal/crypto"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// Store is the on-disk credential directory:
//
//	<dir>/accounts/<name>--<group>--<unix>.json
//	<dir>/contracts/<name>--<group>--<unix>.json
//
// It assumes a single owning process. Files are created with O_EXCL and never rewritten.
type Store struct {
	dir    string
	vault  *crypto.Vault
	logger *slog.Logger
}

// StoredAccount is a decrypted, validated account and the file it came from
type StoredAccount struct {
	Path    string
	Account *model.Account
	File    *model.CredentialFile
}

// New creates a Store rooted at the credentials directory
func New(dir string, vault *crypto.Vault, logger *slog.Logger) *Store {
	return &Store{
		dir:    dir,
		vault:  vault,
		logger: logger.With("component", "store"),
	}
}

// Dir returns the folder of kind
func (s *Store) Dir(kind model.Kind) string {
	return filepath.Join(s.dir, string(kind))
}

// Path returns the deterministic path of a record identity
func (s *Store) Path(kind model.Kind, name, group string, unix int64) string {
	return filepath.Join(s.Dir(kind), FileName(name, group, unix))
}

// Exists reports whether a record identity is already taken
func (s *Store) Exists(kind model.Kind, name, group string, unix int64) bool {
	_, err := os.Stat(s.Path(kind, name, group, unix))
	return err == nil
}

// EnsureLayout creates the credentials folder and its subfolders if missing
func (s *Store) EnsureLayout() error {
	for _, kind := range []model.Kind{model.KindAccounts, model.KindContracts} {
		if err := os.MkdirAll(s.Dir(kind), 0o700); err != nil {
			return fmt.Errorf("failed to create %s folder: %w", kind, err)
		}
	}
	return nil
}

// Scan lists credential files of kind and parses their names without decrypting them.
// Files whose name does not parse are skipped.
func (s *Store) Scan(kind model.Kind) ([]FileInfo, error) {
	entries, err := os.ReadDir(s.Dir(kind))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), extension) {
			continue
		}
		info, err := ParseFileName(filepath.Join(s.Dir(kind), entry.Name()))
		if err != nil {
			s.logger.Debug("skipping file", "file", entry.Name(), "error", err)
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Write encrypts rec and persists it at its identity path. An existing path is a *model.CollisionError.
func (s *Store) Write(rec model.Record) (string, error) {
	h := rec.Header()
	path := s.Path(rec.Kind(), h.Name, h.GroupName, h.CreatedUnix)

	file, err := s.vault.EncryptCredential(rec)
	if err != nil {
		return "", err
	}
	if err := crypto.WriteCredentialFile(path, file); err != nil {
		return "", err
	}

	s.logger.Debug("credential written", "kind", rec.Kind(), "path", path)
	return path, nil
}

// LoadAccount reads, decrypts and validates an account file.
// Failures are *model.StructuralError or *model.DecryptionError and mean "skip this record".
func (s *Store) LoadAccount(path string) (*StoredAccount, error) {
	file, err := crypto.ReadCredentialFile(path)
	if err != nil {
		return nil, &model.StructuralError{Path: path, Messages: []string{err.Error()}}
	}

	var account model.Account
	if err := s.vault.DecryptCredential(file, &account); err != nil {
		return nil, withPath(err, path)
	}

	messages := append(ValidateAccount(&account), consistent(file, &account)...)
	if len(messages) > 0 {
		return nil, &model.StructuralError{Path: path, Messages: messages}
	}

	account.QR = file.Header.QR
	return &StoredAccount{Path: path, Account: &account, File: file}, nil
}

// LoadContract reads, decrypts and validates a contract file
func (s *Store) LoadContract(path string) (*model.Contract, error) {
	file, err := crypto.ReadCredentialFile(path)
	if err != nil {
		return nil, &model.StructuralError{Path: path, Messages: []string{err.Error()}}
	}

	var contract model.Contract
	if err := s.vault.DecryptCredential(file, &contract); err != nil {
		return nil, withPath(err, path)
	}

	messages := append(ValidateContract(&contract), consistent(file, &contract)...)
	if len(messages) > 0 {
		return nil, &model.StructuralError{Path: path, Messages: messages}
	}
	return &contract, nil
}

// Validate checks a single file of kind. It never fails globally: the error only describes this file.
func (s *Store) Validate(kind model.Kind, path string) (*model.CredentialFile, error) {
	switch kind {
	case model.KindAccounts:
		stored, err := s.LoadAccount(path)
		if err != nil {
			return nil, err
		}
		return stored.File, nil
	case model.KindContracts:
		contract, err := s.LoadContract(path)
		if err != nil {
			return nil, err
		}
		file := &model.CredentialFile{Header: contract.Header()}
		return file, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

// Accounts returns the valid accounts of group on network, oldest first
func (s *Store) Accounts(group, network string) ([]*StoredAccount, error) {
	infos, err := s.Scan(model.KindAccounts)
	if err != nil {
		return nil, err
	}

	accounts := make([]*StoredAccount, 0, len(infos))
	for _, info := range infos {
		if info.Group != group {
			continue
		}
		stored, err := s.LoadAccount(info.Path)
		if err != nil {
			s.logger.Warn("skipping invalid account", "file", filepath.Base(info.Path), "error", err)
			continue
		}
		if stored.Account.Data.Network != network || stored.Account.Data.Time.Unix == 0 {
			continue
		}
		accounts = append(accounts, stored)
	}

	sort.SliceStable(accounts, func(i, j int) bool {
		return accounts[i].Account.Data.Time.Unix < accounts[j].Account.Data.Time.Unix
	})
	return accounts, nil
}

// GetAll groups valid headers of kind by group name, then by name.
// A name seen twice in one group is stored as name-<n>.
func (s *Store) GetAll(kind model.Kind) (map[string]map[string]model.Entry, error) {
	infos, err := s.Scan(kind)
	if err != nil {
		return nil, err
	}

	// newest file first, so the unsuffixed key is the latest record
	sort.Slice(infos, func(i, j int) bool {
		return filepath.Base(infos[i].Path) > filepath.Base(infos[j].Path)
	})

	result := make(map[string]map[string]model.Entry)
	for _, info := range infos {
		file, err := s.Validate(kind, info.Path)
		if err != nil {
			s.logger.Warn("skipping invalid credential", "file", filepath.Base(info.Path), "error", err)
			continue
		}

		group := file.Header.GroupName
		if _, ok := result[group]; !ok {
			result[group] = make(map[string]model.Entry)
		}

		key := collisionKey(result[group], file.Header.Name)
		result[group][key] = model.Entry{FilePath: info.Path, Header: file.Header}
	}
	return result, nil
}

func collisionKey(existing map[string]model.Entry, name string) string {
	if _, taken := existing[name]; !taken {
		return name
	}
	prefix := name + "-"
	n := 0
	for key := range existing {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	// a suffixed key may also be the real name of another record
	for {
		n++
		key := prefix + strconv.Itoa(n)
		if _, taken := existing[key]; !taken {
			return key
		}
	}
}

func withPath(err error, path string) error {
	var structural *model.StructuralError
	if errors.As(err, &structural) && structural.Path == "" {
		structural.Path = path
		return structural
	}
	return fmt.Errorf("%s: %w", filepath.Base(path), err)
}
