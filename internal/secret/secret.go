// Package secret provisions the passphrase that unlocks credential files.
//
// A secret file is JSON of the form {"id": "se-<unix>", "secret": "..."}. In passphrase
// mode the file holds an scrypt verifier instead of the secret and the passphrase is
// prompted for on every run.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/scrypt"
)

// FileName is the default secret file inside the credentials folder
const FileName = ".secret.json"

const (
	scryptN      = 1 << 18
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	secretLen    = 32
)

var (
	// ErrNoSecret means no candidate file held a usable secret
	ErrNoSecret = errors.New("no usable secret file found")
	// ErrWrongPassphrase is a passphrase that does not match the stored verifier
	ErrWrongPassphrase = errors.New("passphrase does not match the secret file")
)

// File is the on-disk secret file
type File struct {
	ID     string `json:"id"`
	Secret string `json:"secret,omitempty"`

	// passphrase mode
	Salt     string `json:"salt,omitempty"`
	Verifier string `json:"verifier,omitempty"`
}

// PassphraseMode reports whether the file stores a verifier instead of the secret
func (f *File) PassphraseMode() bool {
	return f.Secret == "" && f.Verifier != ""
}

func (f *File) usable() bool {
	return strings.TrimSpace(f.Secret) != "" || (f.Salt != "" && f.Verifier != "")
}

// PromptFunc reads a passphrase from the user
type PromptFunc func(label string) ([]byte, error)

// Provisioner finds, creates and unlocks secret files
type Provisioner struct {
	envPath   string
	localPath string
	prompt    PromptFunc
	logger    *slog.Logger
	now       func() time.Time
	scryptN   int
}

// Option configures a Provisioner
type Option func(*Provisioner)

// WithPrompt replaces the terminal prompt
func WithPrompt(prompt PromptFunc) Option {
	return func(p *Provisioner) { p.prompt = prompt }
}

// WithClock replaces time.Now for the file id
func WithClock(now func() time.Time) Option {
	return func(p *Provisioner) { p.now = now }
}

// WithCost sets the scrypt N parameter; it must be a power of two greater than 1
func WithCost(n int) Option {
	return func(p *Provisioner) { p.scryptN = n }
}

// NewProvisioner looks for the secret at envPath (SECRET_FILE, may be empty) and then at
// <credentialsDir>/.secret.json, which is also where a new file is created.
func NewProvisioner(envPath, credentialsDir string, logger *slog.Logger, opts ...Option) *Provisioner {
	p := &Provisioner{
		envPath:   envPath,
		localPath: filepath.Join(credentialsDir, FileName),
		prompt:    TerminalPrompt,
		logger:    logger,
		now:       time.Now,
		scryptN:   scryptN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// LocalPath returns the path a new secret file is created at
func (p *Provisioner) LocalPath() string {
	return p.localPath
}

// Find returns the first usable secret file, SECRET_FILE before the local one.
// Unreadable or invalid candidates are skipped.
func (p *Provisioner) Find() (*File, string, error) {
	for _, path := range []string{p.envPath, p.localPath} {
		if path == "" {
			continue
		}
		f, err := Read(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				p.logger.Warn("skipping secret file", "path", path, "error", err)
			}
			continue
		}
		if !f.usable() {
			p.logger.Warn("skipping secret file without secret", "path", path)
			continue
		}
		return f, path, nil
	}
	return nil, "", ErrNoSecret
}

// Secret returns the passphrase for the credential vault, creating a random secret file
// when none exists. Passphrase-mode files prompt and verify.
func (p *Provisioner) Secret() (string, error) {
	f, path, err := p.Find()
	if errors.Is(err, ErrNoSecret) {
		f, err = p.Create()
		if err != nil {
			return "", err
		}
		p.logger.Info("secret file created", "path", p.localPath, "id", f.ID)
		return f.Secret, nil
	}
	if err != nil {
		return "", err
	}

	if !f.PassphraseMode() {
		p.logger.Debug("secret loaded", "path", path, "id", f.ID)
		return f.Secret, nil
	}

	passphrase, err := p.prompt("Passphrase: ")
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	defer clear(passphrase)

	if err := p.verify(f, passphrase); err != nil {
		return "", err
	}
	return string(passphrase), nil
}

// Create writes a new random secret file at the local path. An existing file is never overwritten.
func (p *Provisioner) Create() (*File, error) {
	return p.CreateAt(p.localPath)
}

// CreateAt writes a new random secret file at path. An existing file is never overwritten.
func (p *Provisioner) CreateAt(path string) (*File, error) {
	raw := make([]byte, secretLen)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	f := &File{ID: p.newID(), Secret: hex.EncodeToString(raw)}
	clear(raw)

	if err := write(path, f); err != nil {
		return nil, err
	}
	return f, nil
}

// CreatePassphrase writes a passphrase-mode file at the local path holding only an scrypt verifier.
func (p *Provisioner) CreatePassphrase(passphrase []byte) (*File, error) {
	if strings.TrimSpace(string(passphrase)) == "" {
		return nil, errors.New("passphrase must not be empty")
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	key, err := scrypt.Key(passphrase, salt, p.scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive verifier: %w", err)
	}

	f := &File{
		ID:       p.newID(),
		Salt:     base64.StdEncoding.EncodeToString(salt),
		Verifier: base64.StdEncoding.EncodeToString(key),
	}
	if err := write(p.localPath, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Provisioner) verify(f *File, passphrase []byte) error {
	salt, err := base64.StdEncoding.DecodeString(f.Salt)
	if err != nil {
		return fmt.Errorf("invalid salt in secret file: %w", err)
	}
	want, err := base64.StdEncoding.DecodeString(f.Verifier)
	if err != nil {
		return fmt.Errorf("invalid verifier in secret file: %w", err)
	}

	got, err := scrypt.Key(passphrase, salt, p.scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return fmt.Errorf("failed to derive verifier: %w", err)
	}
	defer clear(got)

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrWrongPassphrase
	}
	return nil
}

func (p *Provisioner) newID() string {
	return fmt.Sprintf("se-%d", p.now().Unix())
}

// Read parses the secret file at path
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid secret file %s: %w", path, err)
	}
	return &f, nil
}

func write(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create secret directory: %w", err)
	}

	data, err := json.MarshalIndent(f, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal secret file: %w", err)
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("secret file %s already exists, refusing to overwrite", path)
		}
		return fmt.Errorf("failed to create secret file: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("failed to write secret file: %w", err)
	}
	return out.Close()
}
