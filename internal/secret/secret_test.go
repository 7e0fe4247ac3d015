package secret

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProvisioner(t *testing.T, envPath string, opts ...Option) (*Provisioner, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "credentials")
	opts = append([]Option{
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		WithCost(1 << 4),
	}, opts...)
	return NewProvisioner(envPath, dir, slog.New(slog.NewTextHandler(io.Discard, nil)), opts...), dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestSecretCreatesFileWhenMissing(t *testing.T) {
	p, dir := newProvisioner(t, "")

	secret, err := p.Secret()
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	f, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "se-1700000000", f.ID)
	assert.Equal(t, secret, f.Secret)

	info, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := p.Secret()
	require.NoError(t, err)
	assert.Equal(t, secret, again)
}

func TestSecretPrefersEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "env-secret.json")
	writeFile(t, envPath, `{"id":"se-1","secret":"from-env"}`)

	p, dir := newProvisioner(t, envPath)
	writeFile(t, filepath.Join(dir, FileName), `{"id":"se-2","secret":"from-local"}`)

	secret, err := p.Secret()
	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)
}

func TestSecretFallsBackToLocalWhenEnvFileInvalid(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "env-secret.json")
	writeFile(t, envPath, `{"id":"se-1","secret":"   "}`)

	p, dir := newProvisioner(t, envPath)
	writeFile(t, filepath.Join(dir, FileName), `{"id":"se-2","secret":"from-local"}`)

	secret, err := p.Secret()
	require.NoError(t, err)
	assert.Equal(t, "from-local", secret)
}

func TestCreateNeverOverwrites(t *testing.T) {
	p, dir := newProvisioner(t, "")
	writeFile(t, filepath.Join(dir, FileName), `{"id":"se-2","secret":"keep"}`)

	_, err := p.Create()
	require.Error(t, err)

	f, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, "keep", f.Secret)
}

func TestPassphraseMode(t *testing.T) {
	var answer string
	p, dir := newProvisioner(t, "", WithPrompt(func(string) ([]byte, error) {
		return []byte(answer), nil
	}))

	f, err := p.CreatePassphrase([]byte("correct horse"))
	require.NoError(t, err)
	assert.True(t, f.PassphraseMode())

	stored, err := Read(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Empty(t, stored.Secret)
	assert.NotEmpty(t, stored.Verifier)

	answer = "correct horse"
	secret, err := p.Secret()
	require.NoError(t, err)
	assert.Equal(t, "correct horse", secret)

	answer = "wrong"
	_, err = p.Secret()
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestPassphrasePromptFailure(t *testing.T) {
	p, _ := newProvisioner(t, "", WithPrompt(func(string) ([]byte, error) {
		return nil, errors.New("no tty")
	}))
	_, err := p.CreatePassphrase([]byte("pw"))
	require.NoError(t, err)

	_, err = p.Secret()
	assert.ErrorContains(t, err, "no tty")
}

func TestCreatePassphraseRejectsEmpty(t *testing.T) {
	p, _ := newProvisioner(t, "")
	_, err := p.CreatePassphrase([]byte("  "))
	assert.Error(t, err)
}
