package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/devnet-accounts/internal/crypto"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

func TestRekey(t *testing.T) {
	s := newTestStore(t, "old")

	accountPath, err := s.Write(newAccount("alice", "demo", "local", 1700000000))
	require.NoError(t, err)
	contractPath, err := s.Write(newContract("Square", "demo", 1700000001))
	require.NoError(t, err)

	// a file written under another secret is skipped, not lost
	foreignVault, err := crypto.NewVault("foreign")
	require.NoError(t, err)
	foreign := New(s.dir, foreignVault, s.logger)
	foreignPath, err := foreign.Write(newAccount("carol", "demo", "local", 1700000002))
	require.NoError(t, err)

	next, err := crypto.NewVault("new")
	require.NoError(t, err)

	report, err := s.Rekey(next)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{accountPath, contractPath}, report.Rekeyed)
	assert.Equal(t, []string{foreignPath}, report.Skipped)

	_, err = s.LoadAccount(accountPath)
	assert.True(t, model.IsDecryptionError(err))

	rekeyed := New(s.dir, next, s.logger)
	stored, err := rekeyed.LoadAccount(accountPath)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Account.Data.Name)

	_, err = rekeyed.LoadContract(contractPath)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(s.dir, "*", "*"+rekeySuffix))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestRekeyStagingFailureKeepsOriginals(t *testing.T) {
	s := newTestStore(t, "old")

	accountPath, err := s.Write(newAccount("alice", "demo", "local", 1700000000))
	require.NoError(t, err)

	// a leftover staged file makes the exclusive create fail
	require.NoError(t, os.WriteFile(accountPath+rekeySuffix, []byte("{}"), 0o600))

	next, err := crypto.NewVault("new")
	require.NoError(t, err)

	_, err = s.Rekey(next)
	require.Error(t, err)

	_, err = s.LoadAccount(accountPath)
	assert.NoError(t, err)
}
