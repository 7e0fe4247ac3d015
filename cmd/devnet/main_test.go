package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
	"github.com/AlexZinkM/devnet-accounts/internal/secret"
)

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(&model.ValidationError{Scope: "accounts", Messages: []string{"bad"}}))
	assert.Equal(t, 130, exitCode(fmt.Errorf("wait aborted: %w", context.Canceled)))
	assert.Equal(t, 1, exitCode(errors.New("boom")))
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("NETWORK", "solana-devnet")
	t.Setenv("GROUP", "from-env")

	cfg, err := loadConfig(&flags{network: "local", group: "from-flag", root: t.TempDir(), verbose: true})
	require.NoError(t, err)
	assert.Equal(t, "local", cfg.Profile.Name)
	assert.Equal(t, "from-flag", cfg.Group)
	assert.Equal(t, "DEBUG", cfg.SlogLevel().String())
}

func TestLoadConfigUnknownNetwork(t *testing.T) {
	_, err := loadConfig(&flags{network: "mainnet-please-no", root: t.TempDir()})
	assert.Error(t, err)
}

func TestSecretInitAndAccountsList(t *testing.T) {
	root := t.TempDir()
	t.Setenv("CREDENTIALS_ROOT", root)
	t.Setenv("SECRET_FILE", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"secret", "init"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "se-")

	f, err := secret.Read(filepath.Join(root, "credentials", secret.FileName))
	require.NoError(t, err)
	assert.NotEmpty(t, f.Secret)

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"accounts", "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Accounts")

	for _, sub := range []string{"accounts", "contracts"} {
		info, err := os.Stat(filepath.Join(root, "credentials", sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestCreateRejectsInvalidNames(t *testing.T) {
	t.Setenv("CREDENTIALS_ROOT", t.TempDir())
	t.Setenv("NETWORK", "local")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"accounts", "create", "not valid"})
	err := cmd.Execute()
	assert.True(t, model.IsValidationError(err))
}
