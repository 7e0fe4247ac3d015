package crypto

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// For any string s and passphrase p, decrypt(encrypt(s, p), p) == s.
func TestVaultRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("encrypt then decrypt returns original plaintext", prop.ForAll(
		func(plaintext string, passphrase string) bool {
			vault, err := NewVault(passphrase)
			if err != nil {
				t.Logf("vault: %v", err)
				return false
			}

			env, err := vault.Encrypt([]byte(plaintext))
			if err != nil {
				t.Logf("encryption failed: %v", err)
				return false
			}

			decrypted, err := vault.Decrypt(env)
			if err != nil {
				t.Logf("decryption failed: %v", err)
				return false
			}

			return string(decrypted) == plaintext
		},
		gen.AnyString(),
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
	))

	properties.TestingRun(t)
}

// Encrypting the same plaintext twice yields two different ciphertexts that both decrypt.
func TestVaultEncryptIsNonDeterministic(t *testing.T) {
	vault, err := NewVault("correct horse battery staple")
	require.NoError(t, err)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("two encryptions differ and both decrypt", prop.ForAll(
		func(plaintext string) bool {
			first, err := vault.Encrypt([]byte(plaintext))
			if err != nil {
				return false
			}
			second, err := vault.Encrypt([]byte(plaintext))
			if err != nil {
				return false
			}
			if first.IV == second.IV || first.Content == second.Content {
				return false
			}

			a, errA := vault.Decrypt(first)
			b, errB := vault.Decrypt(second)
			return errA == nil && errB == nil &&
				bytes.Equal(a, []byte(plaintext)) && bytes.Equal(b, []byte(plaintext))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestNewVaultRejectsEmptySecret(t *testing.T) {
	_, err := NewVault("")
	assert.ErrorIs(t, err, model.ErrInvalidSecret)

	_, err = NewVault("   ")
	assert.ErrorIs(t, err, model.ErrInvalidSecret)
}

func TestDecryptWithWrongSecret(t *testing.T) {
	right, err := NewVault("right")
	require.NoError(t, err)
	wrong, err := NewVault("wrong")
	require.NoError(t, err)

	env, err := right.Encrypt([]byte("private key"))
	require.NoError(t, err)

	_, err = wrong.Decrypt(env)
	require.Error(t, err)
	assert.True(t, model.IsDecryptionError(err))
}

func TestDecryptMalformedEnvelope(t *testing.T) {
	vault, err := NewVault("secret")
	require.NoError(t, err)

	env, err := vault.Encrypt([]byte("hello"))
	require.NoError(t, err)

	cases := map[string]model.Envelope{
		"iv not hex":      {IV: "zz", Content: env.Content},
		"iv too short":    {IV: "abcd", Content: env.Content},
		"content not hex": {IV: env.IV, Content: "not-hex"},
		"content cut":     {IV: env.IV, Content: env.Content[:len(env.Content)-2]},
		"content empty":   {IV: env.IV, Content: ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := vault.Decrypt(c)
			require.Error(t, err)
			assert.True(t, model.IsDecryptionError(err))
		})
	}
}

func TestDestroyedVaultFails(t *testing.T) {
	vault, err := NewVault("secret")
	require.NoError(t, err)
	vault.Destroy()

	_, err = vault.Encrypt([]byte("x"))
	assert.ErrorIs(t, err, model.ErrInvalidSecret)
}

func testAccount() *model.Account {
	return &model.Account{
		Meta: model.Meta{FileName: "alice--demo--1700000000.json", Version: model.FileVersion},
		Data: model.AccountData{
			Name:      "alice",
			Type:      model.AccountType,
			GroupName: "demo",
			Network:   "solana-devnet",
			Time:      model.Time{Unix: 1700000000, Format: "2023-11-14T22:13:20Z"},
			Address: model.Address{
				Public:  "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T",
				Private: "very-secret",
			},
			Explorer: map[string]string{"solana-devnet": "https://explorer/4Nd1"},
			Faucets:  []model.FaucetAttempt{{Network: "devnet", Timestamp: 1700000000, Transaction: "sig"}},
		},
		QR: "cXI=",
	}
}

func TestCredentialSplitKeepsPrivateKeyOutOfHeader(t *testing.T) {
	vault, err := NewVault("secret")
	require.NoError(t, err)

	account := testAccount()
	file, err := vault.EncryptCredential(account)
	require.NoError(t, err)

	assert.Equal(t, "alice", file.Header.Name)
	assert.Equal(t, "demo", file.Header.GroupName)
	assert.Equal(t, int64(1700000000), file.Header.CreatedUnix)
	assert.Equal(t, account.Data.Address.Public, file.Header.Address)
	assert.Equal(t, "cXI=", file.Header.QR)

	raw, err := json.Marshal(file)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "very-secret")

	var decoded model.Account
	require.NoError(t, vault.DecryptCredential(file, &decoded))
	assert.Equal(t, account.Data, decoded.Data)
	assert.Equal(t, account.Meta, decoded.Meta)
	assert.Empty(t, decoded.QR, "QR lives in the header only")
}

func TestDecryptCredentialWrongShape(t *testing.T) {
	vault, err := NewVault("secret")
	require.NoError(t, err)

	body, err := vault.Encrypt([]byte(`{"data": {"time": {"unix": "not a number"}}}`))
	require.NoError(t, err)

	var account model.Account
	err = vault.DecryptCredential(&model.CredentialFile{Body: body}, &account)
	require.Error(t, err)
	assert.True(t, model.IsStructuralError(err))
}

func TestWriteCredentialFileNeverOverwrites(t *testing.T) {
	vault, err := NewVault("secret")
	require.NoError(t, err)

	file, err := vault.EncryptCredential(testAccount())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "alice--demo--1700000000.json")
	require.NoError(t, WriteCredentialFile(path, file))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	other := testAccount()
	other.Data.Name = "mallory"
	second, err := vault.EncryptCredential(other)
	require.NoError(t, err)

	err = WriteCredentialFile(path, second)
	require.Error(t, err)
	assert.True(t, model.IsCollisionError(err))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestReadCredentialFile(t *testing.T) {
	vault, err := NewVault("secret")
	require.NoError(t, err)
	file, err := vault.EncryptCredential(testAccount())
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "a.json")
	require.NoError(t, WriteCredentialFile(path, file))

	read, err := ReadCredentialFile(path)
	require.NoError(t, err)
	assert.Equal(t, file.Header, read.Header)
	assert.Equal(t, file.Body, read.Body)

	// BOM prefixed files are accepted
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	bomPath := filepath.Join(dir, "bom.json")
	require.NoError(t, os.WriteFile(bomPath, append([]byte{0xEF, 0xBB, 0xBF}, data...), 0o600))
	_, err = ReadCredentialFile(bomPath)
	require.NoError(t, err)

	_, err = ReadCredentialFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = ReadCredentialFile(empty)
	assert.Error(t, err)

	err = WriteCredentialFile(filepath.Join(dir, "a.txt"), file)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), ".json"))
}
