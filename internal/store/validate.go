package store

import (
	"fmt"
	"regexp"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// Field identifies a required field of a credential record
type Field string

const (
	FieldName            Field = "data.name"
	FieldType            Field = "data.type"
	FieldGroupName       Field = "data.groupName"
	FieldNetwork         Field = "data.network"
	FieldUnix            Field = "data.time.unix"
	FieldPublic          Field = "data.address.public"
	FieldPrivate         Field = "data.address.private"
	FieldFaucets         Field = "data.faucets"
	FieldFeePayer        Field = "data.feePayer.public"
	FieldVerificationKey Field = "data.verificationKey.data"
	FieldClassName       Field = "data.smartContract.className"
	FieldTransaction     Field = "data.transaction.hash"
)

// base58, 32 to 44 characters
var addressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

type predicate func(v any) bool

func isString(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

func isInteger(v any) bool {
	n, ok := v.(int64)
	return ok && n > 0
}

func isAddress(v any) bool {
	s, ok := v.(string)
	if !ok || !addressPattern.MatchString(s) {
		return false
	}
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}

func isArray(v any) bool {
	switch a := v.(type) {
	case []model.FaucetAttempt:
		return a != nil
	case []string:
		return a != nil
	}
	return false
}

type rule[T any] struct {
	field   Field
	extract func(*T) any
	check   predicate
	message string
}

var accountRules = []rule[model.Account]{
	{FieldName, func(a *model.Account) any { return a.Data.Name }, isString, "must be a non-empty string"},
	{FieldType, func(a *model.Account) any { return a.Data.Type }, isString, "must be a non-empty string"},
	{FieldGroupName, func(a *model.Account) any { return a.Data.GroupName }, isString, "must be a non-empty string"},
	{FieldNetwork, func(a *model.Account) any { return a.Data.Network }, isString, "must be a non-empty string"},
	{FieldUnix, func(a *model.Account) any { return a.Data.Time.Unix }, isInteger, "must be a positive integer"},
	{FieldPublic, func(a *model.Account) any { return a.Data.Address.Public }, isAddress, "must be a chain address"},
	{FieldPrivate, func(a *model.Account) any { return a.Data.Address.Private }, isString, "must be a non-empty string"},
	{FieldFaucets, func(a *model.Account) any { return a.Data.Faucets }, isArray, "must be an array"},
}

var contractRules = []rule[model.Contract]{
	{FieldName, func(c *model.Contract) any { return c.Data.Name }, isString, "must be a non-empty string"},
	{FieldType, func(c *model.Contract) any { return c.Data.Type }, isString, "must be a non-empty string"},
	{FieldGroupName, func(c *model.Contract) any { return c.Data.GroupName }, isString, "must be a non-empty string"},
	{FieldUnix, func(c *model.Contract) any { return c.Data.Time.Unix }, isInteger, "must be a positive integer"},
	{FieldPublic, func(c *model.Contract) any { return c.Data.Address.Public }, isAddress, "must be a chain address"},
	{FieldPrivate, func(c *model.Contract) any { return c.Data.Address.Private }, isString, "must be a non-empty string"},
	{FieldFeePayer, func(c *model.Contract) any { return c.Data.FeePayer.Public }, isAddress, "must be a chain address"},
	{FieldVerificationKey, func(c *model.Contract) any { return c.Data.VerificationKey.Data }, isString, "must be a non-empty string"},
	{FieldClassName, func(c *model.Contract) any { return c.Data.SmartContract.ClassName }, isString, "must be a non-empty string"},
	{FieldTransaction, func(c *model.Contract) any { return c.Data.Transaction.Hash }, isString, "must be a non-empty string"},
}

func check[T any](rules []rule[T], rec *T) []string {
	var messages []string
	for _, r := range rules {
		if !r.check(r.extract(rec)) {
			messages = append(messages, fmt.Sprintf("%s %s", r.field, r.message))
		}
	}
	return messages
}

// ValidateAccount runs the account table and returns one message per failing field
func ValidateAccount(a *model.Account) []string {
	return check(accountRules, a)
}

// ValidateContract runs the contract table and returns one message per failing field
func ValidateContract(c *model.Contract) []string {
	return check(contractRules, c)
}

// consistent compares the plaintext header with the header derived from the decrypted body
func consistent(file *model.CredentialFile, rec model.Record) []string {
	want := rec.Header()
	got := file.Header

	var messages []string
	if got.Name != want.Name {
		messages = append(messages, "header.name does not match body")
	}
	if got.GroupName != want.GroupName {
		messages = append(messages, "header.groupName does not match body")
	}
	if got.CreatedUnix != want.CreatedUnix {
		messages = append(messages, "header.createdUnix does not match body")
	}
	if got.Address != want.Address {
		messages = append(messages, "header.address does not match body")
	}
	return messages
}
