package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Code     string   `json:"code,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// ErrInvalidSecret is returned when a vault is created without a usable passphrase
var ErrInvalidSecret = errors.New("secret must be a non-empty string")

// ValidationError is malformed caller input. It is fatal.
type ValidationError struct {
	Scope    string
	Messages []string
	DocsURL  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: input error", e.Scope)
	for _, m := range e.Messages {
		b.WriteString("\n  - ")
		b.WriteString(m)
	}
	if e.DocsURL != "" {
		fmt.Fprintf(&b, "\n  For more information visit: %s", e.DocsURL)
	}
	return b.String()
}

// StructuralError is a credential file that fails its field schema. The record is skipped.
type StructuralError struct {
	Path     string
	Messages []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("invalid credential %s: %s", e.Path, strings.Join(e.Messages, "; "))
}

// DecryptionError is a wrong secret or corrupt ciphertext. The record is skipped.
type DecryptionError struct {
	Reason string
}

func (e *DecryptionError) Error() string {
	return "decryption failed: " + e.Reason
}

// NetworkError is a failed status, faucet or poll request
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// CollisionError is a destination path that already exists. It is fatal.
type CollisionError struct {
	Path string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("file already exists, refusing to overwrite: %s", e.Path)
}

// IsValidationError checks if err is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsStructuralError checks if err is a StructuralError
func IsStructuralError(err error) bool {
	var target *StructuralError
	return errors.As(err, &target)
}

// IsDecryptionError checks if err is a DecryptionError
func IsDecryptionError(err error) bool {
	var target *DecryptionError
	return errors.As(err, &target)
}

// IsNetworkError checks if err is a NetworkError
func IsNetworkError(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

// IsCollisionError checks if err is a CollisionError
func IsCollisionError(err error) bool {
	var target *CollisionError
	return errors.As(err, &target)
}
