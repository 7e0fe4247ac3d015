package model

import (
	"encoding/json"
	"fmt"
)

// OperationKind is one step of a deploy transaction
type OperationKind string

const (
	OperationFundNewAccount OperationKind = "fund_new_account"
	OperationDeploy         OperationKind = "deploy"
	OperationInit           OperationKind = "init"
)

// Operation represents a single account update inside a deploy transaction
type Operation struct {
	Kind            OperationKind    `json:"kind"`
	Account         string           `json:"account"`
	VerificationKey *VerificationKey `json:"verificationKey,omitempty"`
	URI             string           `json:"uri,omitempty"`
}

// Signature is a base58 signature made by PublicKey
type Signature struct {
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// DeployTransaction bundles fund, deploy and init so they land atomically
type DeployTransaction struct {
	ID         string      `json:"id"`
	Network    string      `json:"network"`
	FeePayer   string      `json:"feePayer"`
	Fee        uint64      `json:"fee"`
	Operations []Operation `json:"operations"`
	Signatures []Signature `json:"signatures,omitempty"`
}

// SigningPayload returns the bytes both keys sign (the transaction without signatures)
func (t *DeployTransaction) SigningPayload() ([]byte, error) {
	unsigned := *t
	unsigned.Signatures = nil
	return json.Marshal(unsigned)
}

// Validate checks the transaction is a complete fund, deploy, init bundle.
func (t *DeployTransaction) Validate() error {
	if t.FeePayer == "" {
		return fmt.Errorf("fee payer must be set")
	}
	want := []OperationKind{OperationFundNewAccount, OperationDeploy, OperationInit}
	if len(t.Operations) != len(want) {
		return fmt.Errorf("deploy transaction must have %d operations, got %d", len(want), len(t.Operations))
	}
	for i, op := range t.Operations {
		if op.Kind != want[i] {
			return fmt.Errorf("operation %d must be %s, got %s", i, want[i], op.Kind)
		}
	}
	if t.Operations[1].VerificationKey == nil {
		return fmt.Errorf("deploy operation must carry a verification key")
	}
	return nil
}
