// Package contracts deploys compiled smart contracts with a selected fee payer account.
package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact is the build output of one contract class, read from <build dir>/<ClassName>.json
type Artifact struct {
	ClassName string   `json:"className"`
	Methods   []string `json:"methods"`
	Source    string   `json:"source"`

	raw []byte
}

// Raw returns the artifact file as read, for the toolchain
func (a *Artifact) Raw() []byte {
	return a.raw
}

// LoadArtifact reads the artifact of className from buildDir.
// A missing file is fatal: the contract has not been built.
func LoadArtifact(buildDir, className string) (*Artifact, error) {
	if className == "" || filepath.Base(className) != className {
		return nil, fmt.Errorf("invalid contract class name %q", className)
	}

	path := filepath.Join(buildDir, className+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("contract artifact %s not found in %s, did you build it? %w", className, buildDir, err)
		}
		return nil, fmt.Errorf("failed to read contract artifact: %w", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("contract artifact %s is not valid JSON: %w", path, err)
	}
	if artifact.ClassName == "" {
		artifact.ClassName = className
	}
	if artifact.ClassName != className {
		return nil, fmt.Errorf("contract artifact %s declares class %s", path, artifact.ClassName)
	}
	if artifact.Methods == nil {
		artifact.Methods = []string{}
	}

	artifact.raw = data
	return &artifact, nil
}
