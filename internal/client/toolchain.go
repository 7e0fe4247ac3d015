package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// ProverClient is the external toolchain that compiles contracts and submits deploy transactions
type ProverClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewProverClient creates a new toolchain client.
// Compilation can take minutes, so the timeout is generous and callers bound it with ctx.
func NewProverClient(baseURL string, logger *slog.Logger) *ProverClient {
	return &ProverClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Minute,
		},
		logger: logger.With("component", "prover"),
	}
}

// SendError is a transaction the toolchain refused
type SendError struct {
	Message string
}

func (e *SendError) Error() string {
	return "transaction rejected: " + e.Message
}

type compileRequest struct {
	ClassName string          `json:"className"`
	Artifact  json.RawMessage `json:"artifact"`
}

type compileResponse struct {
	VerificationKey model.VerificationKey `json:"verificationKey"`
	Error           string                `json:"error,omitempty"`
}

type sendRequest struct {
	Transaction *model.DeployTransaction `json:"transaction"`
}

type sendResponse struct {
	Hash  string `json:"hash"`
	Error string `json:"error,omitempty"`
}

// Compile turns a built artifact into its verification key
func (c *ProverClient) Compile(ctx context.Context, className string, artifact []byte) (model.VerificationKey, error) {
	var out compileResponse
	if err := c.post(ctx, "/compile", compileRequest{ClassName: className, Artifact: artifact}, &out); err != nil {
		return model.VerificationKey{}, err
	}
	if out.Error != "" {
		return model.VerificationKey{}, fmt.Errorf("compile %s: %s", className, out.Error)
	}
	if out.VerificationKey.Data == "" {
		return model.VerificationKey{}, fmt.Errorf("compile %s: empty verification key", className)
	}
	return out.VerificationKey, nil
}

// Send submits a signed deploy transaction and returns its hash
func (c *ProverClient) Send(ctx context.Context, tx *model.DeployTransaction) (string, error) {
	var out sendResponse
	err := c.post(ctx, "/send", sendRequest{Transaction: tx}, &out)
	if err != nil {
		var sendErr *SendError
		if errors.As(err, &sendErr) {
			return "", sendErr
		}
		return "", err
	}
	if out.Error != "" {
		return "", &SendError{Message: out.Error}
	}
	if out.Hash == "" {
		return "", &SendError{Message: "no transaction hash returned"}
	}
	return out.Hash, nil
}

func (c *ProverClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	c.logger.Debug("toolchain request", "path", path, "request_id", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		return &model.NetworkError{Op: "toolchain " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &model.NetworkError{Op: "toolchain " + path, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			if path == "/send" {
				return &SendError{Message: failure.Error}
			}
			return fmt.Errorf("toolchain %s: %s", path, failure.Error)
		}
		return &model.NetworkError{Op: "toolchain " + path, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &model.NetworkError{Op: "toolchain " + path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
