package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

// ErrRateLimited is returned by a Faucet that refused because of its request limit.
// The caller records a manual attempt instead of failing.
var ErrRateLimited = errors.New("faucet rate limit reached")

const statusRateLimit = "rate-limit"

// HTTPFaucet requests funding from a faucet HTTP API
type HTTPFaucet struct {
	url     string
	network string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPFaucet creates a faucet client posting to url on behalf of network
func NewHTTPFaucet(url, network string, logger *slog.Logger) *HTTPFaucet {
	return &HTTPFaucet{
		url:     url,
		network: network,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With("component", "faucet"),
	}
}

type faucetRequest struct {
	Network string `json:"network"`
	Address string `json:"address"`
}

type faucetResponse struct {
	Status  string `json:"status"`
	Message struct {
		PaymentID string `json:"paymentID"`
	} `json:"message"`
}

// Request posts {network, address} and returns the payment transaction hash
func (f *HTTPFaucet) Request(ctx context.Context, address string) (string, error) {
	body, err := json.Marshal(faucetRequest{Network: f.network, Address: address})
	if err != nil {
		return "", fmt.Errorf("failed to marshal faucet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build faucet request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &model.NetworkError{Op: "faucet", Err: err}
	}
	defer resp.Body.Close()

	var out faucetResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if (decodeErr == nil && out.Status == statusRateLimit) || resp.StatusCode == http.StatusTooManyRequests {
			f.logger.Warn("faucet rate limited", "address", address, "request_id", requestID)
			return "", ErrRateLimited
		}
		status := out.Status
		if decodeErr != nil || status == "" {
			status = "unknown"
		}
		return "", &model.NetworkError{Op: "faucet", Err: fmt.Errorf("status %d: %s", resp.StatusCode, status)}
	}

	if decodeErr != nil {
		return "", &model.NetworkError{Op: "faucet", Err: fmt.Errorf("failed to decode response: %w", decodeErr)}
	}
	if out.Message.PaymentID == "" {
		return "", &model.NetworkError{Op: "faucet", Err: fmt.Errorf("response has no paymentID (status %q)", out.Status)}
	}

	f.logger.Debug("faucet request accepted", "address", address, "payment", out.Message.PaymentID, "request_id", requestID)
	return out.Message.PaymentID, nil
}
