package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

const (
	accountQuery = `query Account($publicKey: PublicKey!) {
  account(publicKey: $publicKey) { balance { total } nonce }
}`
	transactionQuery = `query Transaction($hash: String!) {
  transaction(query: { hash: $hash }) { hash blockHeight failureReason }
}`
	latestBlockQuery = `query LatestBlock($limit: Int!) {
  blocks(limit: $limit, sortBy: BLOCKHEIGHT_DESC) { blockHeight dateTime protocolState { consensusState { slot } } }
}`
)

// GraphQLClient talks to a node or indexer exposing the account, transaction and blocks queries
type GraphQLClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewGraphQLClient creates a new GraphQL client
func NewGraphQLClient(endpoint string, logger *slog.Logger) *GraphQLClient {
	return &GraphQLClient{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger.With("component", "graphql"),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// numeric accepts both "123" and 123, nodes disagree on how they encode uint64
type numeric uint64

func (n *numeric) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", data, err)
	}
	*n = numeric(v)
	return nil
}

type accountResponse struct {
	Account *struct {
		Balance struct {
			Total numeric `json:"total"`
		} `json:"balance"`
		Nonce numeric `json:"nonce"`
	} `json:"account"`
}

type transactionResponse struct {
	Transaction *struct {
		Hash          string  `json:"hash"`
		BlockHeight   numeric `json:"blockHeight"`
		FailureReason *string `json:"failureReason"`
	} `json:"transaction"`
}

type blocksResponse struct {
	Blocks []struct {
		BlockHeight   numeric   `json:"blockHeight"`
		DateTime      time.Time `json:"dateTime"`
		ProtocolState struct {
			ConsensusState struct {
				Slot numeric `json:"slot"`
			} `json:"consensusState"`
		} `json:"protocolState"`
	} `json:"blocks"`
}

// Account queries balance and nonce of address
func (c *GraphQLClient) Account(ctx context.Context, address string) (*AccountInfo, error) {
	var resp accountResponse
	if err := c.do(ctx, "account", accountQuery, map[string]any{"publicKey": address}, &resp); err != nil {
		return nil, err
	}
	if resp.Account == nil {
		return nil, nil
	}
	return &AccountInfo{
		Balance: uint64(resp.Account.Balance.Total),
		Nonce:   uint64(resp.Account.Nonce),
	}, nil
}

// Transaction looks a transaction up by hash
func (c *GraphQLClient) Transaction(ctx context.Context, hash string) (*TransactionInfo, error) {
	var resp transactionResponse
	if err := c.do(ctx, "transaction", transactionQuery, map[string]any{"hash": hash}, &resp); err != nil {
		return nil, err
	}
	if resp.Transaction == nil {
		return nil, nil
	}
	return &TransactionInfo{
		Hash:        resp.Transaction.Hash,
		BlockHeight: uint64(resp.Transaction.BlockHeight),
		Failed:      resp.Transaction.FailureReason != nil && *resp.Transaction.FailureReason != "",
	}, nil
}

// LatestBlock returns the most recent block header
func (c *GraphQLClient) LatestBlock(ctx context.Context) (*Block, error) {
	var resp blocksResponse
	if err := c.do(ctx, "latest block", latestBlockQuery, map[string]any{"limit": 1}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Blocks) == 0 {
		return nil, &model.NetworkError{Op: "latest block", Err: fmt.Errorf("no blocks returned")}
	}
	b := resp.Blocks[0]
	return &Block{
		Height: uint64(b.BlockHeight),
		Slot:   uint64(b.ProtocolState.ConsensusState.Slot),
		Time:   b.DateTime,
	}, nil
}

func (c *GraphQLClient) do(ctx context.Context, op, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to marshal %s query: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &model.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.NetworkError{Op: op, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &model.NetworkError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Debug("graphql errors", "op", op, "errors", messages)
		return &model.NetworkError{Op: op, Err: fmt.Errorf("%s", strings.Join(messages, "; "))}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &model.NetworkError{Op: op, Err: fmt.Errorf("empty data")}
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &model.NetworkError{Op: op, Err: fmt.Errorf("failed to decode data: %w", err)}
	}
	return nil
}
