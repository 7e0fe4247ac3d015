package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexZinkM/devnet-accounts/internal/config"
	"github.com/AlexZinkM/devnet-accounts/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func graphQLServer(t *testing.T, respond func(query string, vars map[string]any) string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, respond(req.Query, req.Variables))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGraphQLAccount(t *testing.T) {
	srv := graphQLServer(t, func(query string, vars map[string]any) string {
		if vars["publicKey"] == "known" {
			return `{"data":{"account":{"balance":{"total":"49000000000"},"nonce":"3"}}}`
		}
		return `{"data":{"account":null}}`
	})
	c := NewGraphQLClient(srv.URL, discardLogger())

	info, err := c.Account(context.Background(), "known")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, uint64(49000000000), info.Balance)
	assert.Equal(t, uint64(3), info.Nonce)

	info, err = c.Account(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestGraphQLTransactionAndBlock(t *testing.T) {
	srv := graphQLServer(t, func(query string, vars map[string]any) string {
		switch {
		case vars["hash"] == "5Jabc":
			return `{"data":{"transaction":{"hash":"5Jabc","blockHeight":120,"failureReason":null}}}`
		case vars["hash"] != nil:
			return `{"data":{"transaction":null}}`
		default:
			return `{"data":{"blocks":[{"blockHeight":"120","dateTime":"2023-11-14T22:13:20Z","protocolState":{"consensusState":{"slot":"4000"}}}]}}`
		}
	})
	c := NewGraphQLClient(srv.URL, discardLogger())

	tx, err := c.Transaction(context.Background(), "5Jabc")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, uint64(120), tx.BlockHeight)
	assert.False(t, tx.Failed)

	tx, err = c.Transaction(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, tx)

	block, err := c.LatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), block.Slot)
	assert.Equal(t, int64(1700000000), block.Time.Unix())
}

func TestGraphQLErrorsAreNetworkErrors(t *testing.T) {
	srv := graphQLServer(t, func(string, map[string]any) string {
		return `{"errors":[{"message":"boom"}]}`
	})
	c := NewGraphQLClient(srv.URL, discardLogger())

	_, err := c.Account(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, model.IsNetworkError(err))
	assert.Contains(t, err.Error(), "boom")

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()
	_, err = NewGraphQLClient(down.URL, discardLogger()).LatestBlock(context.Background())
	assert.True(t, model.IsNetworkError(err))
}

func TestHTTPFaucet(t *testing.T) {
	var got faucetRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		switch got.Address {
		case "limited":
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"status":"rate-limit"}`)
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"status":"nope"}`)
		default:
			io.WriteString(w, `{"status":"success","message":{"paymentID":"5Jpay"}}`)
		}
	}))
	defer srv.Close()

	f := NewHTTPFaucet(srv.URL, "berkeley", discardLogger())

	hash, err := f.Request(context.Background(), "B62fresh")
	require.NoError(t, err)
	assert.Equal(t, "5Jpay", hash)
	assert.Equal(t, faucetRequest{Network: "berkeley", Address: "B62fresh"}, got)

	_, err = f.Request(context.Background(), "limited")
	assert.ErrorIs(t, err, ErrRateLimited)

	_, err = f.Request(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRateLimited)
	assert.True(t, model.IsNetworkError(err))
}

func TestProverClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/compile":
			var req compileRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Square", req.ClassName)
			io.WriteString(w, `{"verificationKey":{"data":"vk-data","hash":"42"}}`)
		case "/send":
			var req sendRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Transaction.Fee == 0 {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"error":"Insufficient fee for transaction"}`)
				return
			}
			io.WriteString(w, `{"hash":"5Jdeploy"}`)
		}
	}))
	defer srv.Close()

	p := NewProverClient(srv.URL+"/", discardLogger())

	vk, err := p.Compile(context.Background(), "Square", []byte(`{"methods":["update"]}`))
	require.NoError(t, err)
	assert.Equal(t, model.VerificationKey{Data: "vk-data", Hash: "42"}, vk)

	hash, err := p.Send(context.Background(), &model.DeployTransaction{Fee: 1})
	require.NoError(t, err)
	assert.Equal(t, "5Jdeploy", hash)

	_, err = p.Send(context.Background(), &model.DeployTransaction{})
	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)
	assert.Contains(t, sendErr.Message, "Insufficient fee")
}

// rpcServer answers Solana JSON-RPC calls from results keyed by method
func rpcServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")

		result, ok := results[req.Method]
		if !ok {
			io.WriteString(w, `{"jsonrpc":"2.0","id":`+string(req.ID)+`,"error":{"code":-32601,"message":"method not found"}}`)
			return
		}
		if len(result) > 0 && result[0] == '!' {
			io.WriteString(w, `{"jsonrpc":"2.0","id":`+string(req.ID)+`,"error":`+result[1:]+`}`)
			return
		}
		io.WriteString(w, `{"jsonrpc":"2.0","id":`+string(req.ID)+`,"result":`+result+`}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSolanaAccountNotFound(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getAccountInfo": `{"context":{"slot":1},"value":null}`,
	})
	c := NewSolanaClient(srv.URL, discardLogger())

	info, err := c.Account(context.Background(), solana.NewWallet().PublicKey().String())
	require.NoError(t, err)
	assert.Nil(t, info)

	_, err = c.Account(context.Background(), "not-base58-0OIl")
	assert.Error(t, err)
}

func TestSolanaAccountRPCErrorIsNetworkError(t *testing.T) {
	// getAccountInfo is unanswered, so the server replies "method not found"
	srv := rpcServer(t, map[string]string{})
	c := NewSolanaClient(srv.URL, discardLogger())

	info, err := c.Account(context.Background(), solana.NewWallet().PublicKey().String())
	require.Error(t, err)
	assert.Nil(t, info)
	assert.True(t, model.IsNetworkError(err))
}

func TestSolanaTransactionStatus(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getSignatureStatuses": `{"context":{"slot":10},"value":[{"slot":9,"confirmations":null,"err":null,"confirmationStatus":"finalized"}]}`,
		"getSlot":              `100`,
		"getBlockTime":         `1700000000`,
	})
	c := NewSolanaClient(srv.URL, discardLogger())

	sig := solana.Signature{1, 2, 3}
	tx, err := c.Transaction(context.Background(), sig.String())
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, uint64(9), tx.BlockHeight)
	assert.False(t, tx.Failed)

	block, err := c.LatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(100), block.Slot)
	assert.Equal(t, int64(1700000000), block.Time.Unix())
}

func TestSolanaAirdropRateLimit(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"requestAirdrop": `!{"code":429,"message":"Too many requests for a specific RPC call, contact your app developer"}`,
	})
	f := NewSolanaClient(srv.URL, discardLogger()).Airdrop(0)

	_, err := f.Request(context.Background(), solana.NewWallet().PublicKey().String())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSolanaTransfer(t *testing.T) {
	signer := solana.NewWallet()
	sent, err := signer.PrivateKey.Sign([]byte("transfer"))
	require.NoError(t, err)

	srv := rpcServer(t, map[string]string{
		"getLatestBlockhash": `{"context":{"slot":1},"value":{"blockhash":"` + solana.NewWallet().PublicKey().String() + `","lastValidBlockHeight":100}}`,
		"sendTransaction":    `"` + sent.String() + `"`,
	})
	c := NewSolanaClient(srv.URL, discardLogger())

	sig, err := c.Transfer(context.Background(), signer.PrivateKey.String(), solana.NewWallet().PublicKey().String(), 5000)
	require.NoError(t, err)
	assert.Equal(t, sent.String(), sig)

	_, err = c.Transfer(context.Background(), signer.PrivateKey.String(), "not-an-address", 5000)
	assert.Error(t, err)

	var _ Transferer = c
}

func TestSolanaTransferRejected(t *testing.T) {
	srv := rpcServer(t, map[string]string{
		"getLatestBlockhash": `{"context":{"slot":1},"value":{"blockhash":"` + solana.NewWallet().PublicKey().String() + `","lastValidBlockHeight":100}}`,
		"sendTransaction":    `!{"code":-32002,"message":"Transaction simulation failed: insufficient lamports"}`,
	})
	c := NewSolanaClient(srv.URL, discardLogger())

	_, err := c.Transfer(context.Background(), solana.NewWallet().PrivateKey.String(), solana.NewWallet().PublicKey().String(), 5000)
	assert.True(t, model.IsNetworkError(err))
}

func TestNewChainAndFaucetBackends(t *testing.T) {
	networks, err := config.LoadNetworks("")
	require.NoError(t, err)

	chain, err := NewChain(networks["local"], discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &GraphQLClient{}, chain)

	chain, err = NewChain(networks["solana-devnet"], discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &SolanaClient{}, chain)

	faucet, err := NewFaucet(networks["local"], discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &HTTPFaucet{}, faucet)

	faucet, err = NewFaucet(networks["solana-devnet"], discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &Airdrop{}, faucet)

	_, err = NewChain(config.Network{Backend: "carrier-pigeon"}, discardLogger())
	assert.Error(t, err)
}
