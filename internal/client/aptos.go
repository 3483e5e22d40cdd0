package client

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/restaking-dashboard/internal/common"
	"github.com/AlexZinkM/restaking-dashboard/internal/logger"
	"github.com/AlexZinkM/restaking-dashboard/internal/metrics"
	"github.com/AlexZinkM/restaking-dashboard/internal/model"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response is read for the error message
const maxErrorBody = 64 << 10

// NodeClient is a client for the Aptos full node REST API.
// It never retries; every failure is returned to the caller as is.
type NodeClient struct {
	baseURL string
	client  *http.Client
}

// NewNodeClient creates a new node client. A zero timeout leaves the transport default.
func NewNodeClient(nodeURL string, timeout time.Duration) *NodeClient {
	return &NodeClient{
		baseURL: strings.TrimRight(nodeURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// AccountInfo is the response of GET /accounts/{address}
type AccountInfo struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// LedgerInfo is the response of GET / on the node API
type LedgerInfo struct {
	ChainID       int    `json:"chain_id"`
	Epoch         string `json:"epoch"`
	LedgerVersion string `json:"ledger_version"`
	BlockHeight   string `json:"block_height"`
	NodeRole      string `json:"node_role"`
}

// PendingTransaction is the response of POST /transactions
type PendingTransaction struct {
	Hash                    string `json:"hash"`
	Sender                  string `json:"sender"`
	SequenceNumber          string `json:"sequence_number"`
	ExpirationTimestampSecs string `json:"expiration_timestamp_secs"`
}

// nodeErrorResponse is the error body the node returns with non-2xx statuses
type nodeErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// coinStoreResource is the JSON shape of 0x1::coin::CoinStore<T>
type coinStoreResource struct {
	Type string `json:"type"`
	Data struct {
		Coin struct {
			Value string `json:"value"`
		} `json:"coin"`
	} `json:"data"`
}

// Request sends one request to the node and returns the raw JSON body.
// body is JSON-encoded when not nil.
func (c *NodeClient) Request(ctx context.Context, method, endpoint string, body any) (json.RawMessage, error) {
	label := endpointLabel(endpoint)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveNodeRequest(label, 0, time.Since(start))
		logger.WithContext(ctx).Warn("Aptos API request failed",
			zap.String("endpoint", endpoint), zap.Error(err))
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()
	metrics.ObserveNodeRequest(label, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		netErr := &NetworkError{Endpoint: endpoint, StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var nodeErr nodeErrorResponse
		if json.Unmarshal(raw, &nodeErr) == nil {
			netErr.Message = nodeErr.Message
			netErr.ErrorCode = nodeErr.ErrorCode
		}
		logger.WithContext(ctx).Warn("Aptos API request failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("error_code", netErr.ErrorCode))
		return nil, netErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	return raw, nil
}

// getJSON performs a request and decodes the body into out
func (c *NodeClient) getJSON(ctx context.Context, method, endpoint string, body, out any) error {
	raw, err := c.Request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}

// AccountResource gets a single resource of an account
func (c *NodeClient) AccountResource(ctx context.Context, address, resourceType string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("/accounts/%s/resource/%s", common.FormatAddress(address), url.PathEscape(resourceType))
	return c.Request(ctx, http.MethodGet, endpoint, nil)
}

// CoinBalance gets the raw coin value held in 0x1::coin::CoinStore<coinType>
func (c *NodeClient) CoinBalance(ctx context.Context, address, coinType string) (uint64, error) {
	raw, err := c.AccountResource(ctx, address, CoinStoreType(coinType))
	if err != nil {
		return 0, err
	}

	var store coinStoreResource
	if err := json.Unmarshal(raw, &store); err != nil {
		return 0, fmt.Errorf("failed to decode coin store: %w", err)
	}

	value, err := strconv.ParseUint(store.Data.Coin.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse coin value %q: %w", store.Data.Coin.Value, err)
	}
	return value, nil
}

// View runs a view function and returns its return values
func (c *NodeClient) View(ctx context.Context, payload model.TransactionPayload) ([]json.RawMessage, error) {
	var values []json.RawMessage
	if err := c.getJSON(ctx, http.MethodPost, "/view", payload, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// ViewUint64 runs a view function returning a single integer.
// Move u64/u128 values come back as decimal strings; plain JSON numbers are accepted too.
func (c *NodeClient) ViewUint64(ctx context.Context, payload model.TransactionPayload) (uint64, error) {
	values, err := c.View(ctx, payload)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("%s: %w", payload.Function, ErrEmptyViewResult)
	}

	first := values[0]
	var s string
	if err := json.Unmarshal(first, &s); err != nil {
		s = string(first)
	}

	value, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s result %s: %w", payload.Function, string(first), err)
	}
	return value, nil
}

// Account gets sequence number and authentication key of an account
func (c *NodeClient) Account(ctx context.Context, address string) (*AccountInfo, error) {
	var info AccountInfo
	if err := c.getJSON(ctx, http.MethodGet, "/accounts/"+common.FormatAddress(address), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// EncodeSubmission asks the node for the BCS signing message of an unsigned transaction
func (c *NodeClient) EncodeSubmission(ctx context.Context, tx any) ([]byte, error) {
	var encoded string
	if err := c.getJSON(ctx, http.MethodPost, "/transactions/encode_submission", tx, &encoded); err != nil {
		return nil, err
	}

	msg, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing message: %w", err)
	}
	return msg, nil
}

// SubmitTransaction submits a signed transaction
func (c *NodeClient) SubmitTransaction(ctx context.Context, signed any) (*PendingTransaction, error) {
	var pending PendingTransaction
	if err := c.getJSON(ctx, http.MethodPost, "/transactions", signed, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// LedgerInfo gets chain id and ledger version, used as a health probe
func (c *NodeClient) LedgerInfo(ctx context.Context) (*LedgerInfo, error) {
	var info LedgerInfo
	if err := c.getJSON(ctx, http.MethodGet, "", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CoinStoreType wraps a coin type into its 0x1::coin::CoinStore resource type
func CoinStoreType(coinType string) string {
	return "0x1::coin::CoinStore<" + coinType + ">"
}

// endpointLabel maps an endpoint to a low-cardinality metrics label
func endpointLabel(endpoint string) string {
	switch {
	case endpoint == "" || endpoint == "/":
		return "ledger_info"
	case endpoint == "/view":
		return "view"
	case strings.HasPrefix(endpoint, "/transactions/encode_submission"):
		return "encode_submission"
	case strings.HasPrefix(endpoint, "/transactions"):
		return "transactions"
	case strings.Contains(endpoint, "/resource/"):
		return "resource"
	case strings.HasPrefix(endpoint, "/accounts/"):
		return "account"
	}
	return "other"
}
