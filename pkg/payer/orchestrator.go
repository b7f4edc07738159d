// Package payer implements the paying side of the x402 flow: it detects a
// 402 response, builds and partially signs the demanded SPL token transfer,
// and retries the request once with the payment attached. It never
// broadcasts the transaction itself; settlement is the facilitator's job.
package payer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

// Client performs HTTP requests against payment-gated resources.
type Client struct {
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Signer provides the transfer-authority signature. Required before
	// any payment can be made.
	Signer *Signer
	// Chain overrides the RPC connection used for account lookups and the
	// blockhash. When nil, a connection is opened for the network named in
	// the payment requirements (or RPCURL when set).
	Chain ChainReader
	// RPCURL overrides the default RPC endpoint for the network.
	RPCURL string
}

// NewClient creates a gated-fetch client around a signer.
func NewClient(signer *Signer) *Client {
	return &Client{
		HTTPClient: http.DefaultClient,
		Signer:     signer,
	}
}

// paymentRequiredBody is the shape of a 402 body. Requirements are taken
// from accepts[0] when present, else from the legacy paymentRequirements
// field.
type paymentRequiredBody struct {
	X402Version         int                          `json:"x402Version"`
	Error               string                       `json:"error,omitempty"`
	Accepts             []*types.PaymentRequirements `json:"accepts,omitempty"`
	PaymentRequirements *types.PaymentRequirements   `json:"paymentRequirements,omitempty"`
}

// Do performs the request, paying once if the server demands it.
//
// A non-402 response is returned unchanged. On 402 the payment is built,
// signed, and attached, and the request is retried exactly once; if that
// retry is answered with 402 again the error is ErrPaymentRejected. A
// second payment is never constructed for the same logical action.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode != http.StatusPaymentRequired {
		return resp, nil
	}

	// Read the 402 body once; every later view derives from this buffer.
	// A network response stream is not re-readable.
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read 402 response body: %w", err)
	}

	requirements, err := parsePaymentRequired(body)
	if err != nil {
		return nil, err
	}

	if c.Signer == nil {
		return nil, ErrWalletNotConnected
	}

	headerValue, err := c.createPayment(ctx, requirements)
	if err != nil {
		return nil, err
	}

	retryReq, err := cloneRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	retryReq.Header.Set(types.PaymentHeader, headerValue)

	retryResp, err := httpClient.Do(retryReq)
	if err != nil {
		return nil, fmt.Errorf("paid retry failed: %w", err)
	}

	if retryResp.StatusCode == http.StatusPaymentRequired {
		reason := readErrorReason(retryResp)
		retryResp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrPaymentRejected, reason)
	}

	return retryResp, nil
}

// Get performs a gated GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Post performs a gated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(ctx, req)
}

// SettleReceipt decodes the settlement receipt from a paid response's
// X-Payment-Response header. Absence of the header is not an error: the
// receipt exists for display purposes only.
func SettleReceipt(resp *http.Response) (*types.SettleResponse, error) {
	header := resp.Header.Get(types.PaymentResponseHeader)
	if header == "" {
		return nil, nil
	}
	return types.DecodeSettleResponseFromBase64(header)
}

// createPayment builds, signs, and encodes the payment for the X-Payment
// header. The blockhash is fetched inside BuildPaymentTransaction, so
// signing happens immediately after; a stale blockhash fails settlement.
func (c *Client) createPayment(ctx context.Context, requirements *types.PaymentRequirements) (string, error) {
	if err := requirements.Validate(); err != nil {
		return "", fmt.Errorf("unusable payment requirements: %w", err)
	}

	chain := c.Chain
	if chain == nil {
		config, err := GetNetworkConfig(requirements.Network)
		if err != nil {
			return "", err
		}
		rpcURL := config.RPCURL
		if c.RPCURL != "" {
			rpcURL = c.RPCURL
		}
		chain = rpc.New(rpcURL)
	}

	tx, err := BuildPaymentTransaction(ctx, chain, c.Signer, requirements)
	if err != nil {
		return "", err
	}

	if err := c.Signer.SignTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	base64Tx, err := EncodeTransaction(tx)
	if err != nil {
		return "", err
	}

	payload := &types.PaymentPayload{
		X402Version: types.X402Version,
		Scheme:      requirements.Scheme,
		Network:     requirements.Network,
		Payload:     &types.ExactSolanaPayload{Transaction: base64Tx},
	}

	return payload.EncodeToBase64String()
}

func parsePaymentRequired(body []byte) (*types.PaymentRequirements, error) {
	var parsed paymentRequiredBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse 402 body: %w", err)
	}

	var requirements *types.PaymentRequirements
	switch {
	case len(parsed.Accepts) > 0:
		requirements = parsed.Accepts[0]
	case parsed.PaymentRequirements != nil:
		requirements = parsed.PaymentRequirements
	default:
		return nil, ErrMissingRequirements
	}

	return requirements, nil
}

func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	clone := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to rewind request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}

func readErrorReason(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.Status
	}
	var parsed paymentRequiredBody
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error == "" {
		return resp.Status
	}
	return parsed.Error
}
