// Package facilitatorclient talks to the external payment facilitator that
// verifies and settles x402 payments on-chain on behalf of the resource
// server.
package facilitatorclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

const (
	// DefaultFacilitatorURL is the default URL for the x402 facilitator service
	DefaultFacilitatorURL = "https://facilitator.payai.network"

	headerContentType   = "Content-Type"
	mimeApplicationJSON = "application/json"

	authHeaderVerify    = "verify"
	authHeaderSettle    = "settle"
	authHeaderSupported = "supported"
)

// VerifyRejectedError is returned when the facilitator answers /verify with
// isValid=false. The reason is the facilitator's reported one.
type VerifyRejectedError struct {
	Reason string
	Payer  string
}

func (e *VerifyRejectedError) Error() string {
	return fmt.Sprintf("payment verification rejected: %s", e.Reason)
}

// SettleFailedError is returned when the facilitator answers /settle with
// success=false.
type SettleFailedError struct {
	Reason string
}

func (e *SettleFailedError) Error() string {
	return fmt.Sprintf("payment settlement failed: %s", e.Reason)
}

// FacilitatorClient verifies and settles payments against a remote
// facilitator service.
type FacilitatorClient struct {
	URL               string
	HTTPClient        *http.Client
	CreateAuthHeaders func() (map[string]map[string]string, error)
}

// NewFacilitatorClient creates a new facilitator client
func NewFacilitatorClient(config *types.FacilitatorConfig) *FacilitatorClient {
	if config == nil {
		config = &types.FacilitatorConfig{
			URL: DefaultFacilitatorURL,
		}
	}

	httpCli := &http.Client{Timeout: 30 * time.Second}
	if config.Timeout != nil {
		httpCli.Timeout = config.Timeout()
	}

	url := config.URL
	if url == "" {
		url = DefaultFacilitatorURL
	}

	return &FacilitatorClient{
		URL:               url,
		HTTPClient:        httpCli,
		CreateAuthHeaders: config.CreateAuthHeaders,
	}
}

// Verify sends a payment verification request to the facilitator. A
// facilitator rejection comes back as *VerifyRejectedError so callers can
// surface the reported reason as a 402 rather than a transport failure.
func (c *FacilitatorClient) Verify(ctx context.Context, payload *types.PaymentPayload, requirements *types.PaymentRequirements) (*types.VerifyResponse, error) {
	reqBody := types.VerifyRequest{
		X402Version:         types.X402Version,
		PaymentPayload:      payload,
		PaymentRequirements: requirements,
	}

	var verifyResp types.VerifyResponse
	if err := c.post(ctx, "verify", authHeaderVerify, reqBody, &verifyResp); err != nil {
		return nil, err
	}

	if !verifyResp.IsValid {
		reason := "unknown"
		if verifyResp.InvalidReason != nil {
			reason = *verifyResp.InvalidReason
		}
		payer := ""
		if verifyResp.Payer != nil {
			payer = *verifyResp.Payer
		}
		return &verifyResp, &VerifyRejectedError{Reason: reason, Payer: payer}
	}

	return &verifyResp, nil
}

// Settle asks the facilitator to co-sign and broadcast the payment. On
// success the response carries the on-chain transaction signature.
func (c *FacilitatorClient) Settle(ctx context.Context, payload *types.PaymentPayload, requirements *types.PaymentRequirements) (*types.SettleResponse, error) {
	reqBody := types.SettleRequest{
		X402Version:         types.X402Version,
		PaymentPayload:      payload,
		PaymentRequirements: requirements,
	}

	var settleResp types.SettleResponse
	if err := c.post(ctx, "settle", authHeaderSettle, reqBody, &settleResp); err != nil {
		return nil, err
	}

	if !settleResp.Success {
		reason := "unknown"
		if settleResp.ErrorReason != nil {
			reason = *settleResp.ErrorReason
		}
		return &settleResp, &SettleFailedError{Reason: reason}
	}

	return &settleResp, nil
}

// Supported retrieves the list of payment kinds supported by the facilitator.
func (c *FacilitatorClient) Supported(ctx context.Context) (*types.SupportedPaymentKindsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/supported", c.URL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supported request: %w", err)
	}
	req.Header.Set(headerContentType, mimeApplicationJSON)

	if err := c.addAuthHeader(req, authHeaderSupported); err != nil {
		return nil, fmt.Errorf("failed to apply supported auth headers: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send supported request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get supported payment kinds: %s", resp.Status)
	}

	var supportedResp types.SupportedPaymentKindsResponse
	if err := json.NewDecoder(resp.Body).Decode(&supportedResp); err != nil {
		return nil, fmt.Errorf("failed to decode supported response: %w", err)
	}

	return &supportedResp, nil
}

func (c *FacilitatorClient) post(ctx context.Context, endpoint, authKey string, reqBody, out any) error {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", c.URL, endpoint), bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerContentType, mimeApplicationJSON)

	if err := c.addAuthHeader(req, authKey); err != nil {
		return fmt.Errorf("failed to apply %s auth headers: %w", authKey, err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response body: %w", endpoint, err)
	}

	// Facilitators report rejections in the body with a non-200 status;
	// decode the body first so the reported reason survives.
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("facilitator %s failed (%d): %s", endpoint, resp.StatusCode, string(responseBody))
	}

	return nil
}

func (c *FacilitatorClient) addAuthHeader(req *http.Request, key string) error {
	if c.CreateAuthHeaders == nil {
		return nil
	}

	headers, err := c.CreateAuthHeaders()
	if err != nil {
		return fmt.Errorf("create auth headers: %w", err)
	}

	actionHeaders, ok := headers[key]
	if !ok {
		return nil
	}

	for headerKey, value := range actionHeaders {
		req.Header.Set(headerKey, value)
	}

	return nil
}
