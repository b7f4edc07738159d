// Package types contains the x402 v1 wire types exchanged between the
// pay-per-unlock server, the paying client, and the payment facilitator.
package types

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// X402Version is the protocol version this platform speaks.
const X402Version = 1

// SchemeExact is the only payment scheme used here: an exact SPL token
// transfer for the amount named in the requirements.
const SchemeExact = "exact"

// Transport header names.
const (
	PaymentHeader         = "X-Payment"
	PaymentResponseHeader = "X-Payment-Response"
)

// PaymentRequirements represents the payment terms a gated resource demands.
type PaymentRequirements struct {
	Scheme            string        `json:"scheme"`
	Network           string        `json:"network"`
	MaxAmountRequired string        `json:"maxAmountRequired"`
	Resource          string        `json:"resource"`
	Description       string        `json:"description,omitempty"`
	MimeType          string        `json:"mimeType,omitempty"`
	PayTo             string        `json:"payTo"`
	MaxTimeoutSeconds int           `json:"maxTimeoutSeconds,omitempty"`
	Asset             string        `json:"asset"`
	Extra             *PaymentExtra `json:"extra,omitempty"`
}

// PaymentExtra carries Solana-specific settlement metadata. FeePayer is the
// facilitator address that pays the transaction fee and (when needed) rent
// for the recipient's associated token account.
type PaymentExtra struct {
	FeePayer string `json:"feePayer,omitempty"`
}

// Validate checks the fields a client must have before it can build a
// transaction against these requirements.
func (p *PaymentRequirements) Validate() error {
	if p.Scheme == "" {
		return fmt.Errorf("payment scheme is required")
	}
	if p.Network == "" {
		return fmt.Errorf("payment network is required")
	}
	if p.Asset == "" {
		return fmt.Errorf("payment asset is required")
	}
	if p.PayTo == "" {
		return fmt.Errorf("payment recipient is required")
	}
	if _, err := strconv.ParseUint(p.MaxAmountRequired, 10, 64); err != nil {
		return fmt.Errorf("maxAmountRequired must be a non-negative integer string: %w", err)
	}
	if p.Extra == nil || p.Extra.FeePayer == "" {
		return fmt.Errorf("feePayer is required in paymentRequirements.extra for Solana transactions")
	}
	return nil
}

// ExactSolanaPayload is the scheme payload for an exact Solana payment:
// a base64-encoded, partially-signed SPL token transfer transaction. The
// fee payer slot is left unsigned for the facilitator.
type ExactSolanaPayload struct {
	Transaction string `json:"transaction"`
}

// PaymentPayload is the envelope the client sends back in the X-Payment
// header after signing.
type PaymentPayload struct {
	X402Version int                 `json:"x402Version"`
	Scheme      string              `json:"scheme"`
	Network     string              `json:"network"`
	Payload     *ExactSolanaPayload `json:"payload"`
}

// EncodeToBase64String encodes the payload for the X-Payment header.
func (p *PaymentPayload) EncodeToBase64String() (string, error) {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payment payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(jsonBytes), nil
}

// DecodePaymentPayloadFromBase64 decodes an X-Payment header value.
func DecodePaymentPayloadFromBase64(encoded string) (*PaymentPayload, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 string: %w", err)
	}

	var payload PaymentPayload
	if err := json.Unmarshal(decodedBytes, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment payload: %w", err)
	}

	payload.X402Version = X402Version

	return &payload, nil
}

// PaymentRequired is the 402 response body enumerating acceptable payments.
type PaymentRequired struct {
	X402Version int                    `json:"x402Version"`
	Error       string                 `json:"error,omitempty"`
	Accepts     []*PaymentRequirements `json:"accepts"`
}

// VerifyResponse represents the facilitator's /verify response.
type VerifyResponse struct {
	IsValid       bool    `json:"isValid"`
	InvalidReason *string `json:"invalidReason,omitempty"`
	Payer         *string `json:"payer,omitempty"`
}

// SettleResponse represents the facilitator's /settle response. Transaction
// is the on-chain signature of the settled transfer.
type SettleResponse struct {
	Success     bool    `json:"success"`
	ErrorReason *string `json:"errorReason,omitempty"`
	Transaction string  `json:"transaction"`
	Network     string  `json:"network"`
	Payer       *string `json:"payer,omitempty"`
}

// EncodeToBase64String encodes the settle receipt for the
// X-Payment-Response header.
func (s *SettleResponse) EncodeToBase64String() (string, error) {
	jsonBytes, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to base64 encode the settle response: %w", err)
	}
	return base64.StdEncoding.EncodeToString(jsonBytes), nil
}

// DecodeSettleResponseFromBase64 decodes an X-Payment-Response header value.
func DecodeSettleResponseFromBase64(encoded string) (*SettleResponse, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 string: %w", err)
	}

	var settle SettleResponse
	if err := json.Unmarshal(decodedBytes, &settle); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settle response: %w", err)
	}

	return &settle, nil
}

// VerifyRequest is the request body for the facilitator /verify endpoint.
type VerifyRequest struct {
	X402Version         int                  `json:"x402Version"`
	PaymentPayload      *PaymentPayload      `json:"paymentPayload"`
	PaymentRequirements *PaymentRequirements `json:"paymentRequirements"`
}

// SettleRequest is the request body for the facilitator /settle endpoint.
type SettleRequest struct {
	X402Version         int                  `json:"x402Version"`
	PaymentPayload      *PaymentPayload      `json:"paymentPayload"`
	PaymentRequirements *PaymentRequirements `json:"paymentRequirements"`
}

// SupportedPaymentKind is a scheme-network pair from /supported.
type SupportedPaymentKind struct {
	X402Version int    `json:"x402Version"`
	Scheme      string `json:"scheme"`
	Network     string `json:"network"`
}

// SupportedPaymentKindsResponse is the facilitator /supported response.
type SupportedPaymentKindsResponse struct {
	Kinds []SupportedPaymentKind `json:"kinds"`
}

// FacilitatorConfig configures the facilitator client.
type FacilitatorConfig struct {
	URL               string
	Timeout           func() time.Duration
	CreateAuthHeaders func() (map[string]map[string]string, error)
}
