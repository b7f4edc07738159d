package gate

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

// paymentPayloadSchema is the JSON Schema a decoded X-Payment header must
// satisfy before it is forwarded to the facilitator.
const paymentPayloadSchema = `{
	"type": "object",
	"required": ["x402Version", "scheme", "network", "payload"],
	"properties": {
		"x402Version": {"type": "integer", "minimum": 1},
		"scheme": {"type": "string", "minLength": 1},
		"network": {"type": "string", "minLength": 1},
		"payload": {
			"type": "object",
			"required": ["transaction"],
			"properties": {
				"transaction": {"type": "string", "minLength": 1}
			}
		}
	}
}`

var compiledPaymentSchema = gojsonschema.NewStringLoader(paymentPayloadSchema)

// DecodeAndValidatePaymentHeader decodes a base64 X-Payment header and
// validates the JSON against the payment payload schema.
func DecodeAndValidatePaymentHeader(header string) (*types.PaymentPayload, error) {
	decoded, err := base64.StdEncoding.DecodeString(header)
	if err != nil {
		return nil, fmt.Errorf("invalid payment header: base64 decoding failed: %w", err)
	}

	result, err := gojsonschema.Validate(compiledPaymentSchema, gojsonschema.NewBytesLoader(decoded))
	if err != nil {
		return nil, fmt.Errorf("invalid payment header: %w", err)
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, fmt.Errorf("invalid payment header: %s", strings.Join(reasons, "; "))
	}

	return types.DecodePaymentPayloadFromBase64(header)
}
