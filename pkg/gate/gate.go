// Package gate implements the server-side x402 payment gate: a middleware
// that answers unpaid requests with 402 and machine-readable payment
// requirements, and lets paid requests through only after the facilitator
// has verified and settled the attached payment.
package gate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Samisha68/x402-solana-hackathon/pkg/facilitatorclient"
	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

// SettleContextKey is where the middleware stores the facilitator's settle
// response for the downstream handler.
const SettleContextKey = "x402/settle"

// Options configures the payment gate for one protected route.
type Options struct {
	// Amount is the price in integer atoms of the asset (e.g. micro-USDC).
	Amount uint64
	// PayTo is the resource owner's Solana address.
	PayTo string
	// Asset is the SPL token mint to pay with.
	Asset string
	// Network is the x402 v1 network name ("solana" or "solana-devnet").
	Network string
	// FeePayer is the facilitator's fee payer address, advertised in
	// extra.feePayer. Required: clients cannot build a transaction
	// without it.
	FeePayer string
	// Description is a human-readable description of the resource.
	Description string
	// MimeType of the unlocked resource.
	MimeType string
	// MaxTimeoutSeconds advertised to the facilitator. Defaults to 60.
	MaxTimeoutSeconds int
	// Resource overrides the advertised resource URL. Defaults to the
	// request path.
	Resource string
	// ResourceRootURL is prepended to the request path when Resource is
	// empty.
	ResourceRootURL string
	// Facilitator verifies and settles payments. Defaults to a client for
	// facilitatorclient.DefaultFacilitatorURL.
	Facilitator Facilitator
	// PaywallHTML overrides the built-in HTML page served to browsers.
	PaywallHTML string
	// Logger defaults to the logrus standard logger.
	Logger *logrus.Logger
}

// Facilitator is the subset of the facilitator client the gate needs.
type Facilitator interface {
	Verify(ctx context.Context, payload *types.PaymentPayload, requirements *types.PaymentRequirements) (*types.VerifyResponse, error)
	Settle(ctx context.Context, payload *types.PaymentPayload, requirements *types.PaymentRequirements) (*types.SettleResponse, error)
}

// Requirements computes the payment requirements advertised for a request
// path. This is pure: it allocates a fresh value and has no side effects.
func (o *Options) Requirements(path string) *types.PaymentRequirements {
	resource := o.Resource
	if resource == "" {
		resource = o.ResourceRootURL + path
	}

	timeout := o.MaxTimeoutSeconds
	if timeout == 0 {
		timeout = 60
	}

	return &types.PaymentRequirements{
		Scheme:            types.SchemeExact,
		Network:           o.Network,
		MaxAmountRequired: fmt.Sprintf("%d", o.Amount),
		Resource:          resource,
		Description:       o.Description,
		MimeType:          o.MimeType,
		PayTo:             o.PayTo,
		MaxTimeoutSeconds: timeout,
		Asset:             o.Asset,
		Extra:             &types.PaymentExtra{FeePayer: o.FeePayer},
	}
}

// Middleware returns the gin payment gate for one protected route.
//
// Every request starts unpaid: there is no session-level payment cache, each
// gated call is an independent micropayment. The gate settles before the
// handler runs so an unlocked resource is never served against a payment
// that later fails to land.
func Middleware(opts Options) gin.HandlerFunc {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	facilitator := opts.Facilitator
	if facilitator == nil {
		facilitator = facilitatorclient.NewFacilitatorClient(nil)
	}

	return func(c *gin.Context) {
		requirements := opts.Requirements(c.Request.URL.Path)

		payment := c.GetHeader(types.PaymentHeader)
		if payment == "" {
			respondPaymentRequired(c, &opts, requirements, "X-Payment header is required")
			return
		}

		payload, err := DecodeAndValidatePaymentHeader(payment)
		if err != nil {
			log.WithError(err).Warn("rejected malformed payment header")
			respondPaymentRequired(c, &opts, requirements, err.Error())
			return
		}

		ctx := c.Request.Context()

		if _, err := facilitator.Verify(ctx, payload, requirements); err != nil {
			log.WithError(err).Warn("payment verification failed")
			respondPaymentRequired(c, &opts, requirements, err.Error())
			return
		}

		settle, err := facilitator.Settle(ctx, payload, requirements)
		if err != nil {
			log.WithError(err).Warn("payment settlement failed")
			respondPaymentRequired(c, &opts, requirements, err.Error())
			return
		}

		receipt, err := settle.EncodeToBase64String()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":       "failed to encode settlement receipt",
				"x402Version": types.X402Version,
			})
			return
		}

		log.WithFields(logrus.Fields{
			"resource": requirements.Resource,
			"tx":       settle.Transaction,
		}).Info("payment settled")

		c.Header(types.PaymentResponseHeader, receipt)
		c.Set(SettleContextKey, settle)
		c.Next()
	}
}

// SettleFromContext returns the settle response stored by the middleware,
// or nil when the route was reached without settlement (tests, ungated use).
func SettleFromContext(c *gin.Context) *types.SettleResponse {
	v, ok := c.Get(SettleContextKey)
	if !ok {
		return nil
	}
	settle, _ := v.(*types.SettleResponse)
	return settle
}

func respondPaymentRequired(c *gin.Context, opts *Options, requirements *types.PaymentRequirements, reason string) {
	if isWebBrowser(c) {
		html := opts.PaywallHTML
		if html == "" {
			html = defaultPaywallHTML(requirements)
		}
		c.Abort()
		c.Data(http.StatusPaymentRequired, "text/html; charset=utf-8", []byte(html))
		return
	}

	c.AbortWithStatusJSON(http.StatusPaymentRequired, types.PaymentRequired{
		X402Version: types.X402Version,
		Error:       reason,
		Accepts:     []*types.PaymentRequirements{requirements},
	})
}

func isWebBrowser(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html") &&
		strings.Contains(c.GetHeader("User-Agent"), "Mozilla")
}

func defaultPaywallHTML(requirements *types.PaymentRequirements) string {
	return fmt.Sprintf(
		"<html><body><h1>Payment Required</h1><p>%s atoms of %s to %s on %s.</p></body></html>",
		requirements.MaxAmountRequired, requirements.Asset, requirements.PayTo, requirements.Network,
	)
}
