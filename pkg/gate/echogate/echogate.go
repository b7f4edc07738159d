// Package echogate adapts the x402 payment gate to Echo, for services that
// prefer Echo over gin. Semantics match gate.Middleware: 402 with accepts[]
// until the facilitator has verified and settled the attached payment.
package echogate

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Samisha68/x402-solana-hackathon/pkg/facilitatorclient"
	"github.com/Samisha68/x402-solana-hackathon/pkg/gate"
	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

// SettleContextKey is where the middleware stores the settle response.
const SettleContextKey = "x402/settle"

// Middleware returns the Echo payment gate for one protected route.
func Middleware(opts gate.Options) echo.MiddlewareFunc {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	facilitator := opts.Facilitator
	if facilitator == nil {
		facilitator = facilitatorclient.NewFacilitatorClient(nil)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requirements := opts.Requirements(c.Request().URL.Path)

			payment := c.Request().Header.Get(types.PaymentHeader)
			if payment == "" {
				return respondPaymentRequired(c, requirements, "X-Payment header is required")
			}

			payload, err := gate.DecodeAndValidatePaymentHeader(payment)
			if err != nil {
				log.WithError(err).Warn("rejected malformed payment header")
				return respondPaymentRequired(c, requirements, err.Error())
			}

			ctx := c.Request().Context()

			if _, err := facilitator.Verify(ctx, payload, requirements); err != nil {
				log.WithError(err).Warn("payment verification failed")
				return respondPaymentRequired(c, requirements, err.Error())
			}

			settle, err := facilitator.Settle(ctx, payload, requirements)
			if err != nil {
				log.WithError(err).Warn("payment settlement failed")
				return respondPaymentRequired(c, requirements, err.Error())
			}

			receipt, err := settle.EncodeToBase64String()
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to encode settlement receipt")
			}

			c.Response().Header().Set(types.PaymentResponseHeader, receipt)
			c.Set(SettleContextKey, settle)
			return next(c)
		}
	}
}

// SettleFromContext returns the settle response stored by the middleware.
func SettleFromContext(c echo.Context) *types.SettleResponse {
	settle, _ := c.Get(SettleContextKey).(*types.SettleResponse)
	return settle
}

func respondPaymentRequired(c echo.Context, requirements *types.PaymentRequirements, reason string) error {
	req := c.Request()
	if strings.Contains(req.Header.Get("Accept"), "text/html") &&
		strings.Contains(req.Header.Get("User-Agent"), "Mozilla") {
		return c.HTML(http.StatusPaymentRequired, "<html><body><h1>Payment Required</h1></body></html>")
	}

	return c.JSON(http.StatusPaymentRequired, types.PaymentRequired{
		X402Version: types.X402Version,
		Error:       reason,
		Accepts:     []*types.PaymentRequirements{requirements},
	})
}
