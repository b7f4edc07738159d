// Command server runs the pay-per-unlock content and quiz server.
package main

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/Samisha68/x402-solana-hackathon/internal/config"
	"github.com/Samisha68/x402-solana-hackathon/internal/server"
	"github.com/Samisha68/x402-solana-hackathon/pkg/facilitatorclient"
	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	log := newLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	facilitator := facilitatorclient.NewFacilitatorClient(&types.FacilitatorConfig{
		URL: cfg.FacilitatorURL,
	})
	logSupportedKinds(log, facilitator, cfg.Network)

	srv := server.New(cfg, log, facilitator)

	log.WithFields(logrus.Fields{
		"listen":      cfg.Listen,
		"network":     cfg.Network,
		"asset":       cfg.Asset,
		"payTo":       cfg.PayTo,
		"facilitator": cfg.FacilitatorURL,
		"priceAtoms":  cfg.PriceAtoms,
	}).Info("starting server")

	if err := srv.Router().Run(cfg.Listen); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}

// logSupportedKinds asks the facilitator what it settles and warns when the
// configured network is not among them. Diagnostics only: a facilitator
// that is down at boot may be back by the first payment.
func logSupportedKinds(log *logrus.Logger, facilitator *facilitatorclient.FacilitatorClient, network string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	supported, err := facilitator.Supported(ctx)
	if err != nil {
		log.WithError(err).Warn("could not query facilitator capabilities")
		return
	}

	found := false
	for _, kind := range supported.Kinds {
		if kind.Network == network && kind.Scheme == types.SchemeExact {
			found = true
		}
	}
	log.WithFields(logrus.Fields{
		"kinds":   len(supported.Kinds),
		"network": network,
	}).Info("facilitator capabilities")
	if !found {
		log.WithField("network", network).Warn("facilitator does not list the configured network")
	}
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}
