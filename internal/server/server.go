// Package server wires the pay-per-unlock HTTP surface: free preview,
// catalog, and daily routes, quiz routes, and the payment-gated answer,
// settle, and unlock routes.
package server

import (
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Samisha68/x402-solana-hackathon/internal/config"
	"github.com/Samisha68/x402-solana-hackathon/internal/quiz"
	"github.com/Samisha68/x402-solana-hackathon/pkg/facilitatorclient"
	"github.com/Samisha68/x402-solana-hackathon/pkg/gate"
	"github.com/Samisha68/x402-solana-hackathon/pkg/types"
)

// Server holds the handlers' shared state.
type Server struct {
	cfg         config.Config
	log         *logrus.Logger
	sessions    *quiz.Store
	facilitator gate.Facilitator
	now         func() time.Time
	rng         *rand.Rand
}

// New creates a server. A nil facilitator uses the default client for
// cfg.FacilitatorURL inside the gate middleware.
func New(cfg config.Config, log *logrus.Logger, facilitator gate.Facilitator) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if facilitator == nil {
		facilitator = facilitatorclient.NewFacilitatorClient(&types.FacilitatorConfig{
			URL: cfg.FacilitatorURL,
		})
	}
	return &Server{
		cfg:         cfg,
		log:         log,
		sessions:    quiz.NewStore(),
		facilitator: facilitator,
		now:         time.Now,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(s.log))

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rag := router.Group("/rag")
	{
		rag.POST("/preview", s.handlePreview)
		rag.POST("/answer", s.gated("Full answer unlock", "application/json"), s.handleAnswer)
		rag.GET("/catalog", s.handleCatalog)
		rag.GET("/daily", s.handleDaily)
	}

	quizGroup := router.Group("/quiz")
	{
		quizGroup.GET("/question", s.handleQuizQuestion)
		quizGroup.POST("/submit", s.handleQuizSubmit)
		quizGroup.POST("/settle", s.gated("Wrong-answer explanation unlock", "application/json"), s.handleQuizSettle)
		quizGroup.POST("/next", s.handleQuizNext)
	}

	router.GET("/unlock", s.gated("Content unlock", "application/json"), s.handleUnlock)

	return router
}

// gated returns the payment gate configured for one protected route.
func (s *Server) gated(description, mimeType string) gin.HandlerFunc {
	return gate.Middleware(gate.Options{
		Amount:      s.cfg.PriceAtoms,
		PayTo:       s.cfg.PayTo,
		Asset:       s.cfg.Asset,
		Network:     s.cfg.Network,
		FeePayer:    s.cfg.FeePayer,
		Description: description,
		MimeType:    mimeType,
		Facilitator: s.facilitator,
		Logger:      s.log,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleUnlock(c *gin.Context) {
	c.JSON(200, gin.H{
		"ok":      true,
		"content": s.cfg.UnlockContentURL,
	})
}
