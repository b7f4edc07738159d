package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Samisha68/x402-solana-hackathon/internal/kb"
	"github.com/Samisha68/x402-solana-hackathon/internal/quiz"
)

// quizTimerSeconds is the client-side countdown per question.
const quizTimerSeconds = 10

// XP awards mirrored in the response bodies: full points for a correct
// answer, consolation points after paying for the explanation.
const (
	quizCorrectXP = 15
	quizSettleXP  = 5
)

// timeoutOption is the sentinel option id a client submits when the timer
// ran out before an answer was picked.
const timeoutOption = "timeout"

// handleQuizQuestion serves a random quiz question for a topic, with the
// options shuffled per request.
func (s *Server) handleQuizQuestion(c *gin.Context) {
	mode := c.DefaultQuery("mode", "topic")
	if mode != "topic" {
		respondError(c, s.log, errValidation("unsupported mode"))
		return
	}

	topic := c.Query("topic")
	if topic == "" {
		respondError(c, s.log, errValidation("topic is required"))
		return
	}

	candidates := kb.QuizByTopic(topic)
	if len(candidates) == 0 {
		respondError(c, s.log, errNotFound("no quiz questions for that topic"))
		return
	}

	entry := candidates[s.rng.Intn(len(candidates))]

	type optionView struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}
	options := make([]optionView, 0, len(entry.QuizOptions))
	for _, o := range entry.QuizOptions {
		options = append(options, optionView{ID: o.ID, Text: o.Text})
	}
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	c.JSON(http.StatusOK, gin.H{
		"id":           entry.ID,
		"question":     entry.Question,
		"options":      options,
		"topic":        entry.Topic,
		"timerSeconds": quizTimerSeconds,
	})
}

type quizSubmitRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	OptionID   string `json:"optionId" binding:"required"`
	SessionID  string `json:"sessionId" binding:"required"`
}

// handleQuizSubmit grades an answer. A wrong answer (or timeout) parks the
// session behind a payment: the full explanation is gated until settled.
func (s *Server) handleQuizSubmit(c *gin.Context) {
	var req quizSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.log, errValidation("questionId, optionId, and sessionId are required"))
		return
	}

	entry, ok := kb.ByID(req.QuestionID)
	if !ok || len(entry.QuizOptions) == 0 {
		respondError(c, s.log, errNotFound("unknown quiz question"))
		return
	}

	correct := false
	if req.OptionID != timeoutOption {
		for _, o := range entry.QuizOptions {
			if o.ID == req.OptionID && o.Correct {
				correct = true
				break
			}
		}
	}

	s.sessions.RecordSubmit(req.SessionID, req.QuestionID, correct)

	if correct {
		c.JSON(http.StatusOK, gin.H{
			"correct":          true,
			"xp":               quizCorrectXP,
			"explanationShort": entry.ExplanationShort,
			"nextUnlocked":     true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"correct":         false,
		"paymentRequired": true,
		"questionId":      req.QuestionID,
		"optionId":        req.OptionID,
	})
}

type quizSettleRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	SessionID  string `json:"sessionId" binding:"required"`
}

// handleQuizSettle serves the full explanation after a wrong answer. The
// route is payment gated; reaching it means the payment settled.
func (s *Server) handleQuizSettle(c *gin.Context) {
	var req quizSettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.log, errValidation("questionId and sessionId are required"))
		return
	}

	entry, ok := kb.ByID(req.QuestionID)
	if !ok || len(entry.QuizOptions) == 0 {
		respondError(c, s.log, errNotFound("unknown quiz question"))
		return
	}

	s.sessions.RecordSettle(req.SessionID, req.QuestionID)

	c.JSON(http.StatusOK, gin.H{
		"correct":         false,
		"xp":              quizSettleXP,
		"explanationFull": entry.ExplanationFull,
		"paymentSettled":  true,
	})
}

type quizNextRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// handleQuizNext clears the session so the next question can start, unless
// a wrong answer's payment is still pending.
func (s *Server) handleQuizNext(c *gin.Context) {
	var req quizNextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.log, errValidation("sessionId is required"))
		return
	}

	if err := s.sessions.Advance(req.SessionID); err != nil {
		if errors.Is(err, quiz.ErrPendingPayment) {
			respondError(c, s.log, errConflict("pending_payment"))
			return
		}
		respondError(c, s.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"nextUnlocked": true,
	})
}
