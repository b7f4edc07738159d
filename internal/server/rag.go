package server

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"

	"github.com/Samisha68/x402-solana-hackathon/internal/kb"
	"github.com/Samisha68/x402-solana-hackathon/pkg/gate"
)

type previewRequest struct {
	Question string `json:"question" binding:"required"`
}

// handlePreview matches a free-form question against the knowledge base and
// returns the free preview sentence. No payment involved.
func (s *Server) handlePreview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.log, errValidation("question is required"))
		return
	}

	entry, ok := kb.FindBestMatch(req.Question)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"type":    "no_match",
			"message": "that question is not in the knowledge base",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type":    "preview",
		"id":      entry.ID,
		"preview": entry.Preview,
	})
}

type answerRequest struct {
	ID string `json:"id" binding:"required"`
}

// handleAnswer serves the full answer for an entry. The route is payment
// gated: reaching this handler means the facilitator already settled.
func (s *Server) handleAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, s.log, errValidation("id is required"))
		return
	}

	entry, ok := kb.ByID(req.ID)
	if !ok {
		respondError(c, s.log, errNotFound("unknown entry id"))
		return
	}

	txSig := ""
	if settle := gate.SettleFromContext(c); settle != nil {
		txSig = settle.Transaction
	}

	c.JSON(http.StatusOK, gin.H{
		"type":       "answer",
		"id":         entry.ID,
		"topic":      entry.Topic,
		"answerMd":   entry.AnswerMD,
		"answerHtml": renderMarkdown(entry.AnswerMD),
		"txSig":      txSig,
	})
}

type catalogItem struct {
	ID    string `json:"id"`
	Q     string `json:"q"`
	Topic string `json:"topic,omitempty"`
}

// handleCatalog returns the level and topic views over the full record set.
func (s *Server) handleCatalog(c *gin.Context) {
	type levelView struct {
		Level int           `json:"level"`
		Name  string        `json:"name"`
		Items []catalogItem `json:"items"`
	}
	type topicView struct {
		Title string        `json:"title"`
		Items []catalogItem `json:"items"`
	}

	levels := make([]levelView, 0, len(kb.Levels()))
	for _, level := range kb.Levels() {
		view := levelView{Level: level, Name: kb.LevelName(level), Items: []catalogItem{}}
		for _, e := range kb.ByLevel(level) {
			view.Items = append(view.Items, catalogItem{ID: e.ID, Q: e.Question, Topic: e.Topic})
		}
		levels = append(levels, view)
	}

	topics := make([]topicView, 0, len(kb.Topics()))
	for _, topic := range kb.Topics() {
		view := topicView{Title: topic, Items: []catalogItem{}}
		for _, e := range kb.ByTopic(topic) {
			view.Items = append(view.Items, catalogItem{ID: e.ID, Q: e.Question})
		}
		topics = append(topics, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"levels": levels,
		"topics": topics,
		"count":  len(kb.Entries()),
	})
}

// handleDaily returns the deterministic daily challenge entry for the
// current UTC date.
func (s *Server) handleDaily(c *gin.Context) {
	entry := kb.DailyPick(s.now())
	c.JSON(http.StatusOK, gin.H{
		"id":    entry.ID,
		"q":     entry.Question,
		"topic": entry.Topic,
	})
}

func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}
