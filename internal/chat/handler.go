package chat

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zornetta/Chatbot-Barista/internal/dialogue"
	"github.com/Zornetta/Chatbot-Barista/internal/order"
)

// Handler exposes the conversation over HTTP. One POST per turn; the
// session id in the reply keys the follow-up turns.
type Handler struct {
	sessions *dialogue.Sessions
}

func NewHandler(sessions *dialogue.Sessions) *Handler {
	return &Handler{sessions: sessions}
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID        string          `json:"session_id"`
	Text             string          `json:"text"`
	SuggestedActions []string        `json:"suggested_actions,omitempty"`
	Order            *order.Snapshot `json:"order,omitempty"`
}

func (h *Handler) Converse(c *gin.Context) {
	var req chatRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "invalid request",
		})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "message is required",
		})
		return
	}

	sessionID, resp := h.sessions.Converse(c.Request.Context(), req.SessionID, req.Message)

	c.JSON(http.StatusOK, chatResponse{
		SessionID:        sessionID,
		Text:             resp.Text,
		SuggestedActions: resp.SuggestedActions,
		Order:            resp.Order,
	})
}

func (h *Handler) EndSession(c *gin.Context) {
	h.sessions.End(c.Param("id"))
	c.Status(http.StatusNoContent)
}
