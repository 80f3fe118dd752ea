package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/progress-bot/internal/bot"
	"github.com/yukikurage/progress-bot/internal/dto"
	apierrors "github.com/yukikurage/progress-bot/internal/errors"
)

// WebhookHandler feeds chat transport events to the bot.
type WebhookHandler struct {
	bot *bot.Bot
}

func NewWebhookHandler(b *bot.Bot) *WebhookHandler {
	return &WebhookHandler{bot: b}
}

// HandleEvent processes one event and answers with the bot's reply.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	var event dto.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid event", err.Error())
		return
	}
	if event.Type == dto.EventButtonPress && event.Token == "" {
		apierrors.BadRequest(c, "Button press without token")
		return
	}

	reply := h.bot.Handle(c.Request.Context(), event)
	log.Printf("Session %s: %s event answered with %d message(s)", event.SessionID, event.Type, len(reply.Messages))
	c.JSON(http.StatusOK, reply)
}
