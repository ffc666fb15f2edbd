package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fastseller/fastseller/internal/message"
)

// GetMessages handles GET /api/messages/:conversation.
func (a *API) GetMessages(c echo.Context) error {
	msgs, err := a.Messages.Conversation(c.Param("conversation"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": msgs})
}

// SendMessage handles POST /api/messages/:conversation. The sender is the
// authenticated username when available.
func (a *API) SendMessage(c echo.Context) error {
	var req struct {
		From string `json:"from"`
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "testo mancante"})
	}

	from := req.From
	if u := a.currentUser(c); u != nil {
		from = u.Username
	}
	if from == "" {
		from = "anonimo"
	}

	msg, err := a.Messages.Send(c.Param("conversation"), from, req.Text)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": msg})
}

// AssistantReply handles POST /api/support/assistant with the chat history
// and returns the deterministic canned reply.
func (a *API) AssistantReply(c echo.Context) error {
	var req struct {
		History []message.ChatMessage `json:"history"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payload non valido"})
	}
	reply := message.AssistantReply(req.History)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"reply": reply}})
}
