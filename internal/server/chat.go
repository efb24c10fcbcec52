package server

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// pipeline is the orchestrator surface the handler needs.
type pipeline interface {
	Handle(ctx context.Context, query, sessionID string) (string, error)
}

type ChatHandler struct {
	Orchestrator pipeline
	Logger       *log.Logger
}

// Chat handles POST /api/chat. Pipeline failures become a generic server
// error; no internal detail is leaked to the client.
func (h *ChatHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "メッセージが空です")
	}
	if req.SessionID == "" {
		req.SessionID = "default"
	}

	reply, err := h.Orchestrator.Handle(c.Request().Context(), req.Message, req.SessionID)
	if err != nil {
		h.Logger.Printf("error generating response: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "サーバーエラーが発生しました")
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
