package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/stampcard/internal/domain/errors"
	"github.com/polkiloo/stampcard/internal/gateway"
	"github.com/polkiloo/stampcard/internal/server/http/dto"
)

// EventHandler bridges transport webhooks into the event dispatcher.
type EventHandler struct {
	facade EventFacade
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(facade EventFacade) *EventHandler {
	return &EventHandler{facade: facade}
}

// Handle serves POST /api/events.
func (h *EventHandler) Handle(c *gin.Context) {
	var req dto.InboundEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	resp, err := h.facade.Dispatch(c.Request.Context(), gateway.InboundEvent{
		ActorID:     req.ActorID,
		Kind:        gateway.EventKind(req.Kind),
		Payload:     req.Payload,
		DisplayName: req.DisplayName,
		Username:    req.Username,
	})
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidInput) {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, toOutbound(resp))
}

func toOutbound(resp *gateway.Response) dto.OutboundResponse {
	out := dto.OutboundResponse{Text: resp.Text, ImageLink: resp.ImageLink}
	for _, row := range resp.Keyboard {
		buttons := make([]dto.ButtonResponse, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, dto.ButtonResponse{Label: b.Label, Action: b.Action})
		}
		out.Keyboard = append(out.Keyboard, buttons)
	}
	return out
}
