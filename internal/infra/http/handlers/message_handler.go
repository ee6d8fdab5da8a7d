package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type messageService interface {
	Execute(ctx context.Context, actingUserID, leadID, body string) error
}

// MessageHandler sends an outbound message to a lead. Advancing the lead
// is the automation engine's business, not this handler's; it only sees
// the outbound_message_sent trigger fire.
type MessageHandler struct {
	Messages messageService
}

func NewMessageHandler(messages messageService) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

func (h *MessageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid JSON"})
		return
	}

	if err := h.Messages.Execute(r.Context(), actingUser(r), chi.URLParam(r, "leadId"), req.Body); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]bool{"sent": true})
}
