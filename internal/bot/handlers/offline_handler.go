package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewOfflineHandler returns a handler for the /offline command. The optional
// argument becomes the auto-reply message; without one the configured default
// is used.
func NewOfflineHandler(deps HandlerDeps) bot.HandlerFunc {
	return offlineHandler{deps}.Handle
}

type offlineHandler struct {
	deps HandlerDeps
}

func (h offlineHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "offline")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Offline handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	message := commandArgs(update.Message.Text)
	if message == "" {
		message = h.deps.Config.Messages.OfflineDefault
	}

	h.deps.State.SetOffline(message, time.Time{})
	log.InfoContext(ctx, "Offline mode enabled",
		"chat_id", update.Message.Chat.ID, "offline_message", message)

	sendReply(ctx, b, log, update.Message.Chat.ID,
		fmt.Sprintf(h.deps.Config.Messages.OfflineEnabled, message))
}
