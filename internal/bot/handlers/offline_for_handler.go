package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewOfflineForHandler returns a handler for the /offline_for command, which
// enables offline mode for a fixed duration. The expiry task flips the bot
// back online once the window passes.
func NewOfflineForHandler(deps HandlerDeps) bot.HandlerFunc {
	return offlineForHandler{deps}.Handle
}

type offlineForHandler struct {
	deps HandlerDeps
}

func (h offlineForHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "offline_for")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Offline_for handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	duration, message, err := parseOfflineFor(commandArgs(update.Message.Text))
	if err != nil {
		log.InfoContext(ctx, "Malformed /offline_for command", "chat_id", chatID, "error", err)
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageOfflineFor)
		return
	}
	if message == "" {
		message = h.deps.Config.Messages.OfflineDefault
	}

	until := time.Now().Add(duration)
	h.deps.State.SetOffline(message, until)
	log.InfoContext(ctx, "Timed offline mode enabled",
		"chat_id", chatID, "until", until, "offline_message", message)

	sendReply(ctx, b, log, chatID, fmt.Sprintf("Offline mode enabled until %s.\nMessage: %s",
		until.Format("2006-01-02 15:04:05"), message))
}
