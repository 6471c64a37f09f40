package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewOnlineHandler returns a handler for the /online command.
func NewOnlineHandler(deps HandlerDeps) bot.HandlerFunc {
	return onlineHandler{deps}.Handle
}

type onlineHandler struct {
	deps HandlerDeps
}

func (h onlineHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "online")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Online handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	h.deps.State.SetOnline()
	log.InfoContext(ctx, "Online mode enabled", "chat_id", update.Message.Chat.ID)

	sendReply(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.OnlineEnabled)
}
