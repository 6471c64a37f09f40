package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewGetMentionsHandler returns a handler for the /getmentions command. It
// formats the capped mention log from the state file; an empty log yields the
// no-mentions reply rather than an error.
func NewGetMentionsHandler(deps HandlerDeps) bot.HandlerFunc {
	return getMentionsHandler{deps}.Handle
}

type getMentionsHandler struct {
	deps HandlerDeps
}

func (h getMentionsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "getmentions")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Getmentions handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	mentions := h.deps.State.Mentions()
	log.InfoContext(ctx, "Owner requested mention log", "chat_id", chatID, "count", len(mentions))

	if len(mentions) == 0 {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.NoMentions)
		return
	}

	sendReply(ctx, b, log, chatID, formatMentions(h.deps.Config.Messages.MentionsHeader, mentions))
}
