package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSetAutoreplyHandler returns a handler for the /set_autoreply command,
// which overrides the offline message for one chat.
func NewSetAutoreplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return setAutoreplyHandler{deps}.Handle
}

type setAutoreplyHandler struct {
	deps HandlerDeps
}

func (h setAutoreplyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_autoreply")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set autoreply handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	idArg, message, found := splitPipeArgs(commandArgs(update.Message.Text))
	if !found || message == "" {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageSetAutoreply)
		return
	}
	target, err := parseChatIDArg(idArg)
	if err != nil {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageSetAutoreply)
		return
	}

	h.deps.State.SetAutoreply(target, message)
	log.InfoContext(ctx, "Specific autoreply set", "target_chat_id", target)
	sendReply(ctx, b, log, chatID,
		fmt.Sprintf("Specific auto-reply set for chat %d:\n%s", target, message))
}

// NewDelAutoreplyHandler returns a handler for the /del_autoreply command.
func NewDelAutoreplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return delAutoreplyHandler{deps}.Handle
}

type delAutoreplyHandler struct {
	deps HandlerDeps
}

func (h delAutoreplyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "del_autoreply")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Del autoreply handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	target, err := parseChatIDArg(commandArgs(update.Message.Text))
	if err != nil {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageDelAutoreply)
		return
	}

	if !h.deps.State.DeleteAutoreply(target) {
		sendReply(ctx, b, log, chatID, fmt.Sprintf("No specific auto-reply found for chat %d.", target))
		return
	}
	log.InfoContext(ctx, "Specific autoreply deleted", "target_chat_id", target)
	sendReply(ctx, b, log, chatID, fmt.Sprintf("Specific auto-reply for chat %d deleted.", target))
}

// NewListAutorepliesHandler returns a handler for the /list_autoreplies command.
func NewListAutorepliesHandler(deps HandlerDeps) bot.HandlerFunc {
	return listAutorepliesHandler{deps}.Handle
}

type listAutorepliesHandler struct {
	deps HandlerDeps
}

func (h listAutorepliesHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "list_autoreplies")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "List autoreplies handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	autoreplies := h.deps.State.Autoreplies()
	if len(autoreplies) == 0 {
		sendReply(ctx, b, log, chatID, "No specific auto-replies set.")
		return
	}

	ids := make([]int64, 0, len(autoreplies))
	for id := range autoreplies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var sb strings.Builder
	sb.WriteString("Specific auto-replies:")
	for _, id := range ids {
		sb.WriteString(fmt.Sprintf("\n- chat %d: %s", id, autoreplies[id]))
	}
	sendReply(ctx, b, log, chatID, sb.String())
}
