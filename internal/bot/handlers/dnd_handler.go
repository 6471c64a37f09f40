package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewDNDHandler returns a handler for the /dnd command, which adds a chat to
// the do-not-disturb list so the auto-reply never fires there.
func NewDNDHandler(deps HandlerDeps) bot.HandlerFunc {
	return dndHandler{deps}.Handle
}

type dndHandler struct {
	deps HandlerDeps
}

func (h dndHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "dnd")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "DND handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	target, err := parseChatIDArg(commandArgs(update.Message.Text))
	if err != nil {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageDND)
		return
	}

	if !h.deps.State.AddDND(target) {
		sendReply(ctx, b, log, chatID, fmt.Sprintf("Chat %d is already on the DND list.", target))
		return
	}
	log.InfoContext(ctx, "Chat added to DND list", "target_chat_id", target)
	sendReply(ctx, b, log, chatID, fmt.Sprintf("Added chat %d to the DND list.", target))
}

// NewUnDNDHandler returns a handler for the /undnd command.
func NewUnDNDHandler(deps HandlerDeps) bot.HandlerFunc {
	return unDNDHandler{deps}.Handle
}

type unDNDHandler struct {
	deps HandlerDeps
}

func (h unDNDHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "undnd")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "UnDND handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	target, err := parseChatIDArg(commandArgs(update.Message.Text))
	if err != nil {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageUnDND)
		return
	}

	if !h.deps.State.RemoveDND(target) {
		sendReply(ctx, b, log, chatID, fmt.Sprintf("Chat %d was not on the DND list.", target))
		return
	}
	log.InfoContext(ctx, "Chat removed from DND list", "target_chat_id", target)
	sendReply(ctx, b, log, chatID, fmt.Sprintf("Removed chat %d from the DND list.", target))
}

// NewListDNDHandler returns a handler for the /list_dnd command.
func NewListDNDHandler(deps HandlerDeps) bot.HandlerFunc {
	return listDNDHandler{deps}.Handle
}

type listDNDHandler struct {
	deps HandlerDeps
}

func (h listDNDHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "list_dnd")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "List DND handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	chats := h.deps.State.DNDChats()
	if len(chats) == 0 {
		sendReply(ctx, b, log, chatID, "No chats currently on the DND list.")
		return
	}

	var sb strings.Builder
	sb.WriteString("DND chats:")
	for _, id := range chats {
		sb.WriteString(fmt.Sprintf("\n- %d", id))
	}
	sendReply(ctx, b, log, chatID, sb.String())
}
