package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const ownerHelpText = `Owner commands:

Offline/online mode:
- /offline [message]: go offline with an optional message
- /offline_for <number> <unit> [message]: go offline for a duration (units: m, h, d)
- /online: go online
- /getmentions: show the last 10 mentions received while offline
- /history [count]: show archived mentions

Do not disturb:
- /dnd <chat_id>: never auto-reply in a chat
- /undnd <chat_id>: remove a chat from the DND list
- /list_dnd: list DND chats

Specific auto-replies:
- /set_autoreply <chat_id> | <message>: per-chat offline message
- /del_autoreply <chat_id>: delete a per-chat offline message
- /list_autoreplies: list per-chat offline messages

Custom commands:
- /set_command <trigger> | <reply>: text trigger answered while online
- /set_command_media <trigger> | [caption]: reply to a photo/document to set it as a response
- /del_command <trigger>: delete a custom command
- /list_commands: list custom commands
- /set_case_sensitive <on|off>: toggle trigger case sensitivity

Utilities:
- /status: uptime and current state
- /help_owner: this message`

// NewHelpHandler returns a handler for the public /help command.
func NewHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return helpHandler{deps}.Handle
}

type helpHandler struct {
	deps HandlerDeps
}

func (h helpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Help handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	sendReply(ctx, b, log, update.Message.Chat.ID, h.deps.Config.Messages.Help)
}

// NewOwnerHelpHandler returns a handler for the /help_owner command.
func NewOwnerHelpHandler(deps HandlerDeps) bot.HandlerFunc {
	return ownerHelpHandler{deps}.Handle
}

type ownerHelpHandler struct {
	deps HandlerDeps
}

func (h ownerHelpHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "help_owner")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Owner help handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	sendReply(ctx, b, log, update.Message.Chat.ID, ownerHelpText)
}
