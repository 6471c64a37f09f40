package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/awaybot/internal/state"
)

// NewSetCommandHandler returns a handler for the /set_command command, which
// defines a text trigger answered while online.
func NewSetCommandHandler(deps HandlerDeps) bot.HandlerFunc {
	return setCommandHandler{deps}.Handle
}

type setCommandHandler struct {
	deps HandlerDeps
}

func (h setCommandHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_command")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set command handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	trigger, reply, found := splitPipeArgs(commandArgs(update.Message.Text))
	if !found || trigger == "" || reply == "" {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageSetCommand)
		return
	}

	h.deps.State.SetCommand(trigger, state.CustomCommand{Type: state.CommandText, Content: reply})
	log.InfoContext(ctx, "Custom text command set", "trigger", trigger)
	sendReply(ctx, b, log, chatID,
		fmt.Sprintf("Custom text command set!\nTrigger: %s\nReply: %s", trigger, reply))
}

// NewSetCommandMediaHandler returns a handler for the /set_command_media
// command. It must be sent as a reply to the photo or document that should
// become the response; the stored content is the Telegram file ID.
func NewSetCommandMediaHandler(deps HandlerDeps) bot.HandlerFunc {
	return setCommandMediaHandler{deps}.Handle
}

type setCommandMediaHandler struct {
	deps HandlerDeps
}

func (h setCommandMediaHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_command_media")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set command media handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	replied := update.Message.ReplyToMessage
	if replied == nil {
		sendReply(ctx, b, log, chatID, "Reply to the photo or document you want to set as a response.")
		return
	}

	fileID, kind := mediaFileID(replied)
	if fileID == "" {
		sendReply(ctx, b, log, chatID, "The replied message does not contain a usable photo or document.")
		return
	}

	trigger, caption, _ := splitPipeArgs(commandArgs(update.Message.Text))
	if trigger == "" {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageSetCommandMedia)
		return
	}

	h.deps.State.SetCommand(trigger, state.CustomCommand{
		Type:      state.CommandMedia,
		Content:   fileID,
		Caption:   caption,
		MediaKind: kind,
	})
	log.InfoContext(ctx, "Custom media command set", "trigger", trigger)
	sendReply(ctx, b, log, chatID,
		fmt.Sprintf("Custom media command set!\nTrigger: %s\nCaption: %s", trigger, caption))
}

// mediaFileID extracts a reusable file ID from a message: the largest photo
// size, or the document (which covers videos, files and GIFs).
func mediaFileID(msg *models.Message) (fileID, kind string) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, "photo"
	}
	if msg.Document != nil {
		return msg.Document.FileID, "document"
	}
	return "", ""
}

// NewDelCommandHandler returns a handler for the /del_command command.
func NewDelCommandHandler(deps HandlerDeps) bot.HandlerFunc {
	return delCommandHandler{deps}.Handle
}

type delCommandHandler struct {
	deps HandlerDeps
}

func (h delCommandHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "del_command")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Del command handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	trigger := commandArgs(update.Message.Text)
	if trigger == "" {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageDelCommand)
		return
	}

	if !h.deps.State.DeleteCommand(trigger) {
		sendReply(ctx, b, log, chatID, fmt.Sprintf("Custom command %q not found.", trigger))
		return
	}
	log.InfoContext(ctx, "Custom command deleted", "trigger", trigger)
	sendReply(ctx, b, log, chatID, fmt.Sprintf("Custom command %q deleted.", trigger))
}

// NewListCommandsHandler returns a handler for the /list_commands command.
// It is the one custom-command operation open to everyone, so users can see
// which triggers the bot answers while online.
func NewListCommandsHandler(deps HandlerDeps) bot.HandlerFunc {
	return listCommandsHandler{deps}.Handle
}

type listCommandsHandler struct {
	deps HandlerDeps
}

func (h listCommandsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "list_commands")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "List commands handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	commands := h.deps.State.Commands()
	if len(commands) == 0 {
		sendReply(ctx, b, log, chatID, "No custom commands set yet.")
		return
	}

	triggers := make([]string, 0, len(commands))
	for t := range commands {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)

	var sb strings.Builder
	sb.WriteString("Current custom commands:")
	for _, t := range triggers {
		cmd := commands[t]
		switch cmd.Type {
		case state.CommandMedia:
			sb.WriteString(fmt.Sprintf("\n- %s -> media (caption: %s)", t, cmd.Caption))
		default:
			sb.WriteString(fmt.Sprintf("\n- %s -> %s", t, cmd.Content))
		}
	}
	sendReply(ctx, b, log, chatID, sb.String())
}

// NewSetCaseSensitiveHandler returns a handler for the /set_case_sensitive
// command, which toggles custom trigger matching between case-sensitive and
// case-insensitive.
func NewSetCaseSensitiveHandler(deps HandlerDeps) bot.HandlerFunc {
	return setCaseSensitiveHandler{deps}.Handle
}

type setCaseSensitiveHandler struct {
	deps HandlerDeps
}

func (h setCaseSensitiveHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "set_case_sensitive")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Set case sensitive handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	switch strings.ToLower(commandArgs(update.Message.Text)) {
	case "on":
		h.deps.State.SetCaseSensitiveCommands(true)
		sendReply(ctx, b, log, chatID, "Custom commands are now case-sensitive.")
	case "off":
		h.deps.State.SetCaseSensitiveCommands(false)
		sendReply(ctx, b, log, chatID, "Custom commands are now case-insensitive.")
	default:
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageCaseSensitive)
	}
}
