package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/awaybot/internal/database"
	"github.com/edgard/awaybot/internal/state"
)

const archiveTimeout = 5 * time.Second

// telegramSender is the subset of the Telegram client the auto-reply path
// uses. *bot.Bot satisfies it.
type telegramSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	ForwardMessage(ctx context.Context, params *bot.ForwardMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendDocument(ctx context.Context, params *bot.SendDocumentParams) (*models.Message, error)
}

type autoReplyHandler struct {
	deps HandlerDeps
}

// NewAutoReplyHandler creates the default handler for non-command messages.
// While offline it answers qualifying events (direct messages, mentions of
// the bot, replies to the bot) with the offline message and records them;
// while online it answers custom command triggers.
func NewAutoReplyHandler(deps HandlerDeps) bot.HandlerFunc {
	return autoReplyHandler{deps}.Handle
}

func (h autoReplyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		h.deps.Logger.DebugContext(ctx, "Ignoring update with nil message or sender", "update_id", update.ID)
		return
	}
	h.process(ctx, b, msg)
}

// process applies the skip rules and dispatches a message to the offline or
// online path.
func (h autoReplyHandler) process(ctx context.Context, tg telegramSender, msg *models.Message) {
	deps := h.deps
	log := deps.Logger.With("handler", "autoreply")

	chatID := msg.Chat.ID
	if msg.From.ID == deps.Config.Telegram.OwnerID || msg.From.IsBot {
		return
	}
	if deps.State.IsDND(chatID) {
		log.DebugContext(ctx, "Chat is on DND list, skipping", "chat_id", chatID)
		return
	}
	if !h.qualifies(msg) {
		return
	}

	if deps.State.IsOffline() {
		h.handleOffline(ctx, tg, msg)
		return
	}
	h.handleTrigger(ctx, tg, msg)
}

// qualifies reports whether a message is a direct message, mentions the bot,
// or replies to one of the bot's messages.
func (h autoReplyHandler) qualifies(msg *models.Message) bool {
	if msg.Chat.Type == models.ChatTypePrivate {
		return true
	}

	botInfo := h.deps.Config.Telegram.BotInfo
	if botInfo == nil {
		return false
	}

	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.ID == botInfo.ID {
		return true
	}

	if botInfo.Username == "" {
		return false
	}
	mention := "@" + strings.ToLower(botInfo.Username)
	text := strings.ToLower(msg.Text + " " + msg.Caption)

	for _, e := range append(msg.Entities, msg.CaptionEntities...) {
		switch e.Type {
		case models.MessageEntityTypeMention:
			if e.Offset >= 0 && e.Length > 0 && e.Offset+e.Length <= len(text) &&
				text[e.Offset:e.Offset+e.Length] == mention {
				return true
			}
		case models.MessageEntityTypeTextMention:
			if e.User != nil && e.User.ID == botInfo.ID {
				return true
			}
		}
	}
	return false
}

func (h autoReplyHandler) handleOffline(ctx context.Context, tg telegramSender, msg *models.Message) {
	deps := h.deps
	log := deps.Logger.With("handler", "autoreply")
	chatID := msg.Chat.ID

	reply, ok := deps.State.AutoreplyFor(chatID)
	if !ok {
		reply = deps.State.OfflineMessage()
	}
	if reply == "" {
		reply = deps.Config.Messages.OfflineDefault
	}

	log.InfoContext(ctx, "Sending offline auto-reply",
		"chat_id", chatID, "user_id", msg.From.ID)

	_, err := tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            reply,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send offline auto-reply", "error", err, "chat_id", chatID)
	}

	eventTime := time.Unix(int64(msg.Date), 0)
	deps.State.RecordMention(state.MentionRecord{
		From:      senderName(msg.From),
		Text:      messageText(msg),
		Timestamp: eventTime.UTC().Format(time.RFC3339),
	})

	aCtx, cancel := context.WithTimeout(ctx, archiveTimeout)
	defer cancel()
	archiveErr := deps.Archive.SaveMention(aCtx, &database.Mention{
		ChatID:    chatID,
		UserID:    msg.From.ID,
		Sender:    senderName(msg.From),
		Content:   messageText(msg),
		Timestamp: eventTime.UTC(),
	})
	if archiveErr != nil {
		log.ErrorContext(ctx, "Failed to archive mention", "error", archiveErr, "chat_id", chatID)
	}

	h.forwardToTarget(ctx, tg, msg)
}

// forwardToTarget forwards the triggering message to the configured target
// chat (the owner's by default) with an attribution note.
func (h autoReplyHandler) forwardToTarget(ctx context.Context, tg telegramSender, msg *models.Message) {
	deps := h.deps
	log := deps.Logger.With("handler", "autoreply")
	target := deps.Config.Telegram.TargetChat()

	_, err := tg.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     target,
		FromChatID: msg.Chat.ID,
		MessageID:  msg.ID,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to forward message to target chat",
			"error", err, "target_chat_id", target)
		return
	}

	note := fmt.Sprintf(deps.Config.Messages.ForwardNote, senderName(msg.From), msg.From.ID)
	if _, err := tg.SendMessage(ctx, &bot.SendMessageParams{ChatID: target, Text: note}); err != nil {
		log.ErrorContext(ctx, "Failed to send forward note", "error", err, "target_chat_id", target)
	}
}

func (h autoReplyHandler) handleTrigger(ctx context.Context, tg telegramSender, msg *models.Message) {
	deps := h.deps
	log := deps.Logger.With("handler", "autoreply")
	chatID := msg.Chat.ID

	trigger, cmd, found := matchTrigger(messageText(msg),
		deps.State.Commands(), deps.State.CaseSensitiveCommands())
	if !found {
		return
	}

	log.InfoContext(ctx, "Custom command trigger matched",
		"chat_id", chatID, "trigger", trigger, "type", cmd.Type)

	var err error
	switch cmd.Type {
	case state.CommandMedia:
		err = h.sendMedia(ctx, tg, chatID, msg.ID, cmd)
	default:
		_, err = tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          chatID,
			Text:            cmd.Content,
			ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
		})
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to send custom command reply",
			"error", err, "chat_id", chatID, "trigger", trigger)
	}
}

func (h autoReplyHandler) sendMedia(ctx context.Context, tg telegramSender, chatID int64, replyTo int, cmd state.CustomCommand) error {
	replyParams := &models.ReplyParameters{MessageID: replyTo}
	if cmd.MediaKind == "photo" {
		_, err := tg.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:          chatID,
			Photo:           &models.InputFileString{Data: cmd.Content},
			Caption:         cmd.Caption,
			ReplyParameters: replyParams,
		})
		return err
	}
	_, err := tg.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID:          chatID,
		Document:        &models.InputFileString{Data: cmd.Content},
		Caption:         cmd.Caption,
		ReplyParameters: replyParams,
	})
	return err
}

// senderName builds a display name for a sender: first name plus @username
// when available, otherwise the numeric ID.
func senderName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName)
	if u.Username != "" {
		if name != "" {
			return name + " (@" + u.Username + ")"
		}
		return "@" + u.Username
	}
	if name == "" {
		return fmt.Sprintf("id:%d", u.ID)
	}
	return name
}

// messageText returns the message text, falling back to the media caption.
func messageText(msg *models.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}
