package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const (
	historyDefaultLimit = 10
	historyMaxLimit     = 50
	historyQueryTimeout = 5 * time.Second
)

// NewHistoryHandler returns a handler for the /history command. Unlike
// /getmentions it reads the uncapped SQLite archive, newest first.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return historyHandler{deps}.Handle
}

type historyHandler struct {
	deps HandlerDeps
}

func (h historyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "history")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "History handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	limit := historyDefaultLimit
	if arg := commandArgs(update.Message.Text); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			sendReply(ctx, b, log, chatID, h.deps.Config.Messages.UsageHistory)
			return
		}
		limit = n
	}
	if limit > historyMaxLimit {
		limit = historyMaxLimit
	}

	qCtx, cancel := context.WithTimeout(ctx, historyQueryTimeout)
	defer cancel()

	mentions, err := h.deps.Archive.RecentMentions(qCtx, limit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to fetch mention history", "error", err, "limit", limit)
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if len(mentions) == 0 {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.NoMentions)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Last %d archived mentions:", len(mentions)))
	for _, m := range mentions {
		sender := m.Sender
		if sender == "" {
			sender = strconv.FormatInt(m.UserID, 10)
		}
		sb.WriteString(fmt.Sprintf("\n- %s in chat %d at %s: %s",
			sender, m.ChatID, m.Timestamp.Format("2006-01-02 15:04:05"), m.Content))
	}
	sendReply(ctx, b, log, chatID, sb.String())
}
