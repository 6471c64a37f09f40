package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatusHandler returns a handler for the /status command: current mode,
// uptime, and the sizes of the owner-managed lists and the mention archive.
func NewStatusHandler(deps HandlerDeps) bot.HandlerFunc {
	return statusHandler{deps}.Handle
}

type statusHandler struct {
	deps HandlerDeps
}

func (h statusHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "status")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Status handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	var sb strings.Builder
	if h.deps.State.IsOffline() {
		sb.WriteString("Bot status: Offline\n")
		if until, ok := h.deps.State.OfflineUntil(); ok {
			sb.WriteString(fmt.Sprintf("Offline until: %s\n", until.Local().Format("2006-01-02 15:04:05")))
		}
	} else {
		sb.WriteString("Bot status: Online\n")
	}

	sb.WriteString(fmt.Sprintf("Uptime: %s\n", formatUptime(time.Since(h.deps.StartedAt))))
	sb.WriteString(fmt.Sprintf("Logged mentions: %d\n", len(h.deps.State.Mentions())))
	sb.WriteString(fmt.Sprintf("DND chats: %d\n", len(h.deps.State.DNDChats())))
	sb.WriteString(fmt.Sprintf("Specific auto-replies: %d\n", len(h.deps.State.Autoreplies())))
	sb.WriteString(fmt.Sprintf("Custom commands: %d (case-sensitive: %t)\n",
		len(h.deps.State.Commands()), h.deps.State.CaseSensitiveCommands()))

	qCtx, cancel := context.WithTimeout(ctx, historyQueryTimeout)
	defer cancel()
	if count, err := h.deps.Archive.CountMentions(qCtx); err != nil {
		log.ErrorContext(ctx, "Failed to count archived mentions", "error", err)
	} else {
		sb.WriteString(fmt.Sprintf("Archived mentions: %d\n", count))
	}

	sendReply(ctx, b, log, chatID, strings.TrimRight(sb.String(), "\n"))
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
}
