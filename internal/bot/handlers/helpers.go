package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"

	"github.com/edgard/awaybot/internal/state"
)

// commandArgs returns the text after the command token itself, trimmed.
// "/offline back at noon" yields "back at noon"; a bare command yields "".
func commandArgs(text string) string {
	_, rest, found := strings.Cut(text, " ")
	if !found {
		return ""
	}
	return strings.TrimSpace(rest)
}

// parseOfflineFor parses "<number> <unit> [message]" for /offline_for.
// Accepted units are m/minute/minutes, h/hour/hours, and d/day/days.
func parseOfflineFor(args string) (time.Duration, string, error) {
	fields := strings.SplitN(args, " ", 3)
	if len(fields) < 2 {
		return 0, "", fmt.Errorf("expected <number> <unit>, got %q", args)
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, "", fmt.Errorf("invalid duration value %q", fields[0])
	}

	var unit time.Duration
	switch strings.ToLower(fields[1]) {
	case "m", "minute", "minutes":
		unit = time.Minute
	case "h", "hour", "hours":
		unit = time.Hour
	case "d", "day", "days":
		unit = 24 * time.Hour
	default:
		return 0, "", fmt.Errorf("invalid time unit %q", fields[1])
	}

	message := ""
	if len(fields) == 3 {
		message = strings.TrimSpace(fields[2])
	}
	return time.Duration(n) * unit, message, nil
}

// parseChatIDArg parses a numeric chat ID argument.
func parseChatIDArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q", arg)
	}
	return id, nil
}

// splitPipeArgs splits "left | right" arguments used by /set_autoreply and
// /set_command. Both sides are trimmed; found is false without a pipe.
func splitPipeArgs(args string) (left, right string, found bool) {
	left, right, found = strings.Cut(args, "|")
	return strings.TrimSpace(left), strings.TrimSpace(right), found
}

// matchTrigger scans the custom command triggers for a word-boundary match in
// text, longest trigger first so more specific phrases win. Matching is
// lowercased unless case sensitivity is enabled.
func matchTrigger(text string, commands map[string]state.CustomCommand, caseSensitive bool) (string, state.CustomCommand, bool) {
	if len(commands) == 0 {
		return "", state.CustomCommand{}, false
	}
	if !caseSensitive {
		text = strings.ToLower(text)
	}

	triggers := make([]string, 0, len(commands))
	for t := range commands {
		triggers = append(triggers, t)
	}
	sort.Slice(triggers, func(i, j int) bool {
		if len(triggers[i]) != len(triggers[j]) {
			return len(triggers[i]) > len(triggers[j])
		}
		return triggers[i] < triggers[j]
	})

	for _, trigger := range triggers {
		key := trigger
		if !caseSensitive {
			key = strings.ToLower(key)
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(key) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(text) {
			return trigger, commands[trigger], true
		}
	}
	return "", state.CustomCommand{}, false
}

// formatMentions renders the capped mention log for /getmentions, oldest
// first as recorded.
func formatMentions(header string, mentions []state.MentionRecord) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, m := range mentions {
		sb.WriteString(fmt.Sprintf("\n- %s at %s: %s", m.From, m.Timestamp, m.Text))
	}
	return sb.String()
}

// sendReply sends a plain text message to a chat. Send failures are logged
// and dropped, never retried.
func sendReply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}
