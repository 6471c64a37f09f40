package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its pattern and
// middleware. It encapsulates all information needed to register a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot
// commands. Control commands are wrapped in the OwnerOnly middleware; /help
// and /list_commands are open to everyone.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
		return RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	handlers["/help"] = command("help", NewHelpHandler(deps))
	handlers["/list_commands"] = command("list_commands", NewListCommandsHandler(deps))

	ownerOnly := OwnerOnly(deps)

	handlers["/offline"] = command("offline", NewOfflineHandler(deps), ownerOnly)
	handlers["/offline_for"] = command("offline_for", NewOfflineForHandler(deps), ownerOnly)
	handlers["/online"] = command("online", NewOnlineHandler(deps), ownerOnly)
	handlers["/getmentions"] = command("getmentions", NewGetMentionsHandler(deps), ownerOnly)
	handlers["/history"] = command("history", NewHistoryHandler(deps), ownerOnly)

	handlers["/dnd"] = command("dnd", NewDNDHandler(deps), ownerOnly)
	handlers["/undnd"] = command("undnd", NewUnDNDHandler(deps), ownerOnly)
	handlers["/list_dnd"] = command("list_dnd", NewListDNDHandler(deps), ownerOnly)

	handlers["/set_autoreply"] = command("set_autoreply", NewSetAutoreplyHandler(deps), ownerOnly)
	handlers["/del_autoreply"] = command("del_autoreply", NewDelAutoreplyHandler(deps), ownerOnly)
	handlers["/list_autoreplies"] = command("list_autoreplies", NewListAutorepliesHandler(deps), ownerOnly)

	handlers["/set_command"] = command("set_command", NewSetCommandHandler(deps), ownerOnly)
	handlers["/set_command_media"] = command("set_command_media", NewSetCommandMediaHandler(deps), ownerOnly)
	handlers["/del_command"] = command("del_command", NewDelCommandHandler(deps), ownerOnly)
	handlers["/set_case_sensitive"] = command("set_case_sensitive", NewSetCaseSensitiveHandler(deps), ownerOnly)

	handlers["/status"] = command("status", NewStatusHandler(deps), ownerOnly)
	handlers["/help_owner"] = command("help_owner", NewOwnerHelpHandler(deps), ownerOnly)

	return handlers
}
