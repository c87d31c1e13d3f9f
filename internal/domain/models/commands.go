package models

import "strings"

// CommandType enumerates the herd queries accepted over chat.
type CommandType string

const (
	CommandReport  CommandType = "report"
	CommandLot     CommandType = "lot"
	CommandCattle  CommandType = "cattle"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed query extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form text. The leading slash is
// optional and the verb is case-insensitive; arguments keep their case.
func ParseCommand(message string) Command {
	tokens := strings.Fields(message)
	cmd := Command{Raw: message, Type: CommandUnknown}
	if len(tokens) == 0 {
		return cmd
	}

	switch head := CommandType(strings.ToLower(strings.TrimPrefix(tokens[0], "/"))); head {
	case CommandReport, CommandLot, CommandCattle, CommandHelp:
		cmd.Type = head
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
