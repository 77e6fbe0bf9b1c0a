package telegram

import (
	"strings"
	"unicode/utf8"
)

const (
	commandMaxLength     = 32
	descriptionMaxLength = 256
)

// https://core.telegram.org/bots/api#botcommand
type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// Build bot menu command, Telegram expects command without leading slash.
func NewBotCommand(command string, description string) BotCommand {
	command = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(command), "/"))

	if len(command) > commandMaxLength {
		command = command[:commandMaxLength]
	}

	if utf8.RuneCountInString(description) > descriptionMaxLength {
		description = string([]rune(description)[:descriptionMaxLength])
	}

	return BotCommand{
		Command:     command,
		Description: description,
	}
}
