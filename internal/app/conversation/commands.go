package conversation

import (
	"searchbot/internal/app/helpers"
	"strconv"
)

const (
	CommandStart   = "/start"
	CommandRestart = "/restart"
	CommandHelp    = "/help"
	CommandStop    = "/stop"
)

// Inline keyboard callback data.
const (
	CallbackSearch       = "search"
	CallbackSetAlert     = "set_alert"
	CallbackSetFrequency = "set_frequency"
	CallbackViewTracked  = "view_tracked"
	CallbackHelp         = "help"
	CallbackBackToMain   = "back_to_main"
	CallbackPrevPage     = "prev_page"
	CallbackNextPage     = "next_page"
	CallbackNewSearch    = "new_search"
	CallbackFilterItem   = "filter_item"

	CallbackPrefixFrequency = "frequency_"
	CallbackPrefixEdit      = "edit_"
)

// Scheduled search presets in minutes.
const (
	FrequencyHalfHourly = 30
	FrequencyHourly     = 60
	FrequencyDaily      = 1440
)

type CommandDescription struct {
	Command     string
	Description string
}

// Get commands for the bot menu.
func Commands() []CommandDescription {
	return []CommandDescription{
		{Command: CommandStart, Description: "Start the bot and show the main menu"},
		{Command: CommandHelp, Description: "Show help"},
		{Command: CommandStop, Description: "Stop scheduled searches"},
		{Command: CommandRestart, Description: "Restart the conversation"},
	}
}

func isFrequencyPreset(minutes int) bool {
	return minutes == FrequencyHalfHourly || minutes == FrequencyHourly || minutes == FrequencyDaily
}

// Get human wording of the search frequency.
func FrequencyText(minutes int) string {
	switch minutes {
	case FrequencyHalfHourly:
		return "every 30 minutes"
	case FrequencyHourly:
		return "hourly"
	case FrequencyDaily:
		return "daily"
	}

	return helpers.ConcatStrings("every ", strconv.Itoa(minutes), " minutes")
}
