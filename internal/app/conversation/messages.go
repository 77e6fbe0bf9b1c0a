package conversation

import (
	"fmt"
	"html"
	"searchbot/internal/app/core"
	"searchbot/internal/app/helpers"
	"searchbot/internal/app/marketplace"
	"strconv"
	"strings"
)

const (
	textWelcome = "👋 Welcome to the Carousell Search Bot! 🛍️\n\n" +
		"Here's what I can do for you:\n" +
		"1. 🔍 Search Carousell for items\n" +
		"2. 💰 Set price alerts for great deals\n" +
		"3. 🕒 Schedule regular searches\n" +
		"4. 📋 Manage your tracked items\n\n" +
		"Let's get started! What would you like to do?"

	textMainMenu = "What would you like to do? Choose an option below:"

	textHelp = "Here's a quick guide to using the Carousell Search Bot:\n\n" +
		"🔍 <b>Search Carousell</b>: Find items you're interested in\n" +
		"💰 <b>Set Price Alert</b>: Get notified about great deals\n" +
		"🕒 <b>Schedule Searches</b>: Set up automatic searches (30 mins, hourly, or daily)\n" +
		"📋 <b>View Tracked Items</b>: Manage your saved searches and alerts\n\n" +
		"Ready to get started? Just tap a button below!"

	textAskSearchTerm     = "What are you looking for on Carousell? Type your search term below."
	textAskNewSearchTerm  = "What would you like to search for?"
	textNoResults         = "😔 I couldn't find any results for that search. Want to try something else?"
	textResultsExpired    = "Your search results have expired. Please search again."
	textAskFilter         = "Enter the number of the item you want to filter out or unfilter:"
	textInvalidItemNumber = "Please enter a valid item number."
	textAskAlertName      = "Let's set up a price alert! What item are you interested in?"
	textInvalidPrice      = "Oops! That doesn't look like a valid price. Please enter a number (e.g., 50 for S$50)."
	textAskFrequency      = "How often should I search for you? Pick an option:"
	textNothingToSchedule = "I don't know what to look for yet. Set a price alert or run a search first, then schedule it."
	textNoTrackedItems    = "You don't have any tracked items yet. Would you like to set a price alert?"
	textAlertNotFound     = "That alert doesn't exist anymore."
	textAlertDeleted      = "✅ Alert deleted successfully."
	textInvalidEditInput  = "❌ Invalid input. Please try again with format 'item name price' or 'delete'."
	textScheduleStopped   = "✅ Your scheduled searches have been stopped. You won't receive any more automatic notifications."
	textNoSchedule        = "You don't have any active scheduled searches. Would you like to set one up?"
	textAnythingElse      = "Is there anything else I can help you with?"
	textGenericError      = "An error occurred. Please try again later."
	textUnknownCommand    = "I'm sorry, Dave. I'm afraid I can't do that.\n\nSend /start to begin."

	notificationPreviewCount = 5
)

var (
	buttonBackToMain = Button{Text: "🏠 Back to Main Menu", Data: CallbackBackToMain}
	buttonMainMenu   = Button{Text: "🏠 Main Menu", Data: CallbackBackToMain}
)

func mainMenuReply() Reply {
	return Reply{
		Text: textMainMenu,
		Keyboard: [][]Button{
			{{Text: "🔍 Search Carousell", Data: CallbackSearch}},
			{{Text: "💰 Set Price Alert", Data: CallbackSetAlert}},
			{{Text: "🕒 Schedule Searches", Data: CallbackSetFrequency}},
			{{Text: "📋 View Tracked Items", Data: CallbackViewTracked}},
			{{Text: "❓ Help", Data: CallbackHelp}},
		},
	}
}

func helpReply() Reply {
	return Reply{
		Text: textHelp,
		Keyboard: [][]Button{
			{{Text: "🔍 Start Searching", Data: CallbackSearch}},
			{buttonMainMenu},
		},
	}
}

func frequencyReply() Reply {
	return Reply{
		Text: textAskFrequency,
		Keyboard: [][]Button{
			{{Text: "Every 30 minutes", Data: frequencyCallback(FrequencyHalfHourly)}},
			{{Text: "Hourly", Data: frequencyCallback(FrequencyHourly)}},
			{{Text: "Daily", Data: frequencyCallback(FrequencyDaily)}},
			{buttonBackToMain},
		},
	}
}

func frequencyCallback(minutes int) string {
	return helpers.ConcatStrings(CallbackPrefixFrequency, strconv.Itoa(minutes))
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

func backToMainReply(text string) Reply {
	return Reply{
		Text:     text,
		Keyboard: [][]Button{{buttonBackToMain}},
	}
}

// Render results page, filtered items are marked but stay visible.
func resultsPageReply(search *core.SearchSession[marketplace.Listing], perPage int) Reply {
	page := search.Page(perPage)

	var builder strings.Builder

	builder.WriteString("Search Results:\n\n")

	for i, listing := range page.Items {
		index := page.Offset + i

		if search.IsFiltered(index) {
			builder.WriteString("🚫 ")
		}

		builder.WriteString(helpers.ConcatStrings(
			strconv.Itoa(index+1), ". ", html.EscapeString(listing.Name), " - ", html.EscapeString(listing.Price), "\n",
			"   Seller: ", html.EscapeString(listing.Seller), "\n\n",
		))
	}

	if filtered := search.FilteredIndices(); len(filtered) > 0 {
		positions := make([]string, 0, len(filtered))
		for _, index := range filtered {
			positions = append(positions, strconv.Itoa(index+1))
		}

		builder.WriteString(helpers.ConcatStrings("Filtered out: ", strings.Join(positions, ", "), "\n"))
	}

	if page.IsLastPage() {
		builder.WriteString(fmt.Sprintf("End of results (%d in total).", page.Total))
	}

	var navigation []Button

	if page.HasPrev() {
		navigation = append(navigation, Button{Text: "⬅️ Previous", Data: CallbackPrevPage})
	}

	if page.HasNext() {
		navigation = append(navigation, Button{Text: "Next ➡️", Data: CallbackNextPage})
	}

	var keyboard [][]Button

	if len(navigation) > 0 {
		keyboard = append(keyboard, navigation)
	}

	keyboard = append(keyboard,
		[]Button{{Text: "🔍 New Search", Data: CallbackNewSearch}},
		[]Button{{Text: "🚫 Filter/Unfilter Item", Data: CallbackFilterItem}},
		[]Button{buttonMainMenu},
	)

	return Reply{
		Text:     builder.String(),
		Keyboard: keyboard,
	}
}

func filterToggledText(position int, filtered bool) string {
	if filtered {
		return fmt.Sprintf("Item %d has been filtered out.", position)
	}

	return fmt.Sprintf("Item %d has been unfiltered.", position)
}

func filterOutOfRangeText(total int) string {
	return fmt.Sprintf("There is no such item. Please enter a number between 1 and %d.", total)
}

func searchingText(searchTerm string) string {
	return fmt.Sprintf("🔍 Searching for '%s' on Carousell... This might take a moment.", html.EscapeString(searchTerm))
}

func alertNameAcceptedText(name string) string {
	return fmt.Sprintf(
		"Got it! You're looking for '%s'. Now, what's the maximum price you're willing to pay? (e.g., 50 for S$50)",
		html.EscapeString(name),
	)
}

func alertSavedReply(alert marketplace.TrackedAlert) Reply {
	return Reply{
		Text: fmt.Sprintf(
			"✅ Price alert set for '%s' at %s. Would you like to set up a scheduled search for this item?",
			html.EscapeString(alert.Name), helpers.CurrencyFormat(alert.MaxPrice),
		),
		Keyboard: [][]Button{
			{{Text: "Set up scheduled search", Data: CallbackSetFrequency}},
			{buttonBackToMain},
		},
	}
}

func scheduledReply(searchTerm string, maxPrice *float64, minutes int) Reply {
	frequency := FrequencyText(minutes)

	text := fmt.Sprintf(
		"✅ Great! I've set up a scheduled search for '%s' %s. I'll check Carousell %s and let you know if I find any matching items.",
		html.EscapeString(searchTerm), frequency, frequency,
	)

	if maxPrice != nil {
		text = helpers.ConcatStrings(text, " I'll only notify you about items priced at ", helpers.CurrencyFormat(*maxPrice), " or below.")
	}

	text = helpers.ConcatStrings(text, "\n\nDon't worry if you don't hear from me for a while - it just means I haven't found any matches yet. I'll keep looking!")

	return backToMainReply(text)
}

const alertNameDisplayLength = 100

func tooManyAlertsText() string {
	return fmt.Sprintf("You're already tracking %d items, which is the maximum. Delete one in 'View Tracked Items' first.", marketplace.MaxAlerts)
}

func trackedItemsReply(alerts marketplace.AlertList) Reply {
	var builder strings.Builder
	var keyboard [][]Button

	builder.WriteString("📋 Here are your tracked items:\n\n")

	for i, alert := range alerts {
		builder.WriteString(helpers.ConcatStrings(
			strconv.Itoa(i+1), ". ", html.EscapeString(helpers.TruncateString(alert.Name, alertNameDisplayLength)), " - ", helpers.CurrencyFormat(alert.MaxPrice), "\n",
		))

		keyboard = append(keyboard, []Button{{
			Text: helpers.ConcatStrings("Edit ", helpers.TruncateString(alert.Name, 40)),
			Data: helpers.ConcatStrings(CallbackPrefixEdit, strconv.Itoa(i)),
		}})
	}

	keyboard = append(keyboard, []Button{buttonBackToMain})

	return Reply{
		Text:     builder.String(),
		Keyboard: keyboard,
	}
}

func editAlertText(alert marketplace.TrackedAlert) string {
	return fmt.Sprintf(
		"You're editing the alert for '%s' with current max price %s.\n"+
			"To update, enter a new item name and max price (e.g., 'iPhone 12 500'), or type 'delete' to remove this alert.",
		html.EscapeString(alert.Name), helpers.CurrencyFormat(alert.MaxPrice),
	)
}

func alertUpdatedText(alert marketplace.TrackedAlert) string {
	return fmt.Sprintf("✅ Alert updated: '%s' with max price %s", html.EscapeString(alert.Name), helpers.CurrencyFormat(alert.MaxPrice))
}

// Render scheduled search notification: first matches and the count of the rest.
func NotificationText(result marketplace.WatcherResult) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf(
		"🔔 Alert! I found %d item(s) matching your search for '%s'",
		len(result.Matches), html.EscapeString(result.Query.SearchTerm),
	))

	if result.Query.MaxPrice != nil {
		builder.WriteString(helpers.ConcatStrings(" at or below ", helpers.CurrencyFormat(*result.Query.MaxPrice)))
	}

	builder.WriteString(":\n\n")

	for _, listing := range result.Matches[:min(notificationPreviewCount, len(result.Matches))] {
		builder.WriteString(helpers.ConcatStrings(
			"• ", html.EscapeString(listing.Name), "\n",
			"  💰 Price: ", html.EscapeString(listing.Price), "\n",
			"  🔗 Link: ", html.EscapeString(marketplace.GetSellerUrl(listing.Seller)), "\n\n",
		))
	}

	if rest := len(result.Matches) - notificationPreviewCount; rest > 0 {
		builder.WriteString(fmt.Sprintf("There are %d more items. Check the full results in the CSV file.", rest))
	}

	return strings.TrimRight(builder.String(), "\n")
}
