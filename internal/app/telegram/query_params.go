package telegram

import (
	"net/url"
	"strconv"
)

// Query parameters for "getUpdates" method.
// https://core.telegram.org/bots/api#getupdates
type GetUpdatesParams struct {
	Offset  int
	Timeout int
}

func (params *GetUpdatesParams) ToString() string {
	data := make(url.Values)

	data.Add("offset", strconv.Itoa(params.Offset))
	data.Add("timeout", strconv.Itoa(params.Timeout))
	data.Add("allowed_updates", `["message","callback_query"]`)

	return data.Encode()
}

// Query parameters for "sendMessage" and "sendDocument" methods.
// https://core.telegram.org/bots/api#sendmessage
type SendMessageParams struct {
	ChatId int
}

func (p *SendMessageParams) ToString() string {
	data := make(url.Values)

	data.Add("chat_id", strconv.Itoa(p.ChatId))

	return data.Encode()
}

// Query parameters for "answerCallbackQuery" method.
// https://core.telegram.org/bots/api#answercallbackquery
type AnswerCallbackQueryParams struct {
	CallbackQueryId string
}

func (p *AnswerCallbackQueryParams) ToString() string {
	data := make(url.Values)

	data.Add("callback_query_id", p.CallbackQueryId)

	return data.Encode()
}

// Query parameters for "editMessageText" method.
// https://core.telegram.org/bots/api#editmessagetext
type EditMessageParams struct {
	ChatId    int
	MessageId int
}

func (p *EditMessageParams) ToString() string {
	data := make(url.Values)

	data.Add("chat_id", strconv.Itoa(p.ChatId))
	data.Add("message_id", strconv.Itoa(p.MessageId))

	return data.Encode()
}

// Query parameters for "pinChatMessage" method.
// https://core.telegram.org/bots/api#pinchatmessage
type PinChatMessageParams struct {
	ChatId              int
	MessageId           int
	DisableNotification bool
}

func (p *PinChatMessageParams) ToString() string {
	data := make(url.Values)

	data.Add("chat_id", strconv.Itoa(p.ChatId))
	data.Add("message_id", strconv.Itoa(p.MessageId))
	data.Add("disable_notification", strconv.FormatBool(p.DisableNotification))

	return data.Encode()
}

// Query parameters for "sendChatAction" method.
// https://core.telegram.org/bots/api#sendchataction
type SendChatActionParams struct {
	ChatId int
	Action string
}

func (p *SendChatActionParams) ToString() string {
	data := make(url.Values)

	data.Add("chat_id", strconv.Itoa(p.ChatId))
	data.Add("action", p.Action)

	return data.Encode()
}
