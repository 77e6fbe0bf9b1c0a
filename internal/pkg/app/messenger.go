package app

import (
	"searchbot/internal/app/conversation"
	"searchbot/internal/app/telegram"
)

type telegramClient interface {
	SendMessage(toChatId int, request telegram.SendMessageRequest) (telegram.Message, error)
	EditMessage(chatId int, messageId int, request telegram.EditMessageRequest) error
	SendDocument(toChatId int, path string) (telegram.Message, error)
	PinChatMessage(chatId int, messageId int) error
	SendChatAction(chatId int, action string) error
}

// Conversation messenger on top of Telegram Bot API.
type telegramMessenger struct {
	bot telegramClient
}

func newTelegramMessenger(bot telegramClient) *telegramMessenger {
	return &telegramMessenger{bot: bot}
}

// Pressed buttons edit the message they belong to, text input gets a new message.
func (m *telegramMessenger) Reply(input conversation.Input, reply conversation.Reply) error {
	if input.IsButton() && input.MessageId > 0 {
		return m.bot.EditMessage(input.ChatId, input.MessageId, telegram.EditMessageRequest{
			Text:               reply.Text,
			ReplyMarkup:        buildKeyboard(reply.Keyboard),
			LinkPreviewOptions: telegram.LinkPreviewOptions{IsDisabled: true},
		})
	}

	_, err := m.Send(input.ChatId, reply)

	return err
}

func (m *telegramMessenger) Send(chatId int, reply conversation.Reply) (int, error) {
	message, err := m.bot.SendMessage(chatId, telegram.SendMessageRequest{
		Text:               reply.Text,
		ReplyMarkup:        buildKeyboard(reply.Keyboard),
		LinkPreviewOptions: telegram.LinkPreviewOptions{IsDisabled: true},
	})
	if err != nil {
		return 0, err
	}

	return message.MessageId, nil
}

func (m *telegramMessenger) SendDocument(chatId int, path string) error {
	_, err := m.bot.SendDocument(chatId, path)

	return err
}

func (m *telegramMessenger) Pin(chatId int, messageId int) error {
	return m.bot.PinChatMessage(chatId, messageId)
}

func (m *telegramMessenger) SendTyping(chatId int) error {
	return m.bot.SendChatAction(chatId, telegram.ChatActionTyping)
}

func buildKeyboard(rows [][]conversation.Button) telegram.InlineKeyboardMarkup {
	keyboard := telegram.InlineKeyboardMarkup{}

	for _, row := range rows {
		if len(row) == 0 {
			continue
		}

		buttons := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, telegram.InlineKeyboardButton{
				Text:         button.Text,
				CallbackData: button.Data,
			})
		}

		keyboard.Keyboard = append(keyboard.Keyboard, buttons)
	}

	return keyboard
}

// Convert Telegram update to conversation input, false for updates the bot doesn't handle.
func inputFromUpdate(update telegram.Update) (conversation.Input, bool) {
	if update.IsCallbackQuery() {
		query := update.CallbackQuery

		return conversation.Input{
			Kind:            conversation.InputButton,
			ChatId:          query.Message.Chat.Id,
			UserId:          query.From.Id,
			MessageId:       query.Message.MessageId,
			CallbackQueryId: query.Id,
			Text:            query.Data,
		}, query.Message.Chat.Id != 0
	}

	message := update.Message
	if message.Chat.Id == 0 || message.Text == "" {
		return conversation.Input{}, false
	}

	return conversation.Input{
		Kind:      conversation.InputText,
		ChatId:    message.Chat.Id,
		UserId:    message.From.Id,
		MessageId: message.MessageId,
		Text:      message.Text,
	}, true
}
