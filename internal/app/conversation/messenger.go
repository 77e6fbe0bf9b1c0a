package conversation

// Button is an inline keyboard button.
type Button struct {
	Text string
	Data string
}

// Reply is a text message with an optional inline keyboard (rows of buttons).
type Reply struct {
	Text     string
	Keyboard [][]Button
}

// Messenger is the chat transport used by the conversation.
type Messenger interface {
	// Edit the message holding the pressed button, or send a new message for text input.
	Reply(input Input, reply Reply) error
	// Send a new message and return its id.
	Send(chatId int, reply Reply) (int, error)
	SendDocument(chatId int, path string) error
	Pin(chatId int, messageId int) error
	SendTyping(chatId int) error
}
