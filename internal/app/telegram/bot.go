package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"searchbot/internal/app/helpers"
	"searchbot/internal/app/logger"
	"strconv"
	"strings"
	"time"
)

const (
	ChatActionTyping = "typing"

	updatesTimeoutSeconds = 20
	updatesRetryDelay     = 10 * time.Second
)

var ErrMessageNotModified = errors.New("message is not modified")

type UrlParams interface {
	ToString() string
}

type RequestData interface {
	ToJson() ([]byte, error)
}

type Response struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

type Bot struct {
	apiEndpoint string
	token       string
	client      *http.Client
	WhoAmI      BotUser
	logger      logger.LoggerInterface
}

// Constructor.
func NewBot(token string, logger logger.LoggerInterface) (*Bot, error) {
	bot := &Bot{
		apiEndpoint: "https://api.telegram.org/bot<token>/<method>",
		token:       token,
		client: &http.Client{
			Timeout: (updatesTimeoutSeconds + 40) * time.Second,
		},
		logger: logger,
	}

	whoAmI, err := bot.getMe()
	if err != nil {
		return nil, err
	}

	bot.WhoAmI = whoAmI

	return bot, nil
}

// Get basic information about the bot.
// https://core.telegram.org/bots/api#getme
func (b *Bot) getMe() (BotUser, error) {
	var result BotUser

	endpoint := b.getEndpoint("getMe", nil)
	response, err := b.sendRequest(endpoint, nil, false)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(response.Result, &result); err != nil {
		return result, err
	}

	return result, nil
}

// Get incoming updates.
// https://core.telegram.org/bots/api#getupdates
func (b *Bot) getUpdates(offset int) ([]Update, error) {
	var result []Update

	endpoint := b.getEndpoint("getUpdates", &GetUpdatesParams{
		Offset:  offset,
		Timeout: updatesTimeoutSeconds,
	})

	response, err := b.sendRequest(endpoint, nil, true)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(response.Result, &result); err != nil {
		return result, err
	}

	return result, nil
}

// Listen for incoming updates and apply a callback function to each item until ctx is done.
func (b *Bot) ListenForUpdates(ctx context.Context, callback func(update Update), updateIdOffset int) {
	updatesChannel := make(chan Update)

	go func() {
		defer close(updatesChannel)

		for ctx.Err() == nil {
			updates, err := b.getUpdates(updateIdOffset)

			if err != nil {
				b.logger.Println(logger.PrefixWarning, "Failed to get updates, retrying in", updatesRetryDelay, "...", err)

				select {
				case <-ctx.Done():
					return
				case <-time.After(updatesRetryDelay):
				}

				continue
			}

			for _, update := range updates {
				if update.UpdateId < updateIdOffset {
					continue
				}

				updateIdOffset = update.UpdateId + 1

				select {
				case updatesChannel <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	for update := range updatesChannel {
		callback(update)
	}
}

// Send text message.
// https://core.telegram.org/bots/api#sendmessage
func (b *Bot) SendMessage(toChatId int, request SendMessageRequest) (Message, error) {
	var result Message

	endpoint := b.getEndpoint("sendMessage", &SendMessageParams{
		ChatId: toChatId,
	})

	response, err := b.sendRequest(endpoint, &request, false)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(response.Result, &result); err != nil {
		return result, err
	}

	return result, nil
}

// Answer to callback query.
// https://core.telegram.org/bots/api#answercallbackquery
func (b *Bot) AnswerCallbackQuery(callbackQueryId string) error {
	endpoint := b.getEndpoint("answerCallbackQuery", &AnswerCallbackQueryParams{
		CallbackQueryId: callbackQueryId,
	})

	_, err := b.sendRequest(endpoint, nil, false)

	return err
}

// Edit message. Editing with the same content is not an error.
// https://core.telegram.org/bots/api#editmessagetext
func (b *Bot) EditMessage(chatId int, messageId int, request EditMessageRequest) error {
	endpoint := b.getEndpoint("editMessageText", &EditMessageParams{
		ChatId:    chatId,
		MessageId: messageId,
	})

	_, err := b.sendRequest(endpoint, &request, false)
	if errors.Is(err, ErrMessageNotModified) {
		return nil
	}

	return err
}

// Pin message in chat.
// https://core.telegram.org/bots/api#pinchatmessage
func (b *Bot) PinChatMessage(chatId int, messageId int) error {
	endpoint := b.getEndpoint("pinChatMessage", &PinChatMessageParams{
		ChatId:              chatId,
		MessageId:           messageId,
		DisableNotification: true,
	})

	_, err := b.sendRequest(endpoint, nil, false)

	return err
}

// Show chat action (e.g. "typing...") to user.
// https://core.telegram.org/bots/api#sendchataction
func (b *Bot) SendChatAction(chatId int, action string) error {
	endpoint := b.getEndpoint("sendChatAction", &SendChatActionParams{
		ChatId: chatId,
		Action: action,
	})

	_, err := b.sendRequest(endpoint, nil, true)

	return err
}

// Set list of bot commands shown in the menu.
// https://core.telegram.org/bots/api#setmycommands
func (b *Bot) SetMyCommands(commands []BotCommand) error {
	endpoint := b.getEndpoint("setMyCommands", nil)

	_, err := b.sendRequest(endpoint, &SetMyCommandsRequest{Commands: commands}, false)

	return err
}

// Send local file as a document.
// https://core.telegram.org/bots/api#senddocument
func (b *Bot) SendDocument(toChatId int, path string) (Message, error) {
	var result Message

	endpoint := b.getEndpoint("sendDocument", &SendMessageParams{
		ChatId: toChatId,
	})

	file, err := os.Open(path)
	if err != nil {
		return result, err
	}

	defer file.Close()

	body := bytes.NewBuffer(nil)
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return result, err
	}

	if _, err := io.Copy(part, file); err != nil {
		return result, err
	}

	if err := writer.Close(); err != nil {
		return result, err
	}

	b.logger.Println("Sending document", filepath.Base(path), "to", endpoint)

	response, err := b.doRequest(http.MethodPost, endpoint, body, writer.FormDataContentType())
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(response.Result, &result); err != nil {
		return result, err
	}

	return result, nil
}

// Get method endpoint with optional URL parameters.
func (b *Bot) getEndpoint(method string, params UrlParams) string {
	endpoint := strings.Replace(b.apiEndpoint, "<method>", method, 1)

	if params != nil {
		endpoint = helpers.ConcatStrings(endpoint, "?", params.ToString())
	}

	return endpoint
}

// Send request to endpoint with optional data.
func (b *Bot) sendRequest(endpoint string, data RequestData, skipLogMessage bool) (Response, error) {
	if data == nil {
		if !skipLogMessage {
			b.logger.Println("Sending GET request to", endpoint)
		}

		return b.doRequest(http.MethodGet, endpoint, nil, "")
	}

	jsonData, err := data.ToJson()
	if err != nil {
		b.logger.Println(err)
		return Response{}, err
	}

	if !skipLogMessage {
		b.logger.Println("Sending POST request to", endpoint, "with data", string(jsonData))
	}

	return b.doRequest(http.MethodPost, endpoint, bytes.NewReader(jsonData), "application/json")
}

func (b *Bot) doRequest(httpMethod string, endpoint string, body io.Reader, contentType string) (Response, error) {
	// don't expose token in logs
	endpoint = strings.Replace(endpoint, "<token>", b.token, 1)

	request, err := http.NewRequest(httpMethod, endpoint, body)
	if err != nil {
		return Response{}, err
	}

	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}

	response, err := b.client.Do(request)
	if err != nil {
		// the URL in the error contains the token
		return Response{}, fmt.Errorf("%s request failed: %w", httpMethod, errors.Unwrap(err))
	}

	defer response.Body.Close()

	return b.decodeResponse(response.Body)
}

// Decode response to generic struct.
func (b *Bot) decodeResponse(data io.Reader) (Response, error) {
	var responseDecoded Response

	decoder := json.NewDecoder(data)
	err := decoder.Decode(&responseDecoded)

	if err != nil {
		b.logger.Println(err)
		return Response{}, err
	}

	if !responseDecoded.Ok {
		errorMessage := helpers.ConcatStrings(strconv.Itoa(responseDecoded.ErrorCode), ": ", responseDecoded.Description)

		if strings.Contains(responseDecoded.Description, ErrMessageNotModified.Error()) {
			return Response{}, fmt.Errorf("%w (%s)", ErrMessageNotModified, errorMessage)
		}

		return Response{}, errors.New(errorMessage)
	}

	return responseDecoded, nil
}
