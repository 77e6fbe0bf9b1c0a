package conversation

import (
	"errors"
	"math"
	"searchbot/internal/app/helpers"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidItemNumber = errors.New("invalid item number")
	ErrInvalidEditInput  = errors.New("invalid edit input")
)

type InputKind int

const (
	InputText InputKind = iota
	InputButton
)

// Input is a single user action: a text message or an inline button press.
type Input struct {
	Kind            InputKind
	ChatId          int
	UserId          int
	MessageId       int
	CallbackQueryId string
	Text            string
}

func (i Input) IsButton() bool {
	return i.Kind == InputButton
}

// Get command name (without bot mention) if the input is a command.
func (i Input) Command() (string, bool) {
	if i.Kind != InputText {
		return "", false
	}

	text := strings.TrimSpace(i.Text)
	if !strings.HasPrefix(text, "/") {
		return "", false
	}

	command := strings.Fields(text)[0]
	command, _, _ = strings.Cut(command, "@")

	return strings.ToLower(command), true
}

// Parse alert price: a non-negative number, optionally prefixed with currency symbol.
func ParseAlertPrice(text string) (float64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, helpers.CurrencySymbol)
	text = strings.ReplaceAll(text, ",", "")

	value, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || value.IsNegative() {
		return 0, ErrInvalidPrice
	}

	price := value.InexactFloat64()
	if math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}

	return price, nil
}

// Parse one-based item number.
func ParseItemNumber(text string) (int, error) {
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrInvalidItemNumber
	}

	return number, nil
}

// Parse "<name> <price>" edit input, price is the last whitespace-delimited token.
func ParseEditInput(text string) (string, float64, error) {
	text = strings.TrimSpace(text)

	separator := strings.LastIndexAny(text, " \t\n")
	if separator < 0 {
		return "", 0, ErrInvalidEditInput
	}

	name := strings.TrimSpace(text[:separator])
	if name == "" {
		return "", 0, ErrInvalidEditInput
	}

	price, err := ParseAlertPrice(text[separator+1:])
	if err != nil {
		return "", 0, ErrInvalidEditInput
	}

	return name, price, nil
}

// Parse "<prefix><number>" callback data.
func parseCallbackNumber(data string, prefix string) (int, bool) {
	if !strings.HasPrefix(data, prefix) {
		return 0, false
	}

	number, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || number < 0 {
		return 0, false
	}

	return number, true
}
