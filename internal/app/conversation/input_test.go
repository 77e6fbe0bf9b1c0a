package conversation_test

import (
	"searchbot/internal/app/conversation"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlertPrice(t *testing.T) {
	valid := map[string]float64{
		"50":      50,
		" 49.90 ": 49.9,
		"S$1,200": 1200,
		"0":       0,
		"S$ 15.5": 15.5,
	}

	for text, expected := range valid {
		price, err := conversation.ParseAlertPrice(text)
		require.NoError(t, err, text)
		assert.InDelta(t, expected, price, 0.0001, text)
	}

	for _, text := range []string{"", "cheap", "-5", "50 dollars", "S$"} {
		_, err := conversation.ParseAlertPrice(text)
		assert.ErrorIs(t, err, conversation.ErrInvalidPrice, text)
	}
}

func TestParseItemNumber(t *testing.T) {
	number, err := conversation.ParseItemNumber(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, 3, number)

	_, err = conversation.ParseItemNumber("three")
	assert.ErrorIs(t, err, conversation.ErrInvalidItemNumber)
}

func TestParseEditInput(t *testing.T) {
	name, price, err := conversation.ParseEditInput("iPhone 12 500")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 12", name)
	assert.Equal(t, 500.0, price)

	for _, text := range []string{"500", "iPhone 12", "iPhone twelve hundred", " 500"} {
		_, _, err := conversation.ParseEditInput(text)
		assert.ErrorIs(t, err, conversation.ErrInvalidEditInput, text)
	}
}

func TestInputCommand(t *testing.T) {
	command, ok := conversation.Input{Kind: conversation.InputText, Text: "/Start@carousell_search_bot now"}.Command()
	require.True(t, ok)
	assert.Equal(t, "/start", command)

	_, ok = conversation.Input{Kind: conversation.InputText, Text: "lamp"}.Command()
	assert.False(t, ok)

	_, ok = conversation.Input{Kind: conversation.InputButton, Text: "/start"}.Command()
	assert.False(t, ok)
}

func TestFrequencyText(t *testing.T) {
	assert.Equal(t, "every 30 minutes", conversation.FrequencyText(conversation.FrequencyHalfHourly))
	assert.Equal(t, "hourly", conversation.FrequencyText(conversation.FrequencyHourly))
	assert.Equal(t, "daily", conversation.FrequencyText(conversation.FrequencyDaily))
	assert.Equal(t, "every 15 minutes", conversation.FrequencyText(15))
}
