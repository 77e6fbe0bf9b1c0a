package app

import (
	"context"
	"searchbot/internal/app/database"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleArguments(t *testing.T) {
	console, err := NewConsoleApp()
	assert.NoError(t, err)

	ctx := context.Background()

	assert.ErrorIs(t, console.Run(ctx, []string{ConsoleAppKeyword}), ErrNotEnoughArguments)
	assert.EqualError(t, console.Run(ctx, []string{"impulse101", "migrate"}), `invalid keyword "impulse101"`)
	assert.ErrorIs(t, console.Run(ctx, []string{ConsoleAppKeyword, "create:migration"}), database.ErrEmptyMigrationName)
	assert.ErrorIs(t, console.Run(ctx, []string{ConsoleAppKeyword, "create:migration", "  "}), database.ErrEmptyMigrationName)
}
