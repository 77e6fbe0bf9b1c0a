package helpers_test

import (
	"searchbot/internal/app/helpers"
	"testing"
	"time"
)

func TestTimeToDatabase(t *testing.T) {
	time := time.Now()
	target := time.Format(helpers.DateDatabase)

	result := helpers.TimeToDatabase(time)
	if result != target {
		t.Errorf("Invalid result, got: %s, instead of: %s.", result, target)
	}
}

func TestTimeToFileName(t *testing.T) {
	date := time.Date(2024, time.March, 9, 7, 5, 3, 0, time.UTC)
	target := "20240309_070503"

	result := helpers.TimeToFileName(date)
	if result != target {
		t.Errorf("Invalid result, got: %s, instead of: %s.", result, target)
	}
}
