package helpers_test

import (
	"searchbot/internal/app/helpers"
	"testing"
)

func TestConcatStrings(t *testing.T) {
	target := "Dr. Isaac Kleiner"

	result := helpers.ConcatStrings("Dr.", " ", "Isaac", " ", "Kleiner")
	if result != target {
		t.Errorf("Invalid result, got: %s, instead of: %s.", result, target)
	}
}

func TestTruncateString(t *testing.T) {
	result := helpers.TruncateString("Mountain bike", 8)
	if result != "Mountain…" {
		t.Errorf("Invalid result, got: %s, instead of: %s.", result, "Mountain…")
	}

	result = helpers.TruncateString("Lamp", 8)
	if result != "Lamp" {
		t.Errorf("Invalid result, got: %s, instead of: %s.", result, "Lamp")
	}
}
