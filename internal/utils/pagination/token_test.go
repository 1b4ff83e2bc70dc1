package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeCursor(t *testing.T) {
	createdAt := time.Date(2025, 5, 15, 14, 30, 45, 123456789, time.UTC)
	entryID := "6e1d0e9a-8b1f-4a44-9f60-0a4a2b2e7c11"

	token := EncodeCursor(createdAt, entryID)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedID, err := DecodeCursor(token)
	assert.NoError(t, err)
	assert.Equal(t, createdAt, decodedAt, "Creation time should survive the round trip")
	assert.Equal(t, entryID, decodedID, "Entry ID should survive the round trip")
}

func TestDecodeCursorError(t *testing.T) {
	// Invalid base64
	_, _, err := DecodeCursor("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// Missing separator
	_, _, err = DecodeCursor("MjAyMy0wNS0xNVQwMDowMDowMFo=")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// Unparseable time component
	_, _, err = DecodeCursor("bm90YXRpbWV8ZW50cnktMQ==") // "notatime|entry-1"
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "time parse")
}
