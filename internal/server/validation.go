package server

import (
	"fmt"
	"strings"

	"meme-royale/internal/game"

	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength     = 20
	maxEntryLength    = 140
	maxEntriesPerMeme = 8
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("displayname", func(fl validator.FieldLevel) bool {
		_, err := validateName(fl.Field().String())
		return err == nil
	})
	return v
}

func validateName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: display name is required", game.ErrValidation)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: display name must be %d characters or fewer", game.ErrValidation, maxNameLength)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%w: display name contains unsupported characters", game.ErrValidation)
	}
	return trimmed, nil
}

func validateTextEntries(entries []game.TextEntry) error {
	if len(entries) > maxEntriesPerMeme {
		return fmt.Errorf("%w: a meme takes at most %d text entries", game.ErrValidation, maxEntriesPerMeme)
	}
	for _, entry := range entries {
		if strings.TrimSpace(entry.FieldID) == "" {
			return fmt.Errorf("%w: text entry field id is required", game.ErrValidation)
		}
		if len(entry.Value) > maxEntryLength {
			return fmt.Errorf("%w: text entries must be %d characters or fewer", game.ErrValidation, maxEntryLength)
		}
	}
	return nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.', '!', '?':
			continue
		default:
			return false
		}
	}
	return true
}
