package game

import "github.com/google/uuid"

// TextEntry is one filled caption field of a meme template.
type TextEntry struct {
	FieldID string `json:"field_id"`
	Value   string `json:"value"`
}

// Submission is one player's meme entry for a round.
type Submission struct {
	ID              string      `json:"id"`
	PlayerID        string      `json:"player_id"`
	TemplateID      string      `json:"template_id"`
	TextEntries     []TextEntry `json:"text_entries"`
	ScorePhaseEnded bool        `json:"score_phase_ended"`
}

// NewSubmission builds a submission with a generated id.
func NewSubmission(playerID, templateID string, entries []TextEntry) (Submission, error) {
	if playerID == "" {
		return Submission{}, validationf("player id is required")
	}
	if templateID == "" {
		return Submission{}, validationf("template id is required")
	}
	return Submission{
		ID:          uuid.NewString(),
		PlayerID:    playerID,
		TemplateID:  templateID,
		TextEntries: entries,
	}, nil
}
