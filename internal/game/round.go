package game

import "time"

const (
	// MinRating and MaxRating bound the score a voter can give a meme.
	MinRating = 0
	MaxRating = 5
)

// Round owns the submissions and ratings for one round number.
type Round struct {
	Number             int        `json:"number"`
	StartedAt          time.Time  `json:"started_at"`
	CreativePhaseEnded bool       `json:"creative_phase_ended"`
	ScorePhaseEnded    bool       `json:"score_phase_ended"`
	// Submissions is ordered by first submission time, unique by player.
	Submissions []Submission `json:"submissions"`
	// Scores maps submission id -> voter id -> rating.
	Scores map[string]map[string]int `json:"scores"`
}

func newRound(number int, at time.Time) Round {
	return Round{
		Number:    number,
		StartedAt: at,
		Scores:    make(map[string]map[string]int),
	}
}

// UpsertSubmission stores a submission, fully replacing any earlier one from
// the same player. Replacement keeps the original slot so submission order
// stays stable.
func (r *Round) UpsertSubmission(sub Submission) {
	for i := range r.Submissions {
		if r.Submissions[i].PlayerID == sub.PlayerID {
			r.Submissions[i] = sub
			return
		}
	}
	r.Submissions = append(r.Submissions, sub)
}

// Submission looks up a submission by id.
func (r *Round) Submission(id string) (*Submission, bool) {
	for i := range r.Submissions {
		if r.Submissions[i].ID == id {
			return &r.Submissions[i], true
		}
	}
	return nil, false
}

// SubmissionByPlayer looks up a player's submission.
func (r *Round) SubmissionByPlayer(playerID string) (*Submission, bool) {
	for i := range r.Submissions {
		if r.Submissions[i].PlayerID == playerID {
			return &r.Submissions[i], true
		}
	}
	return nil, false
}

// ScoresFor returns the voter->rating map for a submission. The map is empty,
// never nil, when no ratings exist yet.
func (r *Round) ScoresFor(submissionID string) map[string]int {
	scores := r.Scores[submissionID]
	if scores == nil {
		return map[string]int{}
	}
	out := make(map[string]int, len(scores))
	for voter, rating := range scores {
		out[voter] = rating
	}
	return out
}

// HasRated reports whether the voter already rated the submission.
func (r *Round) HasRated(submissionID, voterID string) bool {
	_, ok := r.Scores[submissionID][voterID]
	return ok
}

// AddScore records a rating. A repeat rating by the same voter overwrites the
// earlier one; self-votes and out-of-range ratings are rejected.
func (r *Round) AddScore(submissionID, voterID string, rating int) error {
	if rating < MinRating || rating > MaxRating {
		return validationf("rating must be between %d and %d", MinRating, MaxRating)
	}
	sub, ok := r.Submission(submissionID)
	if !ok {
		return notFoundf("submission %s not in round %d", submissionID, r.Number)
	}
	if sub.PlayerID == voterID {
		return validationf("players cannot rate their own meme")
	}
	if r.Scores == nil {
		r.Scores = make(map[string]map[string]int)
	}
	if r.Scores[submissionID] == nil {
		r.Scores[submissionID] = make(map[string]int)
	}
	r.Scores[submissionID][voterID] = rating
	return nil
}

// VoterCount returns how many distinct voters rated the submission.
func (r *Round) VoterCount(submissionID string) int {
	return len(r.Scores[submissionID])
}

// NextUnscoredSubmission picks a submission the voter neither authored nor
// rated yet. Selection follows submission order; callers must not rely on
// which eligible candidate comes back.
func (r *Round) NextUnscoredSubmission(voterID string) (*Submission, bool) {
	for i := range r.Submissions {
		sub := &r.Submissions[i]
		if sub.PlayerID == voterID {
			continue
		}
		if r.HasRated(sub.ID, voterID) {
			continue
		}
		return sub, true
	}
	return nil, false
}

// NextPendingSubmission picks the next submission whose individual scoring
// window has not closed yet.
func (r *Round) NextPendingSubmission() (*Submission, bool) {
	for i := range r.Submissions {
		if !r.Submissions[i].ScorePhaseEnded {
			return &r.Submissions[i], true
		}
	}
	return nil, false
}

// MarkSubmissionScoreEnded closes the scoring window for one submission and
// reports whether this call was the first to do so. Duplicate timer fires land
// on the false branch.
func (r *Round) MarkSubmissionScoreEnded(submissionID string) (bool, error) {
	sub, ok := r.Submission(submissionID)
	if !ok {
		return false, notFoundf("submission %s not in round %d", submissionID, r.Number)
	}
	if sub.ScorePhaseEnded {
		return false, nil
	}
	sub.ScorePhaseEnded = true
	return true, nil
}

// RemovePlayerSubmissions strips a removed player's entries and their scores.
func (r *Round) RemovePlayerSubmissions(playerID string) {
	kept := r.Submissions[:0]
	for _, sub := range r.Submissions {
		if sub.PlayerID == playerID {
			delete(r.Scores, sub.ID)
			continue
		}
		kept = append(kept, sub)
	}
	r.Submissions = kept
}
