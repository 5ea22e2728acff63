package game

import "sort"

// ScoreboardEntry is one player's cumulative rating total.
type ScoreboardEntry struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Score       int    `json:"score"`
}

// Scoreboard sums every rating a player received across all rounds whose
// score phase ended, sorted descending by total. Players without submissions
// appear with score 0. Tie order is not defined.
func (g *Game) Scoreboard() []ScoreboardEntry {
	totals := make(map[string]int, len(g.Players))
	for _, p := range g.Players {
		totals[p.ID] = 0
	}
	for i := range g.Rounds {
		round := &g.Rounds[i]
		if !round.ScorePhaseEnded {
			continue
		}
		for _, sub := range round.Submissions {
			if _, ok := totals[sub.PlayerID]; !ok {
				continue
			}
			for _, rating := range round.Scores[sub.ID] {
				totals[sub.PlayerID] += rating
			}
		}
	}
	entries := make([]ScoreboardEntry, 0, len(g.Players))
	for _, p := range g.Players {
		entries = append(entries, ScoreboardEntry{
			PlayerID:    p.ID,
			DisplayName: p.DisplayName,
			Score:       totals[p.ID],
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries
}
