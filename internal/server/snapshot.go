package server

import "meme-royale/internal/game"

// snapshot builds the full client-facing view of a game. Live clients get one
// on connect and after every state change.
func (s *Server) snapshot(g *game.Game) map[string]any {
	players := make([]map[string]any, 0, len(g.Players))
	for _, p := range g.Players {
		players = append(players, map[string]any{
			"id":       p.ID,
			"name":     p.DisplayName,
			"is_ready": p.IsReady,
		})
	}
	rounds := make([]map[string]any, 0, len(g.Rounds))
	for i := range g.Rounds {
		rounds = append(rounds, roundSnapshot(&g.Rounds[i]))
	}
	return map[string]any{
		"code":           g.Code,
		"state":          string(g.State),
		"has_password":   g.Password != "",
		"admin_id":       g.AdminPlayerID,
		"players":        players,
		"current_round":  g.CurrentRound,
		"round_target":   g.RoundTarget,
		"rounds":         rounds,
		"scoreboard":     g.Scoreboard(),
		"all_ready":      g.AllPlayersReady(),
		"creative_secs":  s.cfg.CreativeSeconds,
		"score_secs":     s.cfg.ScoreSeconds,
		"next_round_sec": s.cfg.NextRoundSeconds,
	}
}

func roundSnapshot(round *game.Round) map[string]any {
	subs := make([]map[string]any, 0, len(round.Submissions))
	for _, sub := range round.Submissions {
		subs = append(subs, map[string]any{
			"id":                sub.ID,
			"player_id":         sub.PlayerID,
			"template_id":       sub.TemplateID,
			"text_entries":      sub.TextEntries,
			"score_phase_ended": sub.ScorePhaseEnded,
			"voters":            len(round.Scores[sub.ID]),
		})
	}
	return map[string]any{
		"number":               round.Number,
		"started_at":           round.StartedAt,
		"creative_phase_ended": round.CreativePhaseEnded,
		"score_phase_ended":    round.ScorePhaseEnded,
		"submissions":          subs,
	}
}
