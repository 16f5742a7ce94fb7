package server

import "sort"

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
	Level    int    `json:"level"`
	clientID int    // Used for deterministic tie-break when scores are equal
}

// HubSnapshot is an immutable view of the hub for rendering.
type HubSnapshot struct {
	Players   int             `json:"players"`
	TopScores []TopScoreEntry `json:"topScores"` // Top N scores for leaderboard display
}

// insertTopScore adds e to a leaderboard of at most n entries, best first.
// Equal scores keep the earlier client first. The input slice is not modified.
func insertTopScore(entries []TopScoreEntry, e TopScoreEntry, n int) []TopScoreEntry {
	if n <= 0 || e.Score <= 0 {
		return entries
	}
	out := make([]TopScoreEntry, 0, len(entries)+1)
	out = append(out, entries...)
	out = append(out, e)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].clientID < out[j].clientID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
