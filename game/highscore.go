// File: game/highscore.go
package game

import (
	"sort"
	"strings"
)

// HighScoreEntry is one retained leaderboard row. Persistence belongs to an
// external collaborator; this table is the in-memory working copy.
type HighScoreEntry struct {
	Initials string `json:"initials"`
	Score    int    `json:"score"`
}

// HighScoreTable keeps the top size scores, highest first. Owned by the
// session manager actor; no internal locking.
type HighScoreTable struct {
	size    int
	entries []HighScoreEntry
}

func NewHighScoreTable(size int) *HighScoreTable {
	if size < 1 {
		size = 1
	}
	return &HighScoreTable{size: size}
}

// Qualifies reports whether a final score would earn a slot.
func (t *HighScoreTable) Qualifies(score int) bool {
	if score <= 0 {
		return false
	}
	if len(t.entries) < t.size {
		return true
	}
	return score > t.entries[len(t.entries)-1].Score
}

// Submit records a qualifying score. Initials are trimmed and uppercased;
// an empty or timed-out submission is stored as "---". Returns the rank
// (1-based) or 0 if the score did not qualify.
func (t *HighScoreTable) Submit(initials string, score int) int {
	if !t.Qualifies(score) {
		return 0
	}

	initials = strings.ToUpper(strings.TrimSpace(initials))
	if initials == "" {
		initials = "---"
	}
	if len(initials) > 3 {
		initials = initials[:3]
	}

	t.entries = append(t.entries, HighScoreEntry{Initials: initials, Score: score})
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Score > t.entries[j].Score
	})
	if len(t.entries) > t.size {
		t.entries = t.entries[:t.size]
	}

	for rank, entry := range t.entries {
		if entry.Score == score && entry.Initials == initials {
			return rank + 1
		}
	}
	return 0
}

// Entries returns a copy of the table, highest score first.
func (t *HighScoreTable) Entries() []HighScoreEntry {
	entries := make([]HighScoreEntry, len(t.entries))
	copy(entries, t.entries)
	return entries
}
