package selector

import (
	"sort"

	"github.com/yourusername/matchboard/internal/models"
)

type standingKey struct {
	matchID int64
	team    string
}

// indexStandings keys standings by match and team. Rows without a team name
// count as absent; duplicates resolve to the lowest ID.
func indexStandings(rows []*models.Standing, known map[int64]struct{}) (map[standingKey]*models.Standing, int) {
	index := make(map[standingKey]*models.Standing, len(rows))
	orphaned := 0
	for _, st := range rows {
		if st == nil || st.Team == "" {
			continue
		}
		if _, ok := known[st.MatchID]; !ok {
			orphaned++
			continue
		}
		key := standingKey{matchID: st.MatchID, team: st.Team}
		if existing, ok := index[key]; ok && existing.ID <= st.ID {
			continue
		}
		index[key] = st
	}
	return index, orphaned
}

// groupHistory buckets head-to-head records by match ID
func groupHistory(rows []*models.H2hRecord, known map[int64]struct{}) (map[int64][]*models.H2hRecord, int) {
	groups := make(map[int64][]*models.H2hRecord)
	orphaned := 0
	for _, rec := range rows {
		if rec == nil {
			continue
		}
		if _, ok := known[rec.MatchID]; !ok {
			orphaned++
			continue
		}
		groups[rec.MatchID] = append(groups[rec.MatchID], rec)
	}
	return groups, orphaned
}

type form struct {
	homeWins  int
	awayWins  int
	malformed int
}

// aggregateForm counts wins by the first and second score of each record.
// Draws and unparseable scores count for neither side.
func aggregateForm(records []*models.H2hRecord) form {
	var f form
	for _, rec := range records {
		first, second, ok := rec.ParseScore()
		switch {
		case !ok:
			f.malformed++
		case first > second:
			f.homeWins++
		case first < second:
			f.awayWins++
		}
	}
	return f
}

// sortedHistory copies records newest first. Undated records go last.
func sortedHistory(records []*models.H2hRecord) []models.H2hRecord {
	out := make([]models.H2hRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, *rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Date, out[j].Date
		switch {
		case a == nil && b == nil:
			return out[i].ID > out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(*b):
			return a.After(*b)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
