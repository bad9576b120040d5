package domain

import (
	"strconv"
	"time"
)

// RankEntry is one corpus entity's position relative to a day's answer.
type RankEntry struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// DailySnapshot is the immutable ranking payload stored for one date.
type DailySnapshot struct {
	// Version is the cache-coherency token for this date's answer.
	Version string `json:"version"`

	// Date is the game day this snapshot belongs to.
	Date Date `json:"date"`

	AnswerID      int64  `json:"answerId"`
	AnswerName    string `json:"answerName"`
	AnswerContent string `json:"answerContent"`

	// Ranking holds every corpus entity, rank 1 first.
	Ranking []RankEntry `json:"ranking"`

	// CreatedAt is when the regeneration job computed the snapshot.
	CreatedAt time.Time `json:"createdAt"`
}

// Lookup finds a ranking entry by exact name.
func (s *DailySnapshot) Lookup(name string) (RankEntry, bool) {
	for _, e := range s.Ranking {
		if e.Name == name {
			return e, true
		}
	}
	return RankEntry{}, false
}

// Version derives the version token for an answer assigned to a date.
// The token is the date's UTC-midnight epoch milliseconds followed by the
// answer id, so it changes exactly when the answer stored under a date changes.
func Version(date Date, answerID int64) string {
	return strconv.FormatInt(date.UTCMidnight().UnixMilli(), 10) + "-" + strconv.FormatInt(answerID, 10)
}
