package domain

// TodayInfo is what a client needs to start playing the current day.
// It deliberately carries no answer name or content.
type TodayInfo struct {
	Date     Date   `json:"date"`
	AnswerID int64  `json:"answerId"`
	Version  string `json:"version"`
}

// Guess is a player's submission together with the state the client holds.
type Guess struct {
	// Name is matched exactly against entity names.
	Name string `json:"guess"`

	// AnswerID is the answer id the client received from TodayInfo.
	AnswerID int64 `json:"answerId"`

	// Version is the version token the client received from TodayInfo.
	Version string `json:"version"`
}

// GuessResult is the outcome of a valid guess.
type GuessResult struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Rank      int     `json:"rank"`
	Total     int     `json:"total"`
	IsCorrect bool    `json:"isCorrect"`

	// Content is only set when IsCorrect is true.
	Content string `json:"content,omitempty"`
}

// RankingView is the full ranking for a revealed date.
type RankingView struct {
	Date       Date        `json:"date"`
	AnswerName string      `json:"answerName"`
	Ranking    []RankEntry `json:"ranking"`
}

// Reveal names a past day's answer without its content.
type Reveal struct {
	Date       Date   `json:"date"`
	AnswerName string `json:"answerName"`
}
