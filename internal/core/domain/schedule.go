package domain

// ScheduleEntry assigns an answer to a calendar date.
type ScheduleEntry struct {
	Date     Date  `json:"date"`
	AnswerID int64 `json:"answerId"`
}

// ScheduleBounds describes the stored schedule range.
type ScheduleBounds struct {
	// First is the epoch date of the schedule.
	First Date

	// Last is the final scheduled date.
	Last Date

	// Count is the number of stored entries.
	Count int
}

// Covers reports whether date falls inside the stored range.
func (b ScheduleBounds) Covers(date Date) bool {
	return !date.Before(b.First) && !date.After(b.Last)
}
