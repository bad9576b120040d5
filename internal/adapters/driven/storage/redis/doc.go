// Package redis provides Redis-backed implementations of the schedule and
// snapshot stores using github.com/redis/go-redis/v9.
//
// # Layout
//
//   - answer_schedule: a hash from YYYY-MM-DD to the answer id
//   - daily_game_data:YYYY-MM-DD: a string holding the JSON snapshot
//
// Schedule creation and extension run inside WATCH/MULTI transactions on
// the schedule hash, so concurrent writers observe exactly one winner.
package redis
