// Package domain defines the core business entities for dailyrank.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Entity / Corpus: the fixed set of guessable entries with precomputed vectors
//   - Date: a calendar day in the game's regional offset
//   - ScheduleEntry: the answer assigned to a date
//   - DailySnapshot: the immutable, version-stamped ranking for a date
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
