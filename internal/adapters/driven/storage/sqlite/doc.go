// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. It implements several store interfaces through a single database connection:
//
//   - ScheduleStore: the date to answer assignment
//   - SnapshotStore: one ranking snapshot per date, stored as JSON
//   - SchedulerStore: background task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files; only
// the up files are applied.
//
// # Data Location
//
// By default, the database is stored at ~/.dailyrank/data/dailyrank.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. Writes run in immediate
// transactions in WAL mode, so schedule creation and extension are
// serialised across processes sharing the file.
package sqlite
