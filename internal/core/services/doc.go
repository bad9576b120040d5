// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The regeneration path runs RegenerationJob -> ScheduleManager -> Ranker ->
// SnapshotStore. GameService only ever reads snapshots.
package services
