// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CorpusSource: Loads the fixed entity corpus
//   - ScheduleStore: Date to answer assignment persistence
//   - SnapshotStore: Daily ranking snapshot persistence
//   - SchedulerStore: Background task state persistence
//   - ConfigStore: Application configuration
//   - Clock: Current instant
//
// # Optional Interfaces
//
//   - SnapshotCache: Short-lived cache in front of today's snapshot. A nil
//     cache means every read goes to the SnapshotStore.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
