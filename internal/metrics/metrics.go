// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth events
	IncUserSignedUp()
	IncLoginSucceeded()
	IncLoginFailed()

	// Listing events
	IncListingCreated()
	IncListingCreateFailed()
	ObserveListingLoadDuration(duration time.Duration)

	// Image upload events
	IncImageUploaded()
	IncImageUploadFailed()
	IncImageOrphanReclaimed()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
