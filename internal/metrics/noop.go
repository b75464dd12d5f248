package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserSignedUp is a no-op.
func (n *NoopRecorder) IncUserSignedUp() {}

// IncLoginSucceeded is a no-op.
func (n *NoopRecorder) IncLoginSucceeded() {}

// IncLoginFailed is a no-op.
func (n *NoopRecorder) IncLoginFailed() {}

// IncListingCreated is a no-op.
func (n *NoopRecorder) IncListingCreated() {}

// IncListingCreateFailed is a no-op.
func (n *NoopRecorder) IncListingCreateFailed() {}

// ObserveListingLoadDuration is a no-op.
func (n *NoopRecorder) ObserveListingLoadDuration(duration time.Duration) {}

// IncImageUploaded is a no-op.
func (n *NoopRecorder) IncImageUploaded() {}

// IncImageUploadFailed is a no-op.
func (n *NoopRecorder) IncImageUploadFailed() {}

// IncImageOrphanReclaimed is a no-op.
func (n *NoopRecorder) IncImageOrphanReclaimed() {}
