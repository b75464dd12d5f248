package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersSignedUp         uint64
	LoginsSucceeded       uint64
	LoginsFailed          uint64
	ListingsCreated       uint64
	ListingCreatesFailed  uint64
	ListingLoadCount      uint64
	ListingLoadTotalNs    int64
	ImagesUploaded        uint64
	ImageUploadsFailed    uint64
	ImageOrphansReclaimed uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersSignedUp         uint64
	loginsSucceeded       uint64
	loginsFailed          uint64
	listingsCreated       uint64
	listingCreatesFailed  uint64
	listingLoadCount      uint64
	listingLoadTotalNs    int64
	imagesUploaded        uint64
	imageUploadsFailed    uint64
	imageOrphansReclaimed uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersSignedUp:         atomic.LoadUint64(&m.usersSignedUp),
		LoginsSucceeded:       atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:          atomic.LoadUint64(&m.loginsFailed),
		ListingsCreated:       atomic.LoadUint64(&m.listingsCreated),
		ListingCreatesFailed:  atomic.LoadUint64(&m.listingCreatesFailed),
		ListingLoadCount:      atomic.LoadUint64(&m.listingLoadCount),
		ListingLoadTotalNs:    atomic.LoadInt64(&m.listingLoadTotalNs),
		ImagesUploaded:        atomic.LoadUint64(&m.imagesUploaded),
		ImageUploadsFailed:    atomic.LoadUint64(&m.imageUploadsFailed),
		ImageOrphansReclaimed: atomic.LoadUint64(&m.imageOrphansReclaimed),
	}
}

// IncUserSignedUp increments the signup counter.
func (m *InMemoryRecorder) IncUserSignedUp() {
	atomic.AddUint64(&m.usersSignedUp, 1)
}

// IncLoginSucceeded increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSucceeded() {
	atomic.AddUint64(&m.loginsSucceeded, 1)
}

// IncLoginFailed increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncListingCreated increments the listing creation counter.
func (m *InMemoryRecorder) IncListingCreated() {
	atomic.AddUint64(&m.listingsCreated, 1)
}

// IncListingCreateFailed increments the failed listing creation counter.
func (m *InMemoryRecorder) IncListingCreateFailed() {
	atomic.AddUint64(&m.listingCreatesFailed, 1)
}

// ObserveListingLoadDuration records one listing load.
func (m *InMemoryRecorder) ObserveListingLoadDuration(duration time.Duration) {
	atomic.AddUint64(&m.listingLoadCount, 1)
	atomic.AddInt64(&m.listingLoadTotalNs, duration.Nanoseconds())
}

// IncImageUploaded increments the image upload counter.
func (m *InMemoryRecorder) IncImageUploaded() {
	atomic.AddUint64(&m.imagesUploaded, 1)
}

// IncImageUploadFailed increments the failed image upload counter.
func (m *InMemoryRecorder) IncImageUploadFailed() {
	atomic.AddUint64(&m.imageUploadsFailed, 1)
}

// IncImageOrphanReclaimed increments the compensating-delete counter.
func (m *InMemoryRecorder) IncImageOrphanReclaimed() {
	atomic.AddUint64(&m.imageOrphansReclaimed, 1)
}
