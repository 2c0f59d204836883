package appdownload

import (
	"errors"
	"time"
)

// Platform constants
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// ErrInvalidPlatform is returned for platform tags other than ios/android.
var ErrInvalidPlatform = errors.New("platform must be 'ios' or 'android'")

// Event records a download-link click. Fire-and-forget analytics: written as
// a side effect, read back only for aggregate counts.
type Event struct {
	ID        string
	Platform  string
	UserAgent string
	Referrer  string // referrer, or "direct"
	CreatedAt time.Time
}

// Validate checks if the Event has a recognized platform.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if e.Platform != PlatformIOS && e.Platform != PlatformAndroid {
		return ErrInvalidPlatform
	}
	return nil
}
