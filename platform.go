package bindit

import "strings"

// Platform classifies the host environment for composition handling.
// Adapters receive their classification explicitly at construction;
// ClassifyUserAgent is a convenience for hosts that only have a
// user-agent string.
type Platform int

const (
	// PlatformUnknown is any environment that cannot be classified.
	// Unclassified platforms never suppress composition writes.
	PlatformUnknown Platform = iota

	// PlatformDesktop covers desktop browsers, which emit reliable
	// composition events. Raw events during composition are suppressed.
	PlatformDesktop

	// PlatformAndroid covers Android browsers, whose virtual keyboards
	// emit raw events mid-composition. Events are suppressed only when
	// they carry no new text.
	PlatformAndroid

	// PlatformIOS covers iOS browsers, whose composition events are
	// unreliable. Writes always go through.
	PlatformIOS
)

// String returns the string representation of the platform.
func (p Platform) String() string {
	switch p {
	case PlatformDesktop:
		return "desktop"
	case PlatformAndroid:
		return "android"
	case PlatformIOS:
		return "ios"
	default:
		return "unknown"
	}
}

// ClassifyUserAgent maps a user-agent string onto a Platform. The check
// is a pure substring match; anything unrecognized is PlatformUnknown,
// which opts out of suppression entirely.
func ClassifyUserAgent(ua string) Platform {
	s := strings.ToLower(ua)
	switch {
	case strings.Contains(s, "iphone"),
		strings.Contains(s, "ipad"),
		strings.Contains(s, "ipod"):
		return PlatformIOS
	case strings.Contains(s, "android"):
		return PlatformAndroid
	case strings.Contains(s, "windows"),
		strings.Contains(s, "macintosh"),
		strings.Contains(s, "cros"),
		strings.Contains(s, "x11"),
		strings.Contains(s, "linux"):
		return PlatformDesktop
	default:
		return PlatformUnknown
	}
}
