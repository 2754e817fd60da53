// Package push abstracts the platform background-delivery service used when
// the application is not in the foreground.
//
// The pipeline only calls the Bridge contract; it never implements platform
// delivery itself. On unsupported platforms every call degrades to a no-op
// instead of failing, and a denied permission only disables background
// delivery; the in-app fan-out keeps working.
package push
