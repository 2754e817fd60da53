// Package escalate handles the small set of notification types that must
// interrupt the user regardless of which screen is active.
//
// A hostel status change produces a blocking Alert on a dedicated bus; the
// application's top-level modal host consumes it and renders the modal, so no
// UI concern leaks into the transport or store layers. The alert stays raised
// until Acknowledge is called. A hostel approval instead updates the locally
// cached session status and emits a refresh signal.
//
// All other notification types pass through untouched and reach the UI only
// via the regular fan-out.
package escalate
