package push

import (
	"context"
	"errors"

	"github.com/hostelhub/notifykit/pkg/session"
)

var (
	// ErrPermissionDenied is returned when the platform refuses background
	// notification delivery for this session.
	ErrPermissionDenied = errors.New("push: notification permission denied")
)

// Bridge is the platform-specific background notification delivery service.
// Implementations on unsupported platforms must degrade to no-ops rather
// than returning errors.
type Bridge interface {
	// Initialize prepares background delivery for the session.
	Initialize(ctx context.Context, identity session.Identity) error

	// Supported reports whether background delivery works on this platform.
	Supported() bool

	// RequestPermission asks the platform for delivery permission.
	// Returns ErrPermissionDenied when the user refused.
	RequestPermission(ctx context.Context) error

	// Show delivers a background notification.
	Show(ctx context.Context, title, body string) error
}

// NoopBridge is the Bridge for platforms without background delivery.
// Every call succeeds and does nothing.
type NoopBridge struct{}

func (NoopBridge) Initialize(ctx context.Context, identity session.Identity) error { return nil }

func (NoopBridge) Supported() bool { return false }

func (NoopBridge) RequestPermission(ctx context.Context) error { return nil }

func (NoopBridge) Show(ctx context.Context, title, body string) error { return nil }
