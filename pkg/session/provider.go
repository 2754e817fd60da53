package session

import "sync"

// Provider supplies the current session identity to the pipeline and lets the
// escalation path update the locally cached hostel status when the server
// approves a hostel.
type Provider interface {
	// Identity returns the current session identity.
	Identity() Identity

	// SetHostelStatus updates the cached hostel status for the session.
	SetHostelStatus(status HostelStatus)
}

// StaticProvider is an in-memory Provider seeded with a fixed identity.
// Safe for concurrent use.
type StaticProvider struct {
	identity Identity
	mu       sync.RWMutex
}

// NewStaticProvider creates a provider holding the given identity.
func NewStaticProvider(identity Identity) *StaticProvider {
	return &StaticProvider{identity: identity}
}

func (p *StaticProvider) Identity() Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.identity
}

func (p *StaticProvider) SetHostelStatus(status HostelStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identity.HostelStatus = status
}
