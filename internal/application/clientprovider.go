package application

import (
	"sync"

	"github.com/ericfisherdev/prboard/internal/domain/port/driven"
)

// GitHubClientProvider enables runtime hot-swap of the GitHub client.
// It holds a mutex-protected reference to the current driven.GitHubClient so
// a token saved from the settings page takes effect without a restart.
// A batch reads the client once, so an in-flight batch keeps the client it
// started with.
type GitHubClientProvider struct {
	mu     sync.RWMutex
	client driven.GitHubClient
}

// NewGitHubClientProvider creates a new provider with the given initial client.
// client may be nil; every link then fails as unreachable until Replace is called.
func NewGitHubClientProvider(client driven.GitHubClient) *GitHubClientProvider {
	return &GitHubClientProvider{client: client}
}

// Get returns the current GitHub client, or nil.
func (p *GitHubClientProvider) Get() driven.GitHubClient {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

// Replace swaps the current client. The next caller of Get() receives the new one.
func (p *GitHubClientProvider) Replace(client driven.GitHubClient) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = client
}

// HasClient returns true if a non-nil client is currently held.
func (p *GitHubClientProvider) HasClient() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client != nil
}
