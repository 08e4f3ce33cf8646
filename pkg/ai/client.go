package ai

import (
	"context"
	"sync"

	"github.com/fvaldes/matutino/pkg/domain/ai"
)

// Client holds the active provider and supports reconfiguration at runtime
// without a process restart. It is injected into the router, ranker and
// summarizer rather than living in package-level state.
type Client struct {
	mu       sync.RWMutex
	cfg      Config
	provider ai.Provider
}

func NewClient(cfg Config) (*Client, error) {
	p, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, provider: p}, nil
}

// NewClientWithProvider wires an explicit provider (for tests).
func NewClientWithProvider(p ai.Provider) *Client {
	return &Client{provider: p}
}

func (c *Client) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.provider.ID()
}

func (c *Client) Generate(ctx context.Context, req ai.Request) (*ai.Response, error) {
	c.mu.RLock()
	p := c.provider
	c.mu.RUnlock()
	return p.Generate(ctx, req)
}

// Reconfigure swaps the active backend. In-flight calls finish against the
// provider they started with.
func (c *Client) Reconfigure(cfg Config) error {
	p, err := NewProvider(cfg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.cfg = cfg
	c.provider = p
	c.mu.Unlock()
	return nil
}

// Info describes the active backend for the aiconfig command.
type Info struct {
	Provider   string
	Model      string
	Configured bool
}

func (c *Client) Info() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	provider := c.cfg.Provider
	if provider == "" {
		provider = "gemini"
	}
	return Info{
		Provider:   provider,
		Model:      c.cfg.Model,
		Configured: Configured(c.cfg),
	}
}
