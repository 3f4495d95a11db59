package srv

import "context"

// cleanupService implements Service for plain closers.
type cleanupService struct {
	name    string
	cleanup func() error
}

func (c *cleanupService) Start(ctx context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(ctx context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

func (c *cleanupService) String() string {
	return c.name
}

func NewCleanup(fn func() error) Service {
	return &cleanupService{name: "cleanup", cleanup: fn}
}

// NewNamedCleanup is NewCleanup with a name used in shutdown logs.
func NewNamedCleanup(name string, fn func() error) Service {
	return &cleanupService{name: name, cleanup: fn}
}
