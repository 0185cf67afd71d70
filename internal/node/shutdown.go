package node

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// shutdownCoordinator tears a node down in reverse start order. Each
// component registers a named handler as it comes up; shutdown walks
// the list back to front so nothing is closed under a still-running
// dependent.
type shutdownCoordinator struct {
	mu       sync.Mutex
	handlers []namedHandler
}

type namedHandler struct {
	name string
	fn   func(context.Context) error
}

func (s *shutdownCoordinator) register(name string, fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, namedHandler{name: name, fn: fn})
}

// shutdown runs every handler even when earlier ones fail; the errors
// are joined and reported together.
func (s *shutdownCoordinator) shutdown(ctx context.Context) error {
	s.mu.Lock()
	handlers := append([]namedHandler(nil), s.handlers...)
	s.mu.Unlock()

	var err error
	for i := len(handlers) - 1; i >= 0; i-- {
		h := handlers[i]
		slog.Info("shutting down", "component", h.name)
		if herr := h.fn(ctx); herr != nil {
			slog.Error("shutdown error", "component", h.name, "error", herr)
			err = errors.Join(err, fmt.Errorf("%s: %w", h.name, herr))
		}
	}
	return err
}
