// Package signal cancels a build context on SIGINT or SIGTERM.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler wraps a context and cancels it on the first interrupt.
// Later interrupts are ignored; callers finish cleanup on the canceled context.
type Handler struct {
	ctx         context.Context //nolint:containedctx // the handler owns the context lifecycle
	cancel      context.CancelFunc
	interrupted chan struct{}
	done        chan struct{}
	sigs        chan os.Signal
	fire        sync.Once
	stop        sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	res, err := svc.Build(h.Context(), req)
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:         ctx,
		cancel:      cancel,
		interrupted: make(chan struct{}),
		done:        make(chan struct{}),
		sigs:        make(chan os.Signal, 1),
	}
	signal.Notify(h.sigs, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()
	return h
}

// Context returns the context canceled on interrupt.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted is closed once an interrupt has been received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.interrupted
}

// WasInterrupted reports whether an interrupt has been received.
func (h *Handler) WasInterrupted() bool {
	select {
	case <-h.interrupted:
		return true
	default:
		return false
	}
}

// Stop releases the signal subscription and cancels the context.
// It is safe to call more than once.
func (h *Handler) Stop() {
	h.stop.Do(func() {
		signal.Stop(h.sigs)
		close(h.done)
		h.cancel()
	})
}

func (h *Handler) trigger() {
	h.fire.Do(func() {
		close(h.interrupted)
		h.cancel()
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.done:
			return
		case <-h.sigs:
			h.trigger()
		}
	}
}
