package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer runs the progress view for a Feed.
type Renderer struct {
	program *tea.Program
	feed    *Feed
	model   *Model
	errCh   chan error
}

// NewRenderer creates a renderer showing the updates written to feed.
func NewRenderer(feed *Feed, opts ...tea.ProgramOption) *Renderer {
	model := NewModel(feed)
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		feed:    feed,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the view in a background goroutine.
// When the view exits early the feed is closed so recorders never block.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		_ = r.feed.Close()
		r.errCh <- err
	}()
	return nil
}

// Wait blocks until the view has terminated.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// Model returns the model driving the view. Read it only after Wait.
func (r *Renderer) Model() *Model {
	return r.model
}
