// Package tui renders transformation progress as a live terminal view.
package tui

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

const feedBuffer = 64

var _ progrock.Writer = (*Feed)(nil)

// TapeSource yields progrock updates in the order they were recorded.
type TapeSource interface {
	Read() (*progrock.StatusUpdate, error)
}

// Feed is a progrock.Writer whose updates are read back by the view.
// Writes never block once the feed is closed.
type Feed struct {
	updates chan *progrock.StatusUpdate
	done    chan struct{}
	once    sync.Once
}

// NewFeed creates an open Feed.
func NewFeed() *Feed {
	return &Feed{
		updates: make(chan *progrock.StatusUpdate, feedBuffer),
		done:    make(chan struct{}),
	}
}

// WriteStatus implements progrock.Writer.
func (f *Feed) WriteStatus(update *progrock.StatusUpdate) error {
	select {
	case f.updates <- update:
	case <-f.done:
	}
	return nil
}

// Close ends the feed. Buffered updates are still delivered by Read.
func (f *Feed) Close() error {
	f.once.Do(func() { close(f.done) })
	return nil
}

// Read returns the next update, or io.EOF once the feed is closed and drained.
func (f *Feed) Read() (*progrock.StatusUpdate, error) {
	select {
	case u := <-f.updates:
		return u, nil
	case <-f.done:
		select {
		case u := <-f.updates:
			return u, nil
		default:
			return nil, io.EOF
		}
	}
}
