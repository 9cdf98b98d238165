package view

import "errors"

// ErrUIClosed is returned when the Tk loop no longer accepts work.
var ErrUIClosed = errors.New("ui closed")

// Dispatcher queues work for the Tk thread. presenter.Loop implements it.
type Dispatcher interface {
	Post(fn func()) bool
}
