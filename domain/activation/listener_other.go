//go:build !windows && !linux

package activation

import (
	"context"
	"log/slog"
)

type unsupportedListener struct{}

// NewSystemListener returns a listener that always fails with ErrUnsupported.
func NewSystemListener(*slog.Logger) Listener { return unsupportedListener{} }

func (unsupportedListener) Listen(context.Context, []Binding, func(Trigger)) error {
	return ErrUnsupported
}
