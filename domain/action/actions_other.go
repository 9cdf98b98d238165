//go:build !windows && !linux

package action

func systemCallbacks() (Callbacks, error) { return Callbacks{}, ErrUnsupported }
