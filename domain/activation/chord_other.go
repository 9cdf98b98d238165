//go:build !windows && !linux

package activation

func systemButtons() (ButtonReader, func() error, error) {
	return nil, nil, ErrUnsupported
}
