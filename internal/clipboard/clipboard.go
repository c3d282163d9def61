// Package clipboard abstracts access to the system clipboard so the monitor
// loop can be tested without a display server.
package clipboard

import (
	"errors"

	atotto "github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no system clipboard backend exists, e.g.
// on a headless machine without xclip/xsel.
var ErrUnavailable = errors.New("clipboard: no system clipboard available")

type Clipboard interface {
	Get() (string, error)
	Set(value string) error
}

// System reads and writes the desktop clipboard.
type System struct{}

func NewSystem() (*System, error) {
	if atotto.Unsupported {
		return nil, ErrUnavailable
	}

	return &System{}, nil
}

func (s *System) Get() (string, error) {
	return atotto.ReadAll()
}

func (s *System) Set(value string) error {
	return atotto.WriteAll(value)
}
