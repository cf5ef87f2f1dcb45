package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrOutOfBounds          = errors.New("point out of bounds")
)

// ConfigError describes why a set of game parameters was rejected. It always
// matches [ErrInvalidConfiguration] with [errors.Is].
type ConfigError struct {
	Params GameParams
	Reason string
}

// [ConfigError] implements [error]
func (e ConfigError) Error() string {
	return fmt.Sprintf("%s %s: %s", ErrInvalidConfiguration, e.Params.Seed(), e.Reason)
}

func (e ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}
