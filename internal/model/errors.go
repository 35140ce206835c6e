package model

import "fmt"

// ConfigError reports an invalid RunConfig. It carries the sweep coordinates
// of the offending configuration so failures are reproducible.
type ConfigError struct {
	Field         string
	Reason        string
	Weight        float64
	PropPlayingA1 float64
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid run config: %s %s (weight=%g prop_playing_a1=%g)",
		e.Field, e.Reason, e.Weight, e.PropPlayingA1)
}
