package model

// AssignmentPolicy decides which subgame a matched pair plays in a round.
type AssignmentPolicy string

const (
	// AssignRandom draws the subgame per pair from the run's random source.
	AssignRandom AssignmentPolicy = "random"
	// AssignAlternating assigns subgames by pair index parity within a round.
	AssignAlternating AssignmentPolicy = "alternating"
)

// RunConfig fully describes one simulation run. It is immutable for the
// duration of the run; the sweep driver constructs a fresh one per grid point.
type RunConfig struct {
	PopulationSize   int              `json:"population_size" yaml:"population_size"`
	NumRounds        int              `json:"num_rounds" yaml:"num_rounds"`
	Weight           float64          `json:"weight" yaml:"weight"`
	PropPlayingA1    float64          `json:"prop_playing_a1" yaml:"prop_playing_a1"`
	RevisionInterval int              `json:"revision_interval" yaml:"revision_interval"`
	Assignment       AssignmentPolicy `json:"assignment" yaml:"assignment"`
	Seed             int64            `json:"seed" yaml:"seed"`
	TrackRounds      bool             `json:"track_rounds" yaml:"track_rounds"`
}

// Normalized returns a copy with defaults applied: revision every round and
// random subgame assignment unless configured otherwise.
func (c RunConfig) Normalized() RunConfig {
	if c.RevisionInterval == 0 {
		c.RevisionInterval = 1
	}
	if c.Assignment == "" {
		c.Assignment = AssignRandom
	}
	return c
}

// Validate checks the config against the run preconditions. It returns a
// *ConfigError naming the offending field, or nil.
func (c RunConfig) Validate() error {
	switch {
	case c.PopulationSize <= 0:
		return c.configError("population_size", "must be > 0")
	case c.PopulationSize%2 != 0:
		return c.configError("population_size", "must be even so every agent can be paired")
	case c.NumRounds <= 0:
		return c.configError("num_rounds", "must be > 0")
	case c.Weight < 0:
		return c.configError("weight", "must be >= 0")
	case c.PropPlayingA1 < 0 || c.PropPlayingA1 > 1:
		return c.configError("prop_playing_a1", "must be in [0, 1]")
	case c.RevisionInterval <= 0:
		return c.configError("revision_interval", "must be > 0")
	}
	switch c.Assignment {
	case AssignRandom, AssignAlternating:
	default:
		return c.configError("assignment", "must be \"random\" or \"alternating\"")
	}
	return nil
}

func (c RunConfig) configError(field, reason string) *ConfigError {
	return &ConfigError{
		Field:         field,
		Reason:        reason,
		Weight:        c.Weight,
		PropPlayingA1: c.PropPlayingA1,
	}
}

// StrategyShares holds the population fraction holding each strategy variant.
// A1+A2 and B1+B2 each sum to 1 for a non-empty population.
type StrategyShares struct {
	A1 float64 `json:"a1"`
	A2 float64 `json:"a2"`
	B1 float64 `json:"b1"`
	B2 float64 `json:"b2"`
}

// VariantPayoffs holds the mean per-round payoff of the agents playing each
// strategy variant. A variant nobody holds reports zero.
type VariantPayoffs struct {
	A1 float64 `json:"a1"`
	A2 float64 `json:"a2"`
	B1 float64 `json:"b1"`
	B2 float64 `json:"b2"`
}

// RoundStats is one round's aggregate output: the effective subgame mixture
// played and the population state after the round.
type RoundStats struct {
	Round         int     `json:"round"`
	APairings     int     `json:"a_pairings"`
	BPairings     int     `json:"b_pairings"`
	PropPlayingA1 float64 `json:"prop_playing_a1"`
	PropPlayingB1 float64 `json:"prop_playing_b1"`
	MeanPayoff    float64 `json:"mean_payoff"`
}

// RunResult is the per-configuration record appended to the recorder.
type RunResult struct {
	Weight        float64        `json:"weight"`
	PropPlayingA1 float64        `json:"prop_playing_a1"`
	Seed          int64          `json:"seed"`
	Rounds        int            `json:"rounds"`
	Revisions     int            `json:"revisions"`
	FinalShares   StrategyShares `json:"final_shares"`
	MeanPayoffs   VariantPayoffs `json:"mean_payoffs"`
	RoundHistory  []RoundStats   `json:"round_history,omitempty"`
}
