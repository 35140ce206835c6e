package population

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"normsim/internal/game"
)

func TestNewMatchesRequestedProportion(t *testing.T) {
	const size = 200
	for _, prop := range []float64{0, 0.225, 0.45, 1} {
		rng := rand.New(rand.NewSource(7))
		agents, err := New(size, prop, rng)
		if err != nil {
			t.Fatalf("new population (prop=%g): %v", prop, err)
		}
		shares := Shares(agents)
		tolerance := 1.0 / float64(size)
		if math.Abs(shares.A1-prop) > tolerance {
			t.Fatalf("prop %g: initial A1 share %g outside tolerance %g", prop, shares.A1, tolerance)
		}
	}
}

func TestNewUsesDefaultBSplit(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	agents, err := New(100, 0.3, rng)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}
	shares := Shares(agents)
	if shares.B1 != 0.5 || shares.B2 != 0.5 {
		t.Fatalf("expected even B split, got B1=%g B2=%g", shares.B1, shares.B2)
	}
}

func TestNewIsDeterministicForSeed(t *testing.T) {
	first, err := New(50, 0.4, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("first population: %v", err)
	}
	second, err := New(50, 0.4, rand.New(rand.NewSource(99)))
	if err != nil {
		t.Fatalf("second population: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different populations (-first +second):\n%s", diff)
	}
}

func TestNewRejectsInvalidArguments(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := New(0, 0.5, rng); err == nil {
		t.Fatal("expected error for empty population")
	}
	if _, err := New(10, 1.5, rng); err == nil {
		t.Fatal("expected error for proportion above 1")
	}
	if _, err := New(10, 0.5, nil); err == nil {
		t.Fatal("expected error for nil random source")
	}
}

func TestSharesSumToOnePerRole(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	agents, err := New(60, 0.37, rng)
	if err != nil {
		t.Fatalf("new population: %v", err)
	}
	shares := Shares(agents)
	if math.Abs(shares.A1+shares.A2-1) > 1e-12 {
		t.Fatalf("A shares sum to %g", shares.A1+shares.A2)
	}
	if math.Abs(shares.B1+shares.B2-1) > 1e-12 {
		t.Fatalf("B shares sum to %g", shares.B1+shares.B2)
	}
}

func TestResetPayoffs(t *testing.T) {
	agents := []Agent{
		{ID: 0, StrategyA: game.A1, StrategyB: game.B1, Payoff: 12},
		{ID: 1, StrategyA: game.A2, StrategyB: game.B2, Payoff: 3},
	}
	if got := MeanPayoff(agents); got != 7.5 {
		t.Fatalf("mean payoff = %g, want 7.5", got)
	}
	ResetPayoffs(agents)
	for _, a := range agents {
		if a.Payoff != 0 {
			t.Fatalf("agent %d payoff not reset: %g", a.ID, a.Payoff)
		}
	}
}
