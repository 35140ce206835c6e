package game

import "fmt"

// basePayoff is the diagonal payoff of the subgame A coordination matrix.
const basePayoff = 3.0

// StrategyLookupError reports a payoff lookup for a strategy combination the
// matrix does not define. It indicates a model-definition bug and must never
// be swallowed.
type StrategyLookupError struct {
	Subgame Subgame
	Row     uint8
	Col     uint8
}

func (e *StrategyLookupError) Error() string {
	return fmt.Sprintf("no payoff entry for (%d, %d) in subgame %s matrix", e.Row, e.Col, e.Subgame)
}

// PayoffMatrix is an immutable square table for one subgame, mapping
// (own signal, opponent signal) to the payoff earned by the owner of the row.
// The game is symmetric: the column player's payoff is the transposed entry.
type PayoffMatrix struct {
	subgame Subgame
	cells   [][]float64
}

// NewSubgameA builds the fixed subgame A matrix: payoff 3 for matching
// signals, 0 for mismatches. It does not depend on the weight.
func NewSubgameA() PayoffMatrix {
	return coordinationMatrix(SubgameA, basePayoff)
}

// Scale derives the subgame B matrix by multiplying every entry by weight.
// Negative weights are rejected.
func (m PayoffMatrix) Scale(weight float64) (PayoffMatrix, error) {
	if weight < 0 {
		return PayoffMatrix{}, fmt.Errorf("matrix weight must be >= 0, got %g", weight)
	}
	scaled := PayoffMatrix{
		subgame: SubgameB,
		cells:   make([][]float64, len(m.cells)),
	}
	for i, row := range m.cells {
		scaled.cells[i] = make([]float64, len(row))
		for j, cell := range row {
			scaled.cells[i][j] = cell * weight
		}
	}
	return scaled, nil
}

// Payoffs resolves one pairing: it returns the payoff to x and the payoff to
// y for signals x and y. Undefined combinations yield a *StrategyLookupError.
func (m PayoffMatrix) Payoffs(x, y uint8) (float64, float64, error) {
	if int(x) >= len(m.cells) || int(y) >= len(m.cells) {
		return 0, 0, &StrategyLookupError{Subgame: m.subgame, Row: x, Col: y}
	}
	return m.cells[x][y], m.cells[y][x], nil
}

// MaxEntry returns the largest payoff in the matrix. The revision process
// uses it to normalize payoff differences into imitation probabilities.
func (m PayoffMatrix) MaxEntry() float64 {
	max := 0.0
	for _, row := range m.cells {
		for _, cell := range row {
			if cell > max {
				max = cell
			}
		}
	}
	return max
}

func coordinationMatrix(subgame Subgame, diagonal float64) PayoffMatrix {
	m := PayoffMatrix{
		subgame: subgame,
		cells:   make([][]float64, numActionsA),
	}
	for i := range m.cells {
		m.cells[i] = make([]float64, numActionsA)
		m.cells[i][i] = diagonal
	}
	return m
}
