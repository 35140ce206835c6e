// Package game defines the strategy enumerations and payoff matrices of the
// plural signaling game: two 2x2 coordination subgames, B's payoffs being A's
// scaled by a weight multiplier.
package game

import "fmt"

// Subgame labels one of the two coordination games a pair can be assigned to.
type Subgame uint8

const (
	SubgameA Subgame = iota
	SubgameB
)

func (s Subgame) String() string {
	switch s {
	case SubgameA:
		return "A"
	case SubgameB:
		return "B"
	default:
		return fmt.Sprintf("Subgame(%d)", uint8(s))
	}
}

// ActionA is an agent's strategy variant for the A-role.
type ActionA uint8

const (
	A1 ActionA = iota
	A2

	numActionsA = 2
)

func (a ActionA) String() string {
	switch a {
	case A1:
		return "A1"
	case A2:
		return "A2"
	default:
		return fmt.Sprintf("ActionA(%d)", uint8(a))
	}
}

// Valid reports whether the action belongs to the closed A-role enumeration.
func (a ActionA) Valid() bool {
	return a < numActionsA
}

// ActionB is an agent's strategy variant for the B-role.
type ActionB uint8

const (
	B1 ActionB = iota
	B2

	numActionsB = 2
)

func (b ActionB) String() string {
	switch b {
	case B1:
		return "B1"
	case B2:
		return "B2"
	default:
		return fmt.Sprintf("ActionB(%d)", uint8(b))
	}
}

// Valid reports whether the action belongs to the closed B-role enumeration.
func (b ActionB) Valid() bool {
	return b < numActionsB
}
