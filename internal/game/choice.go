package game

import "strings"

// Choice is a player's move. The numeric values are part of the commitment
// wire format (a single discriminant byte) and must not be reordered.
type Choice uint8

const (
	ChoiceNone     Choice = 0
	ChoiceRock     Choice = 1
	ChoicePaper    Choice = 2
	ChoiceScissors Choice = 3
)

func (c Choice) Valid() bool {
	return c >= ChoiceRock && c <= ChoiceScissors
}

// Beats reports whether c wins against other under the standard cyclic
// relation: rock > scissors > paper > rock.
func (c Choice) Beats(other Choice) bool {
	switch c {
	case ChoiceRock:
		return other == ChoiceScissors
	case ChoicePaper:
		return other == ChoiceRock
	case ChoiceScissors:
		return other == ChoicePaper
	default:
		return false
	}
}

func (c Choice) String() string {
	switch c {
	case ChoiceRock:
		return "rock"
	case ChoicePaper:
		return "paper"
	case ChoiceScissors:
		return "scissors"
	default:
		return "none"
	}
}

func ParseChoice(s string) (Choice, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock":
		return ChoiceRock, true
	case "paper":
		return ChoicePaper, true
	case "scissors":
		return ChoiceScissors, true
	default:
		return ChoiceNone, false
	}
}
