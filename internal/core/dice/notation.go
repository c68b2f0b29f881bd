package dice

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
)

// ErrInvalidNotation indicates a dice notation string could not be parsed.
var ErrInvalidNotation = errors.New("dice notation must have the form XdY")

// ParseNotation parses standard dice notation such as "2d6" or "1d20" into
// a Spec. A missing count ("d20") defaults to one die.
func ParseNotation(notation string) (Spec, error) {
	value := strings.ToLower(strings.TrimSpace(notation))
	countPart, sidesPart, found := strings.Cut(value, "d")
	if !found || sidesPart == "" {
		return Spec{}, ErrInvalidNotation
	}

	count := 1
	if countPart != "" {
		parsed, err := strconv.Atoi(countPart)
		if err != nil {
			return Spec{}, ErrInvalidNotation
		}
		count = parsed
	}
	sides, err := strconv.Atoi(sidesPart)
	if err != nil {
		return Spec{}, ErrInvalidNotation
	}

	spec := Spec{Sides: sides, Count: count}
	if spec.Sides <= 0 || spec.Count <= 0 {
		return Spec{}, ErrInvalidDiceSpec
	}
	return spec, nil
}

// RollNotation parses notation and rolls it with the provided random source.
func RollNotation(rng *rand.Rand, notation string) (Result, error) {
	spec, err := ParseNotation(notation)
	if err != nil {
		return Result{}, err
	}
	return RollWithRng(rng, []Spec{spec})
}
