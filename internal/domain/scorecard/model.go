package scorecard

import (
	"errors"
	"fmt"
	"strings"
)

// HoleCount is the number of holes in one round.
const HoleCount = 18

var (
	ErrHoleOutOfRange = errors.New("Hole number must be between 1 and 18")
	ErrInvalidResult  = errors.New("Result must be one of: W, L, or D")
)

// Result is the outcome a player recorded on one hole.
type Result string

const (
	ResultUnset Result = ""
	ResultWin   Result = "W"
	ResultLoss  Result = "L"
	ResultDraw  Result = "D"
)

func (r Result) IsSet() bool {
	return r != ResultUnset
}

func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultDraw:
		return true
	default:
		return false
	}
}

// ParseResult accepts W, L or D in any case.
func ParseResult(raw string) (Result, error) {
	result := Result(strings.ToUpper(strings.TrimSpace(raw)))
	if !result.Valid() {
		return ResultUnset, fmt.Errorf("%w: got %q", ErrInvalidResult, raw)
	}
	return result, nil
}

func ValidateHoleNumber(holeNumber int) error {
	if holeNumber < 1 || holeNumber > HoleCount {
		return fmt.Errorf("%w: got %d", ErrHoleOutOfRange, holeNumber)
	}
	return nil
}

// Scorecard holds one result slot per hole. Slot i belongs to hole i+1.
type Scorecard [HoleCount]Result

// At returns the result recorded for a 1-indexed hole.
func (s Scorecard) At(holeNumber int) (Result, error) {
	if err := ValidateHoleNumber(holeNumber); err != nil {
		return ResultUnset, err
	}
	return s[holeNumber-1], nil
}

// With returns a copy of the scorecard with one slot replaced. The receiver is never modified.
func (s Scorecard) With(holeNumber int, result Result) (Scorecard, error) {
	if err := ValidateHoleNumber(holeNumber); err != nil {
		return s, err
	}
	if !result.Valid() {
		return s, fmt.Errorf("%w: got %q", ErrInvalidResult, string(result))
	}

	next := s
	next[holeNumber-1] = result
	return next, nil
}

func (s Scorecard) Strings() []string {
	out := make([]string, HoleCount)
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// FromStrings rebuilds a scorecard from its stored form. Empty strings are unset slots.
func FromStrings(values []string) (Scorecard, error) {
	var out Scorecard
	if len(values) != HoleCount {
		return out, fmt.Errorf("scorecard must have %d slots, got %d", HoleCount, len(values))
	}
	for i, v := range values {
		r := Result(strings.TrimSpace(v))
		if r.IsSet() && !r.Valid() {
			return out, fmt.Errorf("%w: slot %d has %q", ErrInvalidResult, i+1, v)
		}
		out[i] = r
	}
	return out, nil
}
