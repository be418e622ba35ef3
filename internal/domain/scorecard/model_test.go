package scorecard

import (
	"errors"
	"testing"
)

func TestScorecardWith_ReplacesOnlyOneSlot(t *testing.T) {
	t.Parallel()

	var card Scorecard
	card[0] = ResultDraw
	card[17] = ResultLoss

	next, err := card.With(5, ResultWin)
	if err != nil {
		t.Fatalf("with: %v", err)
	}

	got, err := next.At(5)
	if err != nil {
		t.Fatalf("at: %v", err)
	}
	if got != ResultWin {
		t.Fatalf("expected W at hole 5, got %q", got)
	}
	for hole := 1; hole <= HoleCount; hole++ {
		if hole == 5 {
			continue
		}
		if next[hole-1] != card[hole-1] {
			t.Fatalf("hole %d changed: before=%q after=%q", hole, card[hole-1], next[hole-1])
		}
	}
	if card[4] != ResultUnset {
		t.Fatalf("receiver was modified: %q", card[4])
	}
}

func TestScorecardWith_RejectsBadInput(t *testing.T) {
	t.Parallel()

	var card Scorecard
	for _, hole := range []int{0, 19, -3} {
		if _, err := card.With(hole, ResultWin); !errors.Is(err, ErrHoleOutOfRange) {
			t.Fatalf("hole %d: expected ErrHoleOutOfRange, got %v", hole, err)
		}
	}
	if _, err := card.With(1, Result("X")); !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", err)
	}
	if _, err := card.With(1, ResultUnset); !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult for unset, got %v", err)
	}
}

func TestParseResult(t *testing.T) {
	t.Parallel()

	cases := map[string]Result{"w": ResultWin, " L ": ResultLoss, "D": ResultDraw}
	for raw, want := range cases {
		got, err := ParseResult(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %q got %q", raw, want, got)
		}
	}

	if _, err := ParseResult("win"); !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", err)
	}
}

func TestFromStrings(t *testing.T) {
	t.Parallel()

	values := make([]string, HoleCount)
	values[2] = "W"
	values[3] = "D"

	card, err := FromStrings(values)
	if err != nil {
		t.Fatalf("from strings: %v", err)
	}
	if card[2] != ResultWin || card[3] != ResultDraw || card[0] != ResultUnset {
		t.Fatalf("unexpected card: %+v", card)
	}

	if _, err := FromStrings(values[:17]); err == nil {
		t.Fatalf("expected error for short scorecard")
	}

	values[0] = "Z"
	if _, err := FromStrings(values); !errors.Is(err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", err)
	}
}
