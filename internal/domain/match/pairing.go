package match

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
)

// PlayerCount is the number of players in a match.
const PlayerCount = 4

// PairingsPerHole is the number of head-to-head matchups on every hole.
const PairingsPerHole = 2

var ErrInvalidPairing = errors.New("invalid pairing")

// Pairing holds two seat indexes (0-3) that meet on a hole.
type Pairing struct {
	SeatA int
	SeatB int
}

// rotation is indexed by (hole-1) mod 3.
var rotation = [3][PairingsPerHole]Pairing{
	{{SeatA: 0, SeatB: 1}, {SeatA: 2, SeatB: 3}},
	{{SeatA: 0, SeatB: 2}, {SeatA: 1, SeatB: 3}},
	{{SeatA: 0, SeatB: 3}, {SeatA: 1, SeatB: 2}},
}

// PairingsForHole returns the two seat pairings that compete on a hole.
func PairingsForHole(holeNumber int) ([PairingsPerHole]Pairing, error) {
	if err := scorecard.ValidateHoleNumber(holeNumber); err != nil {
		return [PairingsPerHole]Pairing{}, err
	}
	return rotation[(holeNumber-1)%len(rotation)], nil
}

// BuildHoleMatches resolves the seat pairings of a hole against the match's players, ordered by seat.
func BuildHoleMatches(holeNumber int, seats [PlayerCount]string) ([PairingsPerHole]HoleMatch, error) {
	var out [PairingsPerHole]HoleMatch

	pairings, err := PairingsForHole(holeNumber)
	if err != nil {
		return out, err
	}

	for i, p := range pairings {
		hm := HoleMatch{
			Position:  i,
			Player1ID: seats[p.SeatA],
			Player2ID: seats[p.SeatB],
		}
		if hm.Player1ID == "" || hm.Player2ID == "" {
			return out, fmt.Errorf("%w: hole %d position %d has an empty seat", ErrInvalidPairing, holeNumber, i)
		}
		if err := hm.Validate(); err != nil {
			return out, err
		}
		out[i] = hm
	}

	return out, nil
}
