package game

import "math"

const houseEdge = 0.99

type DiceDirection string

const (
	DiceUnder DiceDirection = "under"
	DiceOver  DiceDirection = "over"
)

type DiceParams struct {
	Bet       int64         `json:"bet"`
	Target    float64       `json:"target"`
	Direction DiceDirection `json:"direction"`
}

type DiceResult struct {
	Roll       float64 `json:"roll"`
	Won        bool    `json:"won"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
	Balance    int64   `json:"balance"`
}

func (p DiceParams) validate() error {
	if p.Bet <= 0 {
		return ErrInvalidRequest
	}
	if p.Target < 0 || p.Target > 100 {
		return ErrInvalidRequest
	}
	if p.Direction != DiceUnder && p.Direction != DiceOver {
		return ErrInvalidRequest
	}
	return nil
}

// DiceMultiplier is the fair-odds payout for the chosen window, discounted by
// the house edge. A window of zero width pays nothing.
func DiceMultiplier(target float64, dir DiceDirection) float64 {
	switch dir {
	case DiceUnder:
		if target <= 0 {
			return 0
		}
		return 100 / target * houseEdge
	case DiceOver:
		if target >= 100 {
			return 0
		}
		return 100 / (100 - target) * houseEdge
	}
	return 0
}

func resolveDice(rng RNG, p DiceParams) DiceResult {
	roll := rng.Float64() * 100
	won := false
	switch p.Direction {
	case DiceUnder:
		won = roll < p.Target
	case DiceOver:
		won = roll > p.Target
	}
	mult := DiceMultiplier(p.Target, p.Direction)
	res := DiceResult{Roll: roll, Won: won, Multiplier: mult}
	if won {
		res.Payout = int64(math.Floor(float64(p.Bet) * mult))
	}
	return res
}
