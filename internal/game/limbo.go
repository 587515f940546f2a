package game

import "math"

const (
	limboMinTarget = 1.01
	limboMaxTarget = 1000
)

type LimboParams struct {
	Bet    int64   `json:"bet"`
	Target float64 `json:"target"`
}

type LimboResult struct {
	CrashPoint float64 `json:"crash_point"`
	Won        bool    `json:"won"`
	Payout     int64   `json:"payout"`
	Balance    int64   `json:"balance"`
}

func (p LimboParams) validate() error {
	if p.Bet <= 0 {
		return ErrInvalidRequest
	}
	if p.Target < limboMinTarget || p.Target > limboMaxTarget {
		return ErrInvalidRequest
	}
	return nil
}

func resolveLimbo(rng RNG, p LimboParams) LimboResult {
	// r is drawn from the open interval (0, 100).
	r := rng.Float64() * 100
	for r == 0 {
		r = rng.Float64() * 100
	}
	crash := math.Round(99/r*100) / 100
	if crash < 1 {
		crash = 1
	}
	res := LimboResult{CrashPoint: crash, Won: crash >= p.Target}
	if res.Won {
		res.Payout = int64(math.Floor(float64(p.Bet) * p.Target))
	}
	return res
}
