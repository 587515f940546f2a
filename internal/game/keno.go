package game

import (
	"fmt"
	"math"
	"sort"
)

const (
	kenoPoolSize  = 40
	kenoDrawCount = 10
	kenoMaxPicks  = 10
	kenoMaxMult   = 1000
)

type KenoRisk string

const (
	KenoLow    KenoRisk = "low"
	KenoMedium KenoRisk = "medium"
	KenoHigh   KenoRisk = "high"
)

type KenoParams struct {
	Bet   int64    `json:"bet"`
	Risk  KenoRisk `json:"risk"`
	Picks []int    `json:"picks"`
}

type KenoResult struct {
	Drawn      []int   `json:"drawn"`
	Hits       []int   `json:"hits"`
	Won        bool    `json:"won"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
	Balance    int64   `json:"balance"`
}

// KenoTables holds one paytable per risk tier. Row i covers i+1 picks and is
// indexed by hit count, so row lengths are ragged: len(row[i]) == i+2.
type KenoTables struct {
	tiers map[KenoRisk][][]float64
}

func LoadKenoTables() (*KenoTables, error) {
	t := &KenoTables{tiers: map[KenoRisk][][]float64{
		KenoLow:    kenoLowRows,
		KenoMedium: kenoMediumRows,
		KenoHigh:   kenoHighRows,
	}}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *KenoTables) validate() error {
	for _, risk := range []KenoRisk{KenoLow, KenoMedium, KenoHigh} {
		rows, ok := t.tiers[risk]
		if !ok {
			return fmt.Errorf("keno tables: missing %s tier", risk)
		}
		if len(rows) != kenoMaxPicks {
			return fmt.Errorf("keno tables: %s tier has %d rows, want %d", risk, len(rows), kenoMaxPicks)
		}
		for i, row := range rows {
			if len(row) != i+2 {
				return fmt.Errorf("keno tables: %s tier row %d has %d entries, want %d", risk, i, len(row), i+2)
			}
			for hits, mult := range row {
				if mult < 0 || mult > kenoMaxMult {
					return fmt.Errorf("keno tables: %s tier picks=%d hits=%d multiplier %v out of range", risk, i+1, hits, mult)
				}
			}
		}
	}
	return nil
}

func (t *KenoTables) Multiplier(risk KenoRisk, picks, hits int) (float64, error) {
	rows, ok := t.tiers[risk]
	if !ok {
		return 0, ErrInvalidRequest
	}
	if picks < 1 || picks > kenoMaxPicks {
		return 0, ErrInvalidRequest
	}
	row := rows[picks-1]
	if hits < 0 || hits >= len(row) {
		return 0, ErrInvalidRequest
	}
	return row[hits], nil
}

func (p KenoParams) validate() error {
	if p.Bet <= 0 {
		return ErrInvalidRequest
	}
	if p.Risk != KenoLow && p.Risk != KenoMedium && p.Risk != KenoHigh {
		return ErrInvalidRequest
	}
	if len(p.Picks) < 1 || len(p.Picks) > kenoMaxPicks {
		return ErrInvalidRequest
	}
	seen := map[int]bool{}
	for _, n := range p.Picks {
		if n < 1 || n > kenoPoolSize || seen[n] {
			return ErrInvalidRequest
		}
		seen[n] = true
	}
	return nil
}

func resolveKeno(rng RNG, tables *KenoTables, p KenoParams) (KenoResult, error) {
	drawn := rng.Perm(kenoPoolSize)[:kenoDrawCount]
	for i := range drawn {
		drawn[i]++ // map 0..39 onto the 1..40 board
	}
	sort.Ints(drawn)

	drawnSet := map[int]bool{}
	for _, n := range drawn {
		drawnSet[n] = true
	}
	hits := []int{}
	for _, n := range p.Picks {
		if drawnSet[n] {
			hits = append(hits, n)
		}
	}
	sort.Ints(hits)

	mult, err := tables.Multiplier(p.Risk, len(p.Picks), len(hits))
	if err != nil {
		return KenoResult{}, err
	}
	payout := int64(math.Floor(float64(p.Bet) * mult))
	return KenoResult{
		Drawn:      drawn,
		Hits:       hits,
		Won:        payout > p.Bet,
		Multiplier: mult,
		Payout:     payout,
	}, nil
}

var kenoLowRows = [][]float64{
	{0.7, 1.85},
	{0, 2, 3.8},
	{0, 1.1, 1.38, 26},
	{0, 0, 2.2, 7.9, 90},
	{0, 0, 1.5, 4.2, 13, 300},
	{0, 0, 1.1, 2, 6.2, 100, 700},
	{0, 0, 1.1, 1.6, 3.5, 15, 225, 700},
	{0, 0, 1.1, 1.5, 2, 5.5, 39, 100, 800},
	{0, 0, 1.1, 1.3, 1.7, 2.5, 7.5, 50, 250, 1000},
	{0, 0, 1.1, 1.2, 1.3, 1.8, 3.5, 13, 50, 250, 1000},
}

var kenoMediumRows = [][]float64{
	{0.4, 2.75},
	{0, 1.8, 5.1},
	{0, 0, 2.8, 50},
	{0, 0, 1.7, 10, 100},
	{0, 0, 1.4, 4, 14, 390},
	{0, 0, 0, 3, 9, 180, 710},
	{0, 0, 0, 2, 7, 30, 400, 800},
	{0, 0, 0, 2, 4, 11, 67, 400, 900},
	{0, 0, 0, 2, 2.5, 5, 15, 100, 500, 1000},
	{0, 0, 0, 1.6, 2, 4, 7, 26, 100, 500, 1000},
}

var kenoHighRows = [][]float64{
	{0, 3.96},
	{0, 0, 17.1},
	{0, 0, 0, 81.5},
	{0, 0, 0, 10, 259},
	{0, 0, 0, 4.5, 48, 450},
	{0, 0, 0, 0, 11, 350, 710},
	{0, 0, 0, 0, 7, 90, 400, 800},
	{0, 0, 0, 0, 5, 20, 270, 600, 900},
	{0, 0, 0, 0, 4, 11, 56, 500, 800, 1000},
	{0, 0, 0, 0, 3.5, 8, 13, 63, 500, 800, 1000},
}
