package game

const (
	minesBoardSize = 25
	minesMinCount  = 1
	minesMaxCount  = 24
)

type MinesState struct {
	UserID     string  `json:"user_id"`
	RoundID    string  `json:"round_id"`
	Bet        int64   `json:"bet"`
	MineCount  int     `json:"mine_count"`
	Mines      []int   `json:"mines"`
	Revealed   []int   `json:"revealed"`
	Multiplier float64 `json:"multiplier"`
}

// Validate is the structural check run at the persistence boundary. A session
// that fails it is discarded and the user starts over.
func (s *MinesState) Validate() error {
	if s.UserID == "" || s.RoundID == "" || s.Bet <= 0 {
		return ErrCorruptedState
	}
	if s.MineCount < minesMinCount || s.MineCount > minesMaxCount {
		return ErrCorruptedState
	}
	if len(s.Mines) != s.MineCount {
		return ErrCorruptedState
	}
	mines := map[int]bool{}
	for _, p := range s.Mines {
		if p < 0 || p >= minesBoardSize || mines[p] {
			return ErrCorruptedState
		}
		mines[p] = true
	}
	revealed := map[int]bool{}
	for _, p := range s.Revealed {
		if p < 0 || p >= minesBoardSize || revealed[p] || mines[p] {
			return ErrCorruptedState
		}
		revealed[p] = true
	}
	if len(s.Revealed) > minesBoardSize-s.MineCount {
		return ErrCorruptedState
	}
	return nil
}

func (s *MinesState) isMine(position int) bool {
	for _, p := range s.Mines {
		if p == position {
			return true
		}
	}
	return false
}

func (s *MinesState) isRevealed(position int) bool {
	for _, p := range s.Revealed {
		if p == position {
			return true
		}
	}
	return false
}

func newMinesState(rng RNG, userID, roundID string, bet int64, mineCount int) *MinesState {
	mines := rng.Perm(minesBoardSize)[:mineCount]
	return &MinesState{
		UserID:    userID,
		RoundID:   roundID,
		Bet:       bet,
		MineCount: mineCount,
		Mines:     mines,
	}
}

// MinesMultiplier compounds the inverse conditional-safety probability of each
// successive safe reveal on a 25-tile board, discounted by the house edge.
func MinesMultiplier(mineCount, reveals int) float64 {
	m := houseEdge
	for i := 0; i < reveals; i++ {
		m *= float64(minesBoardSize-i) / float64(minesBoardSize-mineCount-i)
	}
	return m
}

type MinesStartParams struct {
	Bet       int64 `json:"bet"`
	MineCount int   `json:"mines"`
}

func (p MinesStartParams) validate() error {
	if p.Bet <= 0 {
		return ErrInvalidRequest
	}
	if p.MineCount < minesMinCount || p.MineCount > minesMaxCount {
		return ErrInvalidRequest
	}
	return nil
}

type MinesStartResult struct {
	RoundID string `json:"round_id"`
	Layout  string `json:"layout"` // opaque salted token, decodable server-side only
	Balance int64  `json:"balance"`
}

type MinesRevealResult struct {
	HitMine    bool    `json:"hit_mine"`
	GameOver   bool    `json:"game_over"`
	Revealed   []int   `json:"revealed"`
	Mines      []int   `json:"mines,omitempty"` // populated once the round is over
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout,omitempty"`
	Balance    int64   `json:"balance,omitempty"`
}

type MinesCashoutResult struct {
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
	Mines      []int   `json:"mines"`
	Balance    int64   `json:"balance"`
}
