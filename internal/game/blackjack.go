package game

import "math"

type BlackjackStatus string

const (
	BlackjackPlaying  BlackjackStatus = "playing"
	BlackjackFinished BlackjackStatus = "finished"
)

type BlackjackHand struct {
	Cards   []Card `json:"cards"`
	Bet     int64  `json:"bet"`
	Doubled bool   `json:"doubled"`
	Stood   bool   `json:"stood"`
}

func (h *BlackjackHand) total() int   { return HandTotal(h.Cards) }
func (h *BlackjackHand) busted() bool { return h.total() > 21 }

type BlackjackState struct {
	UserID   string          `json:"user_id"`
	RoundID  string          `json:"round_id"`
	Deck     []Card          `json:"deck"`
	Hands    []BlackjackHand `json:"hands"`
	Dealer   []Card          `json:"dealer"`
	Current  int             `json:"current"`
	HasSplit bool            `json:"has_split"`
	Status   BlackjackStatus `json:"status"`
}

func (s *BlackjackState) Validate() error {
	if s.UserID == "" || s.RoundID == "" {
		return ErrCorruptedState
	}
	if len(s.Hands) < 1 || len(s.Hands) > 2 {
		return ErrCorruptedState
	}
	if s.Current < 0 || s.Current >= len(s.Hands) {
		return ErrCorruptedState
	}
	if len(s.Dealer) < 2 {
		return ErrCorruptedState
	}
	for _, h := range s.Hands {
		if h.Bet <= 0 || len(h.Cards) == 0 {
			return ErrCorruptedState
		}
	}
	if s.Status != BlackjackPlaying && s.Status != BlackjackFinished {
		return ErrCorruptedState
	}
	return nil
}

func newBlackjackState(rng RNG, userID, roundID string, bet int64) *BlackjackState {
	deck := NewDeck(rng)
	s := &BlackjackState{
		UserID:  userID,
		RoundID: roundID,
		Hands:   []BlackjackHand{{Bet: bet}},
		Status:  BlackjackPlaying,
	}
	s.Deck = deck
	s.Hands[0].Cards = []Card{s.draw(), s.draw()}
	s.Dealer = []Card{s.draw(), s.draw()}
	if IsBlackjack(s.Hands[0].Cards) {
		s.finishDealer()
	}
	return s
}

func (s *BlackjackState) draw() Card {
	c := s.Deck[0]
	s.Deck = s.Deck[1:]
	return c
}

func (s *BlackjackState) hand() *BlackjackHand { return &s.Hands[s.Current] }

// canDouble: first action on the hand only (two cards, not yet doubled).
func (s *BlackjackState) canDouble() bool {
	h := s.hand()
	return s.Status == BlackjackPlaying && len(h.Cards) == 2 && !h.Doubled
}

// canSplit: first hand, matching ranks, and at most one split per round.
func (s *BlackjackState) canSplit() bool {
	if s.Status != BlackjackPlaying || s.HasSplit || s.Current != 0 || len(s.Hands) != 1 {
		return false
	}
	h := s.hand()
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// advance moves play to the next hand, or to dealer resolution when no hand
// remains.
func (s *BlackjackState) advance() {
	if s.Current+1 < len(s.Hands) {
		s.Current++
		return
	}
	s.finishDealer()
}

func (s *BlackjackState) hit() error {
	if s.Status != BlackjackPlaying {
		return ErrIllegalAction
	}
	h := s.hand()
	h.Cards = append(h.Cards, s.draw())
	if h.busted() {
		s.advance()
	}
	return nil
}

func (s *BlackjackState) stand() error {
	if s.Status != BlackjackPlaying {
		return ErrIllegalAction
	}
	s.hand().Stood = true
	s.advance()
	return nil
}

// double assumes the extra bet has already been debited.
func (s *BlackjackState) double() error {
	if !s.canDouble() {
		return ErrIllegalAction
	}
	h := s.hand()
	h.Bet *= 2
	h.Doubled = true
	h.Cards = append(h.Cards, s.draw())
	h.Stood = true
	s.advance()
	return nil
}

// split assumes the second bet has already been debited.
func (s *BlackjackState) split() error {
	if !s.canSplit() {
		return ErrIllegalAction
	}
	first := s.Hands[0]
	bet := first.Bet
	s.Hands = []BlackjackHand{
		{Cards: []Card{first.Cards[0]}, Bet: bet},
		{Cards: []Card{first.Cards[1]}, Bet: bet},
	}
	s.Hands[0].Cards = append(s.Hands[0].Cards, s.draw())
	s.Hands[1].Cards = append(s.Hands[1].Cards, s.draw())
	s.HasSplit = true
	s.Current = 0
	return nil
}

// finishDealer plays the dealer out (stand on 17, busting included) unless
// every player hand already busted, then marks the round finished.
func (s *BlackjackState) finishDealer() {
	allBusted := true
	for i := range s.Hands {
		if !s.Hands[i].busted() {
			allBusted = false
			break
		}
	}
	if !allBusted {
		for HandTotal(s.Dealer) < 17 {
			s.Dealer = append(s.Dealer, s.draw())
		}
	}
	s.Status = BlackjackFinished
}

type HandResult struct {
	Cards  []string `json:"cards"`
	Total  int      `json:"total"`
	Bet    int64    `json:"bet"`
	Result string   `json:"result"` // win, loss, push, blackjack
	Payout int64    `json:"payout"`
}

// settle resolves every player hand against the dealer and returns the
// per-hand results plus the total payout owed.
func (s *BlackjackState) settle() ([]HandResult, int64) {
	dealerTotal := HandTotal(s.Dealer)
	dealerNatural := IsBlackjack(s.Dealer)
	results := make([]HandResult, 0, len(s.Hands))
	var total int64
	for i := range s.Hands {
		h := &s.Hands[i]
		res := HandResult{Cards: cardStrings(h.Cards), Total: h.total(), Bet: h.Bet}
		switch {
		case h.busted():
			res.Result = "loss"
		case IsBlackjack(h.Cards) && !s.HasSplit && !dealerNatural:
			res.Result = "blackjack"
			res.Payout = int64(math.Floor(float64(h.Bet) * 2.5))
		case dealerTotal > 21 || res.Total > dealerTotal:
			res.Result = "win"
			res.Payout = h.Bet * 2
		case res.Total == dealerTotal:
			res.Result = "push"
			res.Payout = h.Bet
		default:
			res.Result = "loss"
		}
		total += res.Payout
		results = append(results, res)
	}
	return results, total
}
