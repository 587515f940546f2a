package game

type BlackjackHandView struct {
	Cards     []string `json:"cards"`
	Total     int      `json:"total"`
	Bet       int64    `json:"bet"`
	Busted    bool     `json:"busted"`
	Blackjack bool     `json:"blackjack"`
}

type BlackjackView struct {
	RoundID     string              `json:"round_id"`
	Hands       []BlackjackHandView `json:"hands"`
	Dealer      []string            `json:"dealer"`
	DealerTotal int                 `json:"dealer_total,omitempty"`
	CurrentHand int                 `json:"current_hand"`
	CanDouble   bool                `json:"can_double"`
	CanSplit    bool                `json:"can_split"`
	GameOver    bool                `json:"game_over"`
	Results     []HandResult        `json:"results,omitempty"`
	TotalPayout int64               `json:"total_payout,omitempty"`
	Balance     int64               `json:"balance"`
}

// view renders the state for the client. While the round is live the dealer's
// hole card is masked; totals and capability flags are recomputed, never
// trusted from the wire.
func (s *BlackjackState) view(balance int64) *BlackjackView {
	hands := make([]BlackjackHandView, 0, len(s.Hands))
	for i := range s.Hands {
		h := &s.Hands[i]
		hands = append(hands, BlackjackHandView{
			Cards:     cardStrings(h.Cards),
			Total:     h.total(),
			Bet:       h.Bet,
			Busted:    h.busted(),
			Blackjack: IsBlackjack(h.Cards) && !s.HasSplit,
		})
	}
	v := &BlackjackView{
		RoundID:     s.RoundID,
		Hands:       hands,
		CurrentHand: s.Current,
		GameOver:    s.Status == BlackjackFinished,
		Balance:     balance,
	}
	if s.Status == BlackjackPlaying {
		v.Dealer = []string{s.Dealer[0].String(), "??"}
		v.CanDouble = s.canDouble()
		v.CanSplit = s.canSplit()
	} else {
		v.Dealer = cardStrings(s.Dealer)
		v.DealerTotal = HandTotal(s.Dealer)
	}
	return v
}
