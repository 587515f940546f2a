package game

import (
	"testing"
)

func TestHandTotal(t *testing.T) {
	cases := []struct {
		cards []Card
		want  int
	}{
		{[]Card{{Ace, Spades}, {King, Hearts}}, 21},
		{[]Card{{Ace, Spades}, {Ace, Hearts}, {Nine, Clubs}}, 21},
		{[]Card{{Ace, Spades}, {Ace, Hearts}}, 12},
		{[]Card{{King, Spades}, {Queen, Hearts}, {Five, Clubs}}, 25},
		{[]Card{{Ace, Spades}, {Five, Hearts}, {Seven, Clubs}}, 13},
		{[]Card{{Two, Spades}, {Three, Hearts}}, 5},
	}
	for _, c := range cases {
		if got := HandTotal(c.cards); got != c.want {
			t.Fatalf("HandTotal(%v) = %d, want %d", c.cards, got, c.want)
		}
	}
}

func TestIsBlackjack(t *testing.T) {
	if !IsBlackjack([]Card{{Ace, Spades}, {King, Hearts}}) {
		t.Fatalf("ace-king is a natural")
	}
	if IsBlackjack([]Card{{Seven, Spades}, {Seven, Hearts}, {Seven, Clubs}}) {
		t.Fatalf("three-card 21 is not a natural")
	}
	if IsBlackjack([]Card{{Ten, Spades}, {Nine, Hearts}}) {
		t.Fatalf("19 is not a natural")
	}
}

func TestNewDeckComplete(t *testing.T) {
	deck := NewDeck(&stubRNG{})
	if len(deck) != 52 {
		t.Fatalf("deck size = %d, want 52", len(deck))
	}
	seen := map[Card]bool{}
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

func finishedState(player []Card, dealer []Card, bet int64) *BlackjackState {
	return &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Hands:   []BlackjackHand{{Cards: player, Bet: bet, Stood: true}},
		Dealer:  dealer,
		Status:  BlackjackFinished,
	}
}

func TestSettleNaturalPaysFiveForTwo(t *testing.T) {
	st := finishedState([]Card{{Ace, Spades}, {King, Hearts}}, []Card{{Nine, Hearts}, {Eight, Spades}}, 100)
	results, total := st.settle()
	if results[0].Result != "blackjack" {
		t.Fatalf("result = %q, want blackjack", results[0].Result)
	}
	if total != 250 {
		t.Fatalf("payout = %d, want 250", total)
	}
}

func TestSettleBothNaturalsPush(t *testing.T) {
	st := finishedState([]Card{{Ace, Spades}, {King, Hearts}}, []Card{{Ace, Hearts}, {Queen, Spades}}, 100)
	results, total := st.settle()
	if results[0].Result != "push" || total != 100 {
		t.Fatalf("result = %q payout %d, want push / 100", results[0].Result, total)
	}
}

func TestSettleWinPushLoss(t *testing.T) {
	cases := []struct {
		player []Card
		dealer []Card
		result string
		payout int64
	}{
		{[]Card{{Ten, Spades}, {Ten, Hearts}}, []Card{{Ten, Clubs}, {Seven, Spades}}, "win", 200},
		{[]Card{{Ten, Spades}, {Seven, Hearts}}, []Card{{Ten, Clubs}, {Seven, Spades}}, "push", 100},
		{[]Card{{Ten, Spades}, {Six, Hearts}}, []Card{{Ten, Clubs}, {Seven, Spades}}, "loss", 0},
		// A busted hand loses even when the dealer busts too.
		{[]Card{{Ten, Spades}, {Seven, Hearts}, {Nine, Clubs}}, []Card{{Ten, Clubs}, {Six, Spades}, {King, Diamonds}}, "loss", 0},
		// A standing hand beats a busted dealer.
		{[]Card{{Ten, Spades}, {Two, Hearts}}, []Card{{Ten, Clubs}, {Six, Spades}, {King, Diamonds}}, "win", 200},
	}
	for _, c := range cases {
		st := finishedState(c.player, c.dealer, 100)
		results, total := st.settle()
		if results[0].Result != c.result || total != c.payout {
			t.Fatalf("player %v vs dealer %v: got %q/%d, want %q/%d",
				c.player, c.dealer, results[0].Result, total, c.result, c.payout)
		}
	}
}

func TestSplitHandNaturalPaysEvenMoney(t *testing.T) {
	st := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Hands: []BlackjackHand{
			{Cards: []Card{{Ace, Spades}, {King, Hearts}}, Bet: 100, Stood: true},
			{Cards: []Card{{Ace, Hearts}, {Five, Clubs}, {Nine, Spades}}, Bet: 100, Stood: true},
		},
		Dealer:   []Card{{Ten, Clubs}, {Seven, Spades}},
		HasSplit: true,
		Current:  1,
		Status:   BlackjackFinished,
	}
	results, _ := st.settle()
	// 21 after a split is a plain win, not a natural.
	if results[0].Result != "win" || results[0].Payout != 200 {
		t.Fatalf("split 21 settled as %q/%d, want win/200", results[0].Result, results[0].Payout)
	}
}

func TestHitUntilBustAdvances(t *testing.T) {
	st := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Deck:    []Card{{King, Diamonds}, {Queen, Diamonds}},
		Hands:   []BlackjackHand{{Cards: []Card{{Ten, Spades}, {Seven, Hearts}}, Bet: 100}},
		Dealer:  []Card{{Ten, Clubs}, {Nine, Spades}},
		Status:  BlackjackPlaying,
	}
	if err := st.hit(); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if st.Status != BlackjackFinished {
		t.Fatalf("bust on the only hand should finish the round")
	}
	// Every hand busted, so the dealer keeps the two-card 19.
	if len(st.Dealer) != 2 {
		t.Fatalf("dealer drew against an all-bust round: %v", st.Dealer)
	}
	results, total := st.settle()
	if results[0].Result != "loss" || total != 0 {
		t.Fatalf("busted hand settled as %q/%d", results[0].Result, total)
	}
}

func TestStandPlaysDealerToSeventeen(t *testing.T) {
	st := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Deck:    []Card{{Two, Diamonds}, {Five, Diamonds}, {King, Diamonds}},
		Hands:   []BlackjackHand{{Cards: []Card{{Ten, Spades}, {Nine, Hearts}}, Bet: 100}},
		Dealer:  []Card{{Ten, Clubs}, {Five, Spades}},
		Status:  BlackjackPlaying,
	}
	if err := st.stand(); err != nil {
		t.Fatalf("stand: %v", err)
	}
	if got := HandTotal(st.Dealer); got != 17 {
		t.Fatalf("dealer total = %d, want 17", got)
	}
	results, total := st.settle()
	if results[0].Result != "win" || total != 200 {
		t.Fatalf("19 vs 17 settled as %q/%d", results[0].Result, total)
	}
}

func TestDoubleTakesOneCardAndStands(t *testing.T) {
	st := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Deck:    []Card{{King, Diamonds}},
		Hands:   []BlackjackHand{{Cards: []Card{{Five, Spades}, {Six, Hearts}}, Bet: 100}},
		Dealer:  []Card{{Ten, Clubs}, {Seven, Spades}},
		Status:  BlackjackPlaying,
	}
	if err := st.double(); err != nil {
		t.Fatalf("double: %v", err)
	}
	h := st.Hands[0]
	if h.Bet != 200 || !h.Doubled || !h.Stood || len(h.Cards) != 3 {
		t.Fatalf("hand after double: %+v", h)
	}
	if st.Status != BlackjackFinished {
		t.Fatalf("double on the only hand should finish the round")
	}
	results, total := st.settle()
	if results[0].Result != "win" || total != 400 {
		t.Fatalf("doubled 21 vs 17 settled as %q/%d", results[0].Result, total)
	}
	// Second double is off the table.
	if st.canDouble() {
		t.Fatalf("canDouble true after doubling")
	}
}

func TestSplitDealsOneCardToEachHand(t *testing.T) {
	st := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Deck:    []Card{{Ten, Diamonds}, {Two, Clubs}},
		Hands:   []BlackjackHand{{Cards: []Card{{Eight, Spades}, {Eight, Hearts}}, Bet: 100}},
		Dealer:  []Card{{Ten, Clubs}, {Nine, Spades}},
		Status:  BlackjackPlaying,
	}
	if !st.canSplit() {
		t.Fatalf("pair of eights should split")
	}
	if err := st.split(); err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(st.Hands) != 2 || st.Current != 0 || !st.HasSplit {
		t.Fatalf("state after split: %+v", st)
	}
	if st.Hands[0].total() != 18 || st.Hands[1].total() != 10 {
		t.Fatalf("hand totals = %d/%d, want 18/10", st.Hands[0].total(), st.Hands[1].total())
	}
	if st.canSplit() {
		t.Fatalf("one split per round")
	}
}

func TestCanSplitRequiresPair(t *testing.T) {
	st := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Hands:   []BlackjackHand{{Cards: []Card{{Eight, Spades}, {Nine, Hearts}}, Bet: 100}},
		Dealer:  []Card{{Ten, Clubs}, {Nine, Spades}},
		Status:  BlackjackPlaying,
	}
	if st.canSplit() {
		t.Fatalf("mismatched ranks should not split")
	}
	if err := st.split(); err == nil {
		t.Fatalf("split on non-pair succeeded")
	}
}

func TestBlackjackStateValidate(t *testing.T) {
	good := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Hands:   []BlackjackHand{{Cards: []Card{{Two, Spades}, {Three, Hearts}}, Bet: 100}},
		Dealer:  []Card{{Ten, Clubs}, {Nine, Spades}},
		Status:  BlackjackPlaying,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid state rejected: %v", err)
	}

	bad := []*BlackjackState{
		{RoundID: "r1", Hands: good.Hands, Dealer: good.Dealer, Status: BlackjackPlaying},
		{UserID: "u1", RoundID: "r1", Hands: nil, Dealer: good.Dealer, Status: BlackjackPlaying},
		{UserID: "u1", RoundID: "r1", Hands: good.Hands, Dealer: []Card{{Ten, Clubs}}, Status: BlackjackPlaying},
		{UserID: "u1", RoundID: "r1", Hands: []BlackjackHand{{Cards: good.Hands[0].Cards, Bet: 0}}, Dealer: good.Dealer, Status: BlackjackPlaying},
		{UserID: "u1", RoundID: "r1", Hands: good.Hands, Dealer: good.Dealer, Status: "paused"},
		{UserID: "u1", RoundID: "r1", Hands: good.Hands, Dealer: good.Dealer, Current: 1, Status: BlackjackPlaying},
	}
	for i, st := range bad {
		if err := st.Validate(); err == nil {
			t.Fatalf("case %d: corrupted state accepted", i)
		}
	}
}

func TestBlackjackViewMasksHoleCard(t *testing.T) {
	st := &BlackjackState{
		UserID:  "u1",
		RoundID: "r1",
		Hands:   []BlackjackHand{{Cards: []Card{{Two, Spades}, {Three, Hearts}}, Bet: 100}},
		Dealer:  []Card{{Ten, Clubs}, {Nine, Spades}},
		Status:  BlackjackPlaying,
	}
	v := st.view(900)
	if len(v.Dealer) != 2 || v.Dealer[1] != "??" {
		t.Fatalf("dealer view = %v, want hole card masked", v.Dealer)
	}
	if v.DealerTotal != 0 {
		t.Fatalf("dealer total leaked while playing: %d", v.DealerTotal)
	}
	if !v.CanDouble {
		t.Fatalf("two-card hand should allow double")
	}

	st.Status = BlackjackFinished
	v = st.view(900)
	if v.Dealer[1] != "9s" || v.DealerTotal != 19 {
		t.Fatalf("finished view hides the dealer: %v total %d", v.Dealer, v.DealerTotal)
	}
	if !v.GameOver {
		t.Fatalf("finished round not flagged over")
	}
}
