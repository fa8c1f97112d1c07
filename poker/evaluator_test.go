package poker

import (
	rand "math/rand/v2"
	"slices"
	"testing"
)

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		cards    string
		category Category
		kickers  []int
	}{
		{"royal flush", "As Ks Qs Js Ts", RoyalFlush, []int{14, 13, 12, 11, 10}},
		{"straight flush", "9h 8h 7h 6h 5h", StraightFlush, []int{9, 8, 7, 6, 5}},
		{"steel wheel", "Ad 2d 3d 4d 5d", StraightFlush, []int{5, 4, 3, 2, 1}},
		{"quads", "7c 7d 7h 7s Kd", FourOfAKind, []int{7, 13}},
		{"full house", "Qc Qd Qh 4s 4d", FullHouse, []int{12, 4}},
		{"flush", "Ah Jh 8h 4h 2h", Flush, []int{14, 11, 8, 4, 2}},
		{"broadway", "Ac Kd Qh Js Tc", Straight, []int{14, 13, 12, 11, 10}},
		{"wheel", "As 2d 3h 4c 5s", Straight, []int{5, 4, 3, 2, 1}},
		{"trips", "8c 8d 8h Ks 2d", ThreeOfAKind, []int{8, 13, 2}},
		{"two pair", "Jc Jd 3h 3s Ad", TwoPair, []int{11, 3, 14}},
		{"pair", "Tc Td Ah 7s 2d", OnePair, []int{10, 14, 7, 2}},
		{"high card", "Ac Jd 9h 6s 3d", HighCard, []int{14, 11, 9, 6, 3}},
		{"seven cards picks flush over straight", "2h 3h 4h 5c 6d 9h Kh", Flush, []int{13, 9, 4, 3, 2}},
		{"seven cards picks full house from two trips", "Kc Kd Kh 5s 5d 5h 2c", FullHouse, []int{13, 5}},
		{"seven cards three pair", "Ac Ad Kh Ks Qd Qh 2c", TwoPair, []int{14, 13, 12}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := Evaluate(MustParseCards(tc.cards))
			if r.Category != tc.category {
				t.Fatalf("category = %v, want %v", r.Category, tc.category)
			}
			if !slices.Equal(r.Kickers, tc.kickers) {
				t.Errorf("kickers = %v, want %v", r.Kickers, tc.kickers)
			}
			if len(r.Best) != 5 {
				t.Errorf("expected 5 best cards, got %d", len(r.Best))
			}
			if r.Score != score(tc.category, tc.kickers) {
				t.Errorf("score = %d, want %d", r.Score, score(tc.category, tc.kickers))
			}
		})
	}
}

func TestEvaluateScoreEncoding(t *testing.T) {
	t.Parallel()

	r := Evaluate(MustParseCards("Jc Jd 3h 3s Ad"))
	want := int64(3)*10_000_000_000 + 11*100_000_000 + 3*1_000_000 + 14*10_000
	if r.Score != want {
		t.Errorf("score = %d, want %d", r.Score, want)
	}
}

func TestEvaluateIncomplete(t *testing.T) {
	t.Parallel()

	for n := 0; n < 5; n++ {
		r := Evaluate(NewDeck().Cards()[:n])
		if r.IsComplete() || r.Score != 0 || r.Category != Incomplete {
			t.Errorf("%d cards: expected incomplete sentinel, got %+v", n, r)
		}
	}
}

func TestKnownHandOrdering(t *testing.T) {
	t.Parallel()

	royal := Evaluate(MustParseCards("As Ks Qs Js Ts"))
	kingHighSF := Evaluate(MustParseCards("Ks Qs Js Ts 9s"))
	if royal.Compare(kingHighSF) <= 0 {
		t.Error("royal flush should beat king-high straight flush")
	}

	wheel := Evaluate(MustParseCards("Ac 2d 3h 4s 5c"))
	sixHigh := Evaluate(MustParseCards("2c 3d 4h 5s 6c"))
	if wheel.Category != Straight {
		t.Fatalf("wheel category = %v", wheel.Category)
	}
	if wheel.Best[4].Rank != Ace {
		t.Errorf("wheel should list the ace last, got %v", wheel.Best)
	}
	if wheel.Compare(sixHigh) >= 0 {
		t.Error("wheel should rank below a six-high straight")
	}

	aceHigh := Evaluate(MustParseCards("Ac Kd 9h 6s 3d"))
	if wheel.Compare(aceHigh) <= 0 {
		t.Error("wheel should beat ace-high")
	}

	// Kicker decides between equal pairs.
	pairAK := Evaluate(MustParseCards("Ac Ad Kh 7s 2d"))
	pairAQ := Evaluate(MustParseCards("Ah As Qh 7c 2c"))
	if pairAK.Compare(pairAQ) <= 0 {
		t.Error("AA with king kicker should beat AA with queen kicker")
	}

	split := Evaluate(MustParseCards("Ah As Kc 7c 2c"))
	if pairAK.Compare(split) != 0 {
		t.Error("suits must not break ties")
	}
}

func TestCategoryDominatesKickers(t *testing.T) {
	t.Parallel()

	worstOfCategory := map[Category]string{
		OnePair:       "2c 2d 3h 4s 5d",
		TwoPair:       "3c 3d 2h 2s 4d",
		ThreeOfAKind:  "2c 2d 2h 3s 4d",
		Straight:      "Ac 2d 3h 4s 5d",
		Flush:         "2h 3h 4h 5h 7h",
		FullHouse:     "2c 2d 2h 3s 3d",
		FourOfAKind:   "2c 2d 2h 2s 3d",
		StraightFlush: "Ah 2h 3h 4h 5h",
		RoyalFlush:    "As Ks Qs Js Ts",
	}
	bestOfCategory := map[Category]string{
		HighCard:      "Ac Kd Qh Js 9d",
		OnePair:       "Ac Ad Kh Qs Jd",
		TwoPair:       "Ac Ad Kh Ks Qd",
		ThreeOfAKind:  "Ac Ad Ah Ks Qd",
		Straight:      "Ac Kd Qh Js Td",
		Flush:         "Ah Kh Qh Jh 9h",
		FullHouse:     "Ac Ad Ah Ks Kd",
		FourOfAKind:   "Ac Ad Ah As Kd",
		StraightFlush: "Kh Qh Jh Th 9h",
	}

	for cat := HighCard; cat < RoyalFlush; cat++ {
		lower := Evaluate(MustParseCards(bestOfCategory[cat]))
		higher := Evaluate(MustParseCards(worstOfCategory[cat+1]))
		if lower.Category != cat || higher.Category != cat+1 {
			t.Fatalf("fixture mismatch at %v: %v / %v", cat, lower.Category, higher.Category)
		}
		if higher.Score <= lower.Score {
			t.Errorf("worst %v (%d) should outrank best %v (%d)", cat+1, higher.Score, cat, lower.Score)
		}
	}
}

func TestEvaluateOrderIndependent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 500; i++ {
		d := NewShuffledDeck(rng)
		n := 5 + rng.IntN(3)
		cards, err := d.DrawN(n)
		if err != nil {
			t.Fatal(err)
		}

		want := Evaluate(cards)
		shuffled := slices.Clone(cards)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Evaluate(shuffled)

		if got.Score != want.Score || got.Category != want.Category {
			t.Fatalf("order changed result for %v: %+v vs %+v", cards, got, want)
		}
		if !slices.Equal(got.Best, want.Best) {
			t.Fatalf("order changed best five for %v: %v vs %v", cards, got.Best, want.Best)
		}
	}
}

func BenchmarkEvaluate7(b *testing.B) {
	cards := MustParseCards("As Kd Qh Js 9c 4d 2h")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(cards)
	}
}
