package game

import "testing"

func TestChoiceBeats(t *testing.T) {
	wins := []struct{ a, b Choice }{
		{ChoiceRock, ChoiceScissors},
		{ChoicePaper, ChoiceRock},
		{ChoiceScissors, ChoicePaper},
	}
	for _, w := range wins {
		if !w.a.Beats(w.b) {
			t.Fatalf("%v.Beats(%v) = false, want true", w.a, w.b)
		}
		if w.b.Beats(w.a) {
			t.Fatalf("%v.Beats(%v) = true, want false", w.b, w.a)
		}
	}
	for _, c := range []Choice{ChoiceRock, ChoicePaper, ChoiceScissors} {
		if c.Beats(c) {
			t.Fatalf("%v beats itself", c)
		}
	}
	if ChoiceNone.Beats(ChoiceRock) || ChoiceRock.Beats(ChoiceNone) {
		t.Fatal("none must never win or lose")
	}
}

func TestChoiceValid(t *testing.T) {
	if ChoiceNone.Valid() {
		t.Fatal("none reported valid")
	}
	if Choice(4).Valid() {
		t.Fatal("out-of-range choice reported valid")
	}
	for _, c := range []Choice{ChoiceRock, ChoicePaper, ChoiceScissors} {
		if !c.Valid() {
			t.Fatalf("%v reported invalid", c)
		}
	}
}

func TestParseChoice(t *testing.T) {
	cases := []struct {
		in   string
		want Choice
		ok   bool
	}{
		{"rock", ChoiceRock, true},
		{"PAPER", ChoicePaper, true},
		{"  scissors ", ChoiceScissors, true},
		{"lizard", ChoiceNone, false},
		{"", ChoiceNone, false},
	}
	for _, tc := range cases {
		got, ok := ParseChoice(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseChoice(%q) = %v, %v, want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestChoiceStringRoundTrip(t *testing.T) {
	for _, c := range []Choice{ChoiceRock, ChoicePaper, ChoiceScissors} {
		got, ok := ParseChoice(c.String())
		if !ok || got != c {
			t.Fatalf("ParseChoice(%q) = %v, %v", c.String(), got, ok)
		}
	}
}
