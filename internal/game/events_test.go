package game

import (
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
)

func TestHandPublishesEventsInOrder(t *testing.T) {
	t.Parallel()

	clock := quartz.NewMock(t)
	clock.Set(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	queue := &EventQueue{}

	players := newPlayers(1000, 1000, 1000)
	h := startHand(t, players, 0, blinds1020, WithPublisher(queue), WithClock(clock), WithHandID("hand-1"))
	for _, seat := range []int{0, 1} {
		mustApply(t, h, seat, Action{Kind: Fold})
	}

	events := queue.Drain()
	want := []EventType{
		EventTypeHandStart,
		EventTypeBlindPosted,
		EventTypeBlindPosted,
		EventTypePlayerAction,
		EventTypePlayerAction,
		EventTypeHandEnd,
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, e := range events {
		if e.EventType() != want[i] {
			t.Errorf("event %d: got %s want %s", i, e.EventType(), want[i])
		}
		if !e.Timestamp().Equal(clock.Now()) {
			t.Errorf("event %d not stamped from the clock", i)
		}
	}

	start := events[0].(HandStartEvent)
	if start.HandID != "hand-1" || start.Dealer != 0 || start.Seats[1].Chips != 1000 {
		t.Errorf("unexpected start event %+v", start)
	}
	end := events[5].(HandEndEvent)
	if end.Result.Winners[0].Seat != 2 {
		t.Errorf("unexpected end event %+v", end)
	}

	if len(queue.Drain()) != 0 {
		t.Error("drain should empty the queue")
	}
}

func TestEventBusSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewEventBus()
	var got []EventType
	sub := &recordingSubscriber{}
	bus.Subscribe(EventSubscriberFunc(func(e GameEvent) { got = append(got, e.EventType()) }))
	bus.Subscribe(sub)

	bus.Publish(StreetChangeEvent{Stage: Flop})
	bus.Unsubscribe(sub)
	bus.Publish(StreetChangeEvent{Stage: Turn})

	if len(got) != 2 {
		t.Errorf("function subscriber got %d events", len(got))
	}
	if len(sub.events) != 1 {
		t.Errorf("unsubscribed subscriber got %d events", len(sub.events))
	}
}

type recordingSubscriber struct {
	events []GameEvent
}

func (r *recordingSubscriber) OnEvent(e GameEvent) {
	r.events = append(r.events, e)
}

func TestEventFormatter(t *testing.T) {
	t.Parallel()

	queue := &EventQueue{}
	deck := stackDeck(t, 0, []string{"Ac Ad", "Kc Kd"}, "2h 7s 9c Jd 3h")
	h := startHand(t, newPlayers(1000, 400), 0, blinds1020, WithDeck(deck), WithPublisher(queue))
	mustApply(t, h, 1, Action{Kind: AllIn})
	mustApply(t, h, 0, Action{Kind: Call})

	f := NewEventFormatter(FormattingOptions{Perspective: 0})
	var lines []string
	for _, e := range queue.Drain() {
		lines = append(lines, f.Format(e)...)
	}
	log := strings.Join(lines, "\n")

	for _, want := range []string{
		"Alice has the button, blinds 10/20",
		"Alice: dealt A♣ A♦",
		"Bob: posts small blind 10",
		"Alice: posts big blind 20",
		"Bob: goes all-in for 400 (pot 420)",
		"Alice: calls 380 (pot 800)",
		"*** FLOP *** [2♥ 7♠ 9♣]",
		"*** RIVER *** [2♥ 7♠ 9♣ J♦ 3♥]",
		"Bob: shows K♣ K♦ (Pair)",
		"Alice wins 800 with Pair",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
	if strings.Contains(log, "Bob: dealt") {
		t.Error("opponent hole cards must not be logged at deal time")
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input   string
		want    Action
		wantErr bool
	}{
		{"fold", Action{Kind: Fold}, false},
		{"check", Action{Kind: Check}, false},
		{"CALL", Action{Kind: Call}, false},
		{"raise 80", Action{Kind: Raise, Amount: 80}, false},
		{"r 120", Action{Kind: Raise, Amount: 120}, false},
		{"all-in", Action{Kind: AllIn}, false},
		{"allin", Action{Kind: AllIn}, false},
		{"raise", Action{}, true},
		{"raise -5", Action{}, true},
		{"call 20", Action{}, true},
		{"dance", Action{}, true},
		{"", Action{}, true},
	}

	for _, tc := range tests {
		got, err := ParseAction(tc.input)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseAction(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAction(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
