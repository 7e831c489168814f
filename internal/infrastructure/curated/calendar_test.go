package curated

import (
	"testing"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

func TestSlateShape(t *testing.T) {
	cal := NewCalendar(week.Key{Number: 2, Year: 2026})

	for jornada := 1; jornada <= cal.jornadas(); jornada++ {
		slate, ok := cal.Slate(jornada)
		if !ok {
			t.Fatalf("jornada %d: expected a slate", jornada)
		}
		if len(slate) != week.SlateSize {
			t.Fatalf("jornada %d: got %d fixtures, want %d", jornada, len(slate), week.SlateSize)
		}

		seen := map[string]bool{}
		for _, fx := range slate {
			if fx.HomeTeam == fx.AwayTeam {
				t.Fatalf("jornada %d: team %s paired with itself", jornada, fx.HomeTeam)
			}
			if seen[fx.HomeTeam] || seen[fx.AwayTeam] {
				t.Fatalf("jornada %d: a team appears twice", jornada)
			}
			seen[fx.HomeTeam], seen[fx.AwayTeam] = true, true
			if fx.KickoffAt.IsZero() {
				t.Fatalf("jornada %d: fixture without kickoff", jornada)
			}
		}
	}
}

func TestSlateOutOfSeason(t *testing.T) {
	cal := NewCalendar(week.Key{Number: 2, Year: 2026})

	if _, ok := cal.Slate(0); ok {
		t.Fatal("jornada 0 should not exist")
	}
	if _, ok := cal.Slate(cal.jornadas() + 1); ok {
		t.Fatal("jornada past season end should not exist")
	}
}

func TestJornadaForRoundTrip(t *testing.T) {
	start := week.Key{Number: 2, Year: 2026}
	cal := NewCalendar(start)

	key := start
	for want := 1; want <= cal.jornadas(); want++ {
		got, ok := cal.JornadaFor(key)
		if !ok || got != want {
			t.Fatalf("JornadaFor(%s) = %d, %v; want %d", key, got, ok, want)
		}
		key = key.Next()
	}
	if _, ok := cal.JornadaFor(key); ok {
		t.Fatalf("week %s lies after the season and should map to no jornada", key)
	}
}

func TestSlateKickoffsFallInWeek(t *testing.T) {
	start := week.Key{Number: 2, Year: 2026}
	cal := NewCalendar(start)

	slate, ok := cal.Slate(3)
	if !ok {
		t.Fatal("expected jornada 3 slate")
	}
	wantKey := start.Next().Next()
	for _, fx := range slate {
		if got := week.KeyOf(fx.KickoffAt); got != wantKey {
			t.Fatalf("kickoff %s maps to week %s, want %s", fx.KickoffAt, got, wantKey)
		}
	}
}

var _ usecase.CuratedCalendar = (*Calendar)(nil)
