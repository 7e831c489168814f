package curated

import (
	"time"

	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

// defaultTeams is the bundled 18-club season used when no external fixture
// data is reachable. Pairings rotate round-robin, so every jornada yields
// exactly nine fixtures.
var defaultTeams = []string{
	"América", "Chivas", "Cruz Azul", "Pumas", "Tigres", "Monterrey",
	"Toluca", "Santos Laguna", "León", "Pachuca", "Atlas", "Puebla",
	"Necaxa", "Querétaro", "Mazatlán", "Juárez", "Tijuana", "San Luis",
}

// kickoffOffsets spreads a jornada's nine fixtures across its weekend,
// expressed relative to the week's Saturday-evening anchor.
var kickoffOffsets = []time.Duration{
	-23 * time.Hour, // Friday 19:00
	-21 * time.Hour, // Friday 21:00
	-1 * time.Hour,  // Saturday 17:00
	0,               // Saturday 18:00
	1 * time.Hour,   // Saturday 19:00
	3 * time.Hour,   // Saturday 21:00
	18 * time.Hour,  // Sunday 12:00
	23 * time.Hour,  // Sunday 17:00
	25 * time.Hour,  // Sunday 19:00
}

// Calendar maps jornadas onto calendar weeks for one season and produces
// fixture slates from the bundled team list.
type Calendar struct {
	startWeek week.Key
	teams     []string
}

func NewCalendar(startWeek week.Key) *Calendar {
	return &Calendar{
		startWeek: startWeek,
		teams:     defaultTeams,
	}
}

func (c *Calendar) jornadas() int {
	return len(c.teams) - 1
}

// Slate returns the jornada's fixtures with concrete kickoff times, or
// false when the jornada falls outside the season.
func (c *Calendar) Slate(jornada int) ([]usecase.CuratedFixture, bool) {
	if jornada < 1 || jornada > c.jornadas() {
		return nil, false
	}

	key := c.startWeek
	for i := 1; i < jornada; i++ {
		key = key.Next()
	}
	anchor := week.SaturdayOf(key)

	pairs := roundRobinPairs(c.teams, jornada)
	out := make([]usecase.CuratedFixture, 0, len(pairs))
	for i, p := range pairs {
		out = append(out, usecase.CuratedFixture{
			HomeTeam:  p[0],
			AwayTeam:  p[1],
			KickoffAt: anchor.Add(kickoffOffsets[i%len(kickoffOffsets)]),
		})
	}

	return out, true
}

// JornadaFor maps a week key back to its jornada number.
func (c *Calendar) JornadaFor(key week.Key) (int, bool) {
	cursor := c.startWeek
	for j := 1; j <= c.jornadas(); j++ {
		if cursor == key {
			return j, true
		}
		cursor = cursor.Next()
	}

	return 0, false
}

// roundRobinPairs applies the circle method: one team is fixed and the rest
// rotate one seat per jornada. Home advantage alternates by round parity.
func roundRobinPairs(teams []string, jornada int) [][2]string {
	n := len(teams)
	rotated := make([]string, n-1)
	for i := range rotated {
		rotated[i] = teams[1+((i+jornada-1)%(n-1))]
	}

	pairs := make([][2]string, 0, n/2)
	if jornada%2 == 0 {
		pairs = append(pairs, [2]string{teams[0], rotated[n-2]})
	} else {
		pairs = append(pairs, [2]string{rotated[n-2], teams[0]})
	}
	for i := 0; i < (n-2)/2; i++ {
		home, away := rotated[i], rotated[n-3-i]
		if i%2 == 1 {
			home, away = away, home
		}
		pairs = append(pairs, [2]string{home, away})
	}

	return pairs
}
