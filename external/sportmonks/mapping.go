package sportmonks

import (
	"strings"

	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

type scheduleEnvelope struct {
	Data []scheduleStage `json:"data"`
}

type scheduleStage struct {
	Rounds []scheduleRound `json:"rounds"`
}

type scheduleRound struct {
	Name     string        `json:"name"`
	Fixtures []fixtureItem `json:"fixtures"`
}

type fixtureEnvelope struct {
	Data fixtureItem `json:"data"`
}

type fixtureItem struct {
	ID           int64             `json:"id"`
	StartingAt   string            `json:"starting_at"`
	Participants []participantItem `json:"participants"`
	Scores       []scoreItem       `json:"scores"`
	State        *stateItem        `json:"state"`
}

type participantItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Meta struct {
		Location string `json:"location"`
	} `json:"meta"`
}

type scoreItem struct {
	Description string `json:"description"`
	Score       struct {
		Goals       int    `json:"goals"`
		Participant string `json:"participant"`
	} `json:"score"`
}

type stateItem struct {
	State string `json:"state"`
}

// finishedStates are the SportMonks state codes that mean the final score
// stands.
var finishedStates = map[string]bool{
	"FT":     true,
	"AET":    true,
	"FT_PEN": true,
}

func mapFixture(item fixtureItem) (usecase.ProviderFixture, bool) {
	if item.ID <= 0 {
		return usecase.ProviderFixture{}, false
	}
	kickoff := parseProviderDateTime(item.StartingAt)
	if kickoff == nil {
		return usecase.ProviderFixture{}, false
	}

	var home, away string
	for _, p := range item.Participants {
		switch strings.ToLower(p.Meta.Location) {
		case "home":
			home = p.Name
		case "away":
			away = p.Name
		}
	}
	if home == "" || away == "" {
		return usecase.ProviderFixture{}, false
	}

	fx := usecase.ProviderFixture{
		ExternalID: item.ID,
		HomeTeam:   home,
		AwayTeam:   away,
		KickoffAt:  *kickoff,
	}
	if item.State != nil {
		fx.Finished = finishedStates[strings.ToUpper(item.State.State)]
	}
	for _, s := range item.Scores {
		if !strings.EqualFold(s.Description, scoreDescriptionFinal) {
			continue
		}
		goals := s.Score.Goals
		switch strings.ToLower(s.Score.Participant) {
		case "home":
			g := goals
			fx.HomeScore = &g
		case "away":
			g := goals
			fx.AwayScore = &g
		}
	}

	return fx, true
}
