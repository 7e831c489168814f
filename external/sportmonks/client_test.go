package sportmonks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
)

const scheduleBody = `{
  "data": [
    {
      "rounds": [
        {
          "name": "6",
          "fixtures": []
        },
        {
          "name": "7",
          "fixtures": [
            {
              "id": 901,
              "starting_at": "2026-09-05 18:00:00",
              "participants": [
                {"id": 1, "name": "América", "meta": {"location": "home"}},
                {"id": 2, "name": "Chivas", "meta": {"location": "away"}}
              ],
              "scores": [],
              "state": {"state": "NS"}
            },
            {
              "id": 902,
              "starting_at": "2026-09-05 20:00:00",
              "participants": [
                {"id": 3, "name": "Tigres", "meta": {"location": "home"}},
                {"id": 4, "name": "Pumas", "meta": {"location": "away"}}
              ],
              "scores": [
                {"description": "CURRENT", "score": {"goals": 2, "participant": "home"}},
                {"description": "CURRENT", "score": {"goals": 1, "participant": "away"}}
              ],
              "state": {"state": "FT"}
            }
          ]
        }
      ]
    }
  ]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		BaseURL: server.URL,
		Token:   "secret-token",
		Logger:  logging.NewNop(),
	})
	return client, server
}

func TestFetchSlateMapsRound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/schedules/seasons/25539") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "secret-token" {
			t.Error("api token missing from request")
		}
		_, _ = w.Write([]byte(scheduleBody))
	}))

	fixtures, err := client.FetchSlate(context.Background(), 743, 25539, 7)
	if err != nil {
		t.Fatalf("FetchSlate: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected two fixtures, got=%d", len(fixtures))
	}

	first := fixtures[0]
	if first.ExternalID != 901 || first.HomeTeam != "América" || first.AwayTeam != "Chivas" {
		t.Fatalf("unexpected first fixture: %+v", first)
	}
	if first.Finished || first.HomeScore != nil {
		t.Fatalf("not-started fixture must carry no result: %+v", first)
	}

	second := fixtures[1]
	if !second.Finished {
		t.Fatal("FT fixture must be finished")
	}
	if second.HomeScore == nil || *second.HomeScore != 2 || second.AwayScore == nil || *second.AwayScore != 1 {
		t.Fatalf("unexpected final score: %+v", second)
	}
}

func TestFetchSlateUnknownJornada(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(scheduleBody))
	}))

	if _, err := client.FetchSlate(context.Background(), 743, 25539, 15); err == nil {
		t.Fatal("expected an error for a jornada outside the schedule")
	}
}

func TestFetchByIDNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, ok, err := client.FetchByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("FetchByID: %v", err)
	}
	if ok {
		t.Fatal("missing fixture must report ok=false")
	}
}

func TestExecuteRequestRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data": {"id": 901, "starting_at": "2026-09-05 18:00:00", "participants": [{"id": 1, "name": "América", "meta": {"location": "home"}}, {"id": 2, "name": "Chivas", "meta": {"location": "away"}}]}}`))
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		Token:      "secret-token",
		MaxRetries: 1,
		Logger:     logging.NewNop(),
	})

	fx, ok, err := client.FetchByID(context.Background(), 901)
	if err != nil || !ok {
		t.Fatalf("FetchByID after retry: ok=%v err=%v", ok, err)
	}
	if fx.ExternalID != 901 {
		t.Fatalf("unexpected fixture: %+v", fx)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got calls=%d", calls.Load())
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial tcp: api_token=secret-token refused", "secret-token")
	if strings.Contains(got, "secret-token") {
		t.Fatalf("token leaked: %s", got)
	}
}
