package sportmonks

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
	"github.com/sonam-git/quiniela-sub001/internal/platform/resilience"
	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

const (
	defaultBaseURL        = "https://api.sportmonks.com/v3/football"
	defaultIncludeFixture = "participants;scores;state"
	scoreDescriptionFinal = "CURRENT"
)

var digitsRegex = regexp.MustCompile(`\d+`)
var apiTokenParamRegex = regexp.MustCompile(`api_token=[^&\s"']+`)
var errTransient = crerr.New("sportmonks transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client pulls fixture slates and single-fixture results from SportMonks.
// It implements usecase.FixtureProvider; all failures surface as errors so
// the schedule builder can fall back to the curated calendar.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

// FetchSlate returns the fixtures of one jornada, resolved through the
// season schedule: the round whose name carries the jornada number.
func (c *Client) FetchSlate(ctx context.Context, leagueID, seasonID int64, jornada int) ([]usecase.ProviderFixture, error) {
	if seasonID <= 0 {
		return nil, fmt.Errorf("season id must be greater than zero")
	}
	if jornada <= 0 {
		return nil, fmt.Errorf("jornada must be greater than zero")
	}

	path := fmt.Sprintf("/schedules/seasons/%d", seasonID)
	var schedule scheduleEnvelope
	if err := c.doJSON(ctx, path, map[string]string{"include": defaultIncludeFixture}, &schedule); err != nil {
		return nil, fmt.Errorf("fetch schedule season_id=%d: %w", seasonID, err)
	}

	for _, stage := range schedule.Data {
		for _, round := range stage.Rounds {
			if parseRoundNumber(round.Name) != jornada {
				continue
			}
			out := make([]usecase.ProviderFixture, 0, len(round.Fixtures))
			for _, item := range round.Fixtures {
				fx, ok := mapFixture(item)
				if !ok {
					c.logger.WarnContext(ctx, "skipping malformed provider fixture",
						"season_id", seasonID, "jornada", jornada, "fixture_id", item.ID)
					continue
				}
				out = append(out, fx)
			}
			return out, nil
		}
	}

	return nil, fmt.Errorf("season %d has no round for jornada %d", seasonID, jornada)
}

// FetchByID returns one fixture's current state, or ok=false when the
// provider does not know the fixture.
func (c *Client) FetchByID(ctx context.Context, fixtureID int64) (usecase.ProviderFixture, bool, error) {
	if fixtureID <= 0 {
		return usecase.ProviderFixture{}, false, fmt.Errorf("fixture id must be greater than zero")
	}

	path := fmt.Sprintf("/fixtures/%d", fixtureID)
	var envelope fixtureEnvelope
	if err := c.doJSON(ctx, path, map[string]string{"include": defaultIncludeFixture}, &envelope); err != nil {
		if stderrors.Is(err, errNotFound) {
			return usecase.ProviderFixture{}, false, nil
		}
		return usecase.ProviderFixture{}, false, fmt.Errorf("fetch fixture fixture_id=%d: %w", fixtureID, err)
	}

	fx, ok := mapFixture(envelope.Data)
	if !ok {
		return usecase.ProviderFixture{}, false, nil
	}
	return fx, true, nil
}

var errNotFound = crerr.New("sportmonks resource not found")

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportmonks circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("api_token", c.token)
	fullURL := c.baseURL + path + "?" + values.Encode()

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, fmt.Errorf("%w: status=%d", errNotFound, resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportmonks request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return apiTokenParamRegex.ReplaceAllString(value, "api_token=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("api_token") {
		query.Set("api_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func parseRoundNumber(raw string) int {
	candidate := digitsRegex.FindString(strings.TrimSpace(raw))
	if candidate == "" {
		return 0
	}
	value, err := strconv.Atoi(candidate)
	if err != nil {
		return 0
	}
	return value
}

func parseProviderDateTime(raw string) *time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}

	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			v := parsed.UTC()
			return &v
		}
	}
	return nil
}
