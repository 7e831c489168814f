package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/sonam-git/quiniela-sub001/internal/domain/jobrun"
	"github.com/sonam-git/quiniela-sub001/internal/domain/submission"
	"github.com/sonam-git/quiniela-sub001/internal/domain/week"
	"github.com/sonam-git/quiniela-sub001/internal/platform/logging"
	"github.com/sonam-git/quiniela-sub001/internal/usecase"
)

type Handler struct {
	scheduleService   *usecase.ScheduleService
	submissionService *usecase.SubmissionService
	scoringService    *usecase.ScoringService
	settlementService *usecase.SettlementService
	resultService     *usecase.ResultService
	runRepo           jobrun.Repository
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	scheduleService *usecase.ScheduleService,
	submissionService *usecase.SubmissionService,
	scoringService *usecase.ScoringService,
	settlementService *usecase.SettlementService,
	resultService *usecase.ResultService,
	runRepo jobrun.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		scheduleService:   scheduleService,
		submissionService: submissionService,
		scoringService:    scoringService,
		settlementService: settlementService,
		resultService:     resultService,
		runRepo:           runRepo,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetCurrentWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentWeek")
	defer span.End()

	schedule, err := h.scheduleService.CurrentWeek(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get current week failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, weekToDTO(schedule))
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeek")
	defer span.End()

	key, err := weekKeyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	schedule, err := h.scheduleService.Week(ctx, key)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, weekToDTO(schedule))
}

func (h *Handler) GetWeekLockout(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeekLockout")
	defer span.End()

	key, err := weekKeyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.submissionService.Lockout(ctx, key)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, lockoutToDTO(status))
}

func (h *Handler) GetWeekStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeekStandings")
	defer span.End()

	key, err := weekKeyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.scoringService.Standings(ctx, key)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]submissionDTO, 0, len(standings))
	for _, sub := range standings {
		items = append(items, submissionToDTO(sub))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateSubmission")
	defer span.End()

	key, err := weekKeyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var body submissionRequestDTO
	if err := h.decodeAndValidate(r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	sub, err := h.submissionService.Create(ctx, submissionInputFromDTO(key, body))
	if err != nil {
		h.logger.WarnContext(ctx, "create submission failed",
			"week", key.String(), "owner", body.OwnerRef, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, submissionToDTO(sub))
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSubmission")
	defer span.End()

	key, kind, ownerRef, err := submissionPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	sub, err := h.submissionService.Get(ctx, kind, ownerRef, key)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(sub))
}

func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateSubmission")
	defer span.End()

	key, kind, ownerRef, err := submissionPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var body submissionRequestDTO
	if err := h.decodeAndValidate(r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}
	if body.Kind != string(kind) || body.OwnerRef != ownerRef {
		writeError(ctx, w, fmt.Errorf("%w: body owner does not match path", usecase.ErrInvalidInput))
		return
	}

	sub, err := h.submissionService.Update(ctx, submissionInputFromDTO(key, body))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, submissionToDTO(sub))
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteSubmission")
	defer span.End()

	key, kind, ownerRef, err := submissionPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.submissionService.Delete(ctx, kind, ownerRef, key); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) BuildWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuildWeek")
	defer span.End()

	var body buildWeekRequestDTO
	if err := h.decodeAndValidate(r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	target := usecase.BuildTarget(body.Target)
	if target == "" {
		target = usecase.TargetCurrent
	}

	schedule, err := h.scheduleService.EnsureWeek(ctx, usecase.BuildInput{
		Jornada: body.Jornada,
		Target:  target,
		Force:   body.Force,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "build week failed", "jornada", body.Jornada, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, weekToDTO(schedule))
}

func (h *Handler) UpdateMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchResult")
	defer span.End()

	key, err := weekKeyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if matchID == "" {
		writeError(ctx, w, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput))
		return
	}

	var body matchResultRequestDTO
	if err := h.decodeAndValidate(r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	schedule, err := h.resultService.UpdateMatchResult(ctx, key, usecase.ResultInput{
		MatchID:   matchID,
		ScoreA:    body.ScoreA,
		ScoreB:    body.ScoreB,
		Completed: body.Completed,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match result failed",
			"week", key.String(), "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, weekToDTO(schedule))
}

func (h *Handler) SettleWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleWeek")
	defer span.End()

	key, err := weekKeyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var body settleRequestDTO
	if err := h.decodeAndValidate(r, &body); err != nil {
		writeError(ctx, w, err)
		return
	}

	var settledBy *string
	if trimmed := strings.TrimSpace(body.SettledBy); trimmed != "" {
		settledBy = &trimmed
	}

	res, err := h.settlementService.Settle(ctx, key, settledBy, false)
	if err != nil {
		h.logger.WarnContext(ctx, "settle week failed", "week", key.String(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, settleResultDTO{
		WeekNumber:       res.Week.Number,
		Year:             res.Week.Year,
		WinnerCount:      res.WinnerCount,
		ActualTotalGoals: res.ActualTotalGoals,
		AutoSettled:      res.AutoSettled,
	})
}

func (h *Handler) SyncWeekResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SyncWeekResults")
	defer span.End()

	key, err := weekKeyFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	changed, err := h.resultService.SyncResults(ctx, key)
	if err != nil {
		h.logger.WarnContext(ctx, "sync week results failed", "week", key.String(), "error", err)
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, syncResultDTO{ChangedMatches: changed})
}

func (h *Handler) ListJobRuns(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListJobRuns")
	defer span.End()

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid limit %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = parsed
	}

	events, err := h.runRepo.ListRecent(ctx, limit)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]jobRunDTO, 0, len(events))
	for _, e := range events {
		items = append(items, jobRunToDTO(e))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

// decodeAndValidate fills target from the request body. An empty body
// leaves the zero value; the validator decides whether that is acceptable.
func (h *Handler) decodeAndValidate(r *http.Request, target any) error {
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: malformed request body: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.Struct(target); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func submissionInputFromDTO(key week.Key, body submissionRequestDTO) usecase.SubmissionInput {
	picks := make([]submission.Pick, 0, len(body.Picks))
	for _, p := range body.Picks {
		picks = append(picks, submission.Pick{MatchID: p.MatchID, Pick: week.Outcome(p.Pick)})
	}
	return usecase.SubmissionInput{
		Kind:            submission.Kind(body.Kind),
		OwnerRef:        body.OwnerRef,
		Week:            key,
		TotalGoalsGuess: body.TotalGoalsGuess,
		Picks:           picks,
	}
}

func weekKeyFromPath(r *http.Request) (week.Key, error) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		return week.Key{}, fmt.Errorf("%w: invalid year %q", usecase.ErrInvalidInput, r.PathValue("year"))
	}
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		return week.Key{}, fmt.Errorf("%w: invalid week number %q", usecase.ErrInvalidInput, r.PathValue("number"))
	}
	if number < 1 || number > 53 {
		return week.Key{}, fmt.Errorf("%w: week number %d out of range", usecase.ErrInvalidInput, number)
	}
	return week.Key{Number: number, Year: year}, nil
}

func submissionPath(r *http.Request) (week.Key, submission.Kind, string, error) {
	key, err := weekKeyFromPath(r)
	if err != nil {
		return week.Key{}, "", "", err
	}

	kind := submission.Kind(r.PathValue("kind"))
	if !kind.Valid() {
		return week.Key{}, "", "", fmt.Errorf("%w: unknown submission kind %q", usecase.ErrInvalidInput, r.PathValue("kind"))
	}

	ownerRef := strings.TrimSpace(r.PathValue("ownerRef"))
	if ownerRef == "" {
		return week.Key{}, "", "", fmt.Errorf("%w: owner reference is required", usecase.ErrInvalidInput)
	}
	return key, kind, ownerRef, nil
}
