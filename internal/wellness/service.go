// ABOUTME: Weekly wellness orchestrator around the pure scoring engine.
// ABOUTME: Reads history, scores, persists the week, and smooths over recent weeks.
package wellness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/harperreed/wellness/internal/logger"
	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/scoring"
	"github.com/harperreed/wellness/internal/stats"
	"github.com/harperreed/wellness/internal/storage"
)

// ErrInvalidRequest marks a malformed scoring request.
var ErrInvalidRequest = errors.New("invalid request")

// smoothingWeeks is how many recent weekly scores feed score28d.
const smoothingWeeks = 4

// Store is everything the orchestrator reads and writes.
type Store interface {
	storage.DailySource
	storage.DemographicsSource
	storage.WeeklyScoreStore
	ListUsers(ctx context.Context) ([]string, error)
}

// Service computes and persists weekly wellness scores.
type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock used to anchor default windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. A nil logger discards output.
func NewService(store Store, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request asks for the score of the 7 days ending on To.
// With only From set the week is From..From+6. With neither, it ends today.
type Request struct {
	UserID string     `json:"userId"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
}

// Response is the scored week returned to callers.
type Response struct {
	UserID             string                `json:"userId"`
	WeekStart          string                `json:"weekStart"`
	WindowFrom         string                `json:"windowFrom"`
	WindowTo           string                `json:"windowTo"`
	Score7d            *int                  `json:"score7d"`
	Score28d           *int                  `json:"score28d"`
	ScoreLevel         scoring.ScoreLevel    `json:"scoreLevel"`
	Mode               scoring.Mode          `json:"mode"`
	Confidence         scoring.Confidence    `json:"confidence"`
	UXReason           scoring.UXReason      `json:"uxReason"`
	SmoothingAvailable bool                  `json:"smoothingAvailable"`
	Diagnostics        *scoring.Result       `json:"diagnostics"`
	Legacy             scoring.LegacyPayload `json:"legacy"`
}

// End resolves the last day of the requested week.
func (r Request) End(now time.Time) (time.Time, error) {
	if r.UserID == "" {
		return time.Time{}, fmt.Errorf("%w: empty user id", ErrInvalidRequest)
	}
	switch {
	case r.From != nil && r.To != nil:
		if models.Day(*r.From).After(models.Day(*r.To)) {
			return time.Time{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidRequest,
				r.From.Format(models.DateLayout), r.To.Format(models.DateLayout))
		}
		return models.Day(*r.To), nil
	case r.To != nil:
		return models.Day(*r.To), nil
	case r.From != nil:
		return models.Day(*r.From).AddDate(0, 0, currentDays-1), nil
	default:
		return models.Day(now), nil
	}
}

// Compute scores one user's week, persists it when a score exists, and
// smooths it over the most recent weekly scores.
func (s *Service) Compute(ctx context.Context, req Request) (*Response, error) {
	end, err := req.End(s.now())
	if err != nil {
		return nil, err
	}
	return s.computeWeek(ctx, req.UserID, WindowsEnding(end))
}

func (s *Service) computeWeek(ctx context.Context, userID string, w Windows) (*Response, error) {
	log := s.log.With("user_id", userID, "week_start", w.WeekStart.Format(models.DateLayout))

	in := s.readInput(ctx, log, userID, w)
	res := scoring.Compute(in)

	resp := &Response{
		UserID:      userID,
		WeekStart:   w.WeekStart.Format(models.DateLayout),
		WindowFrom:  w.Current.From.Format(models.DateLayout),
		WindowTo:    w.Current.To.Format(models.DateLayout),
		Score7d:     res.Score7d,
		Diagnostics: res,
	}

	if res.Score7d != nil {
		resp.Score28d, resp.SmoothingAvailable = s.persistAndSmooth(ctx, log, userID, w.WeekStart, res)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Relabel(resp.SmoothingAvailable)
	resp.ScoreLevel = res.ScoreLevel
	resp.Mode = res.Mode
	resp.Confidence = res.Confidence
	resp.UXReason = res.UXReason
	resp.Legacy = scoring.Legacy(res)

	log.Debug("computed weekly score",
		"score_7d", intOrNil(resp.Score7d),
		"score_28d", intOrNil(resp.Score28d),
		"level", resp.ScoreLevel.String(),
		"confidence", string(resp.Confidence),
	)
	return resp, nil
}

// readInput gathers raw history. Any failed read counts as no data.
func (s *Service) readInput(ctx context.Context, log *logger.Logger, userID string, w Windows) scoring.Input {
	var in scoring.Input

	span := w.Span()
	records, err := s.store.ListDailyRecords(ctx, userID, span.From, span.To)
	if err != nil {
		log.Warn("daily records unavailable, scoring without them", "error", err)
		records = nil
	}
	in.Current, in.Primary, in.Fallback = w.Split(records)

	demo, err := s.store.GetDemographics(ctx, userID)
	switch {
	case err == nil:
		in.Demographics = demo
	case !errors.Is(err, storage.ErrNotFound):
		log.Warn("demographics unavailable, scoring without context", "error", err)
	}

	prior, err := s.store.RecentWeeklyScores(ctx, userID, w.WeekStart.AddDate(0, 0, -1), scoring.MinPriorWeeklyScores)
	if err != nil {
		log.Warn("prior weekly scores unavailable", "error", err)
	} else {
		in.PriorWeeklyScores = len(prior)
	}
	return in
}

// persistAndSmooth upserts the week and derives score28d. A failed write or
// read-back leaves smoothing unavailable with score28d equal to score7d.
func (s *Service) persistAndSmooth(ctx context.Context, log *logger.Logger, userID string, weekStart time.Time, res *scoring.Result) (*int, bool) {
	fallback := *res.Score7d

	rec := models.NewWeeklyScoreRecord(userID, weekStart, *res.Score7d, res.ScoreLevel.String())
	if err := s.store.UpsertWeeklyScore(ctx, rec); err != nil {
		log.Error("persist weekly score failed", "error", err)
		return &fallback, false
	}

	recent, err := s.store.RecentWeeklyScores(ctx, userID, weekStart, smoothingWeeks)
	if err != nil {
		log.Warn("weekly score read-back failed", "error", err)
		return &fallback, false
	}
	score, ok := Smooth(recent)
	if !ok {
		return &fallback, false
	}
	return &score, true
}

// Smooth returns the rounded median of the given weekly scores when there
// are at least two of them.
func Smooth(recent []*models.WeeklyScoreRecord) (int, bool) {
	if len(recent) < scoring.MinPriorWeeklyScores {
		return 0, false
	}
	values := make([]float64, 0, len(recent))
	for _, r := range recent {
		values = append(values, float64(r.Score7d))
	}
	m, ok := stats.Median(values)
	if !ok {
		return 0, false
	}
	return int(math.Round(m)), true
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
