// ABOUTME: In-memory Store fake with per-operation error injection.
// ABOUTME: Shared by the orchestrator and backfill tests.
package wellness

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/harperreed/wellness/internal/models"
	"github.com/harperreed/wellness/internal/storage"
)

type fakeStore struct {
	mu      sync.Mutex
	daily   map[string][]*models.DailyMetricRecord
	demo    map[string]*models.Demographics
	weekly  map[string]map[string]*models.WeeklyScoreRecord
	upserts int

	dailyErr  error
	demoErr   error
	upsertErr error
	recentErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		daily:  make(map[string][]*models.DailyMetricRecord),
		demo:   make(map[string]*models.Demographics),
		weekly: make(map[string]map[string]*models.WeeklyScoreRecord),
	}
}

func (f *fakeStore) addDays(records []*models.DailyMetricRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range records {
		f.daily[r.UserID] = append(f.daily[r.UserID], r)
	}
}

func (f *fakeStore) seedWeek(userID, weekStart string, score int) {
	day, _ := models.ParseDay(weekStart)
	_ = f.UpsertWeeklyScore(context.Background(), models.NewWeeklyScoreRecord(userID, day, score, "standard"))
	f.mu.Lock()
	f.upserts--
	f.mu.Unlock()
}

func (f *fakeStore) ListDailyRecords(_ context.Context, userID string, from, to time.Time) ([]*models.DailyMetricRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dailyErr != nil {
		return nil, f.dailyErr
	}
	var out []*models.DailyMetricRecord
	for _, r := range f.daily[userID] {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) GetDemographics(_ context.Context, userID string) (*models.Demographics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.demoErr != nil {
		return nil, f.demoErr
	}
	d, ok := f.demo[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return d, nil
}

func (f *fakeStore) UpsertWeeklyScore(_ context.Context, rec *models.WeeklyScoreRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	if f.weekly[rec.UserID] == nil {
		f.weekly[rec.UserID] = make(map[string]*models.WeeklyScoreRecord)
	}
	copied := *rec
	f.weekly[rec.UserID][rec.WeekStart.Format(models.DateLayout)] = &copied
	f.upserts++
	return nil
}

func (f *fakeStore) RecentWeeklyScores(_ context.Context, userID string, through time.Time, limit int) ([]*models.WeeklyScoreRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	var out []*models.WeeklyScoreRecord
	for _, rec := range f.weekly[userID] {
		if !rec.WeekStart.After(through) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []string
	for u := range f.daily {
		users = append(users, u)
	}
	sort.Strings(users)
	return users, nil
}

func (f *fakeStore) week(userID, weekStart string) *models.WeeklyScoreRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.weekly[userID][weekStart]
}

var (
	sampleRHR   = []float64{62, 60, 63, 61, 62, 60, 64}
	sampleSteps = []float64{8500, 9000, 7500, 8000, 9500, 10000, 8200}
	sampleSleep = []float64{7.5, 7.2, 7.8, 7.0, 7.5, 7.3, 7.6}
	sampleHRV   = []float64{55, 52, 58, 50, 54, 53, 56}
)

// history builds n consecutive days ending at end by cycling the sample week.
func history(userID string, end time.Time, n int) []*models.DailyMetricRecord {
	out := make([]*models.DailyMetricRecord, 0, n)
	for i := 0; i < n; i++ {
		k := i % len(sampleRHR)
		out = append(out, models.NewDailyMetricRecord(userID, end.AddDate(0, 0, i-n+1)).
			WithValue(models.MetricRestingHR, sampleRHR[k]).
			WithValue(models.MetricSteps, sampleSteps[k]).
			WithValue(models.MetricSleepHours, sampleSleep[k]).
			WithValue(models.MetricHRV, sampleHRV[k]))
	}
	return out
}

func mustDay(s string) time.Time {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}
