// ABOUTME: Badger key-value backend for wellness data.
// ABOUTME: Uses type-prefixed keys with JSON values and prefix iteration.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harperreed/wellness/internal/logger"
	"github.com/harperreed/wellness/internal/models"
)

const (
	DailyPrefix        = "daily:"
	DemographicsPrefix = "demo:"
	WeeklyPrefix       = "weekly:"
)

// KVStore is a Repository backed by an embedded badger database.
type KVStore struct {
	db *badger.DB
	mu sync.Mutex
}

// Compile-time check that KVStore implements Repository.
var _ Repository = (*KVStore)(nil)

// KVPath returns the badger directory inside dataDir.
func KVPath(dataDir string) string {
	return filepath.Join(dataDir, "kv")
}

// OpenKV opens or creates a badger database in dir. Badger's internal
// logging is routed through log when it is non-nil.
func OpenKV(dir string, log *logger.Logger) (*KVStore, error) {
	opts := badger.DefaultOptions(dir)
	if log != nil {
		opts = opts.WithLogger(badgerLogger{log})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open kv store: %w", err)
	}
	return &KVStore{db: db}, nil
}

// OpenKVInMemory opens a badger database that lives only in memory.
func OpenKVInMemory() (*KVStore, error) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open in-memory kv store: %w", err)
	}
	return &KVStore{db: db}, nil
}

// Close closes the badger database.
func (k *KVStore) Close() error {
	if k.db != nil {
		return k.db.Close()
	}
	return nil
}

func dailyKey(userID string, day time.Time) string {
	return DailyPrefix + userID + ":" + models.Day(day).Format(models.DateLayout)
}

func demographicsKey(userID string) string {
	return DemographicsPrefix + userID
}

func weeklyKey(userID string, weekStart time.Time) string {
	return WeeklyPrefix + userID + ":" + models.ISOWeekStart(weekStart).Format(models.DateLayout)
}

// SaveDailyRecord merges r into any stored record for the same day.
func (k *KVStore) SaveDailyRecord(_ context.Context, r *models.DailyMetricRecord) error {
	if r.UserID == "" {
		return fmt.Errorf("save daily record: empty user id")
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	key := dailyKey(r.UserID, r.Date)
	return k.db.Update(func(txn *badger.Txn) error {
		merged := models.NewDailyMetricRecord(r.UserID, r.Date)
		existing, err := getJSON[models.DailyMetricRecord](txn, key)
		switch {
		case err == nil:
			merged.Merge(existing)
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("read daily record: %w", err)
		}
		merged.Merge(r)
		return setJSON(txn, key, merged)
	})
}

// ListDailyRecords returns records for a user within [from, to], oldest first.
func (k *KVStore) ListDailyRecords(_ context.Context, userID string, from, to time.Time) ([]*models.DailyMetricRecord, error) {
	prefix := DailyPrefix + userID + ":"
	var records []*models.DailyMetricRecord
	err := k.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func(rest string, val []byte) error {
			day, err := models.ParseDay(rest)
			if err != nil {
				// key belongs to a user whose id extends this one
				return nil
			}
			if (!from.IsZero() && day.Before(models.Day(from))) || (!to.IsZero() && day.After(models.Day(to))) {
				return nil
			}
			var r models.DailyMetricRecord
			if err := json.Unmarshal(val, &r); err != nil {
				return fmt.Errorf("unmarshal daily record: %w", err)
			}
			records = append(records, &r)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list daily records: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

// SaveDemographics merges demo into any stored demographics.
func (k *KVStore) SaveDemographics(_ context.Context, demo *models.Demographics) error {
	if demo.UserID == "" {
		return fmt.Errorf("save demographics: empty user id")
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	key := demographicsKey(demo.UserID)
	return k.db.Update(func(txn *badger.Txn) error {
		merged := &models.Demographics{UserID: demo.UserID}
		existing, err := getJSON[models.Demographics](txn, key)
		switch {
		case err == nil:
			merged = existing
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("read demographics: %w", err)
		}
		if demo.Age != nil {
			merged.Age = demo.Age
		}
		if demo.BMI != nil {
			merged.BMI = demo.BMI
		}
		if demo.HeightCm != nil {
			merged.HeightCm = demo.HeightCm
		}
		if demo.WeightKg != nil {
			merged.WeightKg = demo.WeightKg
		}
		return setJSON(txn, key, merged)
	})
}

// GetDemographics retrieves demographics for a user.
func (k *KVStore) GetDemographics(_ context.Context, userID string) (*models.Demographics, error) {
	var demo *models.Demographics
	err := k.db.View(func(txn *badger.Txn) error {
		var err error
		demo, err = getJSON[models.Demographics](txn, demographicsKey(userID))
		return err
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get demographics: %w", err)
	}
	return demo, nil
}

// UpsertWeeklyScore inserts or updates the score for a user's ISO week.
// An existing record keeps its ID and CreatedAt.
func (k *KVStore) UpsertWeeklyScore(_ context.Context, rec *models.WeeklyScoreRecord) error {
	if rec.UserID == "" {
		return fmt.Errorf("upsert weekly score: empty user id")
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	key := weeklyKey(rec.UserID, rec.WeekStart)
	var stored models.WeeklyScoreRecord
	err := k.db.Update(func(txn *badger.Txn) error {
		now := time.Now().UTC()
		stored = *rec
		stored.WeekStart = models.ISOWeekStart(rec.WeekStart)
		stored.UpdatedAt = now

		existing, err := getJSON[models.WeeklyScoreRecord](txn, key)
		switch {
		case err == nil:
			stored.ID = existing.ID
			stored.CreatedAt = existing.CreatedAt
		case errors.Is(err, ErrNotFound):
			if stored.ID == uuid.Nil {
				stored.ID = uuid.New()
			}
			if stored.CreatedAt.IsZero() {
				stored.CreatedAt = now
			}
		default:
			return fmt.Errorf("read weekly score: %w", err)
		}
		return setJSON(txn, key, &stored)
	})
	if err != nil {
		return err
	}
	rec.ID, rec.CreatedAt, rec.UpdatedAt = stored.ID, stored.CreatedAt, stored.UpdatedAt
	return nil
}

// RecentWeeklyScores returns scores with WeekStart <= through, newest first.
func (k *KVStore) RecentWeeklyScores(_ context.Context, userID string, through time.Time, limit int) ([]*models.WeeklyScoreRecord, error) {
	prefix := WeeklyPrefix + userID + ":"
	cutoff := models.Day(through)
	var out []*models.WeeklyScoreRecord
	err := k.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func(rest string, val []byte) error {
			week, err := models.ParseDay(rest)
			if err != nil || week.After(cutoff) {
				return nil
			}
			var rec models.WeeklyScoreRecord
			if err := json.Unmarshal(val, &rec); err != nil {
				return fmt.Errorf("unmarshal weekly score: %w", err)
			}
			out = append(out, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list weekly scores: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListUsers returns every user with daily records or demographics.
func (k *KVStore) ListUsers(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	err := k.db.View(func(txn *badger.Txn) error {
		if err := scanPrefix(txn, DemographicsPrefix, func(rest string, _ []byte) error {
			seen[rest] = struct{}{}
			return nil
		}); err != nil {
			return err
		}
		return scanPrefix(txn, DailyPrefix, func(rest string, _ []byte) error {
			// user ids may contain ':', the date suffix never does
			if i := strings.LastIndex(rest, ":"); i > 0 {
				seen[rest[:i]] = struct{}{}
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := make([]string, 0, len(seen))
	for u := range seen {
		users = append(users, u)
	}
	sort.Strings(users)
	return users, nil
}

// scanPrefix calls fn with the key remainder after prefix and a copy of the
// value for every key under prefix.
func scanPrefix(txn *badger.Txn, prefix string, fn func(rest string, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		rest := strings.TrimPrefix(string(item.Key()), prefix)
		if err := fn(rest, val); err != nil {
			return err
		}
	}
	return nil
}

// getJSON reads and decodes key, returning ErrNotFound when absent.
func getJSON[T any](txn *badger.Txn, key string) (*T, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(val, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return &v, nil
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set([]byte(key), data)
}

// badgerLogger adapts our logger to badger.Logger.
type badgerLogger struct {
	log *logger.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.SugaredLogger.Errorf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.SugaredLogger.Warnf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.log.SugaredLogger.Debugf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.SugaredLogger.Debugf(strings.TrimSpace(format), args...)
}
