package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xSteins/PencatatanKalori-sub000/internal"
	_ "modernc.org/sqlite"
)

// Fixed-width UTC timestamps sort lexicographically in time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(sqliteTimeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(sqliteTimeLayout, s) }

type SQLiteStorage struct {
	db     *sql.DB
	logger internal.Logger
}

func NewSQLiteStorage(path string, logger internal.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Errorf("failed to open sqlite database: %v", err)
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection serializes writers, which is what makes AppendActivity atomic
	// against concurrent callers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Close() error { return s.db.Close() }

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}
	migrations, err := loadMigrations("sqlite")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	for _, m := range migrations {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
		s.logger.Infof("storage: applied sqlite migration %d (%s)", m.version, m.name)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// --- ProfileRepository ---
func (s *SQLiteStorage) GetProfile(ctx context.Context) (*internal.UserProfile, error) {
	var u internal.UserProfile
	var created, updated string
	err := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM user_profile LIMIT 1`).Scan(
		&u.ID, &u.Age, &u.Sex, &u.WeightKg, &u.HeightCm, &u.ActivityLevel, &u.Goal,
		&u.GranularityOffset, &u.DailyCalorieTarget, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse profile created_at: %w", err)
	}
	if u.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parse profile updated_at: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStorage) SaveProfile(ctx context.Context, u *internal.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO user_profile (`+profileColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  age = excluded.age,
  sex = excluded.sex,
  weight_kg = excluded.weight_kg,
  height_cm = excluded.height_cm,
  activity_level = excluded.activity_level,
  goal = excluded.goal,
  granularity_offset = excluded.granularity_offset,
  daily_calorie_target = excluded.daily_calorie_target,
  updated_at = excluded.updated_at`,
		u.ID, u.Age, string(u.Sex), u.WeightKg, u.HeightCm, string(u.ActivityLevel), string(u.Goal),
		u.GranularityOffset, u.DailyCalorieTarget, formatTime(u.CreatedAt), formatTime(u.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM user_profile`); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}

// --- DayBucketRepository ---
func scanSQLiteBucket(row scanner) (*internal.DayBucket, error) {
	var b internal.DayBucket
	var day string
	if err := row.Scan(&b.ID, &b.UserID, &day, &b.DayKey, &b.TDEE, &b.GranularityOffset, &b.ConsumedTotal,
		&b.GoalSnapshot, &b.WeightSnapshot, &b.ActivityLevelSnapshot); err != nil {
		return nil, err
	}
	t, err := parseTime(day)
	if err != nil {
		return nil, fmt.Errorf("parse day: %w", err)
	}
	b.Day = t
	return &b, nil
}

func (s *SQLiteStorage) GetDayBucket(ctx context.Context, userID, dayKey string) (*internal.DayBucket, error) {
	b, err := scanSQLiteBucket(s.db.QueryRowContext(ctx, `SELECT `+bucketColumns+` FROM day_bucket WHERE user_id = ? AND day_key = ?`, userID, dayKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		return nil, fmt.Errorf("get day bucket %s: %w", dayKey, err)
	}
	return b, nil
}

func insertSQLiteBucketIgnore(ctx context.Context, tx *sql.Tx, b *internal.DayBucket) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO day_bucket (`+bucketColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, day_key) DO NOTHING`,
		b.ID, b.UserID, formatTime(b.Day), b.DayKey, b.TDEE, b.GranularityOffset, b.ConsumedTotal,
		string(b.GoalSnapshot), b.WeightSnapshot, string(b.ActivityLevelSnapshot))
	return err
}

func (s *SQLiteStorage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStorage) GetOrCreateDayBucket(ctx context.Context, seed *internal.DayBucket) (*internal.DayBucket, error) {
	var out *internal.DayBucket
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertSQLiteBucketIgnore(ctx, tx, seed); err != nil {
			return err
		}
		b, err := scanSQLiteBucket(tx.QueryRowContext(ctx, `SELECT `+bucketColumns+` FROM day_bucket WHERE user_id = ? AND day_key = ?`, seed.UserID, seed.DayKey))
		out = b
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get or create day bucket %s: %w", seed.DayKey, err)
	}
	return out, nil
}

func (s *SQLiteStorage) SaveDayBucket(ctx context.Context, b *internal.DayBucket) (*internal.DayBucket, error) {
	out, err := scanSQLiteBucket(s.db.QueryRowContext(ctx, `
INSERT INTO day_bucket (`+bucketColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id, day_key) DO UPDATE SET
  tdee = excluded.tdee,
  granularity_offset = excluded.granularity_offset,
  goal_snapshot = excluded.goal_snapshot,
  weight_snapshot = excluded.weight_snapshot,
  activity_level_snapshot = excluded.activity_level_snapshot
RETURNING `+bucketColumns,
		b.ID, b.UserID, formatTime(b.Day), b.DayKey, b.TDEE, b.GranularityOffset, b.ConsumedTotal,
		string(b.GoalSnapshot), b.WeightSnapshot, string(b.ActivityLevelSnapshot)))
	if err != nil {
		return nil, fmt.Errorf("save day bucket %s: %w", b.DayKey, err)
	}
	return out, nil
}

func (s *SQLiteStorage) ListDayBuckets(ctx context.Context, userID string, start, end time.Time) ([]internal.DayBucket, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bucketColumns+` FROM day_bucket WHERE user_id = ? AND day >= ? AND day < ? ORDER BY day_key`,
		userID, formatTime(start), formatTime(end))
	if err != nil {
		return nil, fmt.Errorf("list day buckets: %w", err)
	}
	defer rows.Close()
	buckets := []internal.DayBucket{}
	for rows.Next() {
		b, err := scanSQLiteBucket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan day bucket: %w", err)
		}
		buckets = append(buckets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day buckets: %w", err)
	}
	return buckets, nil
}

func (s *SQLiteStorage) DeleteDayBucket(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM day_bucket WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete day bucket: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal.ErrNotFound
	}
	return nil
}

// --- ActivityRepository ---
func scanSQLiteActivity(row scanner) (*internal.ActivityLogEntry, error) {
	var a internal.ActivityLogEntry
	var bucketID sql.NullString
	var ts string
	if err := row.Scan(&a.ID, &a.UserID, &bucketID, &a.Type, &ts, &a.Name, &a.Calories, &a.Notes, &a.PictureRef); err != nil {
		return nil, err
	}
	t, err := parseTime(ts)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp: %w", err)
	}
	a.Timestamp = t
	if bucketID.Valid {
		a.DayBucketID = bucketID.String
	}
	return &a, nil
}

func (s *SQLiteStorage) AppendActivity(ctx context.Context, seed *internal.DayBucket, entry *internal.ActivityLogEntry) (*internal.DayBucket, error) {
	var out *internal.DayBucket
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertSQLiteBucketIgnore(ctx, tx, seed); err != nil {
			return err
		}
		b, err := scanSQLiteBucket(tx.QueryRowContext(ctx, `SELECT `+bucketColumns+` FROM day_bucket WHERE user_id = ? AND day_key = ?`, seed.UserID, seed.DayKey))
		if err != nil {
			return err
		}
		entry.DayBucketID = b.ID
		if _, err := tx.ExecContext(ctx, `INSERT INTO activity_log (`+activityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.UserID, entry.DayBucketID, string(entry.Type), formatTime(entry.Timestamp),
			entry.Name, entry.Calories, entry.Notes, entry.PictureRef); err != nil {
			return err
		}
		if entry.Type == internal.ActivityConsumption {
			if _, err := tx.ExecContext(ctx, `UPDATE day_bucket SET consumed_total = consumed_total + ? WHERE id = ?`, entry.Calories, b.ID); err != nil {
				return err
			}
			b.ConsumedTotal += entry.Calories
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("append activity: %w", err)
	}
	return out, nil
}

func (s *SQLiteStorage) GetActivity(ctx context.Context, id string) (*internal.ActivityLogEntry, error) {
	a, err := scanSQLiteActivity(s.db.QueryRowContext(ctx, `SELECT `+activityColumns+` FROM activity_log WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		return nil, fmt.Errorf("get activity %s: %w", id, err)
	}
	return a, nil
}

func (s *SQLiteStorage) UpdateActivity(ctx context.Context, e *internal.ActivityLogEntry) error {
	var bucketID any
	if e.DayBucketID != "" {
		bucketID = e.DayBucketID
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE activity_log SET user_id = ?, day_bucket_id = ?, type = ?, timestamp = ?, name = ?, calories = ?, notes = ?, picture_ref = ?
WHERE id = ?`,
		e.UserID, bucketID, string(e.Type), formatTime(e.Timestamp), e.Name, e.Calories, e.Notes, e.PictureRef, e.ID)
	if err != nil {
		return fmt.Errorf("update activity %s: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activity_log WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete activity %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) queryActivities(ctx context.Context, query string, args ...any) ([]internal.ActivityLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()
	entries := []internal.ActivityLogEntry{}
	for rows.Next() {
		a, err := scanSQLiteActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		entries = append(entries, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return entries, nil
}

func (s *SQLiteStorage) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]internal.ActivityLogEntry, error) {
	return s.queryActivities(ctx, `SELECT `+activityColumns+` FROM activity_log WHERE user_id = ? AND timestamp >= ? AND timestamp < ? ORDER BY timestamp, id`,
		userID, formatTime(start), formatTime(end))
}

func (s *SQLiteStorage) ListActivitiesForBucket(ctx context.Context, bucketID string) ([]internal.ActivityLogEntry, error) {
	return s.queryActivities(ctx, `SELECT `+activityColumns+` FROM activity_log WHERE day_bucket_id = ? ORDER BY timestamp, id`, bucketID)
}

// --- Compile-time assertions ---
var _ DataSource = (*SQLiteStorage)(nil)
