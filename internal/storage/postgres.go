package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xSteins/PencatatanKalori-sub000/internal"
)

const (
	profileColumns  = `id, age, sex, weight_kg, height_cm, activity_level, goal, granularity_offset, daily_calorie_target, created_at, updated_at`
	bucketColumns   = `id, user_id, day, day_key, tdee, granularity_offset, consumed_total, goal_snapshot, weight_snapshot, activity_level_snapshot`
	activityColumns = `id, user_id, day_bucket_id, type, timestamp, name, calories, notes, picture_ref`
)

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(dsn string, logger internal.Logger) (*PostgresStorage, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// Migrate applies pending migrations, each in its own transaction.
func (p *PostgresStorage) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}
	migrations, err := loadMigrations("postgres")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	for _, m := range migrations {
		var exists int
		err := p.pool.QueryRow(ctx, `SELECT 1 FROM schema_migrations WHERE version = $1`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}
		err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.sql); err != nil {
				return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations(version, name) VALUES($1, $2)`, m.version, m.name); err != nil {
				return fmt.Errorf("record migration version %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		p.logger.Infof("storage: applied postgres migration %d (%s)", m.version, m.name)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return internal.ErrNotFound
	}
	return err
}

// --- ProfileRepository ---
func (p *PostgresStorage) GetProfile(ctx context.Context) (*internal.UserProfile, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profile LIMIT 1`)
	var u internal.UserProfile
	if err := row.Scan(&u.ID, &u.Age, &u.Sex, &u.WeightKg, &u.HeightCm, &u.ActivityLevel, &u.Goal,
		&u.GranularityOffset, &u.DailyCalorieTarget, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrNotFound
		}
		p.logger.Errorf("failed to load profile: %v", err)
		return nil, err
	}
	return &u, nil
}

func (p *PostgresStorage) SaveProfile(ctx context.Context, u *internal.UserProfile) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO user_profile (`+profileColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
  age = excluded.age,
  sex = excluded.sex,
  weight_kg = excluded.weight_kg,
  height_cm = excluded.height_cm,
  activity_level = excluded.activity_level,
  goal = excluded.goal,
  granularity_offset = excluded.granularity_offset,
  daily_calorie_target = excluded.daily_calorie_target,
  updated_at = excluded.updated_at`,
		u.ID, u.Age, u.Sex, u.WeightKg, u.HeightCm, u.ActivityLevel, u.Goal,
		u.GranularityOffset, u.DailyCalorieTarget, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		p.logger.Errorf("failed to save profile: %v", err)
		return err
	}
	return nil
}

func (p *PostgresStorage) DeleteAll(ctx context.Context) error {
	// Cascades to day_bucket and activity_log.
	if _, err := p.pool.Exec(ctx, `DELETE FROM user_profile`); err != nil {
		p.logger.Errorf("failed to clear data: %v", err)
		return err
	}
	return nil
}

// --- DayBucketRepository ---
func scanBucket(row pgx.Row) (*internal.DayBucket, error) {
	var b internal.DayBucket
	err := row.Scan(&b.ID, &b.UserID, &b.Day, &b.DayKey, &b.TDEE, &b.GranularityOffset, &b.ConsumedTotal,
		&b.GoalSnapshot, &b.WeightSnapshot, &b.ActivityLevelSnapshot)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (p *PostgresStorage) GetDayBucket(ctx context.Context, userID, dayKey string) (*internal.DayBucket, error) {
	b, err := scanBucket(p.pool.QueryRow(ctx, `SELECT `+bucketColumns+` FROM day_bucket WHERE user_id = $1 AND day_key = $2`, userID, dayKey))
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func insertBucketIgnore(ctx context.Context, tx pgx.Tx, b *internal.DayBucket) error {
	_, err := tx.Exec(ctx, `
INSERT INTO day_bucket (`+bucketColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id, day_key) DO NOTHING`,
		b.ID, b.UserID, b.Day, b.DayKey, b.TDEE, b.GranularityOffset, b.ConsumedTotal,
		b.GoalSnapshot, b.WeightSnapshot, b.ActivityLevelSnapshot)
	return err
}

func lockBucket(ctx context.Context, tx pgx.Tx, userID, dayKey string) (*internal.DayBucket, error) {
	return scanBucket(tx.QueryRow(ctx, `SELECT `+bucketColumns+` FROM day_bucket WHERE user_id = $1 AND day_key = $2 FOR UPDATE`, userID, dayKey))
}

func (p *PostgresStorage) GetOrCreateDayBucket(ctx context.Context, seed *internal.DayBucket) (*internal.DayBucket, error) {
	var out *internal.DayBucket
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if err := insertBucketIgnore(ctx, tx, seed); err != nil {
			return err
		}
		b, err := lockBucket(ctx, tx, seed.UserID, seed.DayKey)
		out = b
		return err
	})
	if err != nil {
		p.logger.Errorf("failed to resolve day bucket %s: %v", seed.DayKey, err)
		return nil, err
	}
	return out, nil
}

func (p *PostgresStorage) SaveDayBucket(ctx context.Context, b *internal.DayBucket) (*internal.DayBucket, error) {
	out, err := scanBucket(p.pool.QueryRow(ctx, `
INSERT INTO day_bucket (`+bucketColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (user_id, day_key) DO UPDATE SET
  tdee = excluded.tdee,
  granularity_offset = excluded.granularity_offset,
  goal_snapshot = excluded.goal_snapshot,
  weight_snapshot = excluded.weight_snapshot,
  activity_level_snapshot = excluded.activity_level_snapshot
RETURNING `+bucketColumns,
		b.ID, b.UserID, b.Day, b.DayKey, b.TDEE, b.GranularityOffset, b.ConsumedTotal,
		b.GoalSnapshot, b.WeightSnapshot, b.ActivityLevelSnapshot))
	if err != nil {
		p.logger.Errorf("failed to save day bucket %s: %v", b.DayKey, err)
		return nil, err
	}
	return out, nil
}

func (p *PostgresStorage) ListDayBuckets(ctx context.Context, userID string, start, end time.Time) ([]internal.DayBucket, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+bucketColumns+` FROM day_bucket WHERE user_id = $1 AND day >= $2 AND day < $3 ORDER BY day_key`, userID, start, end)
	if err != nil {
		p.logger.Errorf("failed to query day buckets: %v", err)
		return nil, err
	}
	defer rows.Close()

	buckets := []internal.DayBucket{}
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			p.logger.Errorf("failed to scan day bucket: %v", err)
			return nil, err
		}
		buckets = append(buckets, *b)
	}
	return buckets, rows.Err()
}

func (p *PostgresStorage) DeleteDayBucket(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM day_bucket WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete day bucket: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

// --- ActivityRepository ---
func scanActivity(row pgx.Row) (*internal.ActivityLogEntry, error) {
	var a internal.ActivityLogEntry
	var bucketID *string
	err := row.Scan(&a.ID, &a.UserID, &bucketID, &a.Type, &a.Timestamp, &a.Name, &a.Calories, &a.Notes, &a.PictureRef)
	if err != nil {
		return nil, err
	}
	if bucketID != nil {
		a.DayBucketID = *bucketID
	}
	return &a, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (p *PostgresStorage) AppendActivity(ctx context.Context, seed *internal.DayBucket, entry *internal.ActivityLogEntry) (*internal.DayBucket, error) {
	var out *internal.DayBucket
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if err := insertBucketIgnore(ctx, tx, seed); err != nil {
			return err
		}
		b, err := lockBucket(ctx, tx, seed.UserID, seed.DayKey)
		if err != nil {
			return err
		}
		entry.DayBucketID = b.ID
		if _, err := tx.Exec(ctx, `INSERT INTO activity_log (`+activityColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			entry.ID, entry.UserID, entry.DayBucketID, entry.Type, entry.Timestamp, entry.Name, entry.Calories, entry.Notes, entry.PictureRef); err != nil {
			return err
		}
		if entry.Type == internal.ActivityConsumption {
			if err := tx.QueryRow(ctx, `UPDATE day_bucket SET consumed_total = consumed_total + $1 WHERE id = $2 RETURNING consumed_total`,
				entry.Calories, b.ID).Scan(&b.ConsumedTotal); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	if err != nil {
		p.logger.Errorf("failed to append activity: %v", err)
		return nil, err
	}
	return out, nil
}

func (p *PostgresStorage) GetActivity(ctx context.Context, id string) (*internal.ActivityLogEntry, error) {
	a, err := scanActivity(p.pool.QueryRow(ctx, `SELECT `+activityColumns+` FROM activity_log WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (p *PostgresStorage) UpdateActivity(ctx context.Context, e *internal.ActivityLogEntry) error {
	tag, err := p.pool.Exec(ctx, `
UPDATE activity_log SET user_id = $2, day_bucket_id = $3, type = $4, timestamp = $5, name = $6, calories = $7, notes = $8, picture_ref = $9
WHERE id = $1`,
		e.ID, e.UserID, nullable(e.DayBucketID), e.Type, e.Timestamp, e.Name, e.Calories, e.Notes, e.PictureRef)
	if err != nil {
		p.logger.Errorf("failed to update activity: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) DeleteActivity(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM activity_log WHERE id = $1`, id)
	if err != nil {
		p.logger.Errorf("failed to delete activity: %v", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrNotFound
	}
	return nil
}

func (p *PostgresStorage) queryActivities(ctx context.Context, sql string, args ...any) ([]internal.ActivityLogEntry, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Errorf("failed to query activities: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []internal.ActivityLogEntry{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			p.logger.Errorf("failed to scan activity: %v", err)
			return nil, err
		}
		entries = append(entries, *a)
	}
	return entries, rows.Err()
}

func (p *PostgresStorage) ListActivities(ctx context.Context, userID string, start, end time.Time) ([]internal.ActivityLogEntry, error) {
	return p.queryActivities(ctx, `SELECT `+activityColumns+` FROM activity_log WHERE user_id = $1 AND timestamp >= $2 AND timestamp < $3 ORDER BY timestamp, id`, userID, start, end)
}

func (p *PostgresStorage) ListActivitiesForBucket(ctx context.Context, bucketID string) ([]internal.ActivityLogEntry, error) {
	return p.queryActivities(ctx, `SELECT `+activityColumns+` FROM activity_log WHERE day_bucket_id = $1 ORDER BY timestamp, id`, bucketID)
}

// --- Compile-time assertions ---
var _ DataSource = (*PostgresStorage)(nil)
