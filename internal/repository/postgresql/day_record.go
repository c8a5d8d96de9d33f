package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/database"
)

const dayRecordColumns = `id, user_id, date, sessions, version, created_at, updated_at`

type dayRecordRepositoryImpl struct {
	db *database.DB
}

func NewDayRecordRepository(db *database.DB) attendance.DayRecordRepository {
	return &dayRecordRepositoryImpl{db: db}
}

func scanDayRecord(row pgx.Row) (attendance.DayRecord, error) {
	var record attendance.DayRecord
	var sessionsJSON []byte
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Date,
		&sessionsJSON,
		&record.Version,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return attendance.DayRecord{}, err
	}
	if err := json.Unmarshal(sessionsJSON, &record.Sessions); err != nil {
		return attendance.DayRecord{}, fmt.Errorf("decode sessions: %w", err)
	}
	return record, nil
}

// Create implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) Create(ctx context.Context, record attendance.DayRecord) (attendance.DayRecord, error) {
	q := GetQuerier(ctx, r.db)

	sessionsJSON, err := json.Marshal(record.Sessions)
	if err != nil {
		return attendance.DayRecord{}, fmt.Errorf("encode sessions: %w", err)
	}
	legacy := record.LegacyView()

	query := `
		INSERT INTO day_records (user_id, date, sessions, entry_time, exit_time, legacy_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + dayRecordColumns

	created, err := scanDayRecord(q.QueryRow(ctx, query,
		record.UserID,
		record.Date,
		sessionsJSON,
		legacy.EntryTime,
		legacy.ExitTime,
		legacy.Timestamp,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.DayRecord{}, attendance.ErrDuplicateRecord
		}
		return attendance.DayRecord{}, err
	}
	return created, nil
}

// GetByID implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.DayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayRecordColumns + ` FROM day_records WHERE id = $1`

	record, err := scanDayRecord(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DayRecord{}, attendance.ErrRecordNotFound
		}
		return attendance.DayRecord{}, err
	}
	return record, nil
}

// GetByUserAndDate implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.DayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayRecordColumns + ` FROM day_records WHERE user_id = $1 AND date = $2`

	record, err := scanDayRecord(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Update implements attendance.DayRecordRepository. The write is
// conditional on the version the caller read; a stale version touches
// zero rows and maps to ErrConcurrentUpdate.
func (r *dayRecordRepositoryImpl) Update(ctx context.Context, record attendance.DayRecord) error {
	q := GetQuerier(ctx, r.db)

	sessionsJSON, err := json.Marshal(record.Sessions)
	if err != nil {
		return fmt.Errorf("encode sessions: %w", err)
	}
	legacy := record.LegacyView()

	query := `
		UPDATE day_records
		SET sessions = $1, entry_time = $2, exit_time = $3, legacy_timestamp = $4,
			version = version + 1, updated_at = NOW()
		WHERE id = $5 AND version = $6
	`

	tag, err := q.Exec(ctx, query,
		sessionsJSON,
		legacy.EntryTime,
		legacy.ExitTime,
		legacy.Timestamp,
		record.ID,
		record.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a vanished record from a stale version.
		var exists bool
		if scanErr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM day_records WHERE id = $1)`, record.ID).Scan(&exists); scanErr != nil {
			return scanErr
		}
		if !exists {
			return attendance.ErrRecordNotFound
		}
		return attendance.ErrConcurrentUpdate
	}
	return nil
}

// Delete implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM day_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}
	return nil
}

// ListByDate implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.DayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayRecordColumns + ` FROM day_records WHERE date = $1 ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDayRecords(rows)
}

// ListOpenByDate implements attendance.DayRecordRepository. A record is
// open when its last session has no exit time.
func (r *dayRecordRepositoryImpl) ListOpenByDate(ctx context.Context, date time.Time) ([]attendance.DayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + dayRecordColumns + ` FROM day_records
		WHERE date = $1
		  AND jsonb_array_length(sessions) > 0
		  AND sessions -> -1 ->> 'exitTime' IS NULL
		ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDayRecords(rows)
}

// ListByUser implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.DayRecord, int64, error) {
	filter.UserID = &userID
	return r.List(ctx, filter)
}

// List implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) List(ctx context.Context, filter attendance.HistoryFilter) ([]attendance.DayRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argPos))
		args = append(args, *filter.UserID)
		argPos++
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, *filter.StartDate)
		argPos++
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, *filter.EndDate)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM day_records WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+dayRecordColumns+` FROM day_records WHERE %s
		ORDER BY date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records, err := collectDayRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CountByDay implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) CountByDay(ctx context.Context, start, end time.Time, limit int) ([]attendance.DayCount, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date, COUNT(*), COUNT(DISTINCT user_id)
		FROM day_records
		WHERE date >= $1 AND date <= $2
		GROUP BY date
		ORDER BY date DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []attendance.DayCount
	for rows.Next() {
		var c attendance.DayCount
		if err := rows.Scan(&c.Date, &c.AttendanceCount, &c.UniqueUsers); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CountDistinctUsers implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) CountDistinctUsers(ctx context.Context, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM day_records WHERE date >= $1 AND date <= $2`,
		start, end,
	).Scan(&count)
	return count, err
}

func collectDayRecords(rows pgx.Rows) ([]attendance.DayRecord, error) {
	var records []attendance.DayRecord
	for rows.Next() {
		record, err := scanDayRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
