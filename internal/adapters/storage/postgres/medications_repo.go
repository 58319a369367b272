package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"medremind/internal/domain/medications"
	"medremind/internal/engine"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

const medicationColumns = `
	id, owner_user_id,
	name, dosage, times,
	start_date, duration,
	current_supply, total_supply, refill_at,
	refill_reminder, reminder_enabled,
	color, last_refill_date, notes,
	created_at, updated_at`

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	times, err := json.Marshal(nonNilTimes(m.Times))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medications (`+medicationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
	`,
		m.ID,
		m.OwnerUserID,
		m.Name,
		m.Dosage,
		string(times),
		toDate(m.StartDate),
		string(m.Duration),
		toNullInt(m.CurrentSupply),
		toNullInt(m.TotalSupply),
		m.RefillAt,
		m.RefillReminder,
		m.ReminderEnabled,
		m.Color,
		toNullDate(m.LastRefillDate),
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	times, err := json.Marshal(nonNilTimes(m.Times))
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			times = $4,
			start_date = $5,
			duration = $6,
			current_supply = $7,
			total_supply = $8,
			refill_at = $9,
			refill_reminder = $10,
			reminder_enabled = $11,
			color = $12,
			last_refill_date = $13,
			notes = $14,
			updated_at = $15
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		string(times),
		toDate(m.StartDate),
		string(m.Duration),
		toNullInt(m.CurrentSupply),
		toNullInt(m.TotalSupply),
		m.RefillAt,
		m.RefillReminder,
		m.ReminderEnabled,
		m.Color,
		toNullDate(m.LastRefillDate),
		m.Notes,
		m.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return medications.ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, medications.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+medicationColumns+` FROM medications WHERE id = $1`, id)
	m, err := scanMedication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return medications.Medication{}, medications.ErrNotFound
		}
		return medications.Medication{}, err
	}
	return m, nil
}

func (r *MedicationsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]medications.Medication, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+medicationColumns+`
		FROM medications
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(s rowScanner) (medications.Medication, error) {
	var (
		m               medications.Medication
		times, duration string
		start           time.Time
		current, total  sql.NullInt64
		lastRefill      sql.NullTime
	)
	if err := s.Scan(
		&m.ID,
		&m.OwnerUserID,
		&m.Name,
		&m.Dosage,
		&times,
		&start,
		&duration,
		&current,
		&total,
		&m.RefillAt,
		&m.RefillReminder,
		&m.ReminderEnabled,
		&m.Color,
		&lastRefill,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	if err := json.Unmarshal([]byte(times), &m.Times); err != nil {
		return medications.Medication{}, err
	}
	// DATE llega como medianoche UTC
	m.StartDate = engine.DateIn(start, time.UTC)
	m.Duration = engine.DurationLabel(duration)
	m.CurrentSupply = fromNullInt(current)
	m.TotalSupply = fromNullInt(total)
	if lastRefill.Valid {
		m.LastRefillDate = engine.DateIn(lastRefill.Time, time.UTC)
	}
	return m, nil
}

func nonNilTimes(times []string) []string {
	if times == nil {
		return []string{}
	}
	return times
}

func toDate(d engine.Date) time.Time {
	return d.Time(time.UTC)
}

func toNullDate(d engine.Date) sql.NullTime {
	if d.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: d.Time(time.UTC), Valid: true}
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
