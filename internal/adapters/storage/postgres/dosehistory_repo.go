package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"medremind/internal/domain/dosehistory"
)

type DoseHistoryRepo struct {
	db *sql.DB
}

func NewDoseHistoryRepo(db *sql.DB) *DoseHistoryRepo {
	return &DoseHistoryRepo{db: db}
}

func (r *DoseHistoryRepo) Create(ctx context.Context, e dosehistory.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_history (
			id, owner_user_id, medication_id,
			taken, taken_at, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		e.ID,
		e.OwnerUserID,
		e.MedicationID,
		e.Taken,
		e.Timestamp,
		e.RecordedAt,
	)
	return err
}

func (r *DoseHistoryRepo) ListByOwner(ctx context.Context, ownerUserID string, filter dosehistory.ListFilter) ([]dosehistory.Entry, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	where := []string{"owner_user_id = $1"}
	args := []any{ownerUserID}
	if filter.MedicationID != "" {
		args = append(args, filter.MedicationID)
		where = append(where, fmt.Sprintf("medication_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("taken_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("taken_at < $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_user_id, medication_id, taken, taken_at, recorded_at
		FROM dose_history
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY taken_at DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]dosehistory.Entry, 0)
	for rows.Next() {
		var e dosehistory.Entry
		if err := rows.Scan(
			&e.ID,
			&e.OwnerUserID,
			&e.MedicationID,
			&e.Taken,
			&e.Timestamp,
			&e.RecordedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *DoseHistoryRepo) DeleteByMedication(ctx context.Context, ownerUserID, medicationID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM dose_history
		WHERE owner_user_id = $1 AND medication_id = $2
	`, ownerUserID, medicationID)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
