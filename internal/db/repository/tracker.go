package repository

import (
	"context"
	"database/sql"

	"issuegate/internal/domain"
)

type TrackerRepo struct {
	db *sql.DB
}

func NewTrackerRepo(db *sql.DB) *TrackerRepo {
	return &TrackerRepo{db: db}
}

func (r *TrackerRepo) Create(ctx context.Context, t *domain.Tracker) (*domain.Tracker, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO trackers (name, position) VALUES (?, ?)`, t.Name, t.Position)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	var out domain.Tracker
	err = r.db.QueryRowContext(ctx,
		`SELECT id, name, position FROM trackers WHERE id = ?`, id).
		Scan(&out.ID, &out.Name, &out.Position)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &out, nil
}

func (r *TrackerRepo) List(ctx context.Context) ([]domain.Tracker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, position FROM trackers ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trackers []domain.Tracker
	for rows.Next() {
		var t domain.Tracker
		if err := rows.Scan(&t.ID, &t.Name, &t.Position); err != nil {
			return nil, err
		}
		trackers = append(trackers, t)
	}
	return trackers, rows.Err()
}

func (r *TrackerRepo) IDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM trackers ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *TrackerRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM trackers WHERE id = ?`, id)
	return mapDBError(err)
}
