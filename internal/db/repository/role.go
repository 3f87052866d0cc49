package repository

import (
	"context"
	"database/sql"

	"issuegate/internal/domain"
)

type RoleRepo struct {
	db *sql.DB
}

func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

func (r *RoleRepo) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO roles (name) VALUES (?)`, role.Name)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *RoleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	role, err := loadRole(ctx, r.db, id)
	if err != nil {
		return nil, mapDBError(err)
	}
	return role, nil
}

func (r *RoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM roles ORDER BY id`)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(ids))
	for _, id := range ids {
		role, err := loadRole(ctx, r.db, id)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func (r *RoleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM roles WHERE id = ?`, id)
	return mapDBError(err)
}

func (r *RoleRepo) SetPermission(ctx context.Context, req domain.SetRolePermissionRequest) error {
	if _, err := r.GetByID(ctx, req.RoleID); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if !req.Granted {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM role_permissions WHERE role_id = ? AND permission = ?`,
			req.RoleID, req.Permission); err != nil {
			return mapDBError(err)
		}
		return tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO role_permissions (role_id, permission, all_trackers) VALUES (?, ?, ?)
		 ON CONFLICT (role_id, permission) DO UPDATE SET all_trackers = excluded.all_trackers`,
		req.RoleID, req.Permission, boolToInt(req.AllTrackers)); err != nil {
		return mapDBError(err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM role_permission_trackers WHERE role_id = ? AND permission = ?`,
		req.RoleID, req.Permission); err != nil {
		return mapDBError(err)
	}
	for _, trackerID := range req.TrackerIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO role_permission_trackers (role_id, permission, tracker_id) VALUES (?, ?, ?)`,
			req.RoleID, req.Permission, trackerID); err != nil {
			return mapDBError(err)
		}
	}
	return tx.Commit()
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadRole(ctx context.Context, q querier, id int64) (*domain.Role, error) {
	role := &domain.Role{Permissions: map[domain.Permission]domain.TrackerScope{}}
	row := q.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE id = ?`, id)
	if err := row.Scan(&role.ID, &role.Name); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx,
		`SELECT permission, all_trackers FROM role_permissions WHERE role_id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var perm string
		var allTrackers int64
		if err := rows.Scan(&perm, &allTrackers); err != nil {
			return nil, err
		}
		role.Permissions[domain.Permission(perm)] = domain.TrackerScope{AllTrackers: allTrackers != 0}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trackerRows, err := q.QueryContext(ctx,
		`SELECT permission, tracker_id FROM role_permission_trackers WHERE role_id = ? ORDER BY tracker_id`, id)
	if err != nil {
		return nil, err
	}
	defer trackerRows.Close()
	for trackerRows.Next() {
		var perm string
		var trackerID int64
		if err := trackerRows.Scan(&perm, &trackerID); err != nil {
			return nil, err
		}
		scope := role.Permissions[domain.Permission(perm)]
		scope.TrackerIDs = append(scope.TrackerIDs, trackerID)
		role.Permissions[domain.Permission(perm)] = scope
	}
	return role, trackerRows.Err()
}
