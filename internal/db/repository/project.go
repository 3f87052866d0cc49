package repository

import (
	"context"
	"database/sql"

	"issuegate/internal/domain"
)

type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (identifier, name) VALUES (?, ?)`, p.Identifier, p.Name)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowContext(ctx,
		`SELECT id, identifier, name, created_at FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Identifier, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, identifier, name, created_at FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Identifier, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return mapDBError(err)
}

func (r *ProjectRepo) AddMembership(ctx context.Context, m *domain.Membership, roleIDs []int64) (*domain.Membership, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO memberships (user_id, project_id) VALUES (?, ?)`, m.UserID, m.ProjectID)
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	for _, roleID := range roleIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO membership_roles (membership_id, role_id) VALUES (?, ?)`, id, roleID); err != nil {
			return nil, mapDBError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	out := &domain.Membership{ID: id, UserID: m.UserID, ProjectID: m.ProjectID}
	for _, roleID := range roleIDs {
		role, err := loadRole(ctx, r.db, roleID)
		if err != nil {
			return nil, mapDBError(err)
		}
		out.Roles = append(out.Roles, *role)
	}
	return out, nil
}

func (r *ProjectRepo) RemoveMembership(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = ?`, id)
	return mapDBError(err)
}

func (r *ProjectRepo) Members(ctx context.Context, projectID int64) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id FROM principals p
		 JOIN memberships m ON m.user_id = p.id
		 WHERE m.project_id = ?
		 ORDER BY p.name, p.id`, projectID)
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

	principals := NewPrincipalRepo(r.db)
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		u, err := principals.LoadUser(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}
