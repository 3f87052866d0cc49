package repository

import (
	"context"
	"database/sql"

	"issuegate/internal/domain"
)

type PrincipalRepo struct {
	db *sql.DB
}

func NewPrincipalRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db}
}

const principalColumns = `id, login, name, type, is_admin, active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrincipal(s rowScanner) (*domain.Principal, error) {
	var p domain.Principal
	var isAdmin, active int64
	if err := s.Scan(&p.ID, &p.Login, &p.Name, &p.Type, &isAdmin, &active, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.IsAdmin = isAdmin != 0
	p.Active = active != 0
	return &p, nil
}

func (r *PrincipalRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO principals (login, name, type, is_admin, active) VALUES (?, ?, ?, ?, ?)`,
		p.Login, p.Name, p.Type, boolToInt(p.IsAdmin), boolToInt(p.Active))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *PrincipalRepo) GetByID(ctx context.Context, id int64) (*domain.Principal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE id = ?`, id)
	p, err := scanPrincipal(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

func (r *PrincipalRepo) GetByLogin(ctx context.Context, login string) (*domain.Principal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE login = ?`, login)
	p, err := scanPrincipal(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

func (r *PrincipalRepo) List(ctx context.Context) ([]domain.Principal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+principalColumns+` FROM principals ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var principals []domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		principals = append(principals, *p)
	}
	return principals, rows.Err()
}

func (r *PrincipalRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM principals WHERE id = ?`, id)
	return mapDBError(err)
}

func (r *PrincipalRepo) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE principals SET is_admin = ? WHERE id = ?`, boolToInt(isAdmin), id)
	return mapDBError(err)
}

func (r *PrincipalRepo) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE principals SET active = ? WHERE id = ?`, boolToInt(active), id)
	return mapDBError(err)
}

func (r *PrincipalRepo) AddGroupMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id) VALUES (?, ?)`, groupID, userID)
	return mapDBError(err)
}

func (r *PrincipalRepo) RemoveGroupMember(ctx context.Context, groupID, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND user_id = ?`, groupID, userID)
	return mapDBError(err)
}

func (r *PrincipalRepo) GroupIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id FROM group_members WHERE user_id = ? ORDER BY group_id`, userID)
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

func (r *PrincipalRepo) GroupMembers(ctx context.Context, groupID int64) ([]domain.Principal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+principalColumns+` FROM principals
		 WHERE id IN (SELECT user_id FROM group_members WHERE group_id = ?)
		 ORDER BY name, id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *p)
	}
	return members, rows.Err()
}

func (r *PrincipalRepo) LoadUser(ctx context.Context, id int64) (*domain.User, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.assembleUser(ctx, p)
}

func (r *PrincipalRepo) LoadUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	p, err := r.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	return r.assembleUser(ctx, p)
}

// assembleUser builds the evaluation snapshot: the principal, its group ids
// and one membership per project. Memberships inherited through a group are
// folded into the same project entry, merging the role sets.
func (r *PrincipalRepo) assembleUser(ctx context.Context, p *domain.Principal) (*domain.User, error) {
	u := &domain.User{Principal: *p}

	groupIDs, err := r.GroupIDsForUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	u.GroupIDs = groupIDs

	principalIDs := append([]int64{p.ID}, groupIDs...)
	memberships, err := r.membershipsFor(ctx, principalIDs)
	if err != nil {
		return nil, err
	}

	byProject := map[int64]int{}
	for _, m := range memberships {
		roles, err := r.membershipRoles(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if idx, ok := byProject[m.ProjectID]; ok {
			existing := &u.Memberships[idx]
			existing.Roles = mergeRoles(existing.Roles, roles)
			continue
		}
		byProject[m.ProjectID] = len(u.Memberships)
		u.Memberships = append(u.Memberships, domain.Membership{
			ID:        m.ID,
			UserID:    p.ID,
			ProjectID: m.ProjectID,
			Roles:     roles,
		})
	}
	return u, nil
}

func (r *PrincipalRepo) membershipsFor(ctx context.Context, principalIDs []int64) ([]domain.Membership, error) {
	query, args := inClause(
		`SELECT id, user_id, project_id FROM memberships WHERE user_id IN (%s) ORDER BY project_id, id`,
		principalIDs)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := rows.Scan(&m.ID, &m.UserID, &m.ProjectID); err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *PrincipalRepo) membershipRoles(ctx context.Context, membershipID int64) ([]domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT role_id FROM membership_roles WHERE membership_id = ? ORDER BY role_id`,
		membershipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roleIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		roleIDs = append(roleIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	roles := make([]domain.Role, 0, len(roleIDs))
	for _, id := range roleIDs {
		role, err := loadRole(ctx, r.db, id)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, nil
}

func mergeRoles(existing, extra []domain.Role) []domain.Role {
	seen := map[int64]bool{}
	for _, r := range existing {
		seen[r.ID] = true
	}
	for _, r := range extra {
		if !seen[r.ID] {
			seen[r.ID] = true
			existing = append(existing, r)
		}
	}
	return existing
}
