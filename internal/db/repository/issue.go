package repository

import (
	"context"
	"database/sql"

	"issuegate/internal/domain"
)

type IssueRepo struct {
	db *sql.DB
}

func NewIssueRepo(db *sql.DB) *IssueRepo {
	return &IssueRepo{db: db}
}

const issueColumns = `id, project_id, tracker_id, subject, author_id, assigned_to_id, is_private, created_at`

func scanIssue(s rowScanner) (*domain.Issue, error) {
	var i domain.Issue
	var trackerID, assignedToID sql.NullInt64
	var isPrivate int64
	if err := s.Scan(&i.ID, &i.ProjectID, &trackerID, &i.Subject, &i.AuthorID,
		&assignedToID, &isPrivate, &i.CreatedAt); err != nil {
		return nil, err
	}
	i.TrackerID = trackerID.Int64
	i.IsPrivate = isPrivate != 0
	if assignedToID.Valid {
		i.AssignedTo = &domain.Principal{ID: assignedToID.Int64}
	}
	return &i, nil
}

func (r *IssueRepo) Create(ctx context.Context, i *domain.Issue) (*domain.Issue, error) {
	var trackerID, assignedToID any
	if i.TrackerID != 0 {
		trackerID = i.TrackerID
	}
	if i.AssignedTo != nil {
		assignedToID = i.AssignedTo.ID
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO issues (project_id, tracker_id, subject, author_id, assigned_to_id, is_private)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		i.ProjectID, trackerID, i.Subject, i.AuthorID, assignedToID, boolToInt(i.IsPrivate))
	if err != nil {
		return nil, mapDBError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *IssueRepo) GetByID(ctx context.Context, id int64) (*domain.Issue, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE id = ?`, id)
	issue, err := scanIssue(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	if issue.AssignedTo != nil {
		assignee, err := r.loadPrincipal(ctx, issue.AssignedTo.ID)
		if err != nil {
			return nil, err
		}
		issue.AssignedTo = assignee
	}
	watchers, err := r.watcherPrincipals(ctx, id)
	if err != nil {
		return nil, err
	}
	issue.Watchers = watchers
	return issue, nil
}

func (r *IssueRepo) ListWhere(ctx context.Context, whereSQL string) ([]domain.Issue, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+issueColumns+` FROM issues WHERE `+whereSQL+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []domain.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

func (r *IssueRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM watchers WHERE watchable_type = ? AND watchable_id = ?`,
		domain.WatchableIssue, id); err != nil {
		return mapDBError(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM issues WHERE id = ?`, id); err != nil {
		return mapDBError(err)
	}
	return tx.Commit()
}

func (r *IssueRepo) AddWatcher(ctx context.Context, issueID, principalID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO watchers (watchable_type, watchable_id, user_id) VALUES (?, ?, ?)`,
		domain.WatchableIssue, issueID, principalID)
	return mapDBError(err)
}

func (r *IssueRepo) RemoveWatcher(ctx context.Context, issueID, principalID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM watchers WHERE watchable_type = ? AND watchable_id = ? AND user_id = ?`,
		domain.WatchableIssue, issueID, principalID)
	return mapDBError(err)
}

func (r *IssueRepo) loadPrincipal(ctx context.Context, id int64) (*domain.Principal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE id = ?`, id)
	p, err := scanPrincipal(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return p, nil
}

// watcherPrincipals returns the issue's watcher principals in the order the
// watcher rows were added.
func (r *IssueRepo) watcherPrincipals(ctx context.Context, issueID int64) ([]domain.Principal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.login, p.name, p.type, p.is_admin, p.active, p.created_at
		 FROM watchers w
		 JOIN principals p ON p.id = w.user_id
		 WHERE w.watchable_type = ? AND w.watchable_id = ?
		 ORDER BY w.id`, domain.WatchableIssue, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var watchers []domain.Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		watchers = append(watchers, *p)
	}
	return watchers, rows.Err()
}
