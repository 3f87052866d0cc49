// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"issuegate/internal/domain"
)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	return err
}

// inClause expands an IN (...) placeholder list into format and args. The
// query must contain exactly one %s where the placeholders go.
func inClause(format string, ids []int64) (string, []any) {
	if len(ids) == 0 {
		// IN (NULL) matches nothing, which is the right answer for an
		// empty id set.
		return fmt.Sprintf(format, "NULL"), nil
	}
	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, placeholders), args
}
