package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
)

type changeLogRow struct {
	ID           string         `db:"id"`
	AssignmentID int            `db:"assignment_id"`
	Changes      types.JSONText `db:"changes"`
	Detail       string         `db:"detail"`
	Author       string         `db:"author"`
	CreatedAt    time.Time      `db:"created_at"`
}

type changeLogRepository struct {
	db *sqlx.DB
}

var _ assignment.ChangeLogRepository = (*changeLogRepository)(nil)

func NewChangeLogRepository(db *sqlx.DB) assignment.ChangeLogRepository {
	return &changeLogRepository{db: db}
}

func (repo *changeLogRepository) AddChangeLog(ctx context.Context, entry assignment.ChangeLogEntry) error {
	changes, err := toJSON(entry.Changes)
	if err != nil {
		return err
	}
	row := changeLogRow{
		ID:           entry.ID,
		AssignmentID: entry.AssignmentID,
		Changes:      changes,
		Detail:       entry.Detail,
		Author:       entry.Author,
		CreatedAt:    entry.CreatedAt.UTC(),
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO change_log (id, assignment_id, changes, detail, author, created_at)
		VALUES (:id, :assignment_id, :changes, :detail, :author, :created_at)`, row)
	return errors.Wrap(err, "inserting change log")
}

func (repo *changeLogRepository) ListChangeLog(ctx context.Context, assignmentID int) ([]assignment.ChangeLogEntry, error) {
	var rows []changeLogRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, assignment_id, changes, detail, author, created_at
		FROM change_log
		WHERE assignment_id = $1
		ORDER BY created_at DESC`, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting change log")
	}

	entries := make([]assignment.ChangeLogEntry, 0, len(rows))
	for _, r := range rows {
		e := assignment.ChangeLogEntry{
			ID:           r.ID,
			AssignmentID: r.AssignmentID,
			Detail:       r.Detail,
			Author:       r.Author,
			CreatedAt:    r.CreatedAt,
		}
		if err := r.Changes.Unmarshal(&e.Changes); err != nil {
			return nil, errors.Wrapf(err, "decoding change log %s", r.ID)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
