package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

type historyRow struct {
	ID           string         `db:"id"`
	AssignmentID int            `db:"assignment_id"`
	Student      string         `db:"student"`
	Type         string         `db:"type"`
	Content      string         `db:"content"`
	Attachments  types.JSONText `db:"attachments"`
	CreatedAt    time.Time      `db:"created_at"`
}

type historyRepository struct {
	db *sqlx.DB
}

var _ submission.HistoryRepository = (*historyRepository)(nil)

func NewHistoryRepository(db *sqlx.DB) submission.HistoryRepository {
	return &historyRepository{db: db}
}

func (repo *historyRepository) AddHistory(ctx context.Context, e submission.HistoryEntry) error {
	files := e.Attachments
	if files == nil {
		files = []assignment.Attachment{}
	}
	attachments, err := toJSON(files)
	if err != nil {
		return err
	}
	row := historyRow{
		ID:           e.ID,
		AssignmentID: e.AssignmentID,
		Student:      e.Student,
		Type:         string(e.Type),
		Content:      e.Content,
		Attachments:  attachments,
		CreatedAt:    e.Timestamp.UTC(),
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO submission_history (id, assignment_id, student, type, content, attachments, created_at)
		VALUES (:id, :assignment_id, :student, :type, :content, :attachments, :created_at)`, row)
	return errors.Wrap(err, "inserting submission history")
}

func (repo *historyRepository) ListHistory(ctx context.Context, assignmentID int, student string) ([]submission.HistoryEntry, error) {
	var rows []historyRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, assignment_id, student, type, content, attachments, created_at
		FROM submission_history
		WHERE assignment_id = $1 AND student = $2
		ORDER BY created_at`, assignmentID, student)
	if err != nil {
		return nil, errors.Wrap(err, "selecting submission history")
	}

	entries := make([]submission.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		e := submission.HistoryEntry{
			ID:           r.ID,
			AssignmentID: r.AssignmentID,
			Student:      r.Student,
			Type:         submission.HistoryType(r.Type),
			Timestamp:    r.CreatedAt,
			Content:      r.Content,
		}
		if err := r.Attachments.Unmarshal(&e.Attachments); err != nil {
			return nil, errors.Wrapf(err, "decoding submission history %s", r.ID)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
