package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core/grading"
)

type gradeRecordRow struct {
	ID             string         `db:"id"`
	AssignmentID   int            `db:"assignment_id"`
	SubmissionID   int            `db:"submission_id"`
	Kind           string         `db:"kind"`
	Grade          string         `db:"grade"`
	CriteriaGrades types.JSONText `db:"criteria_grades"`
	Feedback       string         `db:"feedback"`
	Grader         string         `db:"grader"`
	CreatedAt      time.Time      `db:"created_at"`
}

type recordRepository struct {
	db *sqlx.DB
}

var _ grading.RecordRepository = (*recordRepository)(nil)

func NewRecordRepository(db *sqlx.DB) grading.RecordRepository {
	return &recordRepository{db: db}
}

func (repo *recordRepository) AddRecord(ctx context.Context, rec grading.Record) error {
	scores := rec.CriteriaGrades
	if scores == nil {
		scores = map[string]string{}
	}
	criteria, err := toJSON(scores)
	if err != nil {
		return err
	}
	row := gradeRecordRow{
		ID:             rec.ID,
		AssignmentID:   rec.AssignmentID,
		SubmissionID:   rec.SubmissionID,
		Kind:           string(rec.Kind),
		Grade:          rec.Grade,
		CriteriaGrades: criteria,
		Feedback:       rec.Feedback,
		Grader:         rec.Grader,
		CreatedAt:      rec.CreatedAt.UTC(),
	}
	_, err = repo.db.NamedExecContext(ctx, `
		INSERT INTO grade_record (id, assignment_id, submission_id, kind, grade, criteria_grades, feedback, grader, created_at)
		VALUES (:id, :assignment_id, :submission_id, :kind, :grade, :criteria_grades, :feedback, :grader, :created_at)`, row)
	return errors.Wrap(err, "inserting grade record")
}

func (repo *recordRepository) ListRecords(ctx context.Context, assignmentID int) ([]grading.Record, error) {
	var rows []gradeRecordRow
	err := repo.db.SelectContext(ctx, &rows, `
		SELECT id, assignment_id, submission_id, kind, grade, criteria_grades, feedback, grader, created_at
		FROM grade_record
		WHERE assignment_id = $1
		ORDER BY created_at DESC`, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting grade records")
	}

	records := make([]grading.Record, 0, len(rows))
	for _, r := range rows {
		rec := grading.Record{
			ID:           r.ID,
			AssignmentID: r.AssignmentID,
			SubmissionID: r.SubmissionID,
			Kind:         grading.RecordKind(r.Kind),
			Grade:        r.Grade,
			Feedback:     r.Feedback,
			Grader:       r.Grader,
			CreatedAt:    r.CreatedAt,
		}
		if err := r.CriteriaGrades.Unmarshal(&rec.CriteriaGrades); err != nil {
			return nil, errors.Wrapf(err, "decoding grade record %s", r.ID)
		}
		if len(rec.CriteriaGrades) == 0 {
			rec.CriteriaGrades = nil
		}
		records = append(records, rec)
	}
	return records, nil
}
