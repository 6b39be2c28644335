package inmemdb

import (
	"context"
	"sort"

	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/grading"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

type changeLogRepository struct {
	db *changeLogTable
}

func NewChangeLogRepository(db *DB) assignment.ChangeLogRepository {
	return &changeLogRepository{db: db.changeLog}
}

func (repo *changeLogRepository) AddChangeLog(_ context.Context, entry assignment.ChangeLogEntry) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	entry.Changes = append([]string(nil), entry.Changes...)
	repo.db.rows = append(repo.db.rows, entry)
	return nil
}

func (repo *changeLogRepository) ListChangeLog(_ context.Context, assignmentID int) ([]assignment.ChangeLogEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	// walk backwards so that entries sharing a timestamp come last inserted first
	entries := make([]assignment.ChangeLogEntry, 0)
	for i := len(repo.db.rows) - 1; i >= 0; i-- {
		e := repo.db.rows[i]
		if e.AssignmentID == assignmentID {
			e.Changes = append([]string(nil), e.Changes...)
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

type recordRepository struct {
	db *recordTable
}

func NewRecordRepository(db *DB) grading.RecordRepository {
	return &recordRepository{db: db.records}
}

func (repo *recordRepository) AddRecord(_ context.Context, rec grading.Record) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	rec.CriteriaGrades = copyStrings(rec.CriteriaGrades)
	repo.db.rows = append(repo.db.rows, rec)
	return nil
}

func (repo *recordRepository) ListRecords(_ context.Context, assignmentID int) ([]grading.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]grading.Record, 0)
	for i := len(repo.db.rows) - 1; i >= 0; i-- {
		r := repo.db.rows[i]
		if r.AssignmentID == assignmentID {
			r.CriteriaGrades = copyStrings(r.CriteriaGrades)
			records = append(records, r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })
	return records, nil
}

type historyRepository struct {
	db *historyTable
}

func NewHistoryRepository(db *DB) submission.HistoryRepository {
	return &historyRepository{db: db.history}
}

func (repo *historyRepository) AddHistory(_ context.Context, e submission.HistoryEntry) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e.Attachments = append([]assignment.Attachment(nil), e.Attachments...)
	repo.db.rows = append(repo.db.rows, e)
	return nil
}

func (repo *historyRepository) ListHistory(_ context.Context, assignmentID int, student string) ([]submission.HistoryEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]submission.HistoryEntry, 0)
	for _, e := range repo.db.rows {
		if e.AssignmentID == assignmentID && e.Student == student {
			e.Attachments = append([]assignment.Attachment(nil), e.Attachments...)
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Timestamp.Before(entries[j].Timestamp) })
	return entries, nil
}
