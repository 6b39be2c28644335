// Package inmemdb keeps the local repositories in memory. It is used by tests and when no database is configured.
package inmemdb

import (
	"sync"

	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/grading"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

type (
	DB struct {
		changeLog *changeLogTable
		records   *recordTable
		history   *historyTable
	}

	changeLogTable struct {
		mutex sync.RWMutex
		rows  []assignment.ChangeLogEntry
	}

	recordTable struct {
		mutex sync.RWMutex
		rows  []grading.Record
	}

	historyTable struct {
		mutex sync.RWMutex
		rows  []submission.HistoryEntry
	}
)

func Open() *DB {
	return &DB{
		changeLog: &changeLogTable{},
		records:   &recordTable{},
		history:   &historyTable{},
	}
}

func copyStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
