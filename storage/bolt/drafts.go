// Package boltstore keeps submission drafts in a local bbolt file.
package boltstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

var draftsBucket = []byte("Drafts")

type DraftStore struct {
	db *bbolt.DB
}

var _ submission.DraftStore = (*DraftStore)(nil)

// Open opens (or creates) the drafts file at path.
func Open(path string) (*DraftStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "creating drafts dir")
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening drafts db")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(draftsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating drafts bucket")
	}
	return &DraftStore{db: db}, nil
}

func (s *DraftStore) Close() error {
	return s.db.Close()
}

func draftKey(assignmentID int, student string) []byte {
	return []byte(fmt.Sprintf("%d/%s", assignmentID, student))
}

func (s *DraftStore) SaveDraft(_ context.Context, d submission.Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "encoding draft")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(draftsBucket).Put(draftKey(d.AssignmentID, d.Student), data)
	})
}

func (s *DraftStore) GetDraft(_ context.Context, assignmentID int, student string) (submission.Draft, error) {
	var d submission.Draft
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(draftsBucket).Get(draftKey(assignmentID, student))
		if data == nil {
			return submission.ErrDraftNotFound
		}
		return json.Unmarshal(data, &d)
	})
	return d, err
}

func (s *DraftStore) DeleteDraft(_ context.Context, assignmentID int, student string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(draftsBucket)
		key := draftKey(assignmentID, student)
		if b.Get(key) == nil {
			return submission.ErrDraftNotFound
		}
		return b.Delete(key)
	})
}

// ListDrafts returns every saved draft of an assignment, ordered by student.
func (s *DraftStore) ListDrafts(_ context.Context, assignmentID int) ([]submission.Draft, error) {
	prefix := []byte(fmt.Sprintf("%d/", assignmentID))
	drafts := make([]submission.Draft, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(draftsBucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var d submission.Draft
			if err := json.Unmarshal(v, &d); err != nil {
				return errors.Wrapf(err, "decoding draft %s", k)
			}
			drafts = append(drafts, d)
		}
		return nil
	})
	return drafts, err
}
