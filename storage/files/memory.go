package files

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

type Object struct {
	ContentType string
	Data        []byte
}

// MemoryStore keeps uploads in process and serves them under baseURL.
type MemoryStore struct {
	mutex   sync.RWMutex
	baseURL string
	objects map[string]Object
}

var _ submission.FileStore = (*MemoryStore)(nil)

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: baseURL, objects: make(map[string]Object)}
}

func (s *MemoryStore) Upload(_ context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if size > 0 {
		buf.Grow(int(size))
	}
	if _, err := io.Copy(&buf, r); err != nil {
		return "", errors.Wrapf(err, "reading %s", key)
	}

	s.mutex.Lock()
	s.objects[key] = Object{ContentType: contentType, Data: buf.Bytes()}
	s.mutex.Unlock()
	return s.baseURL + "/" + escapeKey(key), nil
}

// Get returns an uploaded object.
func (s *MemoryStore) Get(key string) (Object, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// ServeHTTP serves the object named by the request path.
func (s *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	obj, ok := s.Get(strings.TrimPrefix(r.URL.Path, "/"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if obj.ContentType != "" {
		w.Header().Set("Content-Type", obj.ContentType)
	}
	_, _ = w.Write(obj.Data)
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
