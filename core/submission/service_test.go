package submission

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	testutil "github.com/Eddy-Prime/SE-Complete-Project/tests"
)

type assignmentsMock struct{}

func (assignmentsMock) Get(ctx context.Context, sess session.Session, id int) (assignment.Assignment, error) {
	switch id {
	case 1:
		return assignment.Assignment{ID: 1, Title: "Final Project", DueDate: core.MustParseDate("2025-05-15"), Status: assignment.StatusNotStarted}, nil
	case 2:
		return assignment.Assignment{ID: 2, Title: "ER Diagram", DueDate: core.MustParseDate("2025-04-20"), Status: assignment.StatusInProgress}, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

type backendMock struct {
	calls   int32
	release chan struct{}
	created []NewSubmission
	mu      sync.Mutex
}

func (b *backendMock) CreateSubmission(ctx context.Context, token string, assignmentID int, ns NewSubmission) (Submission, error) {
	atomic.AddInt32(&b.calls, 1)
	if b.release != nil {
		<-b.release
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, ns)
	return Submission{
		ID: len(b.created), AssignmentID: assignmentID, StudentName: ns.StudentName, Content: ns.Content,
		Attachments: ns.Attachments, LateNote: ns.LateNote, SubmissionDate: time.Now(),
	}, nil
}

func (b *backendMock) ListSubmissions(ctx context.Context, token string, assignmentID int) ([]Submission, error) {
	return []Submission{{ID: 1, AssignmentID: assignmentID, StudentName: "Sarah Johnson", IsGraded: true, Grade: "90/100"}}, nil
}

func (b *backendMock) GetSubmission(ctx context.Context, token string, assignmentID, submissionID int) (Submission, error) {
	if submissionID != 1 {
		return Submission{}, &core.RemoteError{Status: 404}
	}
	return Submission{ID: 1, AssignmentID: assignmentID, StudentName: "Sarah Johnson"}, nil
}

type draftsMock struct {
	mu    sync.Mutex
	items map[string]Draft
}

func draftKey(id int, student string) string { return fmt.Sprintf("%d/%s", id, student) }

func (d *draftsMock) SaveDraft(ctx context.Context, dr Draft) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items[draftKey(dr.AssignmentID, dr.Student)] = dr
	return nil
}

func (d *draftsMock) GetDraft(ctx context.Context, id int, student string) (Draft, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	dr, ok := d.items[draftKey(id, student)]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	return dr, nil
}

func (d *draftsMock) DeleteDraft(ctx context.Context, id int, student string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.items[draftKey(id, student)]; !ok {
		return ErrDraftNotFound
	}
	delete(d.items, draftKey(id, student))
	return nil
}

type historyMock struct {
	mu      sync.Mutex
	entries []HistoryEntry
}

func (h *historyMock) AddHistory(ctx context.Context, e HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	return nil
}

func (h *historyMock) ListHistory(ctx context.Context, id int, student string) ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []HistoryEntry
	for _, e := range h.entries {
		if e.AssignmentID == id && e.Student == student {
			out = append(out, e)
		}
	}
	return out, nil
}

type filesMock struct {
	keys []string
}

func (f *filesMock) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key)
	return "https://files.test/" + key, nil
}

var (
	alex     = session.Session{ID: "s1", Token: "tok", FullName: "Alex Student", Username: "student.alex", StudentNumber: "r0785099", Role: session.RoleStudent}
	lecturer = session.Session{ID: "l1", Token: "tok", FullName: "Prof. Thompson", Username: "professor.thompson", Role: session.RoleLecturer}
)

type fixture struct {
	svc     *Service
	backend *backendMock
	drafts  *draftsMock
	history *historyMock
	files   *filesMock
}

func newFixture(allowLate bool) fixture {
	nowFunc = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }
	f := fixture{
		backend: &backendMock{},
		drafts:  &draftsMock{items: make(map[string]Draft)},
		history: &historyMock{},
		files:   &filesMock{},
	}
	f.svc = NewService(f.backend, assignmentsMock{}, f.drafts, f.history, f.files, Policy{AllowLate: allowLate}, testutil.NewLogger())
	return f
}

func TestSubmit_validation(t *testing.T) {
	f := newFixture(true)
	defer func() { nowFunc = time.Now }()
	ctx := context.Background()

	_, msg, err := f.svc.Submit(ctx, alex, 1, Request{Content: "   "})
	require.Error(t, err)
	assert.Equal(t, core.Failure("Please provide some content for your submission"), msg)
	assert.Zero(t, f.backend.calls)

	// drafts may be empty
	_, msg, err = f.svc.Submit(ctx, alex, 1, Request{Content: "", IsDraft: true})
	require.NoError(t, err)
	assert.Equal(t, core.Success("Draft saved successfully"), msg)

	_, _, err = f.svc.Submit(ctx, lecturer, 1, Request{Content: "x"})
	assert.Equal(t, ErrForbidden, err)

	_, _, err = f.svc.Submit(ctx, alex, 99, Request{Content: "x"})
	assert.Equal(t, assignment.ErrNotFound, err)
}

func TestSubmit_draftThenFinal(t *testing.T) {
	f := newFixture(true)
	defer func() { nowFunc = time.Now }()
	ctx := context.Background()

	res, _, err := f.svc.Submit(ctx, alex, 1, Request{
		Content: "first version",
		IsDraft: true,
		Files:   []File{{Name: "project.zip", Data: []byte("zip")}},
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, res.Status)
	assert.Equal(t, assignment.StatusInProgress, res.Assignment.Status)
	require.NotNil(t, res.Draft)
	require.Len(t, res.Draft.Attachments, 1)
	assert.Equal(t, "project.zip", res.Draft.Attachments[0].Name)
	assert.Zero(t, f.backend.calls, "drafts stay local")

	draft, err := f.svc.Draft(ctx, alex, 1)
	require.NoError(t, err)
	assert.Equal(t, "first version", draft.Content)

	res, msg, err := f.svc.Submit(ctx, alex, 1, Request{
		Content:     "final version",
		Attachments: draft.Attachments,
		Files:       []File{{Name: "documentation.pdf", Data: []byte("pdf")}},
	})
	require.NoError(t, err)
	assert.Equal(t, core.Success("Assignment submitted successfully"), msg)
	assert.Equal(t, StatusSubmitted, res.Status)
	assert.Equal(t, assignment.StatusSubmitted, res.Assignment.Status)
	require.NotNil(t, res.Submission)
	names := []string{res.Submission.Attachments[0].Name, res.Submission.Attachments[1].Name}
	assert.Equal(t, []string{"project.zip", "documentation.pdf"}, names)
	assert.Equal(t, "Alex Student", f.backend.created[0].StudentName)
	assert.Equal(t, "r0785099", f.backend.created[0].StudentNumber)

	_, err = f.svc.Draft(ctx, alex, 1)
	assert.Equal(t, ErrDraftNotFound, err, "the draft is discarded once submitted")

	history, err := f.svc.History(ctx, alex, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, HistoryDraft, history[0].Type)
	assert.Equal(t, HistorySubmitted, history[1].Type)
	assert.Equal(t, "final version", history[1].Content)
	assert.Len(t, f.files.keys, 2)
}

func TestSubmit_late(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		f := newFixture(true)
		defer func() { nowFunc = time.Now }()

		res, msg, err := f.svc.Submit(context.Background(), alex, 2, Request{Content: "sorry", LateNote: "I was sick"})
		require.NoError(t, err)
		assert.Equal(t, core.Success("Assignment submitted after the deadline"), msg)
		assert.Equal(t, StatusLate, res.Status)
		assert.True(t, res.Submission.Late)
		assert.Equal(t, "I was sick", f.backend.created[0].LateNote)
	})

	t.Run("refused", func(t *testing.T) {
		f := newFixture(false)
		defer func() { nowFunc = time.Now }()

		_, msg, err := f.svc.Submit(context.Background(), alex, 2, Request{Content: "sorry"})
		assert.Equal(t, &DeadlinePassedError{Assignment: "ER Diagram", DueDate: core.MustParseDate("2025-04-20")}, err)
		assert.Equal(t, core.Failure("The deadline for ER Diagram has passed (due 2025-04-20)"), msg)
		assert.Zero(t, f.backend.calls)

		// drafts are still accepted
		_, _, err = f.svc.Submit(context.Background(), alex, 2, Request{Content: "sorry", IsDraft: true})
		assert.NoError(t, err)
	})

	t.Run("due today is on time", func(t *testing.T) {
		f := newFixture(false)
		defer func() { nowFunc = time.Now }()
		nowFunc = func() time.Time { return time.Date(2025, 5, 15, 23, 59, 0, 0, time.UTC) }

		res, _, err := f.svc.Submit(context.Background(), alex, 1, Request{Content: "just in time"})
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, res.Status)
	})
}

func TestSubmit_concurrentDuplicates(t *testing.T) {
	f := newFixture(true)
	defer func() { nowFunc = time.Now }()
	f.backend.release = make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.svc.Submit(context.Background(), alex, 1, Request{Content: "final"})
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(f.backend.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&f.backend.calls))
}

func TestSubmit_concurrentDifferentContent(t *testing.T) {
	f := newFixture(true)
	defer func() { nowFunc = time.Now }()
	f.backend.release = make(chan struct{})

	contents := []string{"version A", "version B"}
	results := make([]string, len(contents))
	var wg sync.WaitGroup
	for i, content := range contents {
		wg.Add(1)
		go func(i int, content string) {
			defer wg.Done()
			res, _, err := f.svc.Submit(context.Background(), alex, 1, Request{Content: content})
			if assert.NoError(t, err) && assert.NotNil(t, res.Submission) {
				results[i] = res.Submission.Content
			}
		}(i, content)
	}
	time.Sleep(50 * time.Millisecond)
	close(f.backend.release)
	wg.Wait()

	assert.Equal(t, int32(2), atomic.LoadInt32(&f.backend.calls))
	assert.Equal(t, contents, results)
}

func TestRequest_digest(t *testing.T) {
	base := Request{Content: "final", Attachments: []assignment.Attachment{{Name: "a.pdf", URL: "/files/a.pdf"}}}
	same := base
	assert.Equal(t, base.digest(), same.digest())

	other := base
	other.LateNote = "sorry"
	assert.NotEqual(t, base.digest(), other.digest())

	withFile := base
	withFile.Files = []File{{Name: "b.txt", Data: []byte("b")}}
	assert.NotEqual(t, base.digest(), withFile.digest())

	// lengths are part of the digest
	assert.NotEqual(t, Request{Content: "ab", LateNote: "c"}.digest(), Request{Content: "a", LateNote: "bc"}.digest())
}

func TestService_reviewAccess(t *testing.T) {
	f := newFixture(true)
	defer func() { nowFunc = time.Now }()
	ctx := context.Background()

	_, err := f.svc.List(ctx, alex, 1)
	assert.Equal(t, ErrNotLecturer, err)

	list, err := f.svc.List(ctx, lecturer, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, StatusGraded, list[0].Status)
	assert.NotNil(t, list[0].Attachments)

	_, err = f.svc.Get(ctx, lecturer, 1, 7)
	assert.Equal(t, ErrNotFound, err)
}
