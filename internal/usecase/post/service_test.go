package post_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-summary/internal/common/pagination"
	"blog-summary/internal/domain/entity"
	postUC "blog-summary/internal/usecase/post"
	"blog-summary/internal/usecase/summary"
)

/* ───────── stubs ───────── */

type stubRepo struct {
	mu        sync.Mutex
	data      map[int64]*entity.Post
	nextID    int64
	err       error
	updateErr error
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]*entity.Post{}, nextID: 1}
}

func (s *stubRepo) sortedIDs(desc bool) []int64 {
	ids := make([]int64, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if desc {
			return ids[i] > ids[j]
		}
		return ids[i] < ids[j]
	})
	return ids
}

func (s *stubRepo) List(_ context.Context, offset, limit int) ([]entity.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []entity.PostWithAuthor
	ids := s.sortedIDs(true)
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		cp := *s.data[ids[i]]
		out = append(out, entity.PostWithAuthor{Post: &cp, Author: "alice"})
	}
	return out, nil
}

func (s *stubRepo) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.data)), s.err
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.PostWithAuthor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.data[id]; ok {
		cp := *p
		return &entity.PostWithAuthor{Post: &cp, Author: "alice"}, s.err
	}
	return nil, s.err
}

func (s *stubRepo) Create(_ context.Context, p *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	p.ID = s.nextID
	s.nextID++
	cp := *p
	s.data[p.ID] = &cp
	return nil
}

func (s *stubRepo) Update(_ context.Context, p *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[p.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *p
	s.data[p.ID] = &cp
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *stubRepo) ListBySummarySource(_ context.Context, source string, limit int) ([]*entity.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Post
	for _, id := range s.sortedIDs(false) {
		if p := s.data[id]; p.SummarySource == source && len(out) < limit {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateSummary(_ context.Context, id int64, text, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	p, ok := s.data[id]
	if !ok {
		return entity.ErrNotFound
	}
	p.Summary, p.SummarySource = text, source
	return nil
}

// stubSummarizer returns a fixed source and echoes the first word of the content.
type stubSummarizer struct {
	mu     sync.Mutex
	source summary.Source
	err    error
	calls  int
}

func (s *stubSummarizer) GenerateSummary(_ context.Context, content string, n int) (summary.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return summary.Result{}, s.err
	}
	return summary.Result{Text: "summary of " + strings.Fields(content)[0], Source: s.source}, nil
}

const body = "Goroutines are cheap. Channels connect them. Select waits on many."

var (
	author = &entity.User{ID: 1, Role: entity.RoleUser}
	other  = &entity.User{ID: 2, Role: entity.RoleEditor}
	admin  = &entity.User{ID: 3, Role: entity.RoleAdmin}
)

func ptr[T any](v T) *T { return &v }

func newService(source summary.Source) (*postUC.Service, *stubRepo, *stubSummarizer) {
	repo := newStub()
	sum := &stubSummarizer{source: source}
	return &postUC.Service{Repo: repo, Summarizer: sum}, repo, sum
}

/* ───────── Create ───────── */

func TestService_Create_GeneratesSummary(t *testing.T) {
	svc, repo, sum := newService(summary.SourceExternal)

	p, err := svc.Create(context.Background(), postUC.CreateInput{AuthorID: 1, Title: "  Concurrency  ", Content: body})
	require.NoError(t, err)
	assert.Equal(t, "Concurrency", p.Title)
	assert.Equal(t, "summary of Goroutines", p.Summary)
	assert.Equal(t, "external", p.SummarySource)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, 1, sum.calls)
	assert.Contains(t, repo.data, p.ID)
}

func TestService_Create_AuthorSummary(t *testing.T) {
	svc, _, sum := newService(summary.SourceLocal)

	p, err := svc.Create(context.Background(), postUC.CreateInput{
		AuthorID: 1, Title: "Concurrency", Content: body, Summary: "  My own words.  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "My own words.", p.Summary)
	assert.Equal(t, "author", p.SummarySource)
	assert.Zero(t, sum.calls)
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    postUC.CreateInput
		field string
	}{
		{name: "no author", in: postUC.CreateInput{Title: "Concurrency", Content: body}, field: "authorID"},
		{name: "short title", in: postUC.CreateInput{AuthorID: 1, Title: "Go", Content: body}, field: "title"},
		{name: "short content", in: postUC.CreateInput{AuthorID: 1, Title: "Concurrency", Content: "Too short."}, field: "content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService(summary.SourceLocal)
			_, err := svc.Create(context.Background(), tt.in)
			var ve *entity.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestService_Create_SummarizerCanceled(t *testing.T) {
	svc, repo, sum := newService(summary.SourceLocal)
	sum.err = context.Canceled

	_, err := svc.Create(context.Background(), postUC.CreateInput{AuthorID: 1, Title: "Concurrency", Content: body})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, repo.data)
}

/* ───────── Get / List ───────── */

func TestService_Get(t *testing.T) {
	svc, _, _ := newService(summary.SourceLocal)
	created, err := svc.Create(context.Background(), postUC.CreateInput{AuthorID: 1, Title: "Concurrency", Content: body})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Author)

	_, err = svc.Get(context.Background(), -1)
	assert.ErrorIs(t, err, postUC.ErrInvalidPostID)
	_, err = svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, postUC.ErrPostNotFound)
}

func TestService_List(t *testing.T) {
	svc, _, _ := newService(summary.SourceLocal)
	for _, title := range []string{"Post one", "Post two", "Post three"} {
		_, err := svc.Create(context.Background(), postUC.CreateInput{AuthorID: 1, Title: title, Content: body})
		require.NoError(t, err)
	}

	res, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "Post three", res.Data[0].Post.Title)
	assert.Equal(t, pagination.Metadata{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, res.Pagination)
}

func TestService_List_Error(t *testing.T) {
	svc, repo, _ := newService(summary.SourceLocal)
	repo.err = errors.New("db down")
	_, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	assert.Error(t, err)
}

/* ───────── Update ───────── */

func TestService_Update(t *testing.T) {
	newContent := "Mutexes guard shared state. Use them sparingly."

	tests := []struct {
		name        string
		actor       *entity.User
		in          postUC.UpdateInput
		wantErr     error
		wantTitle   string
		wantSummary string
		wantSource  string
		wantCalls   int
	}{
		{
			name: "title only keeps summary", actor: author,
			in:        postUC.UpdateInput{Title: ptr("Renamed post")},
			wantTitle: "Renamed post", wantSummary: "summary of Goroutines", wantSource: "local",
		},
		{
			name: "content change regenerates", actor: author,
			in:        postUC.UpdateInput{Content: &newContent},
			wantTitle: "Concurrency", wantSummary: "summary of Mutexes", wantSource: "local", wantCalls: 1,
		},
		{
			name: "same content does not regenerate", actor: author,
			in:        postUC.UpdateInput{Content: ptr(body)},
			wantTitle: "Concurrency", wantSummary: "summary of Goroutines", wantSource: "local",
		},
		{
			name: "explicit summary wins", actor: admin,
			in:        postUC.UpdateInput{Content: &newContent, Summary: ptr("Hand written.")},
			wantTitle: "Concurrency", wantSummary: "Hand written.", wantSource: "author",
		},
		{
			name: "blank summary regenerates", actor: author,
			in:        postUC.UpdateInput{Summary: ptr("   ")},
			wantTitle: "Concurrency", wantSummary: "summary of Goroutines", wantSource: "local", wantCalls: 1,
		},
		{
			name: "other user forbidden", actor: other,
			in:      postUC.UpdateInput{Title: ptr("Hijacked title")},
			wantErr: postUC.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, sum := newService(summary.SourceLocal)
			created, err := svc.Create(context.Background(), postUC.CreateInput{AuthorID: author.ID, Title: "Concurrency", Content: body})
			require.NoError(t, err)
			sum.calls = 0

			tt.in.ID = created.ID
			got, err := svc.Update(context.Background(), tt.actor, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "Concurrency", repo.data[created.ID].Title)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, got.Post.Title)
			assert.Equal(t, tt.wantSummary, got.Post.Summary)
			assert.Equal(t, tt.wantSource, got.Post.SummarySource)
			assert.Equal(t, tt.wantCalls, sum.calls)
			assert.Equal(t, tt.wantSummary, repo.data[created.ID].Summary)
			assert.False(t, got.Post.UpdatedAt.Before(created.UpdatedAt))
		})
	}
}

func TestService_Update_Validation(t *testing.T) {
	svc, _, _ := newService(summary.SourceLocal)
	created, err := svc.Create(context.Background(), postUC.CreateInput{AuthorID: author.ID, Title: "Concurrency", Content: body})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), author, postUC.UpdateInput{ID: created.ID, Content: ptr("short")})
	assert.ErrorIs(t, err, entity.ErrValidationFailed)

	_, err = svc.Update(context.Background(), author, postUC.UpdateInput{ID: 42, Title: ptr("Whatever title")})
	assert.ErrorIs(t, err, postUC.ErrPostNotFound)
}

/* ───────── Delete ───────── */

func TestService_Delete(t *testing.T) {
	svc, repo, _ := newService(summary.SourceLocal)
	created, err := svc.Create(context.Background(), postUC.CreateInput{AuthorID: author.ID, Title: "Concurrency", Content: body})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(context.Background(), author, created.ID), postUC.ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), admin, created.ID))
	assert.Empty(t, repo.data)
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, created.ID), postUC.ErrPostNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, 0), postUC.ErrInvalidPostID)
}
