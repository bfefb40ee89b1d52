package service

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher-backoffice/internal/domains/author/model"
	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/pagination"
)

type memoryAuthorRepo struct {
	mu      sync.Mutex
	nextID  int64
	authors map[int64]model.Author
}

func newMemoryAuthorRepo() *memoryAuthorRepo {
	return &memoryAuthorRepo{authors: map[int64]model.Author{}}
}

func (r *memoryAuthorRepo) Create(_ context.Context, a *model.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	r.authors[a.ID] = *a
	return nil
}

func (r *memoryAuthorRepo) GetByID(_ context.Context, id int64) (*model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.authors[id]
	if !ok {
		return nil, model.ErrAuthorNotFound(id)
	}
	return &a, nil
}

func (r *memoryAuthorRepo) sorted() []model.Author {
	out := make([]model.Author, 0, len(r.authors))
	for _, a := range r.authors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memoryAuthorRepo) List(_ context.Context, p pagination.Params) ([]model.Author, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	start := int(p.Offset())
	if start >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := start + p.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *memoryAuthorRepo) ListAll(_ context.Context) ([]model.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

func (r *memoryAuthorRepo) Update(_ context.Context, a *model.Author) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[a.ID]; !ok {
		return model.ErrAuthorNotFound(a.ID)
	}
	r.authors[a.ID] = *a
	return nil
}

func (r *memoryAuthorRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.authors[id]; !ok {
		return model.ErrAuthorNotFound(id)
	}
	delete(r.authors, id)
	return nil
}

func TestCreateAuthor(t *testing.T) {
	svc := NewAuthorService(newMemoryAuthorRepo())

	a, err := svc.CreateAuthor(context.Background(), model.AuthorRequest{
		Name:        "  Machado de Assis ",
		BirthDate:   "1839-06-21",
		Nationality: "Brasileira",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, "Machado de Assis", a.Name)
	resp := a.ToResponse()
	require.NotNil(t, resp.BirthDate)
	assert.Equal(t, "1839-06-21", *resp.BirthDate)
	assert.Equal(t, "Brasileira", *resp.Nationality)
}

func TestCreateAuthor_OptionalFieldsAbsent(t *testing.T) {
	svc := NewAuthorService(newMemoryAuthorRepo())

	a, err := svc.CreateAuthor(context.Background(), model.AuthorRequest{Name: "Clarice Lispector"})
	require.NoError(t, err)
	assert.Nil(t, a.BirthDate)
	assert.Nil(t, a.Nationality)
}

func TestCreateAuthor_Validation(t *testing.T) {
	svc := NewAuthorService(newMemoryAuthorRepo())
	ctx := context.Background()

	_, err := svc.CreateAuthor(ctx, model.AuthorRequest{Name: "   "})
	assert.True(t, apperror.IsKind(err, apperror.MissingField))

	_, err = svc.CreateAuthor(ctx, model.AuthorRequest{Name: "X", BirthDate: "21/06/1839"})
	assert.True(t, apperror.IsKind(err, apperror.InvalidField))
}

func TestUpdateAuthor(t *testing.T) {
	svc := NewAuthorService(newMemoryAuthorRepo())
	ctx := context.Background()

	created, err := svc.CreateAuthor(ctx, model.AuthorRequest{Name: "Jorge Amado"})
	require.NoError(t, err)

	_, err = svc.UpdateAuthor(ctx, created.ID, model.AuthorRequest{Name: "Jorge Amado", Nationality: "Brasileira"})
	require.NoError(t, err)

	got, err := svc.GetAuthor(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brasileira", *got.Nationality)

	_, err = svc.UpdateAuthor(ctx, 99, model.AuthorRequest{Name: "Ghost"})
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.UpdateAuthor(ctx, created.ID, model.AuthorRequest{})
	assert.True(t, apperror.IsKind(err, apperror.MissingField))
}

func TestListAuthors_Pagination(t *testing.T) {
	svc := NewAuthorService(newMemoryAuthorRepo())
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.CreateAuthor(ctx, model.AuthorRequest{Name: name})
		require.NoError(t, err)
	}

	page, err := svc.ListAuthors(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.PageSize)

	page, err = svc.ListAuthors(ctx, 50, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, int64(3), page.TotalItems)
}

func TestDeleteAuthor(t *testing.T) {
	svc := NewAuthorService(newMemoryAuthorRepo())
	ctx := context.Background()

	a, err := svc.CreateAuthor(ctx, model.AuthorRequest{Name: "Cecília Meireles"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAuthor(ctx, a.ID))

	_, err = svc.GetAuthor(ctx, a.ID)
	assert.True(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(svc.DeleteAuthor(ctx, a.ID)))
}
