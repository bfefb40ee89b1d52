package service

import (
	"context"

	"publisher-backoffice/internal/domains/book/model"
	"publisher-backoffice/internal/domains/book/repository"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/pkg/logger"
)

type bookService struct {
	repo repository.RepositoryInterface
}

func NewBookService(repo repository.RepositoryInterface) ServiceInterface {
	return &bookService{repo: repo}
}

// ========================================
// CREATE / UPDATE
// ========================================

func (s *bookService) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	b, err := s.fromRequest(&req)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByISBN(ctx, b.ISBN, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateISBN()
	}

	if err := s.repo.Create(ctx, b, req.AuthorIDs); err != nil {
		return nil, err
	}
	reportSkipped(b.ID, req.AuthorIDs, b.Authors)

	logger.Info("book created", map[string]interface{}{
		"book_id": b.ID,
		"isbn":    b.ISBN,
		"authors": len(b.Authors),
	})
	return b, nil
}

func (s *bookService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error) {
	b, err := s.fromRequest(&req)
	if err != nil {
		return nil, err
	}
	b.ID = id

	exists, err := s.repo.ExistsByISBN(ctx, b.ISBN, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrDuplicateISBN()
	}

	if err := s.repo.Update(ctx, b, req.AuthorIDs); err != nil {
		return nil, err
	}
	reportSkipped(b.ID, req.AuthorIDs, b.Authors)
	return b, nil
}

// ========================================
// READ
// ========================================

func (s *bookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) ListBooks(ctx context.Context, page, pageSize int) (pagination.Page[model.Book], error) {
	p := pagination.Normalize(page, pageSize)

	books, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Page[model.Book]{}, err
	}
	return pagination.New(books, p, total), nil
}

// ========================================
// ASSOCIATIONS
// ========================================

func (s *bookService) SetBookAuthors(ctx context.Context, id int64, authorIDs []int64) (*model.Book, error) {
	ids := model.UniqueIDs(authorIDs)

	authors, err := s.repo.ReplaceAssociations(ctx, id, ids)
	if err != nil {
		return nil, err
	}
	reportSkipped(id, ids, authors)
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) AddBookAuthors(ctx context.Context, id int64, authorIDs []int64) (*model.Book, error) {
	ids := model.UniqueIDs(authorIDs)

	authors, err := s.repo.AddAssociations(ctx, id, ids)
	if err != nil {
		return nil, err
	}
	reportSkipped(id, ids, authors)
	return s.repo.GetByID(ctx, id)
}

// ========================================
// DELETE
// ========================================

func (s *bookService) DeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("book deleted", map[string]interface{}{"book_id": id})
	return nil
}

func (s *bookService) fromRequest(req *model.BookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req.ToBook()
}

// reportSkipped logs requested author ids that did not end up linked.
func reportSkipped(bookID int64, requested []int64, linked []model.AuthorRef) {
	have := make(map[int64]bool, len(linked))
	for _, a := range linked {
		have[a.ID] = true
	}

	var skipped []int64
	for _, id := range model.UniqueIDs(requested) {
		if !have[id] {
			skipped = append(skipped, id)
		}
	}
	if len(skipped) == 0 {
		return
	}

	logger.Warn("unknown author ids skipped", map[string]interface{}{
		"book_id":    bookID,
		"author_ids": skipped,
	})
}
