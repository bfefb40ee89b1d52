package repository

import (
	"context"

	"publisher-backoffice/internal/domains/book/model"
	"publisher-backoffice/internal/shared/pagination"
)

// RepositoryInterface is the data access contract for books and their
// author associations. Author ids that match no author are skipped, so
// the returned Authors may be shorter than the ids passed in.
type RepositoryInterface interface {
	// Create inserts the book and links authorIDs in one transaction.
	Create(ctx context.Context, b *model.Book, authorIDs []int64) error
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	List(ctx context.Context, p pagination.Params) ([]model.Book, int64, error)
	ExistsByISBN(ctx context.Context, isbn string, excludeID int64) (bool, error)

	// Update rewrites the book columns and replaces its author set.
	Update(ctx context.Context, b *model.Book, authorIDs []int64) error

	// AddAssociations links authorIDs to the book, keeping existing links.
	AddAssociations(ctx context.Context, bookID int64, authorIDs []int64) ([]model.AuthorRef, error)

	// ReplaceAssociations swaps the author set of the book for authorIDs.
	ReplaceAssociations(ctx context.Context, bookID int64, authorIDs []int64) ([]model.AuthorRef, error)

	// Delete removes the book and its associations. Books referenced by a
	// sale are kept and a conflict is returned.
	Delete(ctx context.Context, id int64) error
}
