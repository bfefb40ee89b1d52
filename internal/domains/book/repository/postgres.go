package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"publisher-backoffice/internal/domains/book/model"
	"publisher-backoffice/internal/infrastructure/database"
	"publisher-backoffice/internal/shared/pagination"
)

type postgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) RepositoryInterface {
	return &postgresRepository{db: db}
}

const bookColumns = `id, title, isbn, publication_date, genre`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ========================================
// CREATE
// ========================================

func (r *postgresRepository) Create(ctx context.Context, b *model.Book, authorIDs []int64) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO books (title, isbn, publication_date, genre) VALUES ($1, $2, $3, $4) RETURNING id`,
			b.Title, b.ISBN, b.PublicationDate, b.Genre,
		).Scan(&b.ID)
		if err != nil {
			return err
		}

		b.Authors, err = linkAuthors(ctx, tx, b.ID, authorIDs)
		return err
	})
	return mapWriteError("create book", err)
}

// ========================================
// READ
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)

	b, err := scanBook(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound(id)
	}
	if err != nil {
		return nil, database.Wrap("get book", err)
	}

	b.Authors, err = listAuthors(ctx, r.db.Pool, b.ID)
	if err != nil {
		return nil, database.Wrap("get book authors", err)
	}
	return b, nil
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.Book, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, database.Wrap("count books", err)
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title, id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, 0, database.Wrap("list books", err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, database.Wrap("scan book", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.Wrap("list books", err)
	}

	if err := r.attachAuthors(ctx, books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// attachAuthors loads the authors of every book on the page in one query.
func (r *postgresRepository) attachAuthors(ctx context.Context, books []model.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]int64, len(books))
	index := make(map[int64]int, len(books))
	for i := range books {
		ids[i] = books[i].ID
		index[books[i].ID] = i
		books[i].Authors = []model.AuthorRef{}
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT ba.book_id, a.id, a.name
		FROM book_authors ba
		JOIN authors a ON a.id = ba.author_id
		WHERE ba.book_id = ANY($1)
		ORDER BY a.name, a.id`, ids)
	if err != nil {
		return database.Wrap("list book authors", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID int64
			ref    model.AuthorRef
		)
		if err := rows.Scan(&bookID, &ref.ID, &ref.Name); err != nil {
			return database.Wrap("scan book author", err)
		}
		if i, ok := index[bookID]; ok {
			books[i].Authors = append(books[i].Authors, ref)
		}
	}
	return database.Wrap("list book authors", rows.Err())
}

func (r *postgresRepository) ExistsByISBN(ctx context.Context, isbn string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1 AND id <> $2)`,
		isbn, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, database.Wrap("check isbn", err)
	}
	return exists, nil
}

// ========================================
// UPDATE
// ========================================

func (r *postgresRepository) Update(ctx context.Context, b *model.Book, authorIDs []int64) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE books SET title = $2, isbn = $3, publication_date = $4, genre = $5 WHERE id = $1`,
			b.ID, b.Title, b.ISBN, b.PublicationDate, b.Genre,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrBookNotFound(b.ID)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, b.ID); err != nil {
			return err
		}

		b.Authors, err = linkAuthors(ctx, tx, b.ID, authorIDs)
		return err
	})
	return mapWriteError("update book", err)
}

func (r *postgresRepository) AddAssociations(ctx context.Context, bookID int64, authorIDs []int64) ([]model.AuthorRef, error) {
	var authors []model.AuthorRef
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockBook(ctx, tx, bookID); err != nil {
			return err
		}

		var err error
		authors, err = linkAuthors(ctx, tx, bookID, authorIDs)
		return err
	})
	if err != nil {
		return nil, database.Wrap("add book authors", err)
	}
	return authors, nil
}

func (r *postgresRepository) ReplaceAssociations(ctx context.Context, bookID int64, authorIDs []int64) ([]model.AuthorRef, error) {
	var authors []model.AuthorRef
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockBook(ctx, tx, bookID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, bookID); err != nil {
			return err
		}

		var err error
		authors, err = linkAuthors(ctx, tx, bookID, authorIDs)
		return err
	})
	if err != nil {
		return nil, database.Wrap("replace book authors", err)
	}
	return authors, nil
}

// ========================================
// DELETE
// ========================================

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockBook(ctx, tx, id); err != nil {
			return err
		}

		var sold bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM sale_items WHERE book_id = $1)`, id,
		).Scan(&sold)
		if err != nil {
			return err
		}
		if sold {
			return model.ErrBookHasSales("delete book")
		}

		if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE book_id = $1`, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
		return err
	})

	// A sale line inserted after the check still trips the foreign key.
	if name, ok := database.ForeignKeyViolation(err); ok && name == model.ConstraintSaleItemFK {
		return model.ErrBookHasSales("delete book")
	}
	return database.Wrap("delete book", err)
}

// ========================================
// HELPERS
// ========================================

// lockBook takes a row lock on the book so concurrent association writers
// for the same book run one after the other.
func lockBook(ctx context.Context, tx pgx.Tx, id int64) error {
	var locked int64
	err := tx.QueryRow(ctx, `SELECT id FROM books WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrBookNotFound(id)
	}
	return err
}

// linkAuthors inserts the associations for the existing authors among ids
// and returns the full author set of the book afterwards.
func linkAuthors(ctx context.Context, tx pgx.Tx, bookID int64, ids []int64) ([]model.AuthorRef, error) {
	if len(ids) > 0 {
		_, err := tx.Exec(ctx, `
			INSERT INTO book_authors (book_id, author_id)
			SELECT $1, a.id FROM authors a WHERE a.id = ANY($2)
			ON CONFLICT DO NOTHING`, bookID, ids)
		if err != nil {
			return nil, err
		}
	}
	return listAuthors(ctx, tx, bookID)
}

func listAuthors(ctx context.Context, q querier, bookID int64) ([]model.AuthorRef, error) {
	rows, err := q.Query(ctx, `
		SELECT a.id, a.name
		FROM book_authors ba
		JOIN authors a ON a.id = ba.author_id
		WHERE ba.book_id = $1
		ORDER BY a.name, a.id`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	authors := []model.AuthorRef{}
	for rows.Next() {
		var ref model.AuthorRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		authors = append(authors, ref)
	}
	return authors, rows.Err()
}

func mapWriteError(op string, err error) error {
	if name, ok := database.UniqueViolation(err); ok && name == model.ConstraintISBNKey {
		return model.ErrDuplicateISBN()
	}
	return database.Wrap(op, err)
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	if err := row.Scan(&b.ID, &b.Title, &b.ISBN, &b.PublicationDate, &b.Genre); err != nil {
		return nil, err
	}
	return &b, nil
}
