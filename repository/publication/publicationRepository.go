// repository/publication/repo.go
package publication

import (
	"context"
	"database/sql"

	"libloan/model"
)

// CategoryCount is one row of the per-category book breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// BorrowCount is one row of the borrow-count leaderboard.
type BorrowCount struct {
	PublicationID int64  `json:"publication_id"`
	Title         string `json:"title"`
	Count         int64  `json:"count"`
}

// OverdueUser is one reader currently holding overdue items.
type OverdueUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Count    int64  `json:"count"`
}

type Repo interface {
	Create(ctx context.Context, p *model.Publication) error
	ByID(ctx context.Context, id int64) (*model.Publication, error)
	List(ctx context.Context) ([]model.Publication, error)
	SearchAvailable(ctx context.Context, search string, pubType string) ([]model.Publication, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ISBNExists(ctx context.Context, isbn string) (bool, error)

	CountByType(ctx context.Context, pubType model.PublicationType) (int64, error)
	CountBorrowed(ctx context.Context) (int64, error)
	CountOverdue(ctx context.Context) (int64, error)
	CategoryStats(ctx context.Context) ([]CategoryCount, error)
	TopBorrowed(ctx context.Context, limit int) ([]BorrowCount, error)
	OverdueUsers(ctx context.Context) ([]OverdueUser, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const pubCols = `id, title, type, author, isbn, category, issue, publisher, is_latest,
	is_borrowed, borrower_id, due_date, created_at, updated_at`

func scanPub(row interface{ Scan(...any) error }, p *model.Publication) error {
	return row.Scan(
		&p.ID, &p.Title, &p.Type, &p.Author, &p.ISBN, &p.Category,
		&p.Issue, &p.Publisher, &p.IsLatest,
		&p.IsBorrowed, &p.BorrowerID, &p.DueDate, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *repo) Create(ctx context.Context, p *model.Publication) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO publications (title, type, author, isbn, category, issue, publisher, is_latest)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		p.Title, p.Type, p.Author, p.ISBN, p.Category, p.Issue, p.Publisher, p.IsLatest,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Publication, error) {
	p := &model.Publication{}
	err := scanPub(r.db.QueryRowContext(ctx,
		`SELECT `+pubCols+` FROM publications WHERE id = $1`, id), p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) List(ctx context.Context) ([]model.Publication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pubCols+` FROM publications ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// SearchAvailable lists publications open for borrowing, optionally
// filtered by a title substring and/or a type.
func (r *repo) SearchAvailable(ctx context.Context, search string, pubType string) ([]model.Publication, error) {
	q := `SELECT ` + pubCols + ` FROM publications WHERE is_borrowed = FALSE`
	args := []any{}
	if search != "" {
		args = append(args, "%"+search+"%")
		q += ` AND title ILIKE $1`
	}
	if pubType != "" && pubType != "all" {
		args = append(args, pubType)
		if len(args) == 1 {
			q += ` AND type = $1`
		} else {
			q += ` AND type = $2`
		}
	}
	q += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Publication, error) {
	var out []model.Publication
	for rows.Next() {
		var p model.Publication
		if err := scanPub(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete removes a publication; borrow records cascade via FK.
func (r *repo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ISBNExists(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM publications WHERE isbn = $1 AND isbn <> '')`, isbn,
	).Scan(&exists)
	return exists, err
}

// Statistics

func (r *repo) CountByType(ctx context.Context, pubType model.PublicationType) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM publications WHERE type = $1`, pubType).Scan(&n)
	return n, err
}

func (r *repo) CountBorrowed(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM publications WHERE is_borrowed = TRUE`).Scan(&n)
	return n, err
}

func (r *repo) CountOverdue(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM publications
		WHERE is_borrowed = TRUE AND due_date < NOW()`).Scan(&n)
	return n, err
}

func (r *repo) CategoryStats(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM publications
		WHERE type = 'book'
		GROUP BY category
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) TopBorrowed(ctx context.Context, limit int) ([]BorrowCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.title, COUNT(br.id)
		FROM publications p
		JOIN borrow_records br ON br.publication_id = p.id
		GROUP BY p.id, p.title
		ORDER BY COUNT(br.id) DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BorrowCount
	for rows.Next() {
		var b BorrowCount
		if err := rows.Scan(&b.PublicationID, &b.Title, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *repo) OverdueUsers(ctx context.Context) ([]OverdueUser, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.username, COUNT(p.id)
		FROM users u
		JOIN publications p ON p.borrower_id = u.id
		WHERE p.is_borrowed = TRUE AND p.due_date < NOW()
		GROUP BY u.id, u.username
		ORDER BY COUNT(p.id) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverdueUser
	for rows.Next() {
		var o OverdueUser
		if err := rows.Scan(&o.UserID, &o.Username, &o.Count); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
