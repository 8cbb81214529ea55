// repository/borrow/repo.go
package borrow

import (
	"context"
	"database/sql"
	"time"
)

// HistoryRow is a borrow record joined with its publication, as listings
// and reports consume it.
type HistoryRow struct {
	RecordID      int64      `json:"record_id"`
	PublicationID int64      `json:"publication_id"`
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	BorrowTime    time.Time  `json:"borrow_time"`
	ReturnTime    *time.Time `json:"return_time,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Status        string     `json:"status"`
}

// OverdueRow is one overdue holding for the admin report.
type OverdueRow struct {
	PublicationID int64     `json:"publication_id"`
	Title         string    `json:"title"`
	BorrowerID    int64     `json:"borrower_id"`
	Username      string    `json:"username"`
	DueDate       time.Time `json:"due_date"`
}

type Repo interface {
	// Transactional state machine. MarkBorrowed is guarded on the current
	// state: zero rows affected means somebody else holds the item.
	GetStateForUpdate(ctx context.Context, tx *sql.Tx, pubID int64) (isBorrowed bool, borrowerID *int64, due *time.Time, err error)
	MarkBorrowed(ctx context.Context, tx *sql.Tx, pubID, userID int64, due time.Time) (bool, error)
	InsertRecord(ctx context.Context, tx *sql.Tx, pubID, userID int64, at time.Time) (int64, error)
	CloseOpenRecord(ctx context.Context, tx *sql.Tx, pubID int64, at time.Time) (bool, error)
	ClearBorrowed(ctx context.Context, tx *sql.Tx, pubID int64) error

	// Projections.
	ListOpenByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	ListHistoryByUser(ctx context.Context, userID int64) ([]HistoryRow, error)
	ListOverdue(ctx context.Context) ([]OverdueRow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) GetStateForUpdate(ctx context.Context, tx *sql.Tx, pubID int64) (bool, *int64, *time.Time, error) {
	const q = `
		SELECT is_borrowed, borrower_id, due_date
		FROM publications
		WHERE id = $1
		FOR UPDATE`
	var (
		isBorrowed bool
		borrowerID *int64
		due        *time.Time
	)
	err := tx.QueryRowContext(ctx, q, pubID).Scan(&isBorrowed, &borrowerID, &due)
	return isBorrowed, borrowerID, due, err
}

func (r *repo) MarkBorrowed(ctx context.Context, tx *sql.Tx, pubID, userID int64, due time.Time) (bool, error) {
	// Guard: only transition if still available. Losing a concurrent race
	// shows up as zero rows affected, never as a double borrow.
	const q = `
		UPDATE publications
		SET is_borrowed = TRUE,
			borrower_id = $2,
			due_date = $3,
			updated_at = NOW()
		WHERE id = $1
		AND is_borrowed = FALSE`
	res, err := tx.ExecContext(ctx, q, pubID, userID, due)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) InsertRecord(ctx context.Context, tx *sql.Tx, pubID, userID int64, at time.Time) (int64, error) {
	const q = `
		INSERT INTO borrow_records (publication_id, user_id, borrow_time, status)
		VALUES ($1,$2,$3,'borrowed')
		RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, q, pubID, userID, at).Scan(&id)
	return id, err
}

// CloseOpenRecord marks the most recent open record for the publication
// returned. At most one can be open at a time, but ordering keeps the
// statement correct even if history is ever inconsistent.
func (r *repo) CloseOpenRecord(ctx context.Context, tx *sql.Tx, pubID int64, at time.Time) (bool, error) {
	const q = `
		UPDATE borrow_records
		SET return_time = $2, status = 'returned'
		WHERE id = (
			SELECT id FROM borrow_records
			WHERE publication_id = $1 AND status = 'borrowed'
			ORDER BY borrow_time DESC
			LIMIT 1
		)`
	res, err := tx.ExecContext(ctx, q, pubID, at)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (r *repo) ClearBorrowed(ctx context.Context, tx *sql.Tx, pubID int64) error {
	const q = `
		UPDATE publications
		SET is_borrowed = FALSE,
			borrower_id = NULL,
			due_date = NULL,
			updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, pubID)
	return err
}

const historyQ = `
	SELECT br.id, br.publication_id, p.title, p.type, br.borrow_time, br.return_time,
		CASE WHEN br.status = 'borrowed' THEN p.due_date END,
		br.status
	FROM borrow_records br
	JOIN publications p ON p.id = br.publication_id
	WHERE br.user_id = $1`

func (r *repo) ListOpenByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	rows, err := r.db.QueryContext(ctx,
		historyQ+` AND br.status = 'borrowed' ORDER BY br.borrow_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows)
}

func (r *repo) ListHistoryByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	rows, err := r.db.QueryContext(ctx,
		historyQ+` ORDER BY br.borrow_time DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHistory(rows)
}

func collectHistory(rows *sql.Rows) ([]HistoryRow, error) {
	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.RecordID, &h.PublicationID, &h.Title, &h.Type,
			&h.BorrowTime, &h.ReturnTime, &h.DueDate, &h.Status); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *repo) ListOverdue(ctx context.Context) ([]OverdueRow, error) {
	const q = `
		SELECT p.id, p.title, u.id, u.username, p.due_date
		FROM publications p
		JOIN users u ON u.id = p.borrower_id
		WHERE p.is_borrowed = TRUE AND p.due_date < NOW()
		ORDER BY p.due_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OverdueRow
	for rows.Next() {
		var o OverdueRow
		if err := rows.Scan(&o.PublicationID, &o.Title, &o.BorrowerID, &o.Username, &o.DueDate); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
