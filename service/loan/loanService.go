package loansvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libloan/config"
	"libloan/model"
	borrowrepo "libloan/repository/borrow"
	pubrepo "libloan/repository/publication"
	"libloan/util/database"
)

// errors used by controllers

type ErrCode string

const (
	ErrPubNotFound     ErrCode = "PUBLICATION_NOT_FOUND"
	ErrAlreadyBorrowed ErrCode = "ALREADY_BORROWED"
	ErrNotBorrowed     ErrCode = "NOT_BORROWED"
	ErrNotOwner        ErrCode = "NOT_OWNER"
)

type codedError struct {
	code ErrCode
	due  *time.Time
}

func (e codedError) Error() string {
	if e.due != nil {
		return fmt.Sprintf("%s (due %s)", e.code, e.due.Format("2006-01-02"))
	}
	return string(e.code)
}
func (e codedError) Code() ErrCode { return e.code }

func makeErr(c ErrCode) error { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// DueFromErr extracts the due date attached to an ALREADY_BORROWED
// conflict, when known.
func DueFromErr(err error) *time.Time {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.due
	}
	return nil
}

// dto

type Borrowed struct {
	PublicationID int64     `json:"publication_id"`
	Title         string    `json:"title"`
	RecordID      int64     `json:"record_id"`
	DueDate       time.Time `json:"due_date"`
}

type Returned struct {
	PublicationID int64     `json:"publication_id"`
	Title         string    `json:"title"`
	ReturnTime    time.Time `json:"return_time"`
}

// HistoryRow / OverdueRow = repository shapes
type (
	HistoryRow = borrowrepo.HistoryRow
	OverdueRow = borrowrepo.OverdueRow
)

type Service interface {
	// Borrow transitions an available publication to borrowed for the
	// user, computing the due date from the publication type.
	Borrow(ctx context.Context, pubID, userID int64) (*Borrowed, error)

	// Return closes the open borrow record and frees the publication.
	// Only the stored borrower may return.
	Return(ctx context.Context, pubID, userID int64) (*Returned, error)

	// Projections.
	MyBorrows(ctx context.Context, userID int64) ([]HistoryRow, error)
	MyHistory(ctx context.Context, userID int64) ([]HistoryRow, error)
	OverdueReport(ctx context.Context) ([]OverdueRow, error)
}

// ----- Service implementation -----

type service struct {
	r     borrowrepo.Repo
	pr    pubrepo.Repo
	cfg   config.App
	now   func() time.Time
	runTx func(ctx context.Context, fn func(tx *sql.Tx) error) error
}

func New(db *sql.DB, r borrowrepo.Repo, pr pubrepo.Repo, cfg config.App) Service {
	return &service{
		r:   r,
		pr:  pr,
		cfg: cfg,
		now: time.Now,
		runTx: func(ctx context.Context, fn func(tx *sql.Tx) error) error {
			return database.RunTx(ctx, db, fn)
		},
	}
}

func (s *service) loanDays(t model.PublicationType) int {
	if t == model.TypeMagazine {
		return s.cfg.MagazineLoanDays
	}
	return s.cfg.BookLoanDays
}

func (s *service) Borrow(ctx context.Context, pubID, userID int64) (*Borrowed, error) {
	pub, err := s.pr.ByID(ctx, pubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPubNotFound)
		}
		return nil, err
	}

	now := s.now().UTC()
	due := now.Add(time.Duration(s.loanDays(pub.Type)) * 24 * time.Hour)

	out := &Borrowed{PublicationID: pub.ID, Title: pub.Title, DueDate: due}
	err = s.runTx(ctx, func(tx *sql.Tx) error {
		ok, err := s.r.MarkBorrowed(ctx, tx, pubID, userID, due)
		if err != nil {
			return err
		}
		if !ok {
			// Lost to the guard: the item is held, or was deleted after
			// the ByID read. Attach the current due date for the conflict
			// message when we can read it.
			_, _, curDue, serr := s.r.GetStateForUpdate(ctx, tx, pubID)
			if errors.Is(serr, sql.ErrNoRows) {
				return makeErr(ErrPubNotFound)
			}
			if serr != nil {
				return codedError{code: ErrAlreadyBorrowed}
			}
			return codedError{code: ErrAlreadyBorrowed, due: curDue}
		}

		recID, err := s.r.InsertRecord(ctx, tx, pubID, userID, now)
		if err != nil {
			return err
		}
		out.RecordID = recID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) Return(ctx context.Context, pubID, userID int64) (*Returned, error) {
	pub, err := s.pr.ByID(ctx, pubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrPubNotFound)
		}
		return nil, err
	}

	now := s.now().UTC()
	err = s.runTx(ctx, func(tx *sql.Tx) error {
		isBorrowed, borrowerID, _, err := s.r.GetStateForUpdate(ctx, tx, pubID)
		if err != nil {
			return err
		}
		if !isBorrowed {
			return makeErr(ErrNotBorrowed)
		}
		if borrowerID == nil || *borrowerID != userID {
			return makeErr(ErrNotOwner)
		}

		closed, err := s.r.CloseOpenRecord(ctx, tx, pubID, now)
		if err != nil {
			return err
		}
		if !closed {
			// Item flagged borrowed with no open record: the ledger and
			// the item disagree. Abort rather than paper over it.
			return fmt.Errorf("publication %d marked borrowed but has no open record", pubID)
		}
		return s.r.ClearBorrowed(ctx, tx, pubID)
	})
	if err != nil {
		return nil, err
	}

	return &Returned{PublicationID: pub.ID, Title: pub.Title, ReturnTime: now}, nil
}

func (s *service) MyBorrows(ctx context.Context, userID int64) ([]HistoryRow, error) {
	return s.r.ListOpenByUser(ctx, userID)
}

func (s *service) MyHistory(ctx context.Context, userID int64) ([]HistoryRow, error) {
	return s.r.ListHistoryByUser(ctx, userID)
}

func (s *service) OverdueReport(ctx context.Context) ([]OverdueRow, error) {
	return s.r.ListOverdue(ctx)
}
