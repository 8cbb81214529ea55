package pubsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"libloan/model"
	pubrepo "libloan/repository/publication"
	userrepo "libloan/repository/user"
)

// errors used by controllers

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrISBNTaken ErrCode = "ISBN_TAKEN"
	ErrBadInput  ErrCode = "BAD_INPUT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// dto

type CreateReq struct {
	Title     string
	Type      string
	Author    string
	ISBN      string
	Category  string
	Issue     string
	Publisher string
	IsLatest  bool
}

type Dashboard struct {
	TotalBooks     int64 `json:"total_books"`
	TotalMagazines int64 `json:"total_magazines"`
	BorrowedCount  int64 `json:"borrowed_count"`
	OverdueCount   int64 `json:"overdue_count"`
	TotalReaders   int64 `json:"total_readers"`
}

type Statistics struct {
	CategoryStats []pubrepo.CategoryCount `json:"category_stats"`
	TopBorrowed   []pubrepo.BorrowCount   `json:"top_borrowed"`
	OverdueUsers  []pubrepo.OverdueUser   `json:"overdue_users"`
}

type Service interface {
	Create(ctx context.Context, req CreateReq) (*model.Publication, error)
	Get(ctx context.Context, id int64) (*model.Publication, error)
	List(ctx context.Context) ([]model.Publication, error)
	SearchAvailable(ctx context.Context, search, pubType string) ([]model.Publication, error)
	Delete(ctx context.Context, id int64) error

	Dashboard(ctx context.Context) (*Dashboard, error)
	Statistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	pr pubrepo.Repo
	ur userrepo.Repo
}

func New(pr pubrepo.Repo, ur userrepo.Repo) Service { return &service{pr: pr, ur: ur} }

func (s *service) Create(ctx context.Context, req CreateReq) (*model.Publication, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, makeErr(ErrBadInput)
	}
	t := model.PublicationType(req.Type)
	if t != model.TypeBook && t != model.TypeMagazine {
		return nil, makeErr(ErrBadInput)
	}

	// Books with an ISBN must be unique on it.
	if t == model.TypeBook && req.ISBN != "" {
		taken, err := s.pr.ISBNExists(ctx, req.ISBN)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, makeErr(ErrISBNTaken)
		}
	}

	p := &model.Publication{
		Title:     title,
		Type:      t,
		Author:    req.Author,
		ISBN:      req.ISBN,
		Category:  req.Category,
		Issue:     req.Issue,
		Publisher: req.Publisher,
		IsLatest:  req.IsLatest,
	}
	if err := s.pr.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Get(ctx context.Context, id int64) (*model.Publication, error) {
	p, err := s.pr.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context) ([]model.Publication, error) {
	return s.pr.List(ctx)
}

func (s *service) SearchAvailable(ctx context.Context, search, pubType string) ([]model.Publication, error) {
	return s.pr.SearchAvailable(ctx, search, pubType)
}

// Delete removes the publication and, via FK cascade, its borrow history.
func (s *service) Delete(ctx context.Context, id int64) error {
	ok, err := s.pr.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return makeErr(ErrNotFound)
	}
	return nil
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{}
	var err error
	if d.TotalBooks, err = s.pr.CountByType(ctx, model.TypeBook); err != nil {
		return nil, err
	}
	if d.TotalMagazines, err = s.pr.CountByType(ctx, model.TypeMagazine); err != nil {
		return nil, err
	}
	if d.BorrowedCount, err = s.pr.CountBorrowed(ctx); err != nil {
		return nil, err
	}
	if d.OverdueCount, err = s.pr.CountOverdue(ctx); err != nil {
		return nil, err
	}
	if d.TotalReaders, err = s.ur.CountByRole(ctx, model.RoleReader); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	st := &Statistics{}
	var err error
	if st.CategoryStats, err = s.pr.CategoryStats(ctx); err != nil {
		return nil, err
	}
	if st.TopBorrowed, err = s.pr.TopBorrowed(ctx, 10); err != nil {
		return nil, err
	}
	if st.OverdueUsers, err = s.pr.OverdueUsers(ctx); err != nil {
		return nil, err
	}
	return st, nil
}
