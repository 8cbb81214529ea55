package loansvc

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"libloan/config"
	"libloan/model"
	borrowrepo "libloan/repository/borrow"
	pubrepo "libloan/repository/publication"

	"github.com/stretchr/testify/require"
)

var testCfg = config.App{BookLoanDays: 14, MagazineLoanDays: 7}

// ledgerMock keeps the publication + record state the queries would, with
// the same guarded-transition semantics.
type ledgerMock struct {
	mu         sync.Mutex
	isBorrowed bool
	borrowerID *int64
	due        *time.Time
	records    []record
}

type record struct {
	id         int64
	userID     int64
	borrowTime time.Time
	returnTime *time.Time
	status     model.BorrowStatus
}

var _ borrowrepo.Repo = (*ledgerMock)(nil)

func (m *ledgerMock) GetStateForUpdate(ctx context.Context, tx *sql.Tx, pubID int64) (bool, *int64, *time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isBorrowed, m.borrowerID, m.due, nil
}

func (m *ledgerMock) MarkBorrowed(ctx context.Context, tx *sql.Tx, pubID, userID int64, due time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isBorrowed {
		return false, nil
	}
	m.isBorrowed = true
	m.borrowerID = &userID
	m.due = &due
	return true, nil
}

func (m *ledgerMock) InsertRecord(ctx context.Context, tx *sql.Tx, pubID, userID int64, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := int64(len(m.records) + 1)
	m.records = append(m.records, record{id: id, userID: userID, borrowTime: at, status: model.BorrowActive})
	return id, nil
}

func (m *ledgerMock) CloseOpenRecord(ctx context.Context, tx *sql.Tx, pubID int64, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].status == model.BorrowActive {
			m.records[i].status = model.BorrowReturned
			m.records[i].returnTime = &at
			return true, nil
		}
	}
	return false, nil
}

func (m *ledgerMock) ClearBorrowed(ctx context.Context, tx *sql.Tx, pubID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isBorrowed = false
	m.borrowerID = nil
	m.due = nil
	return nil
}

func (m *ledgerMock) ListOpenByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	return nil, nil
}
func (m *ledgerMock) ListHistoryByUser(ctx context.Context, userID int64) ([]HistoryRow, error) {
	return nil, nil
}
func (m *ledgerMock) ListOverdue(ctx context.Context) ([]OverdueRow, error) { return nil, nil }

type pubMock struct {
	pub *model.Publication
}

var _ pubrepo.Repo = (*pubMock)(nil)

func (p *pubMock) ByID(ctx context.Context, id int64) (*model.Publication, error) {
	if p.pub == nil || p.pub.ID != id {
		return nil, sql.ErrNoRows
	}
	cp := *p.pub
	return &cp, nil
}

func (p *pubMock) Create(ctx context.Context, pub *model.Publication) error { return nil }
func (p *pubMock) List(ctx context.Context) ([]model.Publication, error)    { return nil, nil }
func (p *pubMock) SearchAvailable(ctx context.Context, search, pubType string) ([]model.Publication, error) {
	return nil, nil
}
func (p *pubMock) Delete(ctx context.Context, id int64) (bool, error)        { return false, nil }
func (p *pubMock) ISBNExists(ctx context.Context, isbn string) (bool, error) { return false, nil }
func (p *pubMock) CountByType(ctx context.Context, t model.PublicationType) (int64, error) {
	return 0, nil
}
func (p *pubMock) CountBorrowed(ctx context.Context) (int64, error) { return 0, nil }
func (p *pubMock) CountOverdue(ctx context.Context) (int64, error)  { return 0, nil }
func (p *pubMock) CategoryStats(ctx context.Context) ([]pubrepo.CategoryCount, error) {
	return nil, nil
}
func (p *pubMock) TopBorrowed(ctx context.Context, limit int) ([]pubrepo.BorrowCount, error) {
	return nil, nil
}
func (p *pubMock) OverdueUsers(ctx context.Context) ([]pubrepo.OverdueUser, error) {
	return nil, nil
}

func newTestService(t *testing.T, m *ledgerMock, pub *model.Publication, at time.Time) *service {
	t.Helper()
	return &service{
		r:   m,
		pr:  &pubMock{pub: pub},
		cfg: testCfg,
		now: func() time.Time { return at },
		runTx: func(ctx context.Context, fn func(tx *sql.Tx) error) error {
			return fn(nil)
		},
	}
}

func TestBorrow_BookDueDate(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := &ledgerMock{}
	s := newTestService(t, m, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, at)

	out, err := s.Borrow(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Equal(t, at.Add(14*24*time.Hour), out.DueDate)
	require.Equal(t, int64(1), out.RecordID)
	require.True(t, m.isBorrowed)
	require.Equal(t, int64(9), *m.borrowerID)
	require.Len(t, m.records, 1)
	require.Equal(t, model.BorrowActive, m.records[0].status)
}

func TestBorrow_MagazineDueDate(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := &ledgerMock{}
	s := newTestService(t, m, &model.Publication{ID: 2, Title: "Weekly", Type: model.TypeMagazine}, at)

	out, err := s.Borrow(context.Background(), 2, 9)
	require.NoError(t, err)
	require.Equal(t, at.Add(7*24*time.Hour), out.DueDate)
}

func TestBorrow_AlreadyBorrowed(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	held := at.Add(48 * time.Hour)
	holder := int64(3)
	m := &ledgerMock{isBorrowed: true, borrowerID: &holder, due: &held}
	s := newTestService(t, m, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, at)

	_, err := s.Borrow(context.Background(), 1, 9)
	require.Equal(t, ErrAlreadyBorrowed, Code(err))
	require.NotNil(t, DueFromErr(err))
	require.Equal(t, held, *DueFromErr(err))

	// No record appended, holder unchanged.
	require.Empty(t, m.records)
	require.Equal(t, holder, *m.borrowerID)
}

func TestBorrow_NotFound(t *testing.T) {
	s := newTestService(t, &ledgerMock{}, nil, time.Now())

	_, err := s.Borrow(context.Background(), 404, 9)
	require.Equal(t, ErrPubNotFound, Code(err))
}

func TestReturn_Success(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m := &ledgerMock{}
	s := newTestService(t, m, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, at)

	_, err := s.Borrow(context.Background(), 1, 9)
	require.NoError(t, err)

	later := at.Add(3 * 24 * time.Hour)
	s.now = func() time.Time { return later }

	out, err := s.Return(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Equal(t, later, out.ReturnTime)

	require.False(t, m.isBorrowed)
	require.Nil(t, m.borrowerID)
	require.Nil(t, m.due)
	require.Len(t, m.records, 1)
	require.Equal(t, model.BorrowReturned, m.records[0].status)
	require.NotNil(t, m.records[0].returnTime)
	require.False(t, m.records[0].returnTime.Before(m.records[0].borrowTime))
}

func TestReturn_NotBorrowed(t *testing.T) {
	m := &ledgerMock{}
	s := newTestService(t, m, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, time.Now())

	_, err := s.Return(context.Background(), 1, 9)
	require.Equal(t, ErrNotBorrowed, Code(err))
	require.Empty(t, m.records)
}

func TestReturn_NotOwner(t *testing.T) {
	at := time.Now().UTC()
	m := &ledgerMock{}
	s := newTestService(t, m, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, at)

	_, err := s.Borrow(context.Background(), 1, 9)
	require.NoError(t, err)

	_, err = s.Return(context.Background(), 1, 77)
	require.Equal(t, ErrNotOwner, Code(err))

	// Still held by the borrower, record still open.
	require.True(t, m.isBorrowed)
	require.Equal(t, int64(9), *m.borrowerID)
	require.Equal(t, model.BorrowActive, m.records[0].status)
}

// vanishedLedger simulates the publication row disappearing between the
// catalog read and the transaction.
type vanishedLedger struct{ ledgerMock }

func (m *vanishedLedger) MarkBorrowed(ctx context.Context, tx *sql.Tx, pubID, userID int64, due time.Time) (bool, error) {
	return false, nil
}

func (m *vanishedLedger) GetStateForUpdate(ctx context.Context, tx *sql.Tx, pubID int64) (bool, *int64, *time.Time, error) {
	return false, nil, nil, sql.ErrNoRows
}

func TestBorrow_DeletedDuringBorrow(t *testing.T) {
	m := &vanishedLedger{}
	s := newTestService(t, &m.ledgerMock, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, time.Now().UTC())
	s.r = m

	_, err := s.Borrow(context.Background(), 1, 9)
	require.Equal(t, ErrPubNotFound, Code(err))
}

func TestReturn_MissingOpenRecord(t *testing.T) {
	// Item flagged borrowed but the ledger has no open record.
	holder := int64(9)
	due := time.Now().UTC().Add(24 * time.Hour)
	m := &ledgerMock{isBorrowed: true, borrowerID: &holder, due: &due}
	s := newTestService(t, m, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, time.Now().UTC())

	_, err := s.Return(context.Background(), 1, 9)
	require.Error(t, err)
	require.Empty(t, Code(err))

	// Item state untouched so the disagreement stays visible.
	require.True(t, m.isBorrowed)
	require.Equal(t, holder, *m.borrowerID)
}

func TestBorrow_ConcurrentSingleWinner(t *testing.T) {
	at := time.Now().UTC()
	m := &ledgerMock{}
	s := newTestService(t, m, &model.Publication{ID: 1, Title: "Go in Practice", Type: model.TypeBook}, at)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			_, err := s.Borrow(context.Background(), 1, uid)
			errs <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)

	var wins, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case Code(err) == ErrAlreadyBorrowed:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, attempts-1, conflicts)
	require.Len(t, m.records, 1)
}
