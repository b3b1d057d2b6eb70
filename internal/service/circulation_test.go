package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func newTestCirculation(t *testing.T) (*Circulation, func(time.Time)) {
	t.Helper()

	db := testutil.NewTestDB(t)
	now := testNow
	var mu sync.Mutex

	s := NewCirculation(db, DefaultLoanDays, WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}))

	return s, func(t time.Time) {
		mu.Lock()
		defer mu.Unlock()
		now = t
	}
}

func Test_Borrow_DueDateAndState(t *testing.T) {
	s, _ := newTestCirculation(t)
	user := testutil.SeedUser(t, s.db, "reader", "pw")
	book := testutil.SeedBook(t, s.db, "Dune", "111", model.StatusAvailable)

	record, err := s.Borrow(context.Background(), book.ID, user.ID)

	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", model.NewDate(record.BorrowDate).String())
	assert.Equal(t, "2024-03-01", model.NewDate(record.DueDate).String())
	assert.False(t, record.Returned)
	assert.Equal(t, "Dune", record.Book.Title)

	var stored model.Book
	require.NoError(t, s.db.First(&stored, book.ID).Error)
	assert.True(t, stored.IsBorrowed)

	var open int64
	require.NoError(t, s.db.Model(&model.BorrowRecord{}).Where("book_id = ? AND returned = ?", book.ID, false).Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func Test_Borrow_SecondBorrowConflicts(t *testing.T) {
	s, _ := newTestCirculation(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, s.db, "alice", "pw")
	bob := testutil.SeedUser(t, s.db, "bob", "pw")
	book := testutil.SeedBook(t, s.db, "Dune", "111", model.StatusAvailable)

	_, err := s.Borrow(ctx, book.ID, alice.ID)
	require.NoError(t, err)

	_, err = s.Borrow(ctx, book.ID, alice.ID)
	assert.True(t, IsKind(err, KindConflict))

	_, err = s.Borrow(ctx, book.ID, bob.ID)
	assert.True(t, IsKind(err, KindConflict))
}

func Test_Borrow_UnavailableStatus(t *testing.T) {
	s, _ := newTestCirculation(t)
	user := testutil.SeedUser(t, s.db, "reader", "pw")

	for _, status := range []model.Status{model.StatusDamaged, model.StatusUnderRepair, model.StatusLost} {
		book := testutil.SeedBook(t, s.db, string(status), string(status), status)

		_, err := s.Borrow(context.Background(), book.ID, user.ID)

		assert.True(t, IsKind(err, KindConflict), "status %s", status)
	}
}

func Test_Borrow_UnknownUserOrBook(t *testing.T) {
	s, _ := newTestCirculation(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, s.db, "reader", "pw")
	book := testutil.SeedBook(t, s.db, "Dune", "111", model.StatusAvailable)

	_, err := s.Borrow(ctx, book.ID, user.ID+10)
	assert.True(t, IsKind(err, KindUnauthorized))

	_, err = s.Borrow(ctx, book.ID+10, user.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func Test_Borrow_ConcurrentOnlyOneWins(t *testing.T) {
	s, _ := newTestCirculation(t)
	book := testutil.SeedBook(t, s.db, "Dune", "111", model.StatusAvailable)

	const readers = 8
	users := make([]model.User, readers)
	for i := range users {
		users[i] = testutil.SeedUser(t, s.db, "reader"+string(rune('a'+i)), "pw")
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for _, u := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := s.Borrow(context.Background(), book.ID, userID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case IsKind(err, KindConflict):
				conflicts++
			}
		}(u.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, readers-1, conflicts)
}

func Test_Return_ResetsState(t *testing.T) {
	s, setNow := newTestCirculation(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, s.db, "reader", "pw")
	book := testutil.SeedBook(t, s.db, "Dune", "111", model.StatusAvailable)

	record, err := s.Borrow(ctx, book.ID, user.ID)
	require.NoError(t, err)

	setNow(testNow.AddDate(0, 0, 5))
	returned, err := s.Return(ctx, record.ID)

	require.NoError(t, err)
	assert.True(t, returned.Returned)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, "2024-01-06", model.NewDate(*returned.ReturnDate).String())

	var stored model.Book
	require.NoError(t, s.db.First(&stored, book.ID).Error)
	assert.False(t, stored.IsBorrowed)
	assert.Equal(t, model.StatusAvailable, stored.Status)

	_, err = s.Return(ctx, record.ID)
	assert.True(t, IsKind(err, KindConflict))

	_, err = s.Return(ctx, record.ID+100)
	assert.True(t, IsKind(err, KindNotFound))
}

func Test_Return_KeepsDamagedAndLost(t *testing.T) {
	for _, status := range []model.Status{model.StatusDamaged, model.StatusLost} {
		t.Run(string(status), func(t *testing.T) {
			s, _ := newTestCirculation(t)
			ctx := context.Background()
			user := testutil.SeedUser(t, s.db, "reader", "pw")
			book := testutil.SeedBook(t, s.db, "Dune", "111", model.StatusAvailable)

			record, err := s.Borrow(ctx, book.ID, user.ID)
			require.NoError(t, err)

			_, err = NewCatalog(s.db).UpdateBookStatus(ctx, book.ID, status)
			require.NoError(t, err)

			returned, err := s.Return(ctx, record.ID)
			require.NoError(t, err)
			assert.Equal(t, status, returned.Book.Status)

			var stored model.Book
			require.NoError(t, s.db.First(&stored, book.ID).Error)
			assert.False(t, stored.IsBorrowed)
			assert.Equal(t, status, stored.Status)
		})
	}
}

func Test_ReturnByBookAndUser(t *testing.T) {
	s, _ := newTestCirculation(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, s.db, "reader", "pw")
	book := testutil.SeedBook(t, s.db, "Dune", "111", model.StatusAvailable)

	_, err := s.ReturnByBookAndUser(ctx, book.ID, user.ID)
	assert.True(t, IsKind(err, KindNotFound))

	record, err := s.Borrow(ctx, book.ID, user.ID)
	require.NoError(t, err)

	returned, err := s.ReturnByBookAndUser(ctx, book.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, returned.ID)

	var stored model.Book
	require.NoError(t, s.db.First(&stored, book.ID).Error)
	assert.False(t, stored.IsBorrowed)

	_, err = s.Borrow(ctx, book.ID, user.ID)
	assert.NoError(t, err)
}

func Test_Dashboard_OverdueFlags(t *testing.T) {
	s, setNow := newTestCirculation(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, s.db, "reader", "pw")
	first := testutil.SeedBook(t, s.db, "First", "1", model.StatusAvailable)
	second := testutil.SeedBook(t, s.db, "Second", "2", model.StatusAvailable)

	early, err := s.Borrow(ctx, first.ID, user.ID)
	require.NoError(t, err)

	setNow(testNow.AddDate(0, 0, 10))
	_, err = s.Borrow(ctx, second.ID, user.ID)
	require.NoError(t, err)

	setNow(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	d, err := s.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", d.User.Username)
	require.Len(t, d.Open, 2)
	require.Len(t, d.History, 2)
	assert.Equal(t, "Second", d.History[0].Book.Title)
	assert.False(t, d.History[1].Overdue, "due today is not overdue")

	setNow(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	d, err = s.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, d.History[1].Overdue)
	assert.False(t, d.History[0].Overdue)

	_, err = s.Return(ctx, early.ID)
	require.NoError(t, err)
	d, err = s.Dashboard(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, d.Open, 1)
	assert.True(t, d.History[1].Overdue, "returned after due date stays overdue")
}

func Test_Dashboard_UnknownUser(t *testing.T) {
	s, _ := newTestCirculation(t)

	_, err := s.Dashboard(context.Background(), 42)

	assert.True(t, IsKind(err, KindNotFound))
}
