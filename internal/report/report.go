// Package report runs read-only circulation queries outside of gorm.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"    // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // dialect registration
	"github.com/jmoiron/sqlx"
	"github.com/snnyvrz/libmanage/internal/model"
	"gorm.io/gorm"
)

const (
	tableBooks   = "books"
	tableRecords = "borrow_records"
	tableUsers   = "users"
)

var ErrBuildingQueryFailed = errors.New("building report query failed")

type OverdueLoan struct {
	RecordID    uint      `db:"record_id" json:"record_id"`
	UserID      uint      `db:"user_id" json:"user_id"`
	Username    string    `db:"username" json:"username"`
	BookID      uint      `db:"book_id" json:"book_id"`
	BookTitle   string    `db:"book_title" json:"book_title"`
	ISBN        string    `db:"isbn" json:"isbn"`
	BorrowDate  time.Time `db:"borrow_date" json:"-"`
	DueDate     time.Time `db:"due_date" json:"-"`
	DaysOverdue int       `db:"-" json:"days_overdue"`
}

type Summary struct {
	Books        int64            `json:"books"`
	Users        int64            `json:"users"`
	Borrowed     int64            `json:"borrowed"`
	OpenLoans    int64            `json:"open_loans"`
	OverdueLoans int64            `json:"overdue_loans"`
	ByStatus     map[string]int64 `json:"by_status"`
	ByCategory   map[string]int64 `json:"by_category"`
}

type Reporter struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
	now     func() time.Time
}

type Option func(*Reporter)

func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// New shares the connection pool of gdb.
func New(gdb *gorm.DB, opts ...Option) (*Reporter, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("report: get sql.DB: %w", err)
	}

	driver, dialect, err := dialectFor(gdb.Dialector.Name())
	if err != nil {
		return nil, err
	}

	r := &Reporter{
		db:      sqlx.NewDb(sqlDB, driver),
		dialect: goqu.Dialect(dialect),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// dialectFor maps a gorm dialector name to the sqlx driver name and the goqu
// dialect.
func dialectFor(name string) (string, string, error) {
	switch name {
	case "postgres":
		return "pgx", "postgres", nil
	case "sqlite":
		return "sqlite3", "sqlite3", nil
	case "mysql":
		return "mysql", "mysql", nil
	default:
		return "", "", fmt.Errorf("report: unsupported dialect %q", name)
	}
}

// OverdueLoans lists loans open past their due date as of asOf, oldest due
// date first. A zero asOf means today.
func (r *Reporter) OverdueLoans(ctx context.Context, asOf time.Time) ([]OverdueLoan, error) {
	if asOf.IsZero() {
		asOf = r.now()
	}
	today := model.DateOf(asOf)

	query, args, err := r.dialect.
		From(goqu.T(tableRecords).As("r")).
		Join(goqu.T(tableUsers).As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("r.user_id")))).
		Join(goqu.T(tableBooks).As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("r.book_id")))).
		Select(
			goqu.I("r.id").As("record_id"),
			goqu.I("r.user_id").As("user_id"),
			goqu.I("u.username").As("username"),
			goqu.I("r.book_id").As("book_id"),
			goqu.I("b.title").As("book_title"),
			goqu.I("b.isbn").As("isbn"),
			goqu.I("r.borrow_date").As("borrow_date"),
			goqu.I("r.due_date").As("due_date"),
		).
		Where(
			goqu.I("r.returned").Eq(false),
			goqu.I("r.due_date").Lt(today),
		).
		Order(goqu.I("r.due_date").Asc(), goqu.I("r.id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	loans := make([]OverdueLoan, 0)
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, fmt.Errorf("report: overdue loans: %w", err)
	}

	for i := range loans {
		due := model.DateOf(loans[i].DueDate)
		loans[i].DaysOverdue = int(today.Sub(due).Hours() / 24)
	}
	return loans, nil
}

func (r *Reporter) Summary(ctx context.Context) (*Summary, error) {
	today := model.DateOf(r.now())
	s := &Summary{}

	counts := []struct {
		dst *int64
		ds  *goqu.SelectDataset
	}{
		{&s.Books, r.dialect.From(tableBooks)},
		{&s.Users, r.dialect.From(tableUsers)},
		{&s.Borrowed, r.dialect.From(tableBooks).Where(goqu.C("is_borrowed").Eq(true))},
		{&s.OpenLoans, r.dialect.From(tableRecords).Where(goqu.C("returned").Eq(false))},
		{&s.OverdueLoans, r.dialect.From(tableRecords).Where(
			goqu.C("returned").Eq(false),
			goqu.C("due_date").Lt(today),
		)},
	}
	for _, c := range counts {
		if err := r.count(ctx, c.ds, c.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if s.ByStatus, err = r.groupCount(ctx, "status"); err != nil {
		return nil, err
	}
	if s.ByCategory, err = r.groupCount(ctx, "category"); err != nil {
		return nil, err
	}

	return s, nil
}

func (r *Reporter) count(ctx context.Context, ds *goqu.SelectDataset, dst *int64) error {
	query, args, err := ds.Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		return errors.Join(ErrBuildingQueryFailed, err)
	}
	if err := r.db.GetContext(ctx, dst, query, args...); err != nil {
		return fmt.Errorf("report: count: %w", err)
	}
	return nil
}

func (r *Reporter) groupCount(ctx context.Context, column string) (map[string]int64, error) {
	query, args, err := r.dialect.
		From(tableBooks).
		Select(goqu.C(column).As("k"), goqu.COUNT(goqu.Star()).As("n")).
		GroupBy(goqu.C(column)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, errors.Join(ErrBuildingQueryFailed, err)
	}

	var rows []struct {
		Key   string `db:"k"`
		Count int64  `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("report: count by %s: %w", column, err)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}
