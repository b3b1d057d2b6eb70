package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func newTestApp(t *testing.T) (*app, *gorm.DB) {
	t.Helper()

	gdb := testutil.NewTestDB(t)
	return &app{
		db: gdb,
		readPassword: func(string) (string, error) {
			return "", errors.New("no terminal")
		},
	}, gdb
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "books.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestMigrate(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, "migrate")

	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")
}

func TestMigrate_OpenFails(t *testing.T) {
	a := &app{openDB: func() (*gorm.DB, error) { return nil, errors.New("boom") }}

	_, err := run(t, a, "migrate")

	assert.EqualError(t, err, "boom")
}

func TestImportBooks(t *testing.T) {
	a, gdb := newTestApp(t)
	path := writeCSV(t, "Title,Author,ISBN,Category\n"+
		"The Go Programming Language,Donovan,978-0134190440,computer\n"+
		"SICP,Abelson,978-0262510875,\n")

	out, err := run(t, a, "import-books", path)

	require.NoError(t, err)
	assert.Contains(t, out, "2 imported, 0 failed")

	var books []model.Book
	require.NoError(t, gdb.Order("id").Find(&books).Error)
	require.Len(t, books, 2)
	assert.Equal(t, model.CategoryComputer, books[0].Category)
	assert.Equal(t, model.CategoryOther, books[1].Category)
	assert.Equal(t, model.StatusAvailable, books[1].Status)
}

func TestImportBooks_ReportsBadRows(t *testing.T) {
	a, gdb := newTestApp(t)
	testutil.SeedBook(t, gdb, "Existing", "111", model.StatusAvailable)
	path := writeCSV(t, "title,author,isbn,category\n"+
		"Dup,Someone,111,\n"+
		"Bad,Someone,222,COOKING\n"+
		"Good,Someone,333,ART\n")

	out, err := run(t, a, "import-books", path)

	require.Error(t, err)
	assert.Contains(t, out, "line 2: a book with this ISBN already exists")
	assert.Contains(t, out, "line 3: invalid book category")
	assert.Contains(t, out, "1 imported, 2 failed")
}

func TestImportBooks_OverlongTitle(t *testing.T) {
	a, _ := newTestApp(t)
	path := writeCSV(t, "title,author,isbn\n"+strings.Repeat("x", 120)+",Someone,444\n")

	out, err := run(t, a, "import-books", path)

	require.Error(t, err)
	assert.Contains(t, out, "line 2: title must be at most 100 characters")
}

func TestImportBooks_MissingColumn(t *testing.T) {
	a, _ := newTestApp(t)
	path := writeCSV(t, "title,author\nX,Y\n")

	_, err := run(t, a, "import-books", path)

	assert.EqualError(t, err, `missing "isbn" column`)
}

func TestCreateUser_WithFlag(t *testing.T) {
	a, gdb := newTestApp(t)

	out, err := run(t, a, "create-user", "alice", "--password", "s3cret")

	require.NoError(t, err)
	assert.Contains(t, out, "created user #1 alice")

	var user model.User
	require.NoError(t, gdb.First(&user, "username = ?", "alice").Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("s3cret")))
}

func TestCreateUser_Prompted(t *testing.T) {
	a, _ := newTestApp(t)
	a.readPassword = func(string) (string, error) { return "typed", nil }

	_, err := run(t, a, "create-user", "bob")

	require.NoError(t, err)
}

func TestCreateUser_Duplicate(t *testing.T) {
	a, gdb := newTestApp(t)
	testutil.SeedUser(t, gdb, "alice", "pw")

	_, err := run(t, a, "create-user", "alice", "-p", "x")

	assert.EqualError(t, err, "username already exists")
}

func TestPasswd(t *testing.T) {
	a, gdb := newTestApp(t)
	user := testutil.SeedUser(t, gdb, "alice", "old")

	out, err := run(t, a, "passwd", "1", "-p", "new")

	require.NoError(t, err)
	assert.Contains(t, out, "password updated")

	var reloaded model.User
	require.NoError(t, gdb.First(&reloaded, user.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.Password), []byte("new")))
}

func TestPasswd_InvalidID(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := run(t, a, "passwd", "abc", "-p", "x")

	assert.EqualError(t, err, `invalid user id "abc"`)
}

func TestPasswd_PromptFails(t *testing.T) {
	a, gdb := newTestApp(t)
	testutil.SeedUser(t, gdb, "alice", "old")

	_, err := run(t, a, "passwd", "1")

	assert.ErrorContains(t, err, "read password")
}

func TestOverdue(t *testing.T) {
	a, gdb := newTestApp(t)
	user := testutil.SeedUser(t, gdb, "alice", "pw")
	book := testutil.SeedBook(t, gdb, "Dune", "9780441013593", model.StatusAvailable)
	testutil.SeedLoan(t, gdb, user, book, time.Now().AddDate(0, 0, -70), 60)

	out, err := run(t, a, "overdue")

	require.NoError(t, err)
	assert.Contains(t, out, "RECORD")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Dune")
}

func TestOverdue_AsOf(t *testing.T) {
	a, gdb := newTestApp(t)
	user := testutil.SeedUser(t, gdb, "alice", "pw")
	book := testutil.SeedBook(t, gdb, "Dune", "9780441013593", model.StatusAvailable)
	testutil.SeedLoan(t, gdb, user, book, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 60)

	out, err := run(t, a, "overdue", "--as-of", "2024-03-11")

	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "10\n")

	out, err = run(t, a, "overdue", "--as-of", "2024-02-01")

	require.NoError(t, err)
	assert.Contains(t, out, "no overdue loans")
}

func TestOverdue_InvalidAsOf(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := run(t, a, "overdue", "--as-of", "someday")

	assert.ErrorContains(t, err, "invalid --as-of")
}

func TestOverdue_None(t *testing.T) {
	a, _ := newTestApp(t)

	out, err := run(t, a, "overdue")

	require.NoError(t, err)
	assert.Contains(t, out, "no overdue loans")
}
