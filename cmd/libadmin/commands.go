package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/snnyvrz/libmanage/internal/db"
	"github.com/snnyvrz/libmanage/internal/model"
	"github.com/snnyvrz/libmanage/internal/report"
	"github.com/snnyvrz/libmanage/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type app struct {
	openDB       func() (*gorm.DB, error)
	readPassword func(prompt string) (string, error)

	db *gorm.DB
}

func (a *app) database() (*gorm.DB, error) {
	if a.db != nil {
		return a.db, nil
	}
	database, err := a.openDB()
	if err != nil {
		return nil, err
	}
	a.db = database
	return database, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "libadmin",
		Short:        "Administer the library database",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(a),
		newImportBooksCmd(a),
		newCreateUserCmd(a),
		newPasswdCmd(a),
		newOverdueCmd(a),
	)
	return root
}

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			database, err := a.database()
			if err != nil {
				return err
			}
			if err := db.Migrate(database); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newImportBooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-books <file.csv>",
		Short: "Add books from a CSV file",
		Long: "Reads a CSV with a header row naming title, author and isbn columns.\n" +
			"Optional category and status columns default to OTHER and AVAILABLE.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			database, err := a.database()
			if err != nil {
				return err
			}

			return importBooks(cmd, service.NewCatalog(database), f)
		},
	}
}

func importBooks(cmd *cobra.Command, catalog *service.Catalog, r io.Reader) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"title", "author", "isbn"} {
		if _, ok := cols[required]; !ok {
			return fmt.Errorf("missing %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	out := cmd.OutOrStdout()
	imported, failed := 0, 0

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		in := service.BookInput{
			Title:    field(row, "title"),
			Author:   field(row, "author"),
			ISBN:     field(row, "isbn"),
			Category: model.Category(strings.ToUpper(strings.TrimSpace(field(row, "category")))),
			Status:   model.Status(strings.ToUpper(strings.TrimSpace(field(row, "status")))),
		}

		book, err := catalog.CreateBook(cmd.Context(), in)
		if err != nil {
			failed++
			fmt.Fprintf(out, "line %d: %s\n", line, service.MessageOf(err))
			continue
		}
		imported++
		fmt.Fprintf(out, "imported #%d %s\n", book.ID, book.Title)
	}

	fmt.Fprintf(out, "%d imported, %d failed\n", imported, failed)
	if failed > 0 {
		return fmt.Errorf("%d rows failed", failed)
	}
	return nil
}

func newCreateUserCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "create-user <username>",
		Short: "Register a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := a.passwordFrom(password)
			if err != nil {
				return err
			}

			database, err := a.database()
			if err != nil {
				return err
			}

			user, err := service.NewAccounts(database).Register(cmd.Context(), args[0], pw)
			if err != nil {
				return errors.New(service.MessageOf(err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user #%d %s\n", user.ID, user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newPasswdCmd(a *app) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "passwd <user_id>",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			pw, err := a.passwordFrom(password)
			if err != nil {
				return err
			}

			database, err := a.database()
			if err != nil {
				return err
			}

			if err := service.NewAccounts(database).UpdatePassword(cmd.Context(), uint(id), pw); err != nil {
				return errors.New(service.MessageOf(err))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "password updated")
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "new password (prompted when omitted)")
	return cmd
}

func (a *app) passwordFrom(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	pw, err := a.readPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if pw == "" {
		return "", errors.New("password must not be empty")
	}
	return pw, nil
}

func newOverdueCmd(a *app) *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List loans past their due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := model.ParseDate(asOf)
			if err != nil {
				return fmt.Errorf("invalid --as-of: %w", err)
			}

			database, err := a.database()
			if err != nil {
				return err
			}

			reporter, err := report.New(database)
			if err != nil {
				return err
			}

			loans, err := reporter.OverdueLoans(cmd.Context(), day.Time)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(loans) == 0 {
				fmt.Fprintln(out, "no overdue loans")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RECORD\tUSER\tBOOK\tISBN\tDUE\tDAYS")
			for _, l := range loans {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
					l.RecordID, l.Username, l.BookTitle, l.ISBN,
					model.NewDate(l.DueDate).String(), l.DaysOverdue)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "report day as YYYY-MM-DD (default today)")
	return cmd
}
