// Command libadmin runs maintenance tasks against the library database.
package main

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/snnyvrz/libmanage/internal/config"
	"github.com/snnyvrz/libmanage/internal/db"
	"github.com/snnyvrz/libmanage/internal/logging"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func main() {
	a := &app{
		openDB:       openDB,
		readPassword: readPassword,
	}

	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func openDB() (*gorm.DB, error) {
	cfg := config.Load()
	logging.New(cfg)

	database, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return database, nil
}

// readPassword reads a password from the terminal without echo.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
