package main

import (
	"bufio"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"finbuddy/internal/config"
	"finbuddy/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
)

// Migration files under migrations/ carry both directions in a single file,
// separated by downMarker. Applied files are recorded by filename in
// schema_migrations, so lexicographic filename order is the apply order.
const downMarker = "-- +migrate Down"

func main() {
	down := flag.Bool("down", false, "roll back the most recently applied migration")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	if *down {
		if err := rollbackLast(database); err != nil {
			log.Fatalf("rollback failed: %v", err)
		}
		return
	}
	if err := applyPending(database); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
}

func applyPending(database *sqlx.DB) error {
	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)
		var applied bool
		if err := database.Get(&applied, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, name); err != nil {
			return fmt.Errorf("read migration state: %w", err)
		}
		if applied {
			continue
		}
		up, _, err := readSections(file)
		if err != nil {
			return err
		}
		if err := runStatements(database, up); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if _, err := database.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, name); err != nil {
			return fmt.Errorf("record %s: %w", name, err)
		}
		fmt.Printf("applied %s\n", name)
	}
	return nil
}

func rollbackLast(database *sqlx.DB) error {
	var name string
	err := database.Get(&name, `SELECT filename FROM schema_migrations ORDER BY filename DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		fmt.Println("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read migration state: %w", err)
	}
	_, downSQL, err := readSections(filepath.Join("migrations", name))
	if err != nil {
		return err
	}
	if strings.TrimSpace(downSQL) == "" {
		return fmt.Errorf("%s has no down section", name)
	}
	if err := runStatements(database, downSQL); err != nil {
		return fmt.Errorf("roll back %s: %w", name, err)
	}
	if _, err := database.Exec(`DELETE FROM schema_migrations WHERE filename = $1`, name); err != nil {
		return fmt.Errorf("unrecord %s: %w", name, err)
	}
	fmt.Printf("rolled back %s\n", name)
	return nil
}

func readSections(path string) (up, down string, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	up, down, _ = strings.Cut(string(content), downMarker)
	return up, down, nil
}

func runStatements(database execer, sqlText string) error {
	for _, stmt := range splitStatements(sqlText) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := database.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// splitStatements cuts a migration section into individual statements on
// semicolons. Comment-only lines are dropped so a trailing comment does not
// produce an empty statement.
func splitStatements(sqlText string) []string {
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteRune('\n')
		if strings.Contains(line, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}
