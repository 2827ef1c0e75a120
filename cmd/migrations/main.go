package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spf13/pflag"

	"github.com/vncsmyrnk/pollhub/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollhub/internal/config"
)

func main() {
	config.LoadEnv()

	var (
		db  config.Postgres
		dir string
	)
	fs := pflag.NewFlagSet("migrations", pflag.ExitOnError)
	config.DatabaseFlags(fs, &db)
	fs.StringVar(&dir, "dir", filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations"), "Directory holding the migration files")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrations [flags] <name>\n\nname selects the file, e.g. create_polls.up\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		fs.Usage()
		log.Fatal("a migration name is required.")
	}
	migrationName := fs.Arg(0)

	fileContent, err := migrationFileContent(dir, migrationName)
	if err != nil {
		log.Fatal(err)
	}

	conn, err := postgres.Open(context.Background(), db.ConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if _, err := conn.Exec(string(fileContent)); err != nil {
		log.Fatalf("Failed to execute SQL file: %v", err)
	}

	fmt.Println("Migration file executed successfully.")
}

func migrationFileContent(basePath string, migrationName string) ([]byte, error) {
	fileName, err := migrationFileName(basePath, migrationName)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(filepath.Join(basePath, fileName))
}

// migrationFileName finds the file whose name ends with <name>.sql, so
// "create_polls.up" selects 000002_create_polls.up.sql.
func migrationFileName(basePath string, migrationName string) (string, error) {
	regex, err := regexp.Compile(fmt.Sprintf(`^.*%s\.sql$`, regexp.QuoteMeta(migrationName)))
	if err != nil {
		return "", fmt.Errorf("invalid pattern: %w", err)
	}

	files, err := os.ReadDir(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if regex.MatchString(f.Name()) {
			return f.Name(), nil
		}
	}

	return "", fmt.Errorf("migration %q not found in %s", migrationName, basePath)
}
