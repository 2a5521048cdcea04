package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

`

const migrationDownTemplate = `-- Migration: {{.Name}} (Rollback)
-- Created: {{.Timestamp}}

`

// versionWidth matches the zero padded prefix of 000001_init_occupancy.up.sql
const versionWidth = 6

// MigrationFile represents a migration file pair
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration creates the next sequentially numbered migration pair
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	name = sanitizeName(name)
	if name == "" {
		return nil, fmt.Errorf("migration name must contain letters or digits")
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(migrationsDir)
	if err != nil {
		return nil, err
	}
	next := 1
	if len(existing) > 0 {
		last, _ := parseVersion(existing[len(existing)-1])
		next = last + 1
	}

	version := fmt.Sprintf("%0*d", versionWidth, next)
	baseName := version + "_" + name
	mf := &MigrationFile{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UpPath:      filepath.Join(migrationsDir, baseName+".up.sql"),
		DownPath:    filepath.Join(migrationsDir, baseName+".down.sql"),
	}

	if err := createMigrationFile(mf.UpPath, migrationUpTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := createMigrationFile(mf.DownPath, migrationDownTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func createMigrationFile(path, tmplContent string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// sanitizeName lowercases a migration name and joins words with underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, c := range strings.ToLower(name) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the base names of the migrations in a directory,
// ordered by version
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if !ok {
			continue
		}
		if _, ok := parseVersion(base); ok {
			migrations = append(migrations, base)
		}
	}

	sort.Slice(migrations, func(i, j int) bool {
		vi, _ := parseVersion(migrations[i])
		vj, _ := parseVersion(migrations[j])
		return vi < vj
	})
	return migrations, nil
}

func parseVersion(baseName string) (int, bool) {
	prefix, _, _ := strings.Cut(baseName, "_")
	v, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return v, true
}
