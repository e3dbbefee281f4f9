package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// aliasTable maps a bucket name (column header) to the expanded list of
// acceptable course codes listed beneath it.
type aliasTable map[string][]string

// loadAliasTables loads the alias tables for an admission year, falling back
// to the shared table when no year-specific one exists. A file that fails to
// load is skipped with a warning; alias tables are auxiliary and must not
// abort a catalog load.
func loadAliasTables(dir string, year int) aliasTable {
	table := loadAliasFiles(yearAliasPaths(dir, year))
	if len(table) == 0 {
		table = loadAliasFiles(sharedAliasPaths(dir))
	}
	return table
}

func loadAliasFiles(paths []string) aliasTable {
	table := make(aliasTable)

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		rows, err := readTable(path)
		if err != nil {
			slog.Warn("Skipping unreadable alias table", "path", path, "error", err)
			continue
		}
		table.merge(rows)
		slog.Debug("Loaded alias table", "path", path, "buckets", len(table))
	}

	return table
}

// merge folds one alias file's rows into the table: every header becomes a
// bucket key, every non-empty cell beneath it a member, case-folded and
// de-duplicated.
func (t aliasTable) merge(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	header := rows[0]
	for col, name := range header {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		seen := make(map[string]bool, len(t[key]))
		for _, existing := range t[key] {
			seen[existing] = true
		}
		for _, row := range rows[1:] {
			v := strings.ToUpper(cell(row, col))
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			t[key] = append(t[key], v)
		}
	}
}

// expand resolves one cell value: an alias key becomes its full member list
// joined as a slash OR-group; anything else is kept verbatim.
func (t aliasTable) expand(value string) string {
	key := strings.ToUpper(strings.TrimSpace(value))
	if members, ok := t[key]; ok && len(members) > 0 {
		return strings.Join(members, "/")
	}
	return strings.TrimSpace(value)
}

func yearAliasPaths(dir string, year int) []string {
	return []string{
		filepath.Join(dir, strconv.Itoa(year), "buckets.csv"),
		filepath.Join(dir, strconv.Itoa(year), "buckets.xlsx"),
	}
}

func sharedAliasPaths(dir string) []string {
	return []string{
		filepath.Join(dir, "buckets.csv"),
		filepath.Join(dir, "buckets.xlsx"),
	}
}
