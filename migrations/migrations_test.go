package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationPairs(t *testing.T) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		t.Fatalf("read embedded files: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) != 3 {
		t.Errorf("up migrations: got %d, want 3", len(ups))
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestClassificationIndexes(t *testing.T) {
	b, err := fs.ReadFile(files, "000001_classifications.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	for _, idx := range []string{"classifications_type_code_key", "classifications_type_name_key"} {
		if !strings.Contains(string(b), "CREATE UNIQUE INDEX IF NOT EXISTS "+idx) {
			t.Errorf("missing unique index %s", idx)
		}
	}
}
