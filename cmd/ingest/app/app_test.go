package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/roman-kulish/attitude-survey/internal/storage"
)

func TestNewConfigFromCLI(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		wantErr  bool
		wantName string
		wantCols string
	}{
		{"defaults", []string{"-db", "s.db", "-in", "/data/flight-3.csv"}, false, "flight-3", "X"},
		{"dc schema", []string{"-db", "s.db", "-in", "dc.csv", "-schema", "ACCEL-DC", "-name", "bench"}, false, "bench", "X (DC)"},
		{"list only", []string{"-db", "s.db", "-list"}, false, "", "X"},
		{"missing db", []string{"-in", "a.csv"}, true, "", ""},
		{"missing input", []string{"-db", "s.db"}, true, "", ""},
		{"zero chunk", []string{"-db", "s.db", "-in", "a.csv", "-chunk", "0"}, true, "", ""},
		{"unsupported schema", []string{"-db", "s.db", "-in", "a.csv", "-schema", "orientation"}, true, "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewConfigFromCLI(tc.args)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NewConfigFromCLI(%v) error = %v, wantErr %v", tc.args, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if c.Name != tc.wantName {
				t.Errorf("Expected name %q, got %q", tc.wantName, c.Name)
			}
			if c.Schema.Columns[1] != tc.wantCols {
				t.Errorf("Expected first axis %q, got %q", tc.wantCols, c.Schema.Columns[1])
			}
		})
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "accel.csv")
	if err := os.WriteFile(input, []byte("Time,X,Y,Z\n0,1,2,3\n1,4,5,6\n2,7,8,9\n"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	dbPath := filepath.Join(dir, "survey.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewConfigFromCLI([]string{"-db", dbPath, "-in", input, "-chunk", "2"})
	if err != nil {
		t.Fatalf("Unexpected config error: %v", err)
	}
	if err = Run(context.Background(), c, logger); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	store := storage.NewSqliteStore(dbPath)
	defer store.Close()

	sessions, err := store.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Samples != 3 || sessions[0].Name != "accel" {
		t.Fatalf("Unexpected sessions: %+v", sessions)
	}

	c.List = true
	if err = Run(context.Background(), c, logger); err != nil {
		t.Errorf("Unexpected list error: %v", err)
	}
}

func TestRun_ListMissingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	c, err := NewConfigFromCLI([]string{"-db", dbPath, "-list"})
	if err != nil {
		t.Fatalf("Unexpected config error: %v", err)
	}
	if err = Run(context.Background(), c, logger); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err = os.Stat(dbPath); !os.IsNotExist(err) {
		t.Errorf("Expected database file not to be created, got %v", err)
	}
}
