package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/attitude-survey/internal/logfile"
	"github.com/roman-kulish/attitude-survey/internal/storage"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeFixtures(t *testing.T) (orientationPath, accelPath string) {
	t.Helper()
	dir := t.TempDir()

	orientationPath = filepath.Join(dir, "orientation.csv")
	orientationCSV := "Time,Acc,W,X,Y,Z\n" +
		"0,3,1,0,0,0\n" +
		"1,3,0.7071067811865476,0,0,0.7071067811865476\n" +
		"2,3,0.7071067811865476,0,0,-0.7071067811865476\n"
	if err := os.WriteFile(orientationPath, []byte(orientationCSV), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("Time,X,Y,Z\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "%g,%d,%d,%d\n", float64(i)*0.25, i, -i, i*i)
	}
	accelPath = filepath.Join(dir, "accel.csv")
	if err := os.WriteFile(accelPath, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return orientationPath, accelPath
}

func TestRun_Orientation(t *testing.T) {
	orientationPath, _ := writeFixtures(t)

	c := NewConfig()
	c.Orientation.Path = orientationPath

	report, err := Run(context.Background(), c, testLogger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedAzi := []float64{360, 90, 270}
	for i, want := range expectedAzi {
		if got := report.Polar.Azi[i]; got < want-1e-9 || got > want+1e-9 {
			t.Errorf("Azi[%d]: expected %v, got %v", i, want, got)
		}
		if got := report.Polar.Inc[i]; got < 90-1e-9 || got > 90+1e-9 {
			t.Errorf("Inc[%d]: expected 90, got %v", i, got)
		}
	}
	if report.Window != nil {
		t.Error("Expected no window without an accelerometer source")
	}
}

func TestRun_StrategiesAgree(t *testing.T) {
	_, accelPath := writeFixtures(t)

	run := func(limit ByteSize) *Report {
		c := NewConfig()
		c.Accel.Path = accelPath
		c.Accel.SizeLimit = limit
		c.Accel.ChunkSize = 64
		c.Window = WindowConfig{Channel: "Z", From: 25, To: 37.5}

		report, err := Run(context.Background(), c, testLogger)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return report
	}

	loaded := run(1 << 30)
	scanned := run(1)

	if loaded.Window.Len() != 51 {
		t.Fatalf("Expected 51 points, got %d", loaded.Window.Len())
	}
	if scanned.Window.Len() != loaded.Window.Len() {
		t.Fatalf("Expected %d points when scanning, got %d", loaded.Window.Len(), scanned.Window.Len())
	}
	for i := range loaded.Window.Time {
		if loaded.Window.Time[i] != scanned.Window.Time[i] || loaded.Window.Values[i] != scanned.Window.Values[i] {
			t.Errorf("Point %d differs: loaded (%v, %v), scanned (%v, %v)", i,
				loaded.Window.Time[i], loaded.Window.Values[i], scanned.Window.Time[i], scanned.Window.Values[i])
		}
	}
	if first := loaded.Window.Values[0]; first != 100*100 {
		t.Errorf("Expected first value %d, got %v", 100*100, first)
	}
	if !scanned.Scan.StoppedEarly {
		t.Error("Expected the chunked scan to stop after the window")
	}
}

func TestRun_FromStore(t *testing.T) {
	_, accelPath := writeFixtures(t)
	dbPath := filepath.Join(t.TempDir(), "survey.db")
	ctx := context.Background()

	store := storage.NewSqliteStore(dbPath)
	sess, err := store.ImportFile(ctx, "bench", accelPath, logfile.AccelHFSchema, 128)
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if err = store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	c := NewConfig()
	c.Storage = StorageConfig{Database: dbPath, Session: sess.ID}
	c.Window = WindowConfig{Channel: "Y", From: 10, To: 12.5}

	report, err := Run(ctx, c, testLogger)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Window.Len() != 11 {
		t.Fatalf("Expected 11 points, got %d", report.Window.Len())
	}
	if report.Window.Values[0] != -40 {
		t.Errorf("Expected first value -40, got %v", report.Window.Values[0])
	}
}

func TestRun_UnknownChannel(t *testing.T) {
	_, accelPath := writeFixtures(t)

	c := NewConfig()
	c.Accel.Path = accelPath
	c.Window.Channel = "Q"

	if _, err := Run(context.Background(), c, testLogger); err == nil {
		t.Error("Expected error for unknown channel")
	}
}
