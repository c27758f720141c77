package db

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, sql := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoadMigrations(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_core.sql":         "CREATE TABLE clinic (id UUID PRIMARY KEY);",
		"002_availability.sql": "CREATE TABLE availability (id UUID PRIMARY KEY);",
		"003_appointments.sql": "CREATE TABLE appointment (id UUID PRIMARY KEY);",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "001_core.sql" {
		t.Errorf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[0].SQL != "CREATE TABLE clinic (id UUID PRIMARY KEY);" {
		t.Errorf("SQL not loaded from file: %q", migrations[0].SQL)
	}
	if migrations[2].Version != 3 {
		t.Errorf("expected version 3 last, got %d", migrations[2].Version)
	}
}

func TestLoadMigrations_SortsByVersion(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"010_audit.sql":  "SELECT 10;",
		"002_doctor.sql": "SELECT 2;",
		"001_clinic.sql": "SELECT 1;",
		"005_slots.sql":  "SELECT 5;",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	want := []int{1, 2, 5, 10}
	if len(migrations) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(migrations))
	}
	for i, v := range want {
		if migrations[i].Version != v {
			t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, v)
		}
	}
}

func TestLoadMigrations_SkipsNonMigrationFiles(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"001_clinic.sql":  "SELECT 1;",
		"002_doctor.sql":  "SELECT 2;",
		"readme.sql":      "-- no version prefix",
		"abc_invalid.sql": "-- non-numeric prefix",
		"notes.txt":       "not sql at all",
	})

	migrations, err := NewMigrator(nil, dir).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected only the versioned files, got %d migrations", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[1].Version != 2 {
		t.Errorf("unexpected versions: %d, %d", migrations[0].Version, migrations[1].Version)
	}
}

func TestLoadMigrations_EmptyDir(t *testing.T) {
	migrations, err := NewMigrator(nil, t.TempDir()).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations: %v", err)
	}
	if len(migrations) != 0 {
		t.Errorf("expected no migrations, got %d", len(migrations))
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	_, err := NewMigrator(nil, "/no/such/migrations/dir").LoadMigrations()
	if err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestMigrationStatus_PendingHasNoTimestamp(t *testing.T) {
	s := MigrationStatus{Version: 2, Name: "002_availability.sql"}
	if s.Applied {
		t.Error("zero value should be pending")
	}
	if s.AppliedAt != nil {
		t.Error("pending migration should carry no timestamp")
	}
}
