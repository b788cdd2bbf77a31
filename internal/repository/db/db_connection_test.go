package db

import (
	"path/filepath"
	"testing"
)

func TestInitDB_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agrobox.db")

	conn, err := InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"sensor_readings", "controls", "actuator_log"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}

	// reopening an existing file is idempotent
	again, err := InitDB(path)
	if err != nil {
		t.Fatalf("second InitDB: %v", err)
	}
	_ = again.Close()
}

func TestInitDB_ControlsSingleRow(t *testing.T) {
	conn, err := InitDB(filepath.Join(t.TempDir(), "agrobox.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Exec(`INSERT INTO controls (id, updated_at) VALUES (2, 'x')`); err == nil {
		t.Fatalf("expected id check to reject a second controls row")
	}
}
