package database

import "testing"

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("expected embedded migrations")
	}
	if names[0] != "001_schema.sql" {
		t.Fatalf("expected 001_schema.sql first, got %s", names[0])
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("migrations not sorted: %v", names)
		}
	}
}
