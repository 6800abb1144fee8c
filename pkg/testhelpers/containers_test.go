//go:build integration

package testhelpers

import (
	"context"
	"testing"
)

func TestGetTestDB_MigrationsApplied(t *testing.T) {
	testDB := GetTestDB(t)

	ctx := context.Background()

	var exists bool
	err := testDB.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = 'dataset_documents')").
		Scan(&exists)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}
	if !exists {
		t.Error("expected dataset_documents table after migrations")
	}
}
