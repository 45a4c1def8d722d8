package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLocalStore(t *testing.T) *LocalRowStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	store, err := NewLocalRowStoreWithDB(db)
	if err != nil {
		t.Fatalf("Failed to build local row store: %v", err)
	}
	return store
}

func TestLocalRowStoreAppendAndRead(t *testing.T) {
	store := setupLocalStore(t)

	header, rows, err := store.Read("items")
	assert.NoError(t, err)
	assert.Nil(t, header)
	assert.Nil(t, rows)

	assert.NoError(t, store.Append("items", [][]string{
		{"quotation_no", "rev", "status"},
		{"QT2501T-0001", "", "Pending"},
	}))
	assert.NoError(t, store.Append("items", [][]string{
		{"QT2501T-0001", "1", "Pending"},
	}))

	header, rows, err = store.Read("items")
	assert.NoError(t, err)
	assert.Equal(t, []string{"quotation_no", "rev", "status"}, header)
	assert.Equal(t, [][]string{
		{"QT2501T-0001", "", "Pending"},
		{"QT2501T-0001", "1", "Pending"},
	}, rows)
}

func TestLocalRowStoreSheetsAreIsolated(t *testing.T) {
	store := setupLocalStore(t)

	assert.NoError(t, store.Append("items", [][]string{{"a"}, {"1"}}))
	assert.NoError(t, store.Append("customers", [][]string{{"b"}, {"2"}}))

	header, rows, err := store.Read("customers")
	assert.NoError(t, err)
	assert.Equal(t, []string{"b"}, header)
	assert.Equal(t, [][]string{{"2"}}, rows)
}

func TestLocalRowStoreUpdateRange(t *testing.T) {
	store := setupLocalStore(t)
	assert.NoError(t, store.Append("items", [][]string{
		{"quotation_no", "status"},
		{"QT2501T-0001", "Pending"},
	}))

	assert.NoError(t, store.UpdateRange("items", "", [][]string{
		{"quotation_no", "status"},
		{"QT2501T-0001", "Approved"},
		{"QT2501T-0002", "Pending"},
	}))

	_, rows, err := store.Read("items")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{
		{"QT2501T-0001", "Approved"},
		{"QT2501T-0002", "Pending"},
	}, rows)

	// Ranged refs are a Sheets-only feature
	err = store.UpdateRange("items", "A2:B3", nil)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestLocalRowStoreDeleteRowsClosesGap(t *testing.T) {
	store := setupLocalStore(t)
	assert.NoError(t, store.Append("items", [][]string{
		{"no"},
		{"r0"},
		{"r1"},
		{"r2"},
		{"r3"},
	}))

	// Delete data row index 1 (store row 2)
	assert.NoError(t, store.DeleteRows("items", 2, 3))

	_, rows, err := store.Read("items")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"r0"}, {"r2"}, {"r3"}}, rows)

	// Positions were re-packed, so appending lands directly after the last row
	assert.NoError(t, store.Append("items", [][]string{{"r4"}}))
	_, rows, err = store.Read("items")
	assert.NoError(t, err)
	assert.Equal(t, [][]string{{"r0"}, {"r2"}, {"r3"}, {"r4"}}, rows)
}

func TestLocalRowStoreClearRangeKeepsHeader(t *testing.T) {
	store := setupLocalStore(t)
	assert.NoError(t, store.Append("items", [][]string{
		{"no"},
		{"r0"},
		{"r1"},
	}))

	assert.NoError(t, store.ClearRange("items", "A2:Z"))

	header, rows, err := store.Read("items")
	assert.NoError(t, err)
	assert.Equal(t, []string{"no"}, header)
	assert.Empty(t, rows)
}
