package services

import (
	"fmt"
	"sync"
)

// MockRowStore is an in-memory implementation of RowStoreInterface for
// testing. Each sheet is a full row set including the header at index 0.
type MockRowStore struct {
	sheets   map[string][][]string
	failNext map[string]error // operation key ("append:ชีต1") -> error to return once
	mu       sync.RWMutex
}

// NewMockRowStore creates a new mock row store
func NewMockRowStore() *MockRowStore {
	return &MockRowStore{
		sheets:   make(map[string][][]string),
		failNext: make(map[string]error),
	}
}

// SetAsMockForTesting sets this mock as the global row store instance
func (m *MockRowStore) SetAsMockForTesting() {
	SetRowStore(m)
}

// Seed replaces a sheet's contents (header row first)
func (m *MockRowStore) Seed(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[sheet] = cloneRows(rows)
}

// Rows returns a copy of a sheet's full contents including the header
func (m *MockRowStore) Rows(sheet string) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRows(m.sheets[sheet])
}

// FailNext makes the next call of the given operation on the given sheet
// return err. Operations: "read", "append", "update", "delete", "clear".
func (m *MockRowStore) FailNext(op, sheet string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext[op+":"+sheet] = err
}

func (m *MockRowStore) takeFailure(op, sheet string) error {
	key := op + ":" + sheet
	if err, ok := m.failNext[key]; ok {
		delete(m.failNext, key)
		return err
	}
	return nil
}

// Read returns the header and data rows of a sheet
func (m *MockRowStore) Read(sheet string) ([]string, [][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("read", sheet); err != nil {
		return nil, nil, err
	}
	all := m.sheets[sheet]
	if len(all) == 0 {
		return nil, nil, nil
	}
	copied := cloneRows(all)
	return copied[0], copied[1:], nil
}

// Append adds rows to the end of a sheet
func (m *MockRowStore) Append(sheet string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("append", sheet); err != nil {
		return err
	}
	m.sheets[sheet] = append(m.sheets[sheet], cloneRows(rows)...)
	return nil
}

// UpdateRange replaces the whole sheet (only empty refs are supported,
// matching how the engine applies updates)
func (m *MockRowStore) UpdateRange(sheet, ref string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("update", sheet); err != nil {
		return err
	}
	if ref != "" {
		return fmt.Errorf("mock row store only supports whole-sheet updates, got ref %q", ref)
	}
	m.sheets[sheet] = cloneRows(rows)
	return nil
}

// DeleteRows removes the row span [startIndex, endIndex), header included
// in the numbering
func (m *MockRowStore) DeleteRows(sheet string, startIndex, endIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("delete", sheet); err != nil {
		return err
	}
	all := m.sheets[sheet]
	if startIndex < 0 || endIndex > len(all) || startIndex >= endIndex {
		return fmt.Errorf("delete span [%d,%d) out of range for sheet %q with %d rows", startIndex, endIndex, sheet, len(all))
	}
	m.sheets[sheet] = append(all[:startIndex], all[endIndex:]...)
	return nil
}

// ClearRange removes the data rows, keeping the header
func (m *MockRowStore) ClearRange(sheet, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFailure("clear", sheet); err != nil {
		return err
	}
	if all := m.sheets[sheet]; len(all) > 0 {
		m.sheets[sheet] = all[:1]
	}
	return nil
}

func cloneRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
