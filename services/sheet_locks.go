package services

import "sync"

// The row store offers no locking primitive, and deletes address rows by
// absolute index, so two interleaved snapshot-compute-delete sequences on
// the same sheet would corrupt each other's indices. Every structural
// mutation (row deletion, whole-range replacement) must hold the sheet's
// lock across snapshot, planning and execution. Plain appends are exempt:
// concurrent appends write disjoint rows.
var sheetLocks = struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}{m: make(map[string]*sync.Mutex)}

// lockSheets acquires the locks for the given sheets and returns an unlock
// function. Sheets are always locked in the order given; callers touching
// the same pair must pass them in the same order to avoid deadlock.
func lockSheets(sheets ...string) func() {
	locks := make([]*sync.Mutex, 0, len(sheets))
	for _, name := range sheets {
		sheetLocks.mu.Lock()
		l, ok := sheetLocks.m[name]
		if !ok {
			l = &sync.Mutex{}
			sheetLocks.m[name] = l
		}
		sheetLocks.mu.Unlock()
		l.Lock()
		locks = append(locks, l)
	}
	return func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}
}
