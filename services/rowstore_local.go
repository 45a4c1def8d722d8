package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"gorm.io/gorm"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
)

// SheetRow is one stored row of the local row-store backend. Position 0 is
// the header row; positions are kept dense per sheet.
type SheetRow struct {
	ID       uint   `gorm:"primaryKey"`
	Sheet    string `gorm:"size:191;index:idx_sheet_position"`
	Position int    `gorm:"index:idx_sheet_position"`
	Cells    string // JSON-encoded cell values
}

// TableName specifies the table name for the SheetRow model
func (SheetRow) TableName() string {
	return "sheet_rows"
}

// LocalRowStore emulates the sheet store on top of a relational database.
// It exists so the service can run (and be integration-tested) without
// Google credentials; it honors the same index semantics as the Sheets
// backend, including header-inclusive delete indices.
type LocalRowStore struct {
	db *gorm.DB
	mu sync.Mutex
}

// NewLocalRowStore builds a local row store on the globally connected
// database, migrating its table
func NewLocalRowStore() (*LocalRowStore, error) {
	db := appConfig.GetDB()
	if db == nil {
		return nil, fmt.Errorf("%w: database not connected", ErrStoreUnavailable)
	}
	if err := db.AutoMigrate(&SheetRow{}); err != nil {
		return nil, storeErr(err)
	}
	return &LocalRowStore{db: db}, nil
}

// NewLocalRowStoreWithDB builds a local row store on an explicit database
// handle (primarily for testing)
func NewLocalRowStoreWithDB(db *gorm.DB) (*LocalRowStore, error) {
	if err := db.AutoMigrate(&SheetRow{}); err != nil {
		return nil, storeErr(err)
	}
	return &LocalRowStore{db: db}, nil
}

// Read fetches the whole sheet and splits off the header row
func (s *LocalRowStore) Read(sheet string) ([]string, [][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stored []SheetRow
	if err := s.db.Where("sheet = ?", sheet).Order("position asc").Find(&stored).Error; err != nil {
		return nil, nil, storeErr(err)
	}
	if len(stored) == 0 {
		return nil, nil, nil
	}
	all := make([][]string, 0, len(stored))
	for _, row := range stored {
		var cells []string
		if err := json.Unmarshal([]byte(row.Cells), &cells); err != nil {
			return nil, nil, storeErr(err)
		}
		all = append(all, cells)
	}
	return all[0], all[1:], nil
}

// Append adds rows after the last row of the sheet. Appending to an empty
// sheet writes the header row first, matching the Sheets backend.
func (s *LocalRowStore) Append(sheet string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transact(func(tx *gorm.DB) error {
		next, err := rowCount(tx, sheet)
		if err != nil {
			return err
		}
		for _, cells := range rows {
			encoded, err := json.Marshal(cells)
			if err != nil {
				return err
			}
			if err := tx.Create(&SheetRow{Sheet: sheet, Position: next, Cells: string(encoded)}).Error; err != nil {
				return err
			}
			next++
		}
		return nil
	})
}

// UpdateRange replaces the sheet contents. Only whole-sheet replacement is
// supported (ref must be empty), which is the only way the engine applies
// updates.
func (s *LocalRowStore) UpdateRange(sheet, ref string, rows [][]string) error {
	if ref != "" {
		return fmt.Errorf("%w: local store only supports whole-sheet updates", ErrStoreUnavailable)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transact(func(tx *gorm.DB) error {
		if err := tx.Where("sheet = ?", sheet).Delete(&SheetRow{}).Error; err != nil {
			return err
		}
		for pos, cells := range rows {
			encoded, err := json.Marshal(cells)
			if err != nil {
				return err
			}
			if err := tx.Create(&SheetRow{Sheet: sheet, Position: pos, Cells: string(encoded)}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteRows removes the row span [startIndex, endIndex) where row 0 is the
// header, then closes the position gap
func (s *LocalRowStore) DeleteRows(sheet string, startIndex, endIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	span := endIndex - startIndex
	if span <= 0 {
		return nil
	}
	return s.transact(func(tx *gorm.DB) error {
		if err := tx.Where("sheet = ? AND position >= ? AND position < ?", sheet, startIndex, endIndex).
			Delete(&SheetRow{}).Error; err != nil {
			return err
		}
		return tx.Model(&SheetRow{}).
			Where("sheet = ? AND position >= ?", sheet, endIndex).
			UpdateColumn("position", gorm.Expr("position - ?", span)).Error
	})
}

// ClearRange blanks the data rows, keeping the header. Ranged refs beyond
// the default data-row clear are not supported locally.
func (s *LocalRowStore) ClearRange(sheet, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transact(func(tx *gorm.DB) error {
		return tx.Where("sheet = ? AND position >= 1", sheet).Delete(&SheetRow{}).Error
	})
}

func (s *LocalRowStore) transact(fn func(tx *gorm.DB) error) error {
	if err := s.db.Transaction(fn); err != nil {
		return storeErr(err)
	}
	return nil
}

func rowCount(tx *gorm.DB, sheet string) (int, error) {
	var count int64
	if err := tx.Model(&SheetRow{}).Where("sheet = ?", sheet).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
