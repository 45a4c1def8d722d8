package services

import (
	"fmt"
	"log"
	"strings"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/utils"
)

// CascadeService applies multi-row, multi-sheet deletions. The store has no
// foreign keys and no cross-sheet transactions, so referential integrity is
// enforced procedurally: all deletion index sets are computed from
// snapshots taken under the sheet locks before any row is removed, and
// deletions are issued highest index first. A failure between the two
// sheets leaves an inconsistency that is reported, not recovered.
type CascadeService struct {
	store RowStoreInterface
	cfg   *appConfig.Config
}

// NewCascadeService builds a cascade service on the global row store and
// configuration
func NewCascadeService() *CascadeService {
	return &CascadeService{store: GetRowStore(), cfg: appConfig.GetConfig()}
}

// DeleteCategory removes a category row and every product row whose
// category name equals the deleted category's name. Returns the number of
// product rows removed.
func (s *CascadeService) DeleteCategory(categoryID string) (int, error) {
	unlock := lockSheets(s.cfg.SheetCategories, s.cfg.SheetBasic)
	defer unlock()

	catHeader, catRows, err := s.store.Read(s.cfg.SheetCategories)
	if err != nil {
		return 0, err
	}
	catRecords := utils.ToRecords(catHeader, catRows)

	catIndex := -1
	categoryName := ""
	for i, rec := range catRecords {
		if rec["category_id"] == categoryID {
			catIndex = i
			categoryName = rec["name"]
			break
		}
	}
	if catIndex == -1 {
		return 0, fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
	}

	// Snapshot the product sheet before any deletion so the planned index
	// set cannot be skewed by the category deletion's side effects
	prodHeader, prodRows, err := s.store.Read(s.cfg.SheetBasic)
	if err != nil {
		return 0, err
	}
	planned := PlanDeletes(utils.ToRecords(prodHeader, prodRows), func(rec map[string]string) bool {
		return rec["category"] == categoryName
	})

	start, end := DeleteSpan(catIndex)
	if err := s.store.DeleteRows(s.cfg.SheetCategories, start, end); err != nil {
		return 0, err
	}

	deleted := 0
	for _, idx := range planned {
		start, end := DeleteSpan(idx)
		if err := s.store.DeleteRows(s.cfg.SheetBasic, start, end); err != nil {
			return deleted, &PartialCascadeError{
				Completed: s.cfg.SheetCategories,
				Failed:    s.cfg.SheetBasic,
				Err:       fmt.Errorf("deleted %d of %d product rows: %w", deleted, len(planned), err),
			}
		}
		deleted++
	}

	log.Printf("Deleted category %s (%q) and %d dependent products", categoryID, categoryName, deleted)
	return deleted, nil
}

// DeleteProduct removes the single row matching the product id from the
// basic sheet or the pipe sheet. Pipe ids carry a "P" prefix over the
// stored id.
func (s *CascadeService) DeleteProduct(productID string) error {
	unlock := lockSheets(s.cfg.SheetBasic, s.cfg.SheetPipes)
	defer unlock()

	deleted := false
	for _, sheet := range []string{s.cfg.SheetBasic, s.cfg.SheetPipes} {
		idToMatch := productID
		if sheet == s.cfg.SheetPipes && strings.HasPrefix(productID, "P") {
			idToMatch = productID[1:]
		}

		header, rows, err := s.store.Read(sheet)
		if err != nil {
			if deleted {
				return &PartialCascadeError{Completed: s.cfg.SheetBasic, Failed: sheet, Err: err}
			}
			return err
		}

		index := -1
		for i, rec := range utils.ToRecords(header, rows) {
			if rec["product_id"] == idToMatch {
				index = i
				break
			}
		}
		if index == -1 {
			continue
		}

		start, end := DeleteSpan(index)
		if err := s.store.DeleteRows(sheet, start, end); err != nil {
			if deleted {
				return &PartialCascadeError{Completed: s.cfg.SheetBasic, Failed: sheet, Err: err}
			}
			return err
		}
		deleted = true
	}

	if !deleted {
		return fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}
	return nil
}
