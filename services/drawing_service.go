package services

import (
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
	"github.com/purchase-mwave/quotevend-api/models"
	"github.com/purchase-mwave/quotevend-api/utils"
)

// DrawingService manages quotation drawing attachments: the files live in
// object storage, the (quotation_no, rev, drawing_name, drawing_url) rows
// in the drawing sheet. Attachment rows are append-only.
type DrawingService struct {
	store RowStoreInterface
	cfg   *appConfig.Config
}

// NewDrawingService builds a drawing service on the global row store and
// configuration
func NewDrawingService() *DrawingService {
	return &DrawingService{store: GetRowStore(), cfg: appConfig.GetConfig()}
}

// UploadDrawings stores each file in object storage and appends one
// attachment row per stored file. Files that fail to upload are skipped
// with a log line; a sheet append failure after files were stored is a
// partial failure the caller must see.
func (s *DrawingService) UploadDrawings(quotationNo, rev string, files []*multipart.FileHeader) (int, error) {
	if strings.TrimSpace(quotationNo) == "" {
		return 0, fmt.Errorf("%w: quotation_no and rev are required", ErrValidation)
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("%w: no files uploaded", ErrValidation)
	}

	storage := GetS3Service()
	uploadedRows := make([][]string, 0, len(files))
	for _, file := range files {
		originalName := filepath.Base(file.Filename)
		key := fmt.Sprintf("drawings/%s_Rev%s_%s", quotationNo, rev, originalName)

		url, err := storage.UploadFile(file, key)
		if err != nil {
			log.Printf("Error uploading drawing %s: %v", originalName, err)
			continue
		}
		uploadedRows = append(uploadedRows, []string{quotationNo, rev, originalName, url})
	}

	if len(uploadedRows) == 0 {
		return 0, nil
	}
	if err := s.store.Append(s.cfg.SheetDrawings, uploadedRows); err != nil {
		return 0, &PartialCascadeError{Completed: "object storage", Failed: s.cfg.SheetDrawings, Err: err}
	}
	return len(uploadedRows), nil
}

// ListAll returns every drawing attachment row
func (s *DrawingService) ListAll() ([]models.Drawing, error) {
	return s.list(func(models.Drawing) bool { return true })
}

// ListFor returns the drawing attachments of one (quotation_no, rev) pair
func (s *DrawingService) ListFor(quotationNo, revParam string) ([]models.Drawing, error) {
	rev, ok := utils.ParseRev(strings.TrimSpace(revParam))
	if !ok {
		return nil, fmt.Errorf("%w: invalid rev %q", ErrValidation, revParam)
	}
	return s.list(func(d models.Drawing) bool {
		if d.QuotationNo != quotationNo {
			return false
		}
		r, ok := utils.ParseRev(d.Rev)
		return ok && r == rev
	})
}

func (s *DrawingService) list(match func(models.Drawing) bool) ([]models.Drawing, error) {
	header, rows, err := s.store.Read(s.cfg.SheetDrawings)
	if err != nil {
		return nil, err
	}
	drawings := []models.Drawing{}
	for _, rec := range utils.ToRecords(header, rows) {
		d := models.Drawing{
			QuotationNo: strings.TrimSpace(rec["quotation_no"]),
			Rev:         strings.TrimSpace(rec["rev"]),
			DrawingName: rec["drawing_name"],
			DrawingURL:  rec["drawing_url"],
		}
		if match(d) {
			drawings = append(drawings, d)
		}
	}
	return drawings, nil
}
