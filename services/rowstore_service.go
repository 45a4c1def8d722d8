package services

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	appConfig "github.com/purchase-mwave/quotevend-api/config"
)

// RowStoreInterface is the contract against the external tabular store. A
// sheet is a named table whose first row is the header. Indices passed to
// DeleteRows are 0-based against the current row ordering at call time
// (header included) and the end index is exclusive. No operation is atomic
// across sheets and none is retried here.
type RowStoreInterface interface {
	Read(sheet string) (header []string, rows [][]string, err error)
	Append(sheet string, rows [][]string) error
	UpdateRange(sheet, ref string, rows [][]string) error
	DeleteRows(sheet string, startIndex, endIndex int) error
	ClearRange(sheet, ref string) error
}

// SheetsRowStore talks to a Google Sheets spreadsheet resolved once by name
type SheetsRowStore struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetIDs      map[string]int64 // sheet title -> numeric sheetId, for row deletion
}

var rowStoreInstance RowStoreInterface

// InitRowStore initializes the row store singleton. With Google credentials
// configured it resolves the spreadsheet by name through the Drive API;
// otherwise it falls back to the database-backed local store.
func InitRowStore(cfg *appConfig.Config) (RowStoreInterface, error) {
	if !cfg.UseSheetsBackend() {
		store, err := NewLocalRowStore()
		if err != nil {
			return nil, err
		}
		rowStoreInstance = store
		log.Println("Row store: local database backend")
		return rowStoreInstance, nil
	}

	ctx := context.Background()
	jwtConfig, err := google.JWTConfigFromJSON(
		[]byte(cfg.GoogleCredentialsJSON),
		sheets.SpreadsheetsScope,
		drive.DriveScope,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Google credentials: %w", err)
	}
	httpClient := jwtConfig.Client(ctx)

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, storeErr(err)
	}
	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, storeErr(err)
	}

	// Resolve the spreadsheet by name, once, at startup
	list, err := driveService.Files.List().
		Q(fmt.Sprintf("name='%s'", cfg.SpreadsheetName)).
		Fields("files(id, name)").
		Do()
	if err != nil {
		return nil, storeErr(err)
	}
	if len(list.Files) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet %q not found", ErrStoreUnavailable, cfg.SpreadsheetName)
	}
	spreadsheetID := list.Files[0].Id

	// Cache the sheet title -> sheetId map needed for DeleteDimension calls
	meta, err := sheetsService.Spreadsheets.Get(spreadsheetID).Do()
	if err != nil {
		return nil, storeErr(err)
	}
	sheetIDs := make(map[string]int64, len(meta.Sheets))
	for _, s := range meta.Sheets {
		sheetIDs[s.Properties.Title] = s.Properties.SheetId
	}

	rowStoreInstance = &SheetsRowStore{
		svc:           sheetsService,
		spreadsheetID: spreadsheetID,
		sheetIDs:      sheetIDs,
	}
	log.Printf("Row store: spreadsheet %q (%s), %d sheets", cfg.SpreadsheetName, spreadsheetID, len(sheetIDs))
	return rowStoreInstance, nil
}

// GetRowStore returns the initialized row store instance
func GetRowStore() RowStoreInterface {
	return rowStoreInstance
}

// SetRowStore sets the row store instance (primarily for testing)
func SetRowStore(store RowStoreInterface) {
	rowStoreInstance = store
}

// Read fetches the whole sheet and splits off the header row
func (s *SheetsRowStore) Read(sheet string) ([]string, [][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheet).Do()
	if err != nil {
		return nil, nil, storeErr(err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}
	all := toStringRows(resp.Values)
	return all[0], all[1:], nil
}

// Append adds rows after the last data row of the sheet
func (s *SheetsRowStore) Append(sheet string, rows [][]string) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheet, &sheets.ValueRange{
		Values: toInterfaceRows(rows),
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Do()
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// UpdateRange overwrites the given range. An empty ref means the whole
// sheet, which is how callers apply PlanUpdates replacement tables.
func (s *SheetsRowStore) UpdateRange(sheet, ref string, rows [][]string) error {
	target := sheet
	if ref != "" {
		target = fmt.Sprintf("%s!%s", sheet, ref)
	}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, target, &sheets.ValueRange{
		Values: toInterfaceRows(rows),
	}).ValueInputOption("USER_ENTERED").Do()
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// DeleteRows removes the row span [startIndex, endIndex) where row 0 is the
// header row
func (s *SheetsRowStore) DeleteRows(sheet string, startIndex, endIndex int) error {
	sheetID, ok := s.sheetIDs[sheet]
	if !ok {
		return fmt.Errorf("%w: unknown sheet %q", ErrStoreUnavailable, sheet)
	}
	_, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				DeleteDimension: &sheets.DeleteDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "ROWS",
						StartIndex: int64(startIndex),
						EndIndex:   int64(endIndex),
					},
				},
			},
		},
	}).Do()
	if err != nil {
		return storeErr(err)
	}
	return nil
}

// ClearRange blanks the given range without removing rows. An empty ref
// clears the data rows, keeping the header.
func (s *SheetsRowStore) ClearRange(sheet, ref string) error {
	target := sheet
	if ref != "" {
		target = fmt.Sprintf("%s!%s", sheet, ref)
	} else {
		target = fmt.Sprintf("%s!A2:Z", sheet)
	}
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, target, &sheets.ClearValuesRequest{}).Do()
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func toStringRows(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		out[i] = cells
	}
	return out
}

func toInterfaceRows(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return out
}
