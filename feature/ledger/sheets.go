package ledger

import (
	"context"
	"fmt"
	"os"
	"time"

	"dropbox-comments/core/reconcile"
	"dropbox-comments/core/utils"

	"github.com/felixgeelhaar/fortify/timeout"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

// NewSheetsService builds a Sheets client authenticated with the service
// account key at cfg.Credentials.
func NewSheetsService(ctx context.Context, cfg Config) (*sheets.Service, error) {
	// #nosec G304 -- path comes from configuration
	data, err := os.ReadFile(cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("%w: read service account %s: %w", reconcile.ErrStoreUnavailable, cfg.Credentials, err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%w: parse service account: %w", reconcile.ErrStoreUnavailable, err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("%w: create sheets client: %w", reconcile.ErrStoreUnavailable, err)
	}
	return svc, nil
}

// SheetsStore is the Google Sheets RowStore.
type SheetsStore struct {
	svc     *sheets.Service
	id      string
	sheet   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSheetsStore creates a store over spreadsheet cfg.ID. Data rows are written
// into the sheet named by cfg.Range.
func NewSheetsStore(svc *sheets.Service, cfg Config, logger *zap.Logger) *SheetsStore {
	d := time.Duration(cfg.TimeoutSeconds) * time.Second
	if d <= 0 {
		d = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsStore{
		svc:     svc,
		id:      cfg.ID,
		sheet:   SheetName(cfg.Range),
		timeout: d,
		logger:  logger,
	}
}

// call bounds fn with the store timeout and tags failures as store-unavailable.
func call[T any](ctx context.Context, s *SheetsStore, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	t := timeout.New[T](timeout.Config{DefaultTimeout: s.timeout})
	res, err := t.Execute(ctx, s.timeout, fn)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", reconcile.ErrStoreUnavailable, op, err)
	}
	return res, nil
}

// ReadRows implements RowStore.
func (s *SheetsStore) ReadRows(ctx context.Context, rng string) ([]string, [][]string, error) {
	resp, err := call(ctx, s, "read rows", func(ctx context.Context) (*sheets.ValueRange, error) {
		return s.svc.Spreadsheets.Values.Get(s.id, rng).Context(ctx).Do()
	})
	if err != nil {
		return nil, nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}

	header := toStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, toStrings(raw))
	}
	s.logger.Debug("Read ledger rows", zap.String("range", rng), zap.Int("rows", len(rows)))
	return header, rows, nil
}

// WriteCells implements RowStore.
func (s *SheetsStore) WriteCells(ctx context.Context, row int, cells []Cell) error {
	if len(cells) == 0 {
		return nil
	}
	data := make([]*sheets.ValueRange, 0, len(cells))
	for _, c := range cells {
		data = append(data, &sheets.ValueRange{
			Range:  CellRef(s.sheet, c.Column, row),
			Values: [][]interface{}{{c.Value}},
		})
	}
	req := &sheets.BatchUpdateValuesRequest{ValueInputOption: valueInputRaw, Data: data}

	_, err := call(ctx, s, fmt.Sprintf("write row %d", row), func(ctx context.Context) (*sheets.BatchUpdateValuesResponse, error) {
		return s.svc.Spreadsheets.Values.BatchUpdate(s.id, req).Context(ctx).Do()
	})
	return err
}

// AppendRows implements RowStore.
func (s *SheetsStore) AppendRows(ctx context.Context, sheet string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	vr := &sheets.ValueRange{Values: toInterfaces(rows)}

	_, err := call(ctx, s, "append rows to "+sheet, func(ctx context.Context) (*sheets.AppendValuesResponse, error) {
		return s.svc.Spreadsheets.Values.Append(s.id, sheet+"!A:Z", vr).
			ValueInputOption(valueInputRaw).
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
	})
	return err
}

// EnsureSheet implements RowStore. A created sheet is hidden and gets header in row 1.
func (s *SheetsStore) EnsureSheet(ctx context.Context, name string, header []string) error {
	doc, err := call(ctx, s, "list sheets", func(ctx context.Context) (*sheets.Spreadsheet, error) {
		return s.svc.Spreadsheets.Get(s.id).Fields("sheets.properties.title").Context(ctx).Do()
	})
	if err != nil {
		return err
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return nil
		}
	}

	add := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name, Hidden: true},
			},
		}},
	}
	if _, err := call(ctx, s, "add sheet "+name, func(ctx context.Context) (*sheets.BatchUpdateSpreadsheetResponse, error) {
		return s.svc.Spreadsheets.BatchUpdate(s.id, add).Context(ctx).Do()
	}); err != nil {
		return err
	}
	s.logger.Info("Created ledger sheet", zap.String("sheet", name))

	if len(header) == 0 {
		return nil
	}
	rng := fmt.Sprintf("%s!A1:%s1", name, ColumnLetter(len(header)-1))
	vr := &sheets.ValueRange{Values: toInterfaces([][]string{header})}
	_, err = call(ctx, s, "write header of "+name, func(ctx context.Context) (*sheets.UpdateValuesResponse, error) {
		return s.svc.Spreadsheets.Values.Update(s.id, rng, vr).ValueInputOption(valueInputRaw).Context(ctx).Do()
	})
	return err
}

// SetHeaderCell implements RowStore.
func (s *SheetsStore) SetHeaderCell(ctx context.Context, column int, value string) error {
	rng := CellRef(s.sheet, column, 1)
	vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
	_, err := call(ctx, s, "set header "+rng, func(ctx context.Context) (*sheets.UpdateValuesResponse, error) {
		return s.svc.Spreadsheets.Values.Update(s.id, rng, vr).ValueInputOption(valueInputRaw).Context(ctx).Do()
	})
	return err
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = utils.ToString(v)
	}
	return out
}

func toInterfaces(rows [][]string) [][]interface{} {
	out := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		out[i] = cells
	}
	return out
}
