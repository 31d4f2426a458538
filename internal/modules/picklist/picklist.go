// Package picklist builds the warehouse pick list of a delivery date from the
// orders the lock job froze, as an XLSX workbook.
package picklist

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/jobs"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/orders"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/platform/storage"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/dates"
)

const (
	sheetName   = "Picklist"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrNotExported = apperr.NotFoundErr("PICKLIST_NOT_FOUND", "No pick list has been exported for that date.")

// Line is the total quantity of one pack to pick for the day.
type Line struct {
	ProductPackID string
	ProductName   string
	PackLabel     string
	Unit          string
	Quantity      decimal.Decimal
	Orders        int
}

type Service struct {
	db     *gorm.DB
	store  storage.Storage
	logger *slog.Logger
}

func NewService(db *gorm.DB, store storage.Storage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, store: store, logger: logger}
}

type itemRow struct {
	OrderID       string
	ProductPackID string
	ProductName   string
	PackLabel     string
	Unit          string
	Quantity      decimal.Decimal
}

// Build aggregates the items of locked, not cancelled orders of date per pack,
// sorted by product name then pack label.
func (s *Service) Build(ctx context.Context, date string) ([]Line, error) {
	d, err := dates.Parse(date)
	if err != nil {
		return nil, err
	}

	var rows []itemRow
	if err := s.db.WithContext(ctx).
		Table("order_items AS oi").
		Select("oi.order_id, oi.product_pack_id, oi.product_name, oi.pack_label, oi.unit, oi.quantity").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.delivery_date = ? AND o.is_locked = ? AND o.status <> ?", d, true, orders.StatusCancelled).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byPack := map[string]*Line{}
	seen := map[string]map[string]bool{}
	for _, r := range rows {
		l, ok := byPack[r.ProductPackID]
		if !ok {
			l = &Line{
				ProductPackID: r.ProductPackID,
				ProductName:   r.ProductName,
				PackLabel:     r.PackLabel,
				Unit:          r.Unit,
			}
			byPack[r.ProductPackID] = l
			seen[r.ProductPackID] = map[string]bool{}
		}
		l.Quantity = l.Quantity.Add(r.Quantity)
		if !seen[r.ProductPackID][r.OrderID] {
			seen[r.ProductPackID][r.OrderID] = true
			l.Orders++
		}
	}

	out := make([]Line, 0, len(byPack))
	for _, l := range byPack {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		if out[i].PackLabel != out[j].PackLabel {
			return out[i].PackLabel < out[j].PackLabel
		}
		return out[i].ProductPackID < out[j].ProductPackID
	})
	return out, nil
}

// Render writes lines as a single-sheet workbook.
func Render(date string, lines []Line) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetCellValue(sheetName, "A1", "Delivery date"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheetName, "B1", date); err != nil {
		return nil, err
	}

	header := []any{"Product", "Pack", "Unit", "Quantity", "Orders", "Pack ID"}
	if err := f.SetSheetRow(sheetName, "A3", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A3", "F3", bold); err != nil {
		return nil, err
	}

	for i, l := range lines {
		qty, _ := l.Quantity.Float64()
		row := []any{l.ProductName, l.PackLabel, l.Unit, qty, l.Orders, l.ProductPackID}
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "F", "F", 38); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Key(date string) string { return "picklists/" + date + ".xlsx" }

// Export builds, renders and stores the pick list of date, replacing any
// earlier export of the same date.
func (s *Service) Export(ctx context.Context, date string) (storage.PutResult, error) {
	lines, err := s.Build(ctx, date)
	if err != nil {
		return storage.PutResult{}, err
	}
	body, err := Render(date, lines)
	if err != nil {
		return storage.PutResult{}, fmt.Errorf("picklist: render %s: %w", date, err)
	}
	res, err := s.store.Put(ctx, bytes.NewReader(body), storage.PutInput{
		Key:         Key(date),
		ContentType: ContentType,
		Size:        int64(len(body)),
	})
	if err != nil {
		return storage.PutResult{}, fmt.Errorf("picklist: store %s: %w", date, err)
	}
	s.logger.InfoContext(ctx, "picklist exported", "delivery_date", date, "lines", len(lines), "key", res.Key)
	return res, nil
}

// Open returns a stored export, or PICKLIST_NOT_FOUND.
func (s *Service) Open(ctx context.Context, date string) ([]byte, error) {
	d, err := dates.Parse(date)
	if err != nil {
		return nil, err
	}
	rc, err := s.store.Open(ctx, Key(d))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotExported
	}
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OnOrdersLocked is registered as a lock job hook.
func (s *Service) OnOrdersLocked(ctx context.Context, res jobs.LockResult) error {
	_, err := s.Export(ctx, res.DeliveryDate)
	return err
}
