package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rentdash/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes Excel workbooks into the configured exports directory.
type Exporter struct {
	dir    string
	logger *zerolog.Logger
}

func NewExporter(dir string, logger *zerolog.Logger) *Exporter {
	return &Exporter{dir: dir, logger: logger}
}

var bookingExportHeaders = []string{
	"No", "Invoice", "Type", "Customer", "Phone", "Unit", "Console",
	"Date", "Start", "End", "Hours", "Total", "Payment", "Status",
}

// Bookings writes the given rows to a timestamped workbook and returns its
// path.
func (e *Exporter) Bookings(rows []models.Booking) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range bookingExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, b := range rows {
		row := i + 2
		values := []any{
			i + 1, b.InvoiceNumber, b.BookingType, b.CustomerName, b.Phone,
			b.UnitName, b.ConsoleName, b.StartDate, b.StartTime, b.EndTime,
			b.DurationHours, b.TotalDisplay, b.PaymentMethod, b.Status,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 6)
	_ = f.SetColWidth(sheet, "B", "G", 18)
	_ = f.SetColWidth(sheet, "H", "K", 12)
	_ = f.SetColWidth(sheet, "L", "N", 15)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(e.dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	if e.logger != nil {
		e.logger.Info().Str("file_path", path).Int("rows", len(rows)).Msg("bookings export created")
	}
	return path, nil
}
