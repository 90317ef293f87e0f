package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/repository"
)

// SheetName is the worksheet every export writes to.
const SheetName = "Quote"

var headerLabels = map[entity.HeaderField]string{
	entity.FieldSubject:           "Subject",
	entity.FieldDeliveryLocation:  "Delivery Location",
	entity.FieldPaymentTerms:      "Payment Terms",
	entity.FieldQuotationValidity: "Quotation Validity",
	entity.FieldVendorAddress:     "Vendor Address",
	entity.FieldVendorPhoneNumber: "Vendor Phone",
	entity.FieldVendorEmail:       "Vendor Email",
}

var itemColumns = []string{
	"#",
	"Description",
	"Product Code",
	"Quantity",
	"Unit",
	"Unit Price",
	"Amount",
	"Tax Rate (%)",
	"Tax Amount",
}

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	jobs   repository.ExtractJobRepository
	items  repository.LineItemRepository
	logger *slog.Logger
}

func NewService(jobs repository.ExtractJobRepository, items repository.LineItemRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{jobs: jobs, items: items, logger: logger}
}

// ExportJobXLSX renders a stored job's header fields and line items as a workbook.
func (s *Service) ExportJobXLSX(ctx context.Context, jobID uuid.UUID) ([]byte, error) {
	start := time.Now()

	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}
	items, err := s.items.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}

	ext := entity.Extraction{Items: items, HeaderFields: job.HeaderFields}
	if job.Strategy != nil {
		ext.Strategy = *job.Strategy
	}
	b, err := WriteExtractionXLSX(job.DocumentID, ext)
	if err != nil {
		return nil, err
	}

	s.logger.Info("export.xlsx.ok",
		"job_id", jobID.String(),
		"rows", len(items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return b, nil
}

// WriteExtractionXLSX lays out one extraction: a title row, the populated header
// fields as label/value pairs, then the item table closed by a total row.
func WriteExtractionXLSX(title string, ext entity.Extraction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(SheetName, cell, v)
	}

	row := 1
	write(1, row, title)
	row += 2

	for _, field := range entity.HeaderFields {
		v := ext.HeaderFields.Get(field)
		if v == "" {
			continue
		}
		write(1, row, headerLabels[field])
		write(2, row, truncate(v, 200))
		row++
	}
	if !ext.HeaderFields.IsEmpty() {
		row++
	}

	for i, h := range itemColumns {
		write(i+1, row, h)
	}
	row++

	for i, it := range ext.Items {
		write(1, row, i+1)
		write(2, row, truncate(it.Description, 140))
		write(3, row, it.ProductCode)
		write(4, row, it.Quantity)
		write(5, row, it.Unit)
		write(6, row, it.UnitPrice)
		write(7, row, it.Amount)
		if it.TaxRate != nil {
			write(8, row, *it.TaxRate)
		}
		if it.TaxAmount != nil {
			write(9, row, *it.TaxAmount)
		}
		row++
	}
	write(6, row, "Total")
	write(7, row, ext.Total())

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "A", 20) // labels / index
	_ = f.SetColWidth(SheetName, "B", "B", 48) // description / values
	_ = f.SetColWidth(SheetName, "C", "C", 16) // product code
	_ = f.SetColWidth(SheetName, "D", "I", 12) // numbers

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
