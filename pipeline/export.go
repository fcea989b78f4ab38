package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ============================================================================
// EXPORT — Flat CSV, written atomically
// ============================================================================
// The export is the sole persisted artifact and the contract between the
// pipeline and the query engine. It is written to a temporary file in the
// target directory and renamed into place, so a crashed run never leaves a
// partial export behind.
// ============================================================================

// WriteExport serializes records to path as CSV with the stable
// ExportColumns header. The write is atomic: tmp file + rename.
func WriteExport(path string, recs []Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(ExportColumns); err != nil {
		tmp.Close()
		return fmt.Errorf("export: write header: %w", err)
	}
	for i := range recs {
		if err := w.Write(recs[i].csvRow()); err != nil {
			tmp.Close()
			return fmt.Errorf("export: write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("export: flush: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("export: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("export: replace %s: %w", path, err)
	}
	return nil
}

// ReadExport parses a flat export back into records.
// Inverse of WriteExport: reading what was just written reproduces the same
// record set with no precision loss.
func ReadExport(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ExportColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("export: read header: %w", err)
	}
	for i, col := range ExportColumns {
		if header[i] != col {
			return nil, fmt.Errorf("export: header column %d: got %q, want %q", i, header[i], col)
		}
	}

	var recs []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: line %d: %w", line, err)
		}
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("export: line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// ReadExportFile is ReadExport over a file path.
func ReadExportFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	defer f.Close()
	return ReadExport(f)
}

func recordFromRow(row []string) (Record, error) {
	var rec Record
	var err error

	rec.OrderID = row[0]
	if rec.OrderItemID, err = strconv.Atoi(row[1]); err != nil {
		return rec, fmt.Errorf("order_item_id: %w", err)
	}
	rec.OrderStatus = row[2]
	if rec.PurchasedAt, err = parseExportTime(row[3]); err != nil {
		return rec, fmt.Errorf("purchased_at: %w", err)
	}
	if rec.ApprovedAt, err = parseExportTime(row[4]); err != nil {
		return rec, fmt.Errorf("approved_at: %w", err)
	}
	if rec.DeliveredAt, err = parseExportTime(row[5]); err != nil {
		return rec, fmt.Errorf("delivered_at: %w", err)
	}
	if rec.EstimatedAt, err = parseExportTime(row[6]); err != nil {
		return rec, fmt.Errorf("estimated_at: %w", err)
	}
	rec.CustomerID = row[7]
	rec.CustomerCity = row[8]
	rec.CustomerState = row[9]
	rec.ProductID = row[10]
	rec.ProductCategory = row[11]
	if rec.Price, err = strconv.ParseFloat(row[12], 64); err != nil {
		return rec, fmt.Errorf("price: %w", err)
	}
	if rec.Freight, err = strconv.ParseFloat(row[13], 64); err != nil {
		return rec, fmt.Errorf("freight_value: %w", err)
	}
	if rec.Revenue, err = strconv.ParseFloat(row[14], 64); err != nil {
		return rec, fmt.Errorf("revenue: %w", err)
	}
	if rec.DeliveryDays, err = strconv.ParseFloat(row[15], 64); err != nil {
		return rec, fmt.Errorf("delivery_days: %w", err)
	}
	if rec.DelayDays, err = strconv.ParseFloat(row[16], 64); err != nil {
		return rec, fmt.Errorf("delay_days: %w", err)
	}
	if rec.IsLate, err = strconv.ParseBool(row[17]); err != nil {
		return rec, fmt.Errorf("is_late: %w", err)
	}
	if row[18] != "" {
		if rec.ReviewScore, err = strconv.Atoi(row[18]); err != nil {
			return rec, fmt.Errorf("review_score: %w", err)
		}
	}
	if rec.ReviewedAt, err = parseExportTime(row[19]); err != nil {
		return rec, fmt.Errorf("reviewed_at: %w", err)
	}
	rec.ReviewBucket = row[20]
	return rec, nil
}

func parseExportTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(ExportTimeLayout, s)
}
