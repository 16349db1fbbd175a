package dataset

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// Writer stores rows in one file format.
type Writer interface {
	Save(rows []Row, path string) error
	Extension() string
}

// NewWriter returns the writer for format (parquet or csv), or nil if the
// format is not supported.
func NewWriter(format string) Writer {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "parquet":
		return ParquetWriter{}
	case "csv":
		return CSVWriter{}
	default:
		return nil
	}
}

// ParquetWriter writes rows as a parquet file.
type ParquetWriter struct{}

func (ParquetWriter) Extension() string { return "parquet" }

func (ParquetWriter) Save(rows []Row, path string) error {
	return parquet.WriteFile(path, rows)
}

// CSVWriter writes rows as CSV with header t,o,h,l,c,engulfing.
type CSVWriter struct{}

func (CSVWriter) Extension() string { return "csv" }

func (CSVWriter) Save(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"t", "o", "h", "l", "c", "engulfing"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			strconv.FormatInt(r.Timestamp, 10),
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			strconv.FormatInt(int64(r.Engulfing), 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
