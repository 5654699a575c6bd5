// Package report renders screener results to a console table and a CSV
// file with a fixed column set.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "dividend-screener/internal/errors"
	"dividend-screener/internal/logging"
	"dividend-screener/internal/models"
)

const dateLayout = "2006-01-02"

// csvRow fixes the exported column names and order. The ex-dividend date is
// the row key and leads the file.
type csvRow struct {
	Date         string          `csv:"Date"`
	Ticker       string          `csv:"Ticker"`
	CompanyName  string          `csv:"companyName"`
	YieldPct     decimal.Decimal `csv:"Divid %"`
	Volume       int64           `csv:"Volume"`
	Close        float64         `csv:"Close"`
	DividendRate decimal.Decimal `csv:"Divid Rate"`
	RoseLast5    bool            `csv:"5_Days_pos"`
	AboveSMA50   bool            `csv:"MA50"`
	ETF          bool            `csv:"etf"`
	ADR          bool            `csv:"adr"`
	Bond         bool            `csv:"bond"`
}

// Exporter writes the screener report.
type Exporter struct {
	csvPath string
	logger  zerolog.Logger
}

// NewExporter creates an Exporter writing the CSV to csvPath.
func NewExporter(csvPath string, logger zerolog.Logger) *Exporter {
	return &Exporter{
		csvPath: csvPath,
		logger:  logging.WithOperation(logger, "report"),
	}
}

// Export prints the tabular view to w and writes the CSV file. An empty
// record set is not an error: a notice is printed and the CSV keeps its
// header row.
func (e *Exporter) Export(w io.Writer, records []models.EnrichedRecord) error {
	if err := e.validate(records); err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No candidates found.")
	} else {
		printTable(w, records)
	}

	if err := e.writeCSV(records); err != nil {
		return apperrors.Wrapf(err, "writing %s", e.csvPath)
	}

	e.logger.Info().
		Int("records", len(records)).
		Str("path", e.csvPath).
		Msg("Report exported")
	return nil
}

// validate guards against an upstream schema break: every record must
// carry a ticker symbol. This failure is fatal by design.
func (e *Exporter) validate(records []models.EnrichedRecord) error {
	for _, rec := range records {
		if rec.Symbol == "" {
			return apperrors.Wrap(apperrors.ErrMissingColumn, "record without ticker symbol")
		}
	}
	return nil
}

func (e *Exporter) writeCSV(records []models.EnrichedRecord) error {
	rows := make([]*csvRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, &csvRow{
			Date:         formatDate(rec.ExDate),
			Ticker:       rec.Symbol,
			CompanyName:  rec.CompanyName,
			YieldPct:     rec.YieldPct,
			Volume:       rec.Volume,
			Close:        rec.Close,
			DividendRate: rec.DividendRate,
			RoseLast5:    rec.RoseLast5,
			AboveSMA50:   rec.AboveSMA50,
			ETF:          rec.IsETF,
			ADR:          rec.IsADR,
			Bond:         rec.IsBond,
		})
	}

	file, err := os.Create(e.csvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return gocsv.MarshalFile(&rows, file)
}

// printTable renders a fixed-width view with the ex-dividend date as the
// leftmost row key.
func printTable(w io.Writer, records []models.EnrichedRecord) {
	headers := []string{
		"Date", "Ticker", "Divid %", "Volume", "Close",
		"Divid Rate", "5_Days_pos", "MA50", "etf", "adr", "bond",
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			formatDate(rec.ExDate),
			rec.Symbol,
			rec.YieldPct.String(),
			strconv.FormatInt(rec.Volume, 10),
			strconv.FormatFloat(rec.Close, 'f', 2, 64),
			rec.DividendRate.String(),
			strconv.FormatBool(rec.RoseLast5),
			strconv.FormatBool(rec.AboveSMA50),
			strconv.FormatBool(rec.IsETF),
			strconv.FormatBool(rec.IsADR),
			strconv.FormatBool(rec.IsBond),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow(w, headers, widths)
	var sep []string
	for _, width := range widths {
		sep = append(sep, strings.Repeat("-", width))
	}
	printRow(w, sep, widths)
	for _, row := range rows {
		printRow(w, row, widths)
	}
}

func printRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
}

// formatDate renders an ex-dividend date; the zero value (an unparseable
// upstream date) renders empty.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
