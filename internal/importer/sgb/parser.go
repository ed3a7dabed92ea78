package sgb

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/jmcortes/habita/internal/encoding"
	"github.com/jmcortes/habita/internal/payment"
)

type Parser struct{}

// Parse reads an SGB CSV export and returns its credit movements. Debits
// are dropped: only incoming money can become a tenant payment.
func (p *Parser) Parse(r io.Reader) ([]payment.BankMovement, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching SGB format found: expected columns for relevé or virements")
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header matching a known profile. Bank
// exports often carry preamble lines before the header, so every row is a
// candidate.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts credit movements from data rows using the matched
// profile. headerRowNum is the 0-based index of the header in the file,
// used for error messages.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]payment.BankMovement, error) {
	dateIdx := cols[p.DateCol]
	refIdx := cols[p.RefCol]

	var movements []payment.BankMovement

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := parseDate(row, dateIdx)
		if !ok {
			// Footer/summary rows have no date; skip them.
			continue
		}

		ref := cellValue(row, refIdx)
		if ref == "" {
			return nil, fmt.Errorf("row %d: missing reference", rowNum)
		}

		amount, ok := parseCredit(p, cols, row)
		if !ok {
			continue
		}

		movements = append(movements, payment.BankMovement{
			Date:      date,
			Amount:    amount,
			Reference: ref,
		})
	}

	return movements, nil
}

func parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// parseCredit extracts the credited amount from a row; debit rows and
// zero rows report ok=false.
func parseCredit(p *Profile, cols colIndex, row []string) (decimal.Decimal, bool) {
	var s string

	switch p.AmountMode {
	case amountSingle:
		s = cellValue(row, cols[p.AmountCol])
	case amountSplit:
		s = cellValue(row, cols[p.CreditCol])
	}

	if s == "" {
		return decimal.Decimal{}, false
	}

	amount, err := parseEuropeanAmount(s)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, false
	}

	return amount, true
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
