// Package export renders ledger statements into downloadable workbooks
// for owners and accountants.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/jmcortes/habita/internal/ledger"
)

const (
	summarySheet = "Summary"
	eventsSheet  = "Events"
)

// Service builds statement workbooks from the report engine's output.
type Service struct {
	ledger *ledger.Service
}

func NewService(ledgerSvc *ledger.Service) *Service {
	return &Service{ledger: ledgerSvc}
}

// BuildWorkbook produces an XLSX statement for the property and window:
// a summary sheet with the aggregate totals and an events sheet with every
// movement and its running balance.
func (s *Service) BuildWorkbook(ctx context.Context, propertyID uuid.UUID, window ledger.Window) ([]byte, error) {
	stmt, err := s.ledger.BuildForProperty(ctx, propertyID, window)
	if err != nil {
		return nil, fmt.Errorf("building statement: %w", err)
	}

	return renderWorkbook(propertyID, window, stmt)
}

func renderWorkbook(propertyID uuid.UUID, window ledger.Window, stmt *ledger.Statement) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)

	if _, err := f.NewSheet(eventsSheet); err != nil {
		return nil, fmt.Errorf("creating events sheet: %w", err)
	}

	setCell(f, summarySheet, "A1", "Property statement")
	setCell(f, summarySheet, "A3", "Property")
	setCell(f, summarySheet, "B3", propertyID.String())
	setCell(f, summarySheet, "A4", "From")
	setCell(f, summarySheet, "B4", window.Start.Format(time.DateOnly))
	setCell(f, summarySheet, "A5", "To")
	setCell(f, summarySheet, "B5", window.End.Format(time.DateOnly))
	setCell(f, summarySheet, "A7", "Total income")
	setCell(f, summarySheet, "B7", stmt.TotalIncome.String())
	setCell(f, summarySheet, "A8", "Total expenses")
	setCell(f, summarySheet, "B8", stmt.TotalExpenses.String())
	setCell(f, summarySheet, "A9", "Net balance")
	setCell(f, summarySheet, "B9", stmt.NetBalance.String())

	headers := []string{"Date", "Kind", "Category", "Description", "Amount", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		setCell(f, eventsSheet, cell, h)
	}

	for i, ev := range stmt.Events {
		row := i + 2

		setCell(f, eventsSheet, fmt.Sprintf("A%d", row), ev.Date.Format(time.DateOnly))
		setCell(f, eventsSheet, fmt.Sprintf("B%d", row), string(ev.Kind))
		setCell(f, eventsSheet, fmt.Sprintf("C%d", row), ev.Category)
		setCell(f, eventsSheet, fmt.Sprintf("D%d", row), ev.Description)
		setCell(f, eventsSheet, fmt.Sprintf("E%d", row), ev.Amount.String())
		setCell(f, eventsSheet, fmt.Sprintf("F%d", row), ev.Balance.String())
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet, cell string, value any) {
	_ = f.SetCellValue(sheet, cell, value)
}
