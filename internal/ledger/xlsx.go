package ledger

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"
)

const statementSheet = "Statement"

// XLSXContentType is the media type of spreadsheet statements.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatementFileName names a spreadsheet statement for an organization.
func StatementFileName(org Organization, now time.Time) string {
	return fmt.Sprintf("statement_%s_%s.xlsx", org.ID, now.Format("20060102"))
}

// WriteStatementXLSX renders the statement as a spreadsheet with a running
// balance column.
func WriteStatementXLSX(w io.Writer, entry Entry, currency string, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return fmt.Errorf("ledger: xlsx sheet: %w", err)
	}

	set := func(cell string, value any) error {
		return f.SetCellValue(statementSheet, cell, value)
	}

	if err := set("A1", entry.Organization.Name); err != nil {
		return err
	}
	balance := Balance(entry)
	if err := set("A2", fmt.Sprintf("%s %s%.2f", BalanceStatus(balance), currency, math.Abs(balance))); err != nil {
		return err
	}

	headers := []string{"Date", "Type", "Amount", "Remark", "Balance"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		if err != nil {
			return err
		}
		if err := set(cell, h); err != nil {
			return err
		}
	}

	var running float64
	row := 5
	for _, d := range sortedByDate(entry.Transactions, loc) {
		t := d.txn
		if t.Type == TransactionCredit {
			running -= t.Amount
		} else {
			running += t.Amount
		}
		date := cellDate(d)
		values := []any{date, string(t.Type), t.Amount, t.Remark, running}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := set(cell, v); err != nil {
				return err
			}
		}
		row++
	}

	_ = f.SetColWidth(statementSheet, "A", "A", 12)
	_ = f.SetColWidth(statementSheet, "B", "B", 10)
	_ = f.SetColWidth(statementSheet, "C", "C", 14)
	_ = f.SetColWidth(statementSheet, "D", "D", 30)
	_ = f.SetColWidth(statementSheet, "E", "E", 14)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("ledger: xlsx write: %w", err)
	}
	return nil
}

func cellDate(d datedTransaction) string {
	if !d.parsed {
		return d.txn.Date
	}
	return d.at.Format("2006-01-02")
}
