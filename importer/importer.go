/*
Package importer validates tab book CSV batches.

PURPOSE:
  Converts externally supplied tabular text (header + rows, comma
  separated) into a validated batch of tab book transactions, or
  rejects the whole batch. The batch then goes to the engine as one
  BulkAddTransactions action.

ALL-OR-NOTHING:
  If ANY row is invalid, zero transactions are produced and every
  row's error is reported together, so the caller can fix the whole
  file in one pass.

FORMAT:
  Required columns (any order, case-insensitive):
    date, description, amount, supplier_name
  Rows are matched to columns by header position. Fields are split on
  bare commas; quoted fields are not supported, matching the published
  template.

ROW RULES:
  - all four fields non-empty
  - date is exactly YYYY-MM-DD
  - amount parses as a finite decimal
  - supplier_name matches an existing supplier, case-insensitively;
    an unknown supplier is a row error, never an auto-create

SEE ALSO:
  - template.go: The downloadable reference CSV
  - farm/engine.go: BulkAddTransactions semantics
*/
package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/greenacre/farmbook/farm"
)

var requiredColumns = []string{"date", "description", "amount", "supplier_name"}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Result is the outcome of validating one CSV batch. Exactly one of
// Transactions and Errors is non-empty.
type Result struct {
	Transactions []farm.TabBookTransaction
	Errors       []string
}

// OK reports whether the batch validated cleanly.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Parse validates text against the current supplier list. The
// returned transactions carry generated import ids and resolved
// supplier ids, ready for BulkAddTransactions.
func Parse(text string, suppliers []farm.Supplier) Result {
	lines := splitLines(text)
	if len(lines) < 2 {
		return Result{Errors: []string{"CSV file is empty or contains only a header."}}
	}

	columns, err := parseHeader(lines[0])
	if err != nil {
		return Result{Errors: []string{err.Error()}}
	}

	supplierIDs := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		supplierIDs[strings.ToLower(s.Name)] = s.ID
	}

	var (
		errs  []string
		batch []farm.TabBookTransaction
		now   = time.Now().UnixMilli()
	)

	for i, line := range lines[1:] {
		rowNum := i + 2 // 1-based, counting the header line

		values := strings.Split(line, ",")
		field := func(col string) string {
			idx := columns[col]
			if idx >= len(values) {
				return ""
			}
			return strings.TrimSpace(values[idx])
		}

		date := field("date")
		description := field("description")
		amountStr := field("amount")
		supplierName := field("supplier_name")

		if date == "" || description == "" || amountStr == "" || supplierName == "" {
			errs = append(errs, fmt.Sprintf("Row %d: Contains missing values.", rowNum))
			continue
		}

		rowOK := true

		if !datePattern.MatchString(date) {
			errs = append(errs, fmt.Sprintf("Row %d: Invalid date format for %q. Use YYYY-MM-DD.", rowNum, date))
			rowOK = false
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Row %d: Amount %q is not a valid number.", rowNum, amountStr))
			rowOK = false
		}

		supplierID, found := supplierIDs[strings.ToLower(supplierName)]
		if !found {
			errs = append(errs, fmt.Sprintf("Row %d: Supplier %q not found. Please add them first or check for typos.", rowNum, supplierName))
			rowOK = false
		}

		if rowOK {
			batch = append(batch, farm.TabBookTransaction{
				ID:          fmt.Sprintf("imp_%d_%d", now, rowNum-1),
				SupplierID:  supplierID,
				Date:        date,
				Description: description,
				Amount:      amount,
			})
		}
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Transactions: batch}
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseHeader maps each required column name to its position. Order
// does not matter; missing columns fail the batch.
func parseHeader(header string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, name := range strings.Split(header, ",") {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("Invalid CSV header. Must contain: %s", strings.Join(requiredColumns, ", "))
		}
	}
	return columns, nil
}
