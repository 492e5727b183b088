package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
)

// Required source column headers. Columns are located by name, not position,
// so files may carry extra columns or reorder them freely.
const (
	ColumnSaleDate  = "Sale Date"
	ColumnOrderID   = "Sale ID"
	ColumnProductID = "Item name"
	ColumnAmountSGD = "Total Paid w/ Payment Method"
)

// columnIndexes resolves the position of each required column in the header
// row. Header matching trims surrounding whitespace.
type columnIndexes struct {
	date, orderID, productID, amount int
}

func resolveColumns(headers []string) (columnIndexes, error) {
	idx := columnIndexes{date: -1, orderID: -1, productID: -1, amount: -1}
	for i, h := range headers {
		switch strings.TrimSpace(h) {
		case ColumnSaleDate:
			idx.date = i
		case ColumnOrderID:
			idx.orderID = i
		case ColumnProductID:
			idx.productID = i
		case ColumnAmountSGD:
			idx.amount = i
		}
	}

	var missing []string
	if idx.date == -1 {
		missing = append(missing, ColumnSaleDate)
	}
	if idx.orderID == -1 {
		missing = append(missing, ColumnOrderID)
	}
	if idx.productID == -1 {
		missing = append(missing, ColumnProductID)
	}
	if idx.amount == -1 {
		missing = append(missing, ColumnAmountSGD)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// MapSales converts a decoded table into Sale records. The whole batch fails
// on the first row with an unparseable date or amount.
func MapSales(t Table) ([]core.Sale, error) {
	idx, err := resolveColumns(t.Headers)
	if err != nil {
		return nil, err
	}

	sales := make([]core.Sale, 0, len(t.Rows))
	for i, row := range t.Rows {
		date, err := core.ParseSourceDate(cell(row, idx.date))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		amountStr := strings.TrimSpace(cell(row, idx.amount))
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w: parse %q: %v", i+1, core.ErrInvalidAmount, amountStr, err)
		}

		sales = append(sales, core.Sale{
			Date:      date,
			OrderID:   strings.TrimSpace(cell(row, idx.orderID)),
			ProductID: strings.TrimSpace(cell(row, idx.productID)),
			AmountSGD: amount,
		})
	}
	return sales, nil
}

// cell returns the column value, tolerating rows shorter than the header.
// XLSX readers drop trailing empty cells.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
