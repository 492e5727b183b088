package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
)

const sampleCSV = `Sale Date,Sale ID,Item name,Total Paid w/ Payment Method
05/12/2024,ORDER001,Product1,100.50
05/13/2024,ORDER002,Product2,200.75
`

func TestDecodeCSV(t *testing.T) {
	table, err := Decode("sales.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(table.Headers) != 4 {
		t.Fatalf("headers = %v, want 4 columns", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
}

func TestDecodeCSVWithBOM(t *testing.T) {
	table, err := Decode("sales.csv", append([]byte{0xEF, 0xBB, 0xBF}, sampleCSV...))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if table.Headers[0] != "Sale Date" {
		t.Errorf("first header = %q, BOM not stripped", table.Headers[0])
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"sales.txt", "sales.xls", "sales", "sales.csv.gz"} {
		if _, err := Decode(name, []byte(sampleCSV)); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Decode(%q) = %v, want ErrUnsupportedFormat", name, err)
		}
	}
}

func TestDecodeXLSX(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"Sale Date", "Sale ID", "Item name", "Total Paid w/ Payment Method"},
		{"05/12/2024", "ORDER001", "Product1", "100.50"},
	})

	table, err := Decode("sales.xlsx", data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(table.Rows))
	}
	if table.Rows[0][1] != "ORDER001" {
		t.Errorf("order id cell = %q", table.Rows[0][1])
	}
}

func TestDecodeXLSXCorrupt(t *testing.T) {
	if _, err := Decode("sales.xlsx", []byte("not a zip archive")); err == nil {
		t.Fatal("expected error for corrupt xlsx payload")
	}
}

func TestMapSales(t *testing.T) {
	table, err := Decode("sales.csv", []byte(sampleCSV))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sales, err := MapSales(table)
	if err != nil {
		t.Fatalf("MapSales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("sales = %d, want 2", len(sales))
	}

	first := sales[0]
	if first.Date.ISO() != "2024-05-12" {
		t.Errorf("date = %q, want 2024-05-12", first.Date.ISO())
	}
	if first.OrderID != "ORDER001" || first.ProductID != "Product1" {
		t.Errorf("mapped fields = %+v", first)
	}
	if first.AmountSGD != 100.50 {
		t.Errorf("amount = %v, want 100.50", first.AmountSGD)
	}
}

func TestMapSalesExtraAndReorderedColumns(t *testing.T) {
	csv := `Item name,Channel,Total Paid w/ Payment Method,Sale Date,Sale ID
Product1,web,42.10,05/12/2024,ORDER001
`
	table, err := Decode("sales.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sales, err := MapSales(table)
	if err != nil {
		t.Fatalf("MapSales: %v", err)
	}
	if sales[0].OrderID != "ORDER001" || sales[0].AmountSGD != 42.10 {
		t.Errorf("named-column lookup failed: %+v", sales[0])
	}
}

func TestMapSalesMissingColumn(t *testing.T) {
	csv := "Sale Date,Sale ID,Item name\n05/12/2024,ORDER001,Product1\n"
	table, err := Decode("sales.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	_, err = MapSales(table)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("MapSales = %v, want ErrMissingColumn", err)
	}
	if !strings.Contains(err.Error(), ColumnAmountSGD) {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestMapSalesBadDate(t *testing.T) {
	csv := `Sale Date,Sale ID,Item name,Total Paid w/ Payment Method
2024-05-12,ORDER001,Product1,100.50
`
	table, _ := Decode("sales.csv", []byte(csv))
	if _, err := MapSales(table); !errors.Is(err, core.ErrInvalidDate) {
		t.Fatalf("MapSales = %v, want ErrInvalidDate", err)
	}
}

func TestMapSalesBadAmount(t *testing.T) {
	csv := `Sale Date,Sale ID,Item name,Total Paid w/ Payment Method
05/12/2024,ORDER001,Product1,ten dollars
`
	table, _ := Decode("sales.csv", []byte(csv))
	if _, err := MapSales(table); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("MapSales = %v, want ErrInvalidAmount", err)
	}
}

func TestMapSalesHeaderOnly(t *testing.T) {
	csv := "Sale Date,Sale ID,Item name,Total Paid w/ Payment Method\n"
	table, err := Decode("sales.csv", []byte(csv))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	sales, err := MapSales(table)
	if err != nil {
		t.Fatalf("MapSales: %v", err)
	}
	if len(sales) != 0 {
		t.Errorf("sales = %d, want 0", len(sales))
	}
}

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	return buf.Bytes()
}
