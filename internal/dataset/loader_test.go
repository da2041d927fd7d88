package dataset_test

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"inventory-chart-backend/internal/dataset"
	"inventory-chart-backend/internal/model"
)

const inventoryCSV = `Product Name,Region,Units Sold,Restock Date
Widget,East,100,2024-01-05
Gadget,West,50,2024-01-06
Widget,East,30,
Gizmo,,"1,200",2024-02-01
`

func TestLoad_CSV(t *testing.T) {
	ds, err := dataset.Load("inventory.csv", strings.NewReader(inventoryCSV))
	require.NoError(t, err)

	assert.Equal(t, "inventory", ds.Name)
	assert.Equal(t, 4, ds.NumRows())
	assert.Equal(t, []string{"Product_Name", "Region", "Units_Sold", "Restock_Date"}, ds.ColumnNames())

	units, ok := ds.Column("Units_Sold")
	require.True(t, ok)
	assert.Equal(t, model.KindNumeric, units.Kind)
	assert.Equal(t, []float64{100, 50, 30, 1200}, units.Numbers)

	region, _ := ds.Column("Region")
	assert.Equal(t, model.KindCategorical, region.Kind)
	assert.True(t, region.IsMissing(3))

	restock, _ := ds.Column("Restock_Date")
	assert.Equal(t, model.KindDatetime, restock.Kind)
	assert.True(t, restock.IsMissing(2))
	assert.True(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC).Equal(restock.Times[3]))
}

func TestLoad_CSVWithByteOrderMark(t *testing.T) {
	ds, err := dataset.Load("stock.csv", strings.NewReader("\ufeffSKU,Qty\nA-1,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU", "Qty"}, ds.ColumnNames())
}

func TestLoad_TSVWithRaggedRows(t *testing.T) {
	data := "sku\tqty\tnote\nA1\t5\nB2\t7\tfragile\textra\n"
	ds, err := dataset.Load("stock.TSV", strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 2, ds.NumRows())
	qty, _ := ds.Column("qty")
	assert.Equal(t, model.KindNumeric, qty.Kind)

	note, _ := ds.Column("note")
	assert.Equal(t, []string{"", "fragile"}, note.Raw)
}

func TestLoad_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"region", "sales"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"East", 100}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"West", 50}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ds, err := dataset.Load("sales.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "sales"}, ds.ColumnNames())
	sales, _ := ds.Column("sales")
	assert.Equal(t, model.KindNumeric, sales.Kind)
	assert.Equal(t, []float64{100, 50}, sales.Numbers)
}

func TestLoad_Errors(t *testing.T) {
	_, err := dataset.Load("notes.txt", strings.NewReader("a,b\n1,2\n"))
	assert.ErrorIs(t, err, dataset.ErrUnsupportedFormat)

	_, err = dataset.Load("empty.csv", strings.NewReader("\n\n"))
	assert.ErrorIs(t, err, dataset.ErrEmptyFile)
}

func TestNormalizeColumnNames(t *testing.T) {
	got := dataset.NormalizeColumnNames([]string{" unit  price ", "sku", "", "sku", "sku", "sku_2"})
	assert.Equal(t, []string{"unit_price", "sku", "column_3", "sku_2", "sku_3", "sku_2_2"}, got)
}

func TestFromRecords_KindInference(t *testing.T) {
	ds := dataset.FromRecords("t", []string{"empty", "mixed", "money", "when"}, [][]string{
		{"", "12", "1,250.50", "2024-03-01 10:00"},
		{"", "n/a", "-3", "2024-03-02 11:30"},
	})

	empty, _ := ds.Column("empty")
	assert.Equal(t, model.KindCategorical, empty.Kind)

	mixed, _ := ds.Column("mixed")
	assert.Equal(t, model.KindCategorical, mixed.Kind)

	money, _ := ds.Column("money")
	assert.Equal(t, model.KindNumeric, money.Kind)
	assert.Equal(t, []float64{1250.5, -3}, money.Numbers)

	when, _ := ds.Column("when")
	assert.Equal(t, model.KindDatetime, when.Kind)
}

func TestParseNumber(t *testing.T) {
	v, ok := dataset.ParseNumber("1,234,567")
	assert.True(t, ok)
	assert.Equal(t, 1234567.0, v)

	_, ok = dataset.ParseNumber("1,5")
	assert.False(t, ok)

	_, ok = dataset.ParseNumber("NaN")
	assert.False(t, ok)

	v, ok = dataset.ParseNumber("2.5e3")
	assert.True(t, ok)
	assert.False(t, math.IsNaN(v))
}
