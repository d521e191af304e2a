package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/packing-slip-generator/internal/testutil"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
	"github.com/ginjaninja78/packing-slip-generator/internal/xlsxparser"
)

var headers = []string{
	"Date of Order", "Sales Order Number", "Ship_Addressee", "Ship_Address Line 1",
	"Ship_City", "Ship_State", "Ship_Postcode", "Phone", "Customer No#", "Item_Code",
	"Item Description", "Quantity",
}

func row(n int, cells ...string) types.Row {
	return types.Row{Number: n, Cells: cells}
}

func full(n int, order, desc, qty string) types.Row {
	return row(n, "2024-01-15", order, "Jane Doe", "12 Example St", "Sydney", "NSW", "2000",
		"412345678", "100", "10", desc, qty)
}

func TestLineItems_FiltersOnDescriptionAndQuantity(t *testing.T) {
	table := &types.Table{
		Sheet:   "Sheet1",
		Headers: headers,
		Rows: []types.Row{
			full(2, "1001", "Widget A", "3"),
			full(3, "1001", "", "5"),
			full(4, "1001", "Widget C", ""),
			// Totals rows often have nothing but a quantity.
			row(5, "", "", "", "", "", "", "", "", "", "", "", "8"),
			full(6, "1002", "Widget D", "1"),
		},
	}

	items, stats, err := LineItems(table)
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].SourceRow)
	assert.Equal(t, 6, items[1].SourceRow)
	assert.Equal(t, Stats{RowsRead: 5, RowsQualified: 2}, stats)
}

func TestLineItems_CopiesAndCoercesFields(t *testing.T) {
	table := &types.Table{
		Headers: headers,
		Rows: []types.Row{
			row(2, "45306", "1001.0", "Jane Doe", "12 Example St", "Sydney", "NSW", "0800",
				"61412345678", "100", "1.0E+1", "Widget A", "3"),
		},
	}

	items, _, err := LineItems(table)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, types.LineItem{
		SourceRow:      2,
		OrderNumber:    1001,
		OrderDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Addressee:      "Jane Doe",
		AddressLine1:   "12 Example St",
		City:           "Sydney",
		State:          "NSW",
		Postcode:       800,
		Phone:          61412345678,
		CustomerNumber: 100,
		ItemCode:       10,
		Description:    "Widget A",
		Quantity:       3,
	}, items[0])
}

func TestLineItems_HeaderMatchingIgnoresCaseAndSpace(t *testing.T) {
	loose := make([]string, len(headers))
	for i, h := range headers {
		loose[i] = "  " + h + " "
	}
	loose[10] = "ITEM DESCRIPTION"

	table := &types.Table{Headers: loose, Rows: []types.Row{full(2, "1001", "Widget A", "3")}}

	items, _, err := LineItems(table)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestLineItems_MissingColumnsIsSchemaError(t *testing.T) {
	table := &types.Table{Sheet: "Sheet1", Headers: headers[:10]}

	_, _, err := LineItems(table)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchema)

	var schemaErr *types.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"Item Description", "Quantity"}, schemaErr.Missing)
}

func TestLineItems_NonNumericIsCoercionError(t *testing.T) {
	table := &types.Table{
		Headers: headers,
		Rows: []types.Row{
			full(2, "1001", "Widget A", "3"),
			full(3, "1001", "Widget B", "three"),
		},
	}

	items, _, err := LineItems(table)
	require.Error(t, err)
	assert.Nil(t, items)
	assert.ErrorIs(t, err, types.ErrTypeCoercion)

	var fe *types.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 3, fe.Row)
	assert.Equal(t, "Quantity", fe.Column)
	assert.Equal(t, "three", fe.Value)
}

func TestLineItems_BadDateIsCoercionError(t *testing.T) {
	r := full(2, "1001", "Widget A", "3")
	r.Cells[0] = "next tuesday"
	table := &types.Table{Headers: headers, Rows: []types.Row{r}}

	_, _, err := LineItems(table)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrTypeCoercion)
}

func TestLineItems_MissingRequiredField(t *testing.T) {
	r := full(2, "1001", "Widget A", "3")
	r.Cells[2] = ""
	table := &types.Table{Headers: headers, Rows: []types.Row{r}}

	_, _, err := LineItems(table)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMissingField)
}

func TestLineItems_EmptyIsNotAnError(t *testing.T) {
	table := &types.Table{Headers: headers, Rows: []types.Row{full(2, "1001", "", "")}}

	items, stats, err := LineItems(table)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, stats.RowsQualified)
}

func TestLineItems_FromWorkbookWithDateCell(t *testing.T) {
	data := testutil.Workbook(t, "Sheet1",
		testutil.OrderHeaders,
		testutil.OrderRow(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), 1001, "Jane Doe", 100, 10, "Widget A", 3),
	)

	table, err := xlsxparser.ReadSheet("orders.xlsx", data, "Sheet1")
	require.NoError(t, err)

	items, _, err := LineItems(table)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "15/01/2024", items[0].OrderDate.Format("02/01/2006"))
	assert.Equal(t, int64(412345678), items[0].Phone)
}

func TestParseInt(t *testing.T) {
	cases := map[string]int64{
		"3":        3,
		" 42 ":     42,
		"1001.0":   1001,
		"3.9":      3,
		"1.001E+3": 1001,
		"-7":       -7,
	}
	for in, want := range cases {
		got, err := ParseInt(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "abc", "12a", "1,000", "99999999999999999999999"} {
		_, err := ParseInt(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-01-15", "2024-01-15 00:00:00", "15/01/2024", "45306"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}
}
