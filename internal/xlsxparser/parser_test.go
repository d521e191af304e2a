package xlsxparser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/packing-slip-generator/internal/testutil"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

func TestReadSheet_HeaderAndRowNumbers(t *testing.T) {
	data := testutil.Workbook(t, "Sheet1",
		testutil.OrderHeaders,
		testutil.OrderRow("2024-01-15", 1001, "Jane Doe", 100, 10, "Widget A", 3),
		[]interface{}{},
		testutil.OrderRow("2024-01-15", 1001, "Jane Doe", 200, 20, "Widget B", 5),
	)

	table, err := ReadSheet("orders.xlsx", data, "Sheet1")
	require.NoError(t, err)

	assert.Equal(t, "orders.xlsx", table.Source)
	assert.Equal(t, "Sheet1", table.Sheet)
	require.Len(t, table.Headers, len(testutil.OrderHeaders))
	assert.Equal(t, "Date of Order", table.Headers[0])
	assert.Equal(t, "Quantity", table.Headers[11])

	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, 4, table.Rows[1].Number)
	assert.Equal(t, "1001", table.Rows[0].Cell(1))
	assert.Equal(t, "Widget B", table.Rows[1].Cell(10))
	assert.Equal(t, "", table.Rows[1].Cell(40))
}

func TestReadSheet_MissingSheet(t *testing.T) {
	data := testutil.Workbook(t, "Orders", testutil.OrderHeaders)

	_, err := ReadSheet("orders.xlsx", data, "Sheet1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSchema))

	var schemaErr *types.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Reason, "Orders")
}

func TestReadSheet_EmptySheet(t *testing.T) {
	data := testutil.Workbook(t, "Sheet1")

	_, err := ReadSheet("orders.xlsx", data, "Sheet1")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchema)
}

func TestReadSheet_NotAWorkbook(t *testing.T) {
	_, err := ReadSheet("orders.xlsx", []byte("definitely not a zip"), "Sheet1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, types.ErrSchema))
	assert.Contains(t, err.Error(), "failed to open workbook")
}

func TestBuildTable_BlankFirstRowIsNotSkipped(t *testing.T) {
	// Row 1 is always the header row, even when the headers sit on row 2.
	rows := [][]string{
		{"", "  "},
		{"Date of Order", "Sales Order Number"},
		{"2024-01-15", "1001"},
	}

	_, err := buildTable("orders.xlsx", "Sheet1", rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchema)

	var schemaErr *types.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "header row is empty", schemaErr.Reason)
}
