package csvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/packing-slip-generator/internal/config"
	"github.com/ginjaninja78/packing-slip-generator/internal/types"
)

func TestParse_RowNumbersFollowSourceLines(t *testing.T) {
	data := "\xef\xbb\xbfDate of Order,Sales Order Number,Item Description,Quantity\n" +
		"2024-01-15,1001,Widget A,3\n" +
		"\n" +
		",,,\n" +
		"2024-01-15,1001,\"Widget, B\",5\n"

	table, err := Parse("orders.csv", []byte(data), config.CSVSettings{Delimiter: ","})
	require.NoError(t, err)

	assert.Equal(t, []string{"Date of Order", "Sales Order Number", "Item Description", "Quantity"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, 5, table.Rows[1].Number)
	assert.Equal(t, "Widget, B", table.Rows[1].Cell(2))
}

func TestParse_Delimiters(t *testing.T) {
	cases := map[string]string{
		"tab":       "a\tb\n1\t2\n",
		"pipe":      "a|b\n1|2\n",
		"semicolon": "a;b\n1;2\n",
	}
	for delimiter, data := range cases {
		t.Run(delimiter, func(t *testing.T) {
			table, err := Parse("x.csv", []byte(data), config.CSVSettings{Delimiter: delimiter})
			require.NoError(t, err)
			assert.Equal(t, []string{"a", "b"}, table.Headers)
			require.Len(t, table.Rows, 1)
			assert.Equal(t, "2", table.Rows[0].Cell(1))
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("x.csv", nil, config.CSVSettings{})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSchema)
}
