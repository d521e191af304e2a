// Package testutil builds in-memory order workbooks for tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"
)

// OrderHeaders is the header row of a well-formed order worksheet.
var OrderHeaders = []interface{}{
	"Date of Order",
	"Sales Order Number",
	"Ship_Addressee",
	"Ship_Address Line 1",
	"Ship_City",
	"Ship_State",
	"Ship_Postcode",
	"Phone",
	"Customer No#",
	"Item_Code",
	"Item Description",
	"Quantity",
}

// OrderRow returns a data row in OrderHeaders order for the given item.
func OrderRow(date interface{}, order int, addressee string, customer, item int, description string, qty interface{}) []interface{} {
	return []interface{}{
		date,
		order,
		addressee,
		"12 Example St",
		"Sydney",
		"NSW",
		2000,
		412345678,
		customer,
		item,
		description,
		qty,
	}
}

// Workbook writes rows (header first) into sheet and returns the .xlsx bytes.
func Workbook(t testing.TB, sheet string, rows ...[]interface{}) []byte {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	if sheet != "Sheet1" {
		if _, err := wb.NewSheet(sheet); err != nil {
			t.Fatalf("NewSheet %s failed: %v", sheet, err)
		}
		if err := wb.DeleteSheet("Sheet1"); err != nil {
			t.Fatalf("DeleteSheet failed: %v", err)
		}
	}

	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := wb.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			t.Fatalf("SetSheetRow %s failed: %v", cell, err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer failed: %v", err)
	}
	return buf.Bytes()
}
