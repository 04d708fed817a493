// Package export renders reseller settlement statements as downloadable
// XLSX and PDF documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/wakala-ledger/api/internal/ledger"
)

// BuildStatementXLSX renders a settlement as a two-sheet workbook: a
// summary sheet plus one row per operation.
func BuildStatementXLSX(in ledger.StatementInput, st ledger.Statement, distributorName string) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	opsSheet := "operations"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(opsSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Sales Payment Report")
	_ = f.SetCellValue(summarySheet, "A3", "Distributor")
	_ = f.SetCellValue(summarySheet, "B3", distributorName)
	_ = f.SetCellValue(summarySheet, "A4", "Distributor ID")
	_ = f.SetCellValue(summarySheet, "B4", st.DistributorID)
	_ = f.SetCellValue(summarySheet, "A5", "Date")
	_ = f.SetCellValue(summarySheet, "B5", st.Date)
	_ = f.SetCellValue(summarySheet, "A6", "Total Boxes")
	_ = f.SetCellValue(summarySheet, "B6", st.TotalBoxes)
	_ = f.SetCellValue(summarySheet, "A7", "Current Boxes")
	_ = f.SetCellValue(summarySheet, "B7", in.CurrentBoxes)
	_ = f.SetCellValue(summarySheet, "A8", "Box Deposit")
	_ = f.SetCellValue(summarySheet, "B8", st.BoxDeposit.String())
	_ = f.SetCellValue(summarySheet, "A9", "Total Sales Result")
	_ = f.SetCellValue(summarySheet, "B9", st.TotalSalesResult.String())
	_ = f.SetCellValue(summarySheet, "A10", "Discount")
	_ = f.SetCellValue(summarySheet, "B10", in.Discount.String())
	_ = f.SetCellValue(summarySheet, "A11", "Final Result")
	_ = f.SetCellValue(summarySheet, "B11", st.FinalResult.String())
	_ = f.SetCellValue(summarySheet, "A12", "Paid Amount")
	_ = f.SetCellValue(summarySheet, "B12", in.PaidAmount.String())
	_ = f.SetCellValue(summarySheet, "A13", "Remaining For Agency")
	_ = f.SetCellValue(summarySheet, "B13", st.RemainingForAgency.String())
	_ = f.SetCellValue(summarySheet, "A14", "Remaining For Reseller")
	_ = f.SetCellValue(summarySheet, "B14", st.RemainingForReseller.String())
	_ = f.SetCellValue(summarySheet, "A15", "Remaining Boxes")
	_ = f.SetCellValue(summarySheet, "B15", st.RemainingBoxes)

	_ = f.SetCellValue(opsSheet, "A1", "Customer")
	_ = f.SetCellValue(opsSheet, "B1", "Category")
	_ = f.SetCellValue(opsSheet, "C1", "Boxes")
	_ = f.SetCellValue(opsSheet, "D1", "Box Type")
	_ = f.SetCellValue(opsSheet, "E1", "Weight")
	_ = f.SetCellValue(opsSheet, "F1", "Price")
	_ = f.SetCellValue(opsSheet, "G1", "Amount")
	for i, op := range in.Operations {
		row := i + 2
		_ = f.SetCellValue(opsSheet, fmt.Sprintf("A%d", row), op.CustomerID)
		_ = f.SetCellValue(opsSheet, fmt.Sprintf("B%d", row), op.Category)
		_ = f.SetCellValue(opsSheet, fmt.Sprintf("C%d", row), op.NumBoxes)
		_ = f.SetCellValue(opsSheet, fmt.Sprintf("D%d", row), op.BoxType)
		_ = f.SetCellValue(opsSheet, fmt.Sprintf("E%d", row), op.Weight.String())
		_ = f.SetCellValue(opsSheet, fmt.Sprintf("F%d", row), op.Price.String())
		_ = f.SetCellValue(opsSheet, fmt.Sprintf("G%d", row), op.Price.Mul(op.Weight).String())
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildStatementPDF renders a settlement as a single-page PDF.
func BuildStatementPDF(in ledger.StatementInput, st ledger.Statement, distributorName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Sales Payment Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Distributor: %s (%s)", distributorName, st.DistributorID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", st.Date))
	pdf.Ln(8)

	pdf.Cell(0, 6, fmt.Sprintf("Total Boxes: %d", st.TotalBoxes))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Current Boxes: %d", in.CurrentBoxes))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Box Deposit: %s", st.BoxDeposit.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Sales Result: %s", st.TotalSalesResult.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Discount: %s", in.Discount.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Final Result: %s", st.FinalResult.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Paid Amount: %s", in.PaidAmount.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Remaining For Agency: %s", st.RemainingForAgency.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Remaining For Reseller: %s", st.RemainingForReseller.String()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Remaining Boxes: %d", st.RemainingBoxes))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(35, 6, "Customer", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 6, "Category", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 6, "Boxes", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Weight", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, op := range in.Operations {
		pdf.CellFormat(35, 6, op.CustomerID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, op.Category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", op.NumBoxes), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, op.Weight.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, op.Price.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, op.Price.Mul(op.Weight).String(), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
