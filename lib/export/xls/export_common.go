package xlsexport

import "github.com/xuri/excelize/v2"

const fontFamily = "Calibri"

func writeCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

// writeLink ячейка с внешней ссылкой, текст ссылки - display
func writeLink(f *excelize.File, sheet string, col, row int, link, display string, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err = f.SetCellValue(sheet, cell, display); err != nil {
		return err
	}
	if err = f.SetCellHyperLink(sheet, cell, link, "External"); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

type column struct {
	title string
	width float64
}

func writeHeader(f *excelize.File, sheet string, row int, columns []column) (int, error) {
	row++
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
		Font: &excelize.Font{
			Bold:   true,
			Family: fontFamily,
			Size:   11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"DDEBF7"},
		},
	})
	if err != nil {
		return row, err
	}
	for idx, item := range columns {
		colName, err := excelize.ColumnNumberToName(idx + 1)
		if err != nil {
			return row, err
		}
		if err = f.SetColWidth(sheet, colName, colName, item.width); err != nil {
			return row, err
		}
		if err = writeCell(f, sheet, idx+1, row, item.title); err != nil {
			return row, err
		}
	}
	cellFirst, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return row, err
	}
	cellLast, err := excelize.CoordinatesToCellName(len(columns), row)
	if err != nil {
		return row, err
	}
	if err = f.SetCellStyle(sheet, cellFirst, cellLast, style); err != nil {
		return row, err
	}
	// шапка остается видимой при прокрутке
	err = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: "A" + itoa(row+1),
		ActivePane:  "bottomLeft",
	})
	return row, err
}

func dataStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
		Font: &excelize.Font{
			Family: fontFamily,
			Size:   11,
		},
	})
}

func linkStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family:    fontFamily,
			Size:      11,
			Color:     "1265BE",
			Underline: "single",
		},
	})
}

func applyStyle(f *excelize.File, sheet string, style, colFrom, rowFrom, colTo, rowTo int) error {
	cellFirst, err := excelize.CoordinatesToCellName(colFrom, rowFrom)
	if err != nil {
		return err
	}
	cellLast, err := excelize.CoordinatesToCellName(colTo, rowTo)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cellFirst, cellLast, style)
}
