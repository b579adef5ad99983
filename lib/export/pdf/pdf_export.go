package pdfexport

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bskqd/sd-solutions-test-task/models"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
)

const (
	utf8Font      = "DejaVu"
	utf8FontFile  = "DejaVuSans.ttf"
	utf8BoldFile  = "DejaVuSans-Bold.ttf"
	builtinFont   = "Helvetica"
	lineHeight    = 6.0
	sectionMargin = 4.0
)

type Provider interface {
	// CandidateReport отчет по завершенной сессии интервью
	CandidateReport(info models.CandidateInfo, sessionTime time.Time) ([]byte, error)
}

type impl struct {
	fontDir string
}

// NewHandler fontDir каталог с DejaVuSans.ttf и DejaVuSans-Bold.ttf.
// Без него используется встроенный шрифт, символы вне cp1252 заменяются.
func NewHandler(fontDir string) Provider {
	return impl{fontDir: fontDir}
}

func (i impl) CandidateReport(info models.CandidateInfo, sessionTime time.Time) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("CandidateReport panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	family, tr := i.setupFont(pdf)
	if pdf.Error() != nil {
		return nil, errors.Wrap(pdf.Error(), "ошибка загрузки шрифта")
	}
	pdf.SetTitle(tr("Interview report: "+info.FirstName+" "+info.SecondName), false)
	pdf.AddPage()

	pdf.SetFont(family, "B", 16)
	pdf.MultiCell(0, 9, tr(fmt.Sprintf("%s %s", info.FirstName, info.SecondName)), "", "L", false)
	pdf.SetFont(family, "", 11)
	pdf.MultiCell(0, lineHeight, tr("Position: "+info.JobTitle), "", "L", false)
	pdf.MultiCell(0, lineHeight, tr("Session: "+sessionTime.UTC().Format("2006-01-02 15:04:05 UTC")), "", "L", false)
	pdf.MultiCell(0, lineHeight, tr("Candidate ID: "+info.CandidateID), "", "L", false)

	writeSection(pdf, family, tr, "Questions")
	for idx, question := range info.Questions {
		pdf.MultiCell(0, lineHeight, tr(numbered(idx, question)), "", "L", false)
	}

	writeSection(pdf, family, tr, "Response")
	response := info.CandidateResponse
	if strings.TrimSpace(response) == "" {
		response = "-"
	}
	pdf.MultiCell(0, lineHeight, tr(response), "", "L", false)

	writeSection(pdf, family, tr, "Scores")
	writeScoresTable(pdf, family, tr, info.Scores, info.ResponseComments)

	writeSection(pdf, family, tr, "Feedback")
	pdf.MultiCell(0, lineHeight, tr(info.Feedback), "", "L", false)

	if pdf.Error() != nil {
		return nil, errors.Wrap(pdf.Error(), "ошибка формирования pdf")
	}
	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, errors.Wrap(err, "ошибка формирования pdf")
	}
	return buf.Bytes(), nil
}

func (i impl) setupFont(pdf *fpdf.Fpdf) (family string, tr func(string) string) {
	if i.fontDir == "" {
		return builtinFont, pdf.UnicodeTranslatorFromDescriptor("")
	}
	pdf.SetFontLocation(filepath.Clean(i.fontDir))
	pdf.AddUTF8Font(utf8Font, "", utf8FontFile)
	pdf.AddUTF8Font(utf8Font, "B", utf8BoldFile)
	return utf8Font, func(s string) string { return s }
}

func writeSection(pdf *fpdf.Fpdf, family string, tr func(string) string, title string) {
	pdf.Ln(sectionMargin)
	pdf.SetFont(family, "B", 13)
	pdf.MultiCell(0, 8, tr(title), "B", "L", false)
	pdf.SetFont(family, "", 11)
	pdf.Ln(1)
}

// writeScoresTable списки оценок и комментариев могут быть разной длины
func writeScoresTable(pdf *fpdf.Fpdf, family string, tr func(string) string, scores []int, comments []string) {
	rows := len(scores)
	if len(comments) > rows {
		rows = len(comments)
	}
	if rows == 0 {
		pdf.MultiCell(0, lineHeight, "-", "", "L", false)
		return
	}
	pdf.SetFont(family, "B", 11)
	pdf.CellFormat(15, 7, "#", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 7, tr("Score"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(0, 7, tr("Comment"), "1", 1, "L", false, 0, "")
	pdf.SetFont(family, "", 11)
	for idx := 0; idx < rows; idx++ {
		score := "-"
		if idx < len(scores) {
			score = fmt.Sprintf("%d", scores[idx])
		}
		comment := ""
		if idx < len(comments) {
			comment = comments[idx]
		}
		pdf.CellFormat(15, lineHeight, fmt.Sprintf("%d", idx+1), "LT", 0, "C", false, 0, "")
		pdf.CellFormat(20, lineHeight, score, "LT", 0, "C", false, 0, "")
		pdf.MultiCell(0, lineHeight, tr(comment), "LTR", "L", false)
	}
	pdf.CellFormat(0, 0, "", "T", 1, "L", false, 0, "")
}

func numbered(idx int, question string) string {
	prefix := fmt.Sprintf("%d.", idx+1)
	if strings.HasPrefix(strings.TrimSpace(question), prefix) {
		return question
	}
	return prefix + " " + question
}
