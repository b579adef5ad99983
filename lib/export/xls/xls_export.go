package xlsexport

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	filestorage "github.com/bskqd/sd-solutions-test-task/lib/file-storage"
	"github.com/bskqd/sd-solutions-test-task/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Сессии"

type Provider interface {
	// ExportSessionLogs таблица завершенных сессий интервью
	ExportSessionLogs(list []models.SessionLog) (*bytes.Buffer, error)
}

func NewHandler() Provider {
	return impl{}
}

type impl struct{}

var sessionColumns = []column{
	{title: "Дата сессии (UTC)", width: 22},
	{title: "Должность", width: 30},
	{title: "Кандидат", width: 68},
	{title: "Архив", width: 50},
	{title: "Файл", width: 90},
}

func (i impl) ExportSessionLogs(list []models.SessionLog) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row, err := writeHeader(f, sheet, 0, sessionColumns)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		if _, err = writeSessionData(f, sheet, list, row); err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	if err = f.SetSheetName(sheet, sheetName); err != nil {
		return nil, errors.Wrap(err, "ошибка переименования листа xlsx")
	}
	return f.WriteToBuffer()
}

func writeSessionData(f *excelize.File, sheet string, list []models.SessionLog, row int) (int, error) {
	style, err := dataStyle(f)
	if err != nil {
		return row, err
	}
	if err = applyStyle(f, sheet, style, 1, row+1, len(sessionColumns), row+len(list)); err != nil {
		return row, err
	}
	lStyle, err := linkStyle(f)
	if err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		col := 1
		if err = writeCell(f, sheet, col, row, sessionTime(item.Timestamp).Format("02.01.2006 15:04:05")); err != nil {
			return row, err
		}

		col++
		if err = writeCell(f, sheet, col, row, item.JobTitle); err != nil {
			return row, err
		}

		col++
		if err = writeCell(f, sheet, col, row, item.CandidateID); err != nil {
			return row, err
		}

		col++
		if item.URL != "" {
			if err = writeLink(f, sheet, col, row, item.URL, archiveLinkText(item.URL), lStyle); err != nil {
				return row, err
			}
		}

		col++
		if err = writeCell(f, sheet, col, row, filestorage.ObjectName(item.CandidateID, sessionTime(item.Timestamp))); err != nil {
			return row, err
		}
	}
	return row, nil
}

func sessionTime(ts float64) time.Time {
	return time.UnixMicro(int64(ts*1e6 + 0.5)).UTC()
}

// archiveLinkText адрес без параметров подписи
func archiveLinkText(link string) string {
	if idx := strings.Index(link, "?"); idx >= 0 {
		return link[:idx]
	}
	return link
}

func itoa(value int) string {
	return strconv.Itoa(value)
}
