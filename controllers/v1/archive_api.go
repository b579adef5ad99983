package apiv1

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bskqd/sd-solutions-test-task/controllers"
	pdfexport "github.com/bskqd/sd-solutions-test-task/lib/export/pdf"
	xlsexport "github.com/bskqd/sd-solutions-test-task/lib/export/xls"
	filestorage "github.com/bskqd/sd-solutions-test-task/lib/file-storage"
	apimodels "github.com/bskqd/sd-solutions-test-task/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type archiveApiController struct {
	controllers.BaseAPIController
	fileStorage filestorage.Provider
	xlsExport   xlsexport.Provider
	pdfExport   pdfexport.Provider
}

func InitArchiveApiRouters(app fiber.Router, fileStorage filestorage.Provider, xlsExport xlsexport.Provider, pdfExport pdfexport.Provider) {
	controller := archiveApiController{
		fileStorage: fileStorage,
		xlsExport:   xlsExport,
		pdfExport:   pdfExport,
	}
	app.Route("archive", func(archiveRoute fiber.Router) {
		archiveRoute.Get("sessions/export", controller.ExportSessions)
		archiveRoute.Get("candidates/:object_name/report", controller.CandidateReport)
	})
}

// @Summary Выгрузка журнала сессий
// @Tags Archive
// @Description Выгрузка всех завершенных сессий интервью в xlsx
// @Success 200 {file} file
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/archive/sessions/export [get]
func (c *archiveApiController) ExportSessions(ctx *fiber.Ctx) error {
	list, err := c.fileStorage.ListSessionLogs(ctx.UserContext())
	if err != nil {
		return c.SendError(ctx, err)
	}
	buf, err := c.xlsExport.ExportSessionLogs(list)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Attachment(fmt.Sprintf("sessions-%v.xlsx", time.Now().UTC().Format("20060102-150405")))
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Отчет по кандидату
// @Tags Archive
// @Description PDF отчет по архивной записи кандидата ({candidate_id}_{timestamp}.json)
// @Param   object_name		path		string	true	"Имя объекта в архиве"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/archive/candidates/{object_name}/report [get]
func (c *archiveApiController) CandidateReport(ctx *fiber.Ctx) error {
	objectName, err := url.PathUnescape(ctx.Params("object_name"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректное имя объекта"))
	}
	sessionTime, err := parseObjectTime(objectName)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	info, err := c.fileStorage.GetCandidateInfo(ctx.UserContext(), objectName)
	if err != nil {
		return c.SendError(ctx, err)
	}
	data, err := c.pdfExport.CandidateReport(info, sessionTime)
	if err != nil {
		return c.SendError(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Attachment(strings.TrimSuffix(objectName, ".json") + ".pdf")
	return ctx.Status(fiber.StatusOK).Send(data)
}

// parseObjectTime время сессии из имени объекта {candidate_id}_{timestamp}.json
func parseObjectTime(objectName string) (time.Time, error) {
	if strings.Contains(objectName, "/") || !strings.HasSuffix(objectName, ".json") {
		return time.Time{}, errors.Errorf("некорректное имя объекта: %s", objectName)
	}
	pos := strings.LastIndex(objectName, "_")
	if pos <= 0 {
		return time.Time{}, errors.Errorf("некорректное имя объекта: %s", objectName)
	}
	ts, err := strconv.ParseFloat(strings.TrimSuffix(objectName[pos+1:], ".json"), 64)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "некорректное время в имени объекта: %s", objectName)
	}
	return time.UnixMicro(int64(ts*1e6 + 0.5)).UTC(), nil
}
