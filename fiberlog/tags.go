package fiberlog

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid         = "pid"
	TagLatency     = "latency"
	TagStatus      = "status"
	TagMethod      = "method"
	TagPath        = "path"
	TagURL         = "url"
	TagIP          = "ip"
	TagUA          = "user_agent"
	TagBody        = "body"
	TagResBody     = "res_body"
	TagBytesSent   = "bytes_sent"
	TagCandidateID = "candidate_id"
	RequestID      = "request_id"
)

// FuncTag значение поля записи журнала для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	all := map[string]FuncTag{
		TagPid: func(c *fiber.Ctx, d *data) interface{} {
			return d.pid
		},
		TagLatency: func(c *fiber.Ctx, d *data) interface{} {
			return d.end.Sub(d.start).String()
		},
		TagStatus: func(c *fiber.Ctx, d *data) interface{} {
			return c.Response().StatusCode()
		},
		TagMethod: func(c *fiber.Ctx, d *data) interface{} {
			return c.Method()
		},
		TagPath: func(c *fiber.Ctx, d *data) interface{} {
			return c.Path()
		},
		TagURL: func(c *fiber.Ctx, d *data) interface{} {
			return c.OriginalURL()
		},
		TagIP: func(c *fiber.Ctx, d *data) interface{} {
			return c.IP()
		},
		TagUA: func(c *fiber.Ctx, d *data) interface{} {
			return c.Get(fiber.HeaderUserAgent)
		},
		TagBody: func(c *fiber.Ctx, d *data) interface{} {
			return string(c.Body())
		},
		TagResBody: func(c *fiber.Ctx, d *data) interface{} {
			// файлы выгрузок не логируются
			if !strings.HasPrefix(string(c.Response().Header.ContentType()), fiber.MIMEApplicationJSON) {
				return ""
			}
			return string(c.Response().Body())
		},
		TagBytesSent: func(c *fiber.Ctx, d *data) interface{} {
			return len(c.Response().Body())
		},
		TagCandidateID: func(c *fiber.Ctx, d *data) interface{} {
			if id := c.Get("candidate-id"); id != "" {
				return id
			}
			return c.Get("candidate_id")
		},
		RequestID: func(c *fiber.Ctx, d *data) interface{} {
			if id, ok := c.Locals("requestid").(string); ok && id != "" {
				return id
			}
			return c.GetRespHeader(fiber.HeaderXRequestID)
		},
	}
	ftm := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := all[tag]; ok {
			ftm[tag] = ft
		}
	}
	return ftm
}
