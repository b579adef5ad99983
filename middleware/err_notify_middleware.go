package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

var notifyClient = &http.Client{Timeout: 10 * time.Second}

type errNotification struct {
	Code        int    `json:"code"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Error       string `json:"error"`
	RequestID   string `json:"request_id,omitempty"`
	CandidateID string `json:"candidate_id,omitempty"`
}

// ErrNotify отправляет на addr уведомление о каждом ответе 5xx
func ErrNotify(addr string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		statusCode := c.Response().StatusCode()
		if statusCode < http.StatusInternalServerError {
			return err
		}

		var data struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}
		body := c.Response().Body()
		if unmErr := json.Unmarshal(body, &data); unmErr != nil {
			log.WithError(unmErr).Warn("ошибка разбора ответа в middleware уведомлений")
		}
		msg := data.Message
		if msg == "" {
			msg = string(body)
		}
		if msg == "" && err != nil {
			msg = err.Error()
		}

		candidateID := c.Get("candidate-id")
		if candidateID == "" {
			candidateID = c.Get("candidate_id")
		}

		// значения fiber.Ctx переиспользуются после завершения запроса
		notification := errNotification{
			Code:        statusCode,
			Method:      strings.Clone(c.Method()),
			Path:        strings.Clone(c.OriginalURL()),
			Error:       msg,
			CandidateID: strings.Clone(candidateID),
		}
		if r := c.Route(); r != nil {
			notification.Path = r.Path
		}
		if id, ok := c.Locals("requestid").(string); ok {
			notification.RequestID = strings.Clone(id)
		}

		go sendNotification(addr, notification)
		return err
	}
}

func sendNotification(addr string, notification errNotification) {
	payload, err := json.Marshal(notification)
	if err != nil {
		log.WithError(err).Warn("ошибка формирования уведомления об ошибке")
		return
	}
	resp, err := notifyClient.Post(addr, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.WithError(err).Warn("ошибка отправки уведомления об ошибке")
		return
	}
	_ = resp.Body.Close()
}
