package filestorage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bskqd/sd-solutions-test-task/models"
	s3client "github.com/bskqd/sd-solutions-test-task/s3"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const jsonContentType = "application/json"

// Provider постоянное хранилище результатов интервью
type Provider interface {
	// SaveCandidateInfo сохраняет полную запись кандидата и возвращает ссылку на нее
	SaveCandidateInfo(ctx context.Context, info models.CandidateInfo, ts time.Time) (url string, err error)
	// SaveSessionLog сохраняет краткую запись о сессии в бакет логов
	SaveSessionLog(ctx context.Context, info models.CandidateInfo, ts time.Time, url string) error
	GetCandidateInfo(ctx context.Context, objectName string) (models.CandidateInfo, error)
	ListSessionLogs(ctx context.Context) ([]models.SessionLog, error)
}

type impl struct {
	s3client             s3client.Provider
	persistentDataBucket string
	logsBucket           string
}

func NewHandler(client s3client.Provider, persistentDataBucket, logsBucket string) Provider {
	return &impl{
		s3client:             client,
		persistentDataBucket: persistentDataBucket,
		logsBucket:           logsBucket,
	}
}

func (i impl) SaveCandidateInfo(ctx context.Context, info models.CandidateInfo, ts time.Time) (url string, err error) {
	data, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return "", errors.Wrap(err, "ошибка сериализации данных кандидата")
	}
	return i.s3client.Put(ctx, i.persistentDataBucket, ObjectName(info.CandidateID, ts), data, jsonContentType)
}

func (i impl) SaveSessionLog(ctx context.Context, info models.CandidateInfo, ts time.Time, url string) error {
	rec := models.SessionLog{
		CandidateID: info.CandidateID,
		JobTitle:    info.JobTitle,
		Timestamp:   UnixTimestamp(ts),
		URL:         url,
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации журнала сессии")
	}
	_, err = i.s3client.Put(ctx, i.logsBucket, ObjectName(info.CandidateID, ts), data, jsonContentType)
	return err
}

func (i impl) GetCandidateInfo(ctx context.Context, objectName string) (models.CandidateInfo, error) {
	data, err := i.s3client.Get(ctx, i.persistentDataBucket, objectName)
	if err != nil {
		return models.CandidateInfo{}, err
	}
	var info models.CandidateInfo
	if err = json.Unmarshal(data, &info); err != nil {
		return models.CandidateInfo{}, errors.Wrapf(err, "ошибка декодирования записи кандидата %s", objectName)
	}
	return info, nil
}

// ListSessionLogs возвращает журнал сессий, отсортированный по времени.
// Поврежденные записи пропускаются.
func (i impl) ListSessionLogs(ctx context.Context) ([]models.SessionLog, error) {
	names, err := i.s3client.List(ctx, i.logsBucket)
	if err != nil {
		return nil, err
	}
	list := make([]models.SessionLog, 0, len(names))
	for _, name := range names {
		data, err := i.s3client.Get(ctx, i.logsBucket, name)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, err
		}
		var rec models.SessionLog
		if err = json.Unmarshal(data, &rec); err != nil {
			log.
				WithField("bucket", i.logsBucket).
				WithField("object_name", name).
				WithError(err).
				Warn("пропущена поврежденная запись журнала сессий")
			continue
		}
		list = append(list, rec)
	}
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Timestamp < list[b].Timestamp
	})
	return list, nil
}

// ObjectName имя объекта в хранилище: {candidate_id}_{unix_timestamp}.json
func ObjectName(candidateID string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.json", candidateID, FormatTimestamp(ts))
}

// UnixTimestamp время в секундах с дробной частью (микросекунды)
func UnixTimestamp(ts time.Time) float64 {
	return float64(ts.UnixMicro()) / 1e6
}

// FormatTimestamp всегда содержит дробную часть: 1700000000.5, 1700000000.0
func FormatTimestamp(ts time.Time) string {
	str := strconv.FormatFloat(UnixTimestamp(ts), 'f', -1, 64)
	if !strings.Contains(str, ".") {
		str += ".0"
	}
	return str
}
