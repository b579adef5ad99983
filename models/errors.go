package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound кандидат не найден (запись не создавалась или уже перенесена в архив)
var ErrNotFound = errors.New("кандидат не найден")

// AgentFormatError ответ ИИ не удалось разобрать в ожидаемую структуру
type AgentFormatError struct {
	Agent string
	Raw   string
	Err   error
}

func (e *AgentFormatError) Error() string {
	return fmt.Sprintf("некорректный формат ответа ИИ (%s): %v", e.Agent, e.Err)
}

func (e *AgentFormatError) Unwrap() error {
	return e.Err
}

// AgentUnavailableError ошибка обращения к ИИ (сеть, лимиты, 5xx)
type AgentUnavailableError struct {
	Agent string
	Err   error
}

func (e *AgentUnavailableError) Error() string {
	return fmt.Sprintf("ИИ недоступен (%s): %v", e.Agent, e.Err)
}

func (e *AgentUnavailableError) Unwrap() error {
	return e.Err
}

type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("хранилище сессий недоступно: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}

type ArchiveUnavailableError struct {
	Bucket string
	Err    error
}

func (e *ArchiveUnavailableError) Error() string {
	return fmt.Sprintf("файловое хранилище недоступно (бакет %s): %v", e.Bucket, e.Err)
}

func (e *ArchiveUnavailableError) Unwrap() error {
	return e.Err
}
