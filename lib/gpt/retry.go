package gpthandler

import (
	"context"
	"time"

	"github.com/bskqd/sd-solutions-test-task/models"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"
	log "github.com/sirupsen/logrus"
)

type RetryOptions struct {
	// Timeout ограничение на одну попытку, 0 - без ограничения
	Timeout    time.Duration
	MaxRetries uint64
	BaseDelay  time.Duration
}

type retryImpl struct {
	next Provider
	opts RetryOptions
}

// WithRetry повторяет обращения к ИИ при временной недоступности с задержкой по Фибоначчи.
// Ошибки формата ответа не повторяются.
func WithRetry(next Provider, opts RetryOptions) Provider {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	return retryImpl{
		next: next,
		opts: opts,
	}
}

func (r retryImpl) GenerateQuestions(ctx context.Context, jobTitle string) (questions []string, err error) {
	err = r.do(ctx, "GenerateQuestions", func(ctx context.Context) error {
		questions, err = r.next.GenerateQuestions(ctx, jobTitle)
		return err
	})
	return questions, err
}

func (r retryImpl) EvaluateResponse(ctx context.Context, jobTitle string, questions []string, response string) (result []models.ScoreAndComment, err error) {
	err = r.do(ctx, "EvaluateResponse", func(ctx context.Context) error {
		result, err = r.next.EvaluateResponse(ctx, jobTitle, questions, response)
		return err
	})
	return result, err
}

func (r retryImpl) ValidateScores(ctx context.Context, jobTitle string, questions []string, response string, scores []int, comments []string) (result models.ValidationResult, err error) {
	err = r.do(ctx, "ValidateScores", func(ctx context.Context) error {
		result, err = r.next.ValidateScores(ctx, jobTitle, questions, response, scores, comments)
		return err
	})
	return result, err
}

func (r retryImpl) do(ctx context.Context, name string, call func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(r.opts.MaxRetries, retry.NewFibonacci(r.opts.BaseDelay))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		attemptCtx, cancel := r.attemptContext(ctx)
		defer cancel()
		err := call(attemptCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		var unavailableErr *models.AgentUnavailableError
		if !errors.As(err, &unavailableErr) {
			return err
		}
		log.
			WithField("request_type", name).
			WithField("attempt", attempt).
			WithError(err).
			Warn("ИИ недоступен, повтор запроса")
		return retry.RetryableError(err)
	})
}

func (r retryImpl) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opts.Timeout)
}
