package codec

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/danielpatrickdp/persona-diversity/internal/embedding"
)

// #region constants

const (
	defaultMaxRetries = 2 // 3 total attempts
	defaultBackoff    = 200 * time.Millisecond
)

// #endregion constants

// #region retrying

var _ embedding.Embedder = (*Retrying)(nil)

// Retrying re-sends failed Embed calls when the failure looks transient.
type Retrying struct {
	next       embedding.Embedder
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// RetryOption configures a Retrying embedder.
type RetryOption func(*Retrying)

// WithMaxRetries sets how many times a call is retried after the first attempt.
func WithMaxRetries(n int) RetryOption {
	return func(r *Retrying) { r.maxRetries = max(n, 0) }
}

// WithBackoff sets the initial delay; it doubles after every attempt.
func WithBackoff(d time.Duration) RetryOption {
	return func(r *Retrying) { r.backoff = d }
}

// WithRetryLogger sets the logger used to report retries.
func WithRetryLogger(l *slog.Logger) RetryOption {
	return func(r *Retrying) { r.logger = l }
}

// NewRetrying wraps next.
func NewRetrying(next embedding.Embedder, opts ...RetryOption) *Retrying {
	r := &Retrying{
		next:       next,
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoff,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Embed calls the wrapped embedder, retrying transient failures.
func (r *Retrying) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	delay := r.backoff
	for attempt := 0; ; attempt++ {
		vectors, err := r.next.Embed(ctx, texts)
		if err == nil || attempt >= r.maxRetries || !Transient(err) {
			return vectors, err
		}
		r.logger.Warn("embedding call failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// #endregion retrying

// #region transient

// Transient reports whether err is worth retrying: gRPC Unavailable,
// ResourceExhausted or Aborted, and OpenAI rate limits or server errors.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, embedding.ErrEmbeddingShape) {
		return false
	}
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable, codes.ResourceExhausted, codes.Aborted:
			return true
		}
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableHTTP(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableHTTP(reqErr.HTTPStatusCode)
	}
	return false
}

func retryableHTTP(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// #endregion transient
