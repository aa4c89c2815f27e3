package usecase

import (
	"context"
	"time"

	authDomain "github.com/allisson/opaqueid/internal/auth/domain"
	"github.com/allisson/opaqueid/internal/metrics"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
// Authentication failures count as "error" like any other failure; per-client
// detail stays out of the labels to keep cardinality flat.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// observe records count and duration for one auth operation.
func (t *tokenUseCaseWithMetrics) observe(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	t.metrics.RecordOperation(ctx, "auth", operation, status)
	t.metrics.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}

func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	issueTokenInput *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, issueTokenInput)
	t.observe(ctx, "token_issue", start, err)
	return output, err
}

func (t *tokenUseCaseWithMetrics) Authenticate(
	ctx context.Context,
	tokenHash string,
) (*authDomain.Client, error) {
	start := time.Now()
	client, err := t.next.Authenticate(ctx, tokenHash)
	t.observe(ctx, "token_authenticate", start, err)
	return client, err
}
