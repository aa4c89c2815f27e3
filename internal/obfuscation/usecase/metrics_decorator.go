package usecase

import (
	"context"
	"time"

	apperrors "github.com/allisson/opaqueid/internal/errors"
	"github.com/allisson/opaqueid/internal/metrics"
	"github.com/allisson/opaqueid/internal/obfuscation/domain"
)

// obfuscationUseCaseWithMetrics decorates ObfuscationUseCase with metrics
// instrumentation.
type obfuscationUseCaseWithMetrics struct {
	next    ObfuscationUseCase
	metrics metrics.BusinessMetrics
}

// NewObfuscationUseCaseWithMetrics wraps an ObfuscationUseCase with metrics recording.
func NewObfuscationUseCaseWithMetrics(
	useCase ObfuscationUseCase,
	m metrics.BusinessMetrics,
) ObfuscationUseCase {
	return &obfuscationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// statusOf maps an error to the plain success or error status. Decode has its
// own mapping because rejected tokens get a dedicated status.
func statusOf(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}

// Encode records metrics for identifier encoding operations.
func (o *obfuscationUseCaseWithMetrics) Encode(ctx context.Context, keyspace, id string) (string, error) {
	start := time.Now()
	token, err := o.next.Encode(ctx, keyspace, id)
	status := statusOf(err)

	o.metrics.RecordOperation(ctx, "obfuscation", "encode", status)
	o.metrics.RecordDuration(ctx, "obfuscation", "encode", time.Since(start), status)
	o.metrics.RecordKeyspaceOperation(ctx, keyspace, "encode", status)

	return token, err
}

// Decode records metrics for token decoding operations. Rejected tokens are
// recorded with their own status so forgery attempts stand out from plain
// errors on dashboards.
func (o *obfuscationUseCaseWithMetrics) Decode(ctx context.Context, keyspace, token string) (string, error) {
	start := time.Now()
	id, err := o.next.Decode(ctx, keyspace, token)

	status := metrics.StatusSuccess
	switch {
	case err == nil:
	case apperrors.Is(err, domain.ErrInvalidToken):
		status = metrics.StatusRejected
	default:
		status = metrics.StatusError
	}

	o.metrics.RecordOperation(ctx, "obfuscation", "decode", status)
	o.metrics.RecordDuration(ctx, "obfuscation", "decode", time.Since(start), status)
	o.metrics.RecordKeyspaceOperation(ctx, keyspace, "decode", status)

	return id, err
}

// keyspaceUseCaseWithMetrics decorates KeyspaceUseCase with metrics
// instrumentation.
type keyspaceUseCaseWithMetrics struct {
	next    KeyspaceUseCase
	metrics metrics.BusinessMetrics
}

// NewKeyspaceUseCaseWithMetrics wraps a KeyspaceUseCase with metrics recording.
func NewKeyspaceUseCaseWithMetrics(
	useCase KeyspaceUseCase,
	m metrics.BusinessMetrics,
) KeyspaceUseCase {
	return &keyspaceUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// List records metrics for keyspace listing operations.
func (k *keyspaceUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]domain.KeyspaceInfo, error) {
	start := time.Now()
	infos, err := k.next.List(ctx, offset, limit)
	status := statusOf(err)

	k.metrics.RecordOperation(ctx, "obfuscation", "keyspace_list", status)
	k.metrics.RecordDuration(ctx, "obfuscation", "keyspace_list", time.Since(start), status)

	return infos, err
}

// Get records metrics for keyspace lookup operations.
func (k *keyspaceUseCaseWithMetrics) Get(ctx context.Context, name string) (*domain.KeyspaceInfo, error) {
	start := time.Now()
	info, err := k.next.Get(ctx, name)
	status := statusOf(err)

	k.metrics.RecordOperation(ctx, "obfuscation", "keyspace_get", status)
	k.metrics.RecordDuration(ctx, "obfuscation", "keyspace_get", time.Since(start), status)

	return info, err
}
