package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"quiz-backend/internal/logging"
)

var tracer = otel.Tracer("quiz-backend/jobs")

// Track runs one job execution under a fresh run id and span. A panic inside
// run is recovered and reported as an error, so the caller keeps going.
func Track(ctx context.Context, log *logging.Logger, name string, run func(ctx context.Context) error) (err error) {
	runID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "job."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("job.name", name),
			attribute.String("job.run_id", runID),
		),
	)
	started := time.Now()
	log.Infof("job %s run=%s started", name, runID)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job %s panicked: %v", name, rec)
		}
		elapsed := time.Since(started).Round(time.Millisecond)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Errorf("job %s run=%s failed after %s: %v", name, runID, elapsed, err)
		} else {
			log.Infof("job %s run=%s finished in %s", name, runID, elapsed)
		}
		span.End()
	}()

	return run(ctx)
}
