package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Reporter ships the configured consumer group's member ids to the telemetry
// collector. Unrelated to the deprovisioning pipeline; it shares only the
// process.
type Reporter struct {
	inspector GroupInspector
	poster    EventPoster
}

// NewReporter creates a Reporter.
func NewReporter(inspector GroupInspector, poster EventPoster) *Reporter {
	return &Reporter{inspector: inspector, poster: poster}
}

// Report describes the consumer group and posts one event per member.
// Returns the number of members reported; zero with a nil error means the
// group is currently empty and nothing was posted.
func (r *Reporter) Report(ctx context.Context) (int, error) {
	ids, err := r.inspector.ConsumerIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("inspect consumer group: %w", err)
	}
	if len(ids) == 0 {
		log.Info().Msg("consumer group has no members, nothing to report")
		return 0, nil
	}

	if err := r.poster.PostConsumerIDs(ctx, ids); err != nil {
		return 0, fmt.Errorf("post consumer ids: %w", err)
	}
	log.Info().Int("count", len(ids)).Msg("consumer ids reported")
	return len(ids), nil
}
