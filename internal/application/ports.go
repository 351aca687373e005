package application

import (
	"context"

	"github.com/platform-ops/nr-user-mgmt/internal/domain"
)

// TokenProvider acquires a directory graph credential for one pipeline run.
// The default implementation calls the Azure AD token endpoint.
type TokenProvider interface {
	Acquire(ctx context.Context) (domain.AccessToken, error)
}

// DirectoryResolver looks up the canonical contact address of a directory
// principal. The default implementation calls Microsoft Graph.
type DirectoryResolver interface {
	ResolveEmail(ctx context.Context, subjectID string, token domain.AccessToken) (string, error)
}

// PlatformResolver maps a contact address to the downstream platform's own
// user id. The default implementation queries NerdGraph.
type PlatformResolver interface {
	ResolveUserID(ctx context.Context, email string) (string, error)
}

// Deprovisioner revokes the downstream account by platform user id.
type Deprovisioner interface {
	DeleteUser(ctx context.Context, platformUserID string) error
}

// GroupInspector lists the live members of a Kafka consumer group.
type GroupInspector interface {
	ConsumerIDs(ctx context.Context) ([]string, error)
}

// EventPoster ships consumer ids to the telemetry collector.
type EventPoster interface {
	PostConsumerIDs(ctx context.Context, consumerIDs []string) error
}
