package application

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/platform-ops/nr-user-mgmt/internal/domain"
	"github.com/platform-ops/nr-user-mgmt/internal/event"
	"github.com/platform-ops/nr-user-mgmt/internal/messages"
)

// Service runs the deprovisioning pipeline for qualifying membership events.
// Each invocation is independent: no token cache, no identity cache, no
// shared state between runs.
type Service struct {
	tokens    TokenProvider
	directory DirectoryResolver
	platform  PlatformResolver
	executor  Deprovisioner
	ssoGroup  string
}

// NewService creates the pipeline Service.
func NewService(tokens TokenProvider, directory DirectoryResolver, platform PlatformResolver, executor Deprovisioner, ssoGroup string) *Service {
	return &Service{
		tokens:    tokens,
		directory: directory,
		platform:  platform,
		executor:  executor,
		ssoGroup:  ssoGroup,
	}
}

// Handle filters one membership event and, for removals from the SSO group,
// runs the deprovisioning pipeline. Every other event resolves to an
// informational skip with zero outbound mutating calls.
func (s *Service) Handle(ctx context.Context, ev domain.MembershipEvent) domain.DeprovisionResult {
	if !ev.ConcernsGroup(s.ssoGroup) {
		log.Info().Str("event_id", ev.ID).Str("subject", ev.Subject).Msg("event not related to SSO group, ignoring")
		return domain.DeprovisionResult{Outcome: domain.OutcomeSkipped, Detail: messages.WrongGroup(s.ssoGroup)}
	}

	action := event.Dispatch(ev)
	if action == nil {
		return domain.DeprovisionResult{Outcome: domain.OutcomeSkipped, Detail: messages.UnhandledOperation(string(ev.Operation))}
	}
	if action.Kind == event.ActionNote {
		log.Info().Str("event_id", ev.ID).Str("operation", string(ev.Operation)).Msg(action.Note)
		return domain.DeprovisionResult{Outcome: domain.OutcomeSkipped, Detail: action.Note}
	}

	return s.deprovision(ctx, ev.SubjectID)
}

// deprovision runs the four stages in strict order: token, directory lookup,
// platform id resolution, deletion. Each stage's output gates the next and
// every failure is terminal, so no partial identity ever flows downstream.
func (s *Service) deprovision(ctx context.Context, subjectID string) domain.DeprovisionResult {
	logger := log.With().
		Str("invocation_id", uuid.NewString()).
		Str("subject_id", subjectID).
		Logger()

	token, err := s.tokens.Acquire(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("token acquisition failed")
		return domain.ResultOf(err)
	}

	identity := domain.Identity{SubjectID: subjectID}

	identity.Email, err = s.directory.ResolveEmail(ctx, subjectID, token)
	if err != nil {
		logger.Error().Err(err).Msg("directory lookup failed")
		return domain.ResultOf(err)
	}
	logger.Debug().Str("email", identity.Email).Msg("resolved contact address")

	identity.PlatformUserID, err = s.platform.ResolveUserID(ctx, identity.Email)
	if err != nil {
		if domain.OutcomeOf(err) == domain.OutcomeNotFound {
			logger.Info().Str("email", identity.Email).Msg("no downstream account, nothing to deprovision")
			return domain.DeprovisionResult{Outcome: domain.OutcomeNotFound, Detail: messages.UserNotFound(identity.Email)}
		}
		logger.Error().Err(err).Msg("platform identity query failed")
		return domain.ResultOf(err)
	}

	if err := s.executor.DeleteUser(ctx, identity.PlatformUserID); err != nil {
		logger.Error().Err(err).Str("platform_user_id", identity.PlatformUserID).Msg("deletion failed")
		return domain.ResultOf(err)
	}

	logger.Info().
		Str("email", identity.Email).
		Str("platform_user_id", identity.PlatformUserID).
		Msg("user deprovisioned")
	return domain.DeprovisionResult{
		Outcome: domain.OutcomeSuccess,
		Detail:  messages.Deprovisioned(identity.Email, identity.PlatformUserID),
	}
}
