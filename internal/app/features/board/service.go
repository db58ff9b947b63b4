package board

import (
	"context"
	"time"

	"github.com/dalemusser/clanboard/internal/app/system/registry"
	"go.uber.org/zap"
)

// Service ties the registry, renderer, and publisher together: one render
// per refresh cycle, shared across every surface, with the renderer's
// prune list applied back to the registry.
type Service struct {
	registry *registry.Registry
	resolver Resolver
	pub      *Publisher
	fieldCap int
	avatar   func() string
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates the refresh service. fieldCap bounds names per board
// category (see Render). avatar supplies the bot's avatar URL for the
// embed thumbnail at render time, since it isn't known until the gateway
// is ready; nil omits the thumbnail.
func NewService(reg *registry.Registry, resolver Resolver, pub *Publisher, fieldCap int, avatar func() string, logger *zap.Logger) *Service {
	return &Service{
		registry: reg,
		resolver: resolver,
		pub:      pub,
		fieldCap: fieldCap,
		avatar:   avatar,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Refresh renders the current registry snapshot once and publishes it to
// all surfaces. Unresolvable users reported by the renderer are pruned
// from the registry and its mirror before publishing.
func (s *Service) Refresh(ctx context.Context) {
	var avatarURL string
	if s.avatar != nil {
		avatarURL = s.avatar()
	}
	doc, prune := Render(s.registry.Snapshot(), s.resolver, avatarURL, s.now(), s.fieldCap)
	for _, userID := range prune {
		s.registry.DropUnresolvable(ctx, userID)
	}
	if len(prune) > 0 {
		s.logger.Info("pruned unresolvable users during render", zap.Int("count", len(prune)))
	}
	s.pub.Refresh(ctx, doc)
}
