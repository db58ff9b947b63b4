package board

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultScanLimit is how many recent messages the publisher inspects
// when looking for a board message it lost track of (e.g. after a
// restart).
const DefaultScanLimit = 50

// Publisher reconciles a rendered document into every configured surface,
// converging each to exactly one live board message.
//
// Per surface it holds one live-message handle and a mutex; concurrent
// refreshes for the same surface serialize, so two discover-or-create
// passes can never race into duplicate board messages. Surfaces are
// independent: a failure on one never blocks the others.
type Publisher struct {
	surfaces  []*surfaceState
	scanLimit int
	logger    *zap.Logger
}

type surfaceState struct {
	mu        sync.Mutex
	surface   Surface
	messageID string // empty = unbound
}

// NewPublisher creates a publisher over the given surfaces. scanLimit
// bounds the history rescan; values below one fall back to
// DefaultScanLimit.
func NewPublisher(surfaces []Surface, scanLimit int, logger *zap.Logger) *Publisher {
	if scanLimit < 1 {
		scanLimit = DefaultScanLimit
	}
	p := &Publisher{scanLimit: scanLimit, logger: logger}
	for _, s := range surfaces {
		p.surfaces = append(p.surfaces, &surfaceState{surface: s})
	}
	return p
}

// Refresh publishes doc to every surface. The same document is shared
// across surfaces; it is computed once per cycle by the caller. Errors
// are logged per surface and never returned: a failed cycle is retried
// naturally on the next status mutation.
func (p *Publisher) Refresh(ctx context.Context, doc Document) {
	cycle := uuid.NewString()[:8]
	for _, st := range p.surfaces {
		p.reconcile(ctx, st, doc, cycle)
	}
}

// reconcile drives one surface through the bind state machine:
//
//	Bound   → fetch + edit in place; any failure unbinds and falls through
//	Unbound → rescan recent history for a bot-authored message with the
//	          board title and rebind, else send fresh and bind
//
// Before any write it probes the required permissions and skips the whole
// cycle for the surface if any are missing, leaving the handle untouched.
func (p *Publisher) reconcile(ctx context.Context, st *surfaceState, doc Document, cycle string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	log := p.logger.With(
		zap.String("surface", st.surface.ID()),
		zap.String("cycle", cycle),
	)

	perms, err := st.surface.Permissions(ctx)
	if err != nil {
		log.Error("permission probe failed; skipping surface this cycle", zap.Error(err))
		return
	}
	if missing := perms.Missing(); missing != "" {
		log.Error("missing permissions; skipping surface this cycle",
			zap.String("missing", missing))
		return
	}

	if st.messageID != "" {
		if err := st.surface.Fetch(ctx, st.messageID); err != nil {
			log.Info("bound board message is gone; rebinding",
				zap.String("message_id", st.messageID),
				zap.Error(err))
		} else if err := st.surface.Edit(ctx, st.messageID, doc); err != nil {
			// Forbidden, deleted in the race window, or anything else:
			// discard the handle and send fresh below.
			log.Warn("edit of bound board message failed; rebinding",
				zap.String("message_id", st.messageID),
				zap.Error(err))
		} else {
			return
		}
		st.messageID = ""
	}

	if id := p.findExisting(ctx, st, log); id != "" {
		if err := st.surface.Edit(ctx, id, doc); err == nil {
			st.messageID = id
			return
		}
		log.Warn("edit of rediscovered board message failed; sending fresh",
			zap.String("message_id", id))
	}

	id, err := st.surface.Send(ctx, doc)
	if err != nil {
		log.Error("failed to send board message", zap.Error(err))
		return
	}
	st.messageID = id
	log.Info("bound new board message", zap.String("message_id", id))
}

// findExisting scans recent history for a bot-authored board message,
// letting the process recover its handle after a restart instead of
// posting a duplicate.
func (p *Publisher) findExisting(ctx context.Context, st *surfaceState, log *zap.Logger) string {
	msgs, err := st.surface.History(ctx, p.scanLimit)
	if err != nil {
		log.Warn("history rescan failed; will send fresh", zap.Error(err))
		return ""
	}
	for _, m := range msgs {
		if m.FromSelf && m.EmbedTitle == Title {
			return m.ID
		}
	}
	return ""
}
