package statuscmd

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/clanboard/internal/app/features/board"
	"github.com/dalemusser/clanboard/internal/app/system/registry"
	"github.com/dalemusser/clanboard/internal/app/system/tasks"
	"github.com/dalemusser/clanboard/internal/domain/status"
	"github.com/dalemusser/clanboard/internal/testutil"
	"go.uber.org/zap"
)

const testAvatarURL = "https://cdn.example/bot-avatar.png"

type nopMirror struct{}

func (nopMirror) Upsert(context.Context, string, string) error { return nil }
func (nopMirror) Delete(context.Context, string) error         { return nil }

type fakeResponder struct {
	mu      sync.Mutex
	nextID  int
	replies []string
	embeds  []board.Document
	deleted []string
}

func (f *fakeResponder) Reply(_ context.Context, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.replies = append(f.replies, content)
	return fmt.Sprintf("r%d", f.nextID), nil
}

func (f *fakeResponder) ReplyEmbed(_ context.Context, doc board.Document) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.embeds = append(f.embeds, doc)
	return fmt.Sprintf("r%d", f.nextID), nil
}

func (f *fakeResponder) Delete(_ context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeResponder) lastReply(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		t.Fatal("no replies sent")
	}
	return f.replies[len(f.replies)-1]
}

func (f *fakeResponder) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

type fixture struct {
	handler  *Handler
	registry *registry.Registry
	clock    *testutil.FakeClock
	sched    *tasks.Scheduler
	refreshs *atomic.Int32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := testutil.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	sched := tasks.New(clock, zap.NewNop())
	sched.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sched.Stop(ctx)
	})

	reg := registry.New(nopMirror{}, zap.NewNop())
	var refreshs atomic.Int32
	h := New(reg, func(context.Context) { refreshs.Add(1) }, sched, Options{
		BoardChannelIDs: []string{"chan-1", "chan-2"},
		AvatarURL:       func() string { return testAvatarURL },
	}, zap.NewNop())

	return &fixture{handler: h, registry: reg, clock: clock, sched: sched, refreshs: &refreshs}
}

func TestHandle_SetStatus(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "cmd1", "srn")

	if v, ok := fx.registry.Get("42"); !ok || v != status.Studying {
		t.Errorf("registry = %q, %v; want Studying", v, ok)
	}
	if fx.refreshs.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", fx.refreshs.Load())
	}
	if got := r.lastReply(t); !strings.Contains(got, "@kenji") || !strings.Contains(got, "Locked in") {
		t.Errorf("acknowledgement = %q, want the first-set copy", got)
	}
}

func TestHandle_TokenIsCaseInsensitive(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "cmd1", "  SRN ")

	if v, ok := fx.registry.Get("42"); !ok || v != status.Studying {
		t.Errorf("registry = %q, %v; want Studying", v, ok)
	}
}

func TestHandle_AcknowledgementDependsOnPrevious(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	// Same-status repeat.
	r := &fakeResponder{}
	fx.handler.Handle(ctx, r, "42", "@kenji", "c1", "srn")
	fx.handler.Handle(ctx, r, "42", "@kenji", "c2", "srn")
	if got := r.lastReply(t); !strings.Contains(got, "study machine") {
		t.Errorf("repeat acknowledgement = %q", got)
	}

	// Specific prior-status transition.
	fx.handler.Handle(ctx, r, "42", "@kenji", "c3", "s")
	fx.handler.Handle(ctx, r, "42", "@kenji", "c4", "srn")
	if got := r.lastReply(t); !strings.Contains(got, "Fresh from a nap") {
		t.Errorf("sleeping→studying acknowledgement = %q", got)
	}
}

func TestHandle_ClearWithStatus(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}
	ctx := context.Background()

	fx.handler.Handle(ctx, r, "42", "@kenji", "c1", "f")
	before := fx.refreshs.Load()

	fx.handler.Handle(ctx, r, "42", "@kenji", "c2", "cs")

	if _, ok := fx.registry.Get("42"); ok {
		t.Error("status survived cs")
	}
	if fx.refreshs.Load() != before+1 {
		t.Error("clear did not request a board refresh")
	}
	if got := r.lastReply(t); !strings.Contains(got, "Status reset") {
		t.Errorf("clear acknowledgement = %q", got)
	}
}

func TestHandle_ClearWithoutStatusIsNoopWithHint(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "c1", "cs")

	if got := r.lastReply(t); !strings.Contains(got, "haven't set a status") {
		t.Errorf("hint = %q", got)
	}
	if fx.refreshs.Load() != 0 {
		t.Error("no-op clear requested a board refresh")
	}
}

func TestHandle_UnknownTokenIsNoopWithHint(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "c1", "zzz")

	if _, ok := fx.registry.Get("42"); ok {
		t.Error("unknown token mutated the registry")
	}
	if fx.refreshs.Load() != 0 {
		t.Error("unknown token requested a board refresh")
	}
	if got := r.lastReply(t); !strings.Contains(got, "AC help") {
		t.Errorf("hint = %q", got)
	}
}

func TestHandle_HelpSendsEmbed(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "c1", "help")

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.embeds) != 1 {
		t.Fatalf("embeds sent = %d, want 1", len(r.embeds))
	}
	doc := r.embeds[0]
	for _, e := range status.All() {
		if !strings.Contains(doc.Fields[0].Value, "`AC "+e.Token+"`") {
			t.Errorf("help is missing command %q", e.Token)
		}
	}
	if doc.ThumbnailURL != testAvatarURL {
		t.Errorf("help thumbnail = %q, want the bot avatar", doc.ThumbnailURL)
	}
	var located bool
	for _, f := range doc.Fields {
		if f.Name == "📍 Where to Find the Status Board" {
			located = true
			if !strings.Contains(f.Value, "<#chan-1>") || !strings.Contains(f.Value, "<#chan-2>") {
				t.Errorf("board location field = %q, want both channel mentions", f.Value)
			}
		}
	}
	if !located {
		t.Error("help has no board location field")
	}
	if fx.refreshs.Load() != 0 {
		t.Error("help requested a board refresh")
	}
}

func TestChannelMentionList(t *testing.T) {
	cases := []struct {
		ids  []string
		want string
	}{
		{[]string{"a"}, "<#a>"},
		{[]string{"a", "b"}, "<#a> and <#b>"},
		{[]string{"a", "b", "c"}, "<#a>, <#b> and <#c>"},
	}
	for _, c := range cases {
		if got := channelMentionList(c.ids); got != c.want {
			t.Errorf("channelMentionList(%v) = %q, want %q", c.ids, got, c.want)
		}
	}
}

func TestHandle_HelpWithoutConfiguredChannels(t *testing.T) {
	fx := newFixture(t)
	fx.handler.boardChannels = nil
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "c1", "help")

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.embeds) != 1 {
		t.Fatalf("embeds sent = %d, want 1", len(r.embeds))
	}
	for _, f := range r.embeds[0].Fields {
		if f.Name == "📍 Where to Find the Status Board" {
			t.Error("board location field present with no channels configured")
		}
	}
}

func TestHandle_SchedulesEphemeralDeletes(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "cmd1", "b")
	waitForPending(t, fx.clock, 2)

	if got := r.deletedIDs(); len(got) != 0 {
		t.Fatalf("deletions before any delay elapsed: %v", got)
	}

	// Command message goes first.
	fx.clock.Advance(DefaultCommandDeleteDelay)
	waitForDeletes(t, r, 1)
	if got := r.deletedIDs(); got[0] != "cmd1" {
		t.Errorf("first deletion = %q, want the command message", got[0])
	}

	// Then the bot's reply.
	fx.clock.Advance(DefaultReplyDeleteDelay - DefaultCommandDeleteDelay)
	waitForDeletes(t, r, 2)
}

func TestHandle_SlashInvocationHasNoCommandMessageToDelete(t *testing.T) {
	fx := newFixture(t)
	r := &fakeResponder{}

	fx.handler.Handle(context.Background(), r, "42", "@kenji", "", "o")
	waitForPending(t, fx.clock, 1)

	fx.clock.Advance(time.Minute)
	waitForDeletes(t, r, 1) // only the reply
}

func TestCommands_CoversCatalogPlusClearAndHelp(t *testing.T) {
	specs := Commands()
	if len(specs) != len(status.All())+2 {
		t.Fatalf("Commands() returned %d specs, want %d", len(specs), len(status.All())+2)
	}
	tokens := make(map[string]bool)
	for _, s := range specs {
		tokens[s.Token] = true
		if s.Description == "" {
			t.Errorf("command %q has no description", s.Token)
		}
	}
	for _, want := range []string{"srn", "b", "dl", "f", "s", "o", "cs", "help"} {
		if !tokens[want] {
			t.Errorf("Commands() is missing %q", want)
		}
	}
}

// waitForPending blocks until the fake clock has the expected number of
// armed timers, so Advance cannot race the scheduler's goroutines.
func waitForPending(t *testing.T, clock *testutil.FakeClock, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if clock.Pending() >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("pending timers = %d, want %d", clock.Pending(), want)
}

func waitForDeletes(t *testing.T, r *fakeResponder, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(r.deletedIDs()) >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("deletions = %v, want %d", r.deletedIDs(), want)
}
