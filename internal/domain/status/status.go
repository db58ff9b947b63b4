// Package status defines the closed set of activity statuses a member can
// hold and the catalog metadata used to render and parse them.
//
// The set is fixed at compile time. Command tokens, display labels, emoji,
// and board ordering all come from the catalog table; nothing registers
// statuses dynamically.
package status

// Value identifies one activity status. The zero value is not a valid
// status; use Lookup or Parse to obtain one.
type Value string

const (
	Studying Value = "studying"
	Break    Value = "break"
	DoLater  Value = "later"
	Free     Value = "free"
	Sleeping Value = "sleeping"
	Outside  Value = "outside"
)

// Entry describes one catalog row: a status plus everything needed to
// present it (board category, emoji, command token) and its position in
// the board's fixed display order.
type Entry struct {
	Value    Value
	Category string // category label shown on the board, e.g. "Studying Right Now"
	Emoji    string
	Token    string // command token members type, e.g. "srn"
	Order    int
}

// Label returns the full display label including the emoji, e.g.
// "Studying Right Now 📚".
func (e Entry) Label() string {
	return e.Category + " " + e.Emoji
}

// catalog is the authoritative table. Order here is display order.
var catalog = []Entry{
	{Value: Studying, Category: "Studying Right Now", Emoji: "📚", Token: "srn", Order: 0},
	{Value: Break, Category: "On a Break", Emoji: "☕", Token: "b", Order: 1},
	{Value: DoLater, Category: "Do Later", Emoji: "⏰", Token: "dl", Order: 2},
	{Value: Free, Category: "Free to Chat", Emoji: "🟢", Token: "f", Order: 3},
	{Value: Sleeping, Category: "Sleeping", Emoji: "😴", Token: "s", Order: 4},
	{Value: Outside, Category: "Outside", Emoji: "🚶", Token: "o", Order: 5},
}

var byToken = func() map[string]Entry {
	m := make(map[string]Entry, len(catalog))
	for _, e := range catalog {
		m[e.Token] = e
	}
	return m
}()

var byValue = func() map[Value]Entry {
	m := make(map[Value]Entry, len(catalog))
	for _, e := range catalog {
		m[e.Value] = e
	}
	return m
}()

// Lookup maps a command token (already lowercased and trimmed by the
// caller) to its status. The second return is false for unknown tokens;
// callers treat that as a no-op with a user-facing hint, never an error.
func Lookup(token string) (Value, bool) {
	e, ok := byToken[token]
	return e.Value, ok
}

// Parse validates a stored status string, as read back from the store.
// Rows that fail to parse (for example after a catalog change) are
// skipped during hydration.
func Parse(stored string) (Value, bool) {
	v := Value(stored)
	_, ok := byValue[v]
	return v, ok
}

// EntryOf returns the catalog row for v. It panics if v is not a catalog
// member; values only enter the system through Lookup and Parse, so a
// miss here is a programming error.
func EntryOf(v Value) Entry {
	e, ok := byValue[v]
	if !ok {
		panic("status: unknown value " + string(v))
	}
	return e
}

// All returns the catalog entries in display order. The returned slice is
// a copy; callers may not mutate the catalog.
func All() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}
