package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/platewise/foodscan-cli/internal/model"
	"github.com/platewise/foodscan-cli/internal/store"
)

// historyKey is the single logical key under which the whole collection is
// persisted.
const historyKey = "food_analysis_history"

// DefaultMaxEntries is the retention bound: the collection never holds more
// than this many entries after a mutation completes.
const DefaultMaxEntries = 100

// Repository owns the bounded, reverse-chronological collection of saved
// analyses. It is the single source of truth; analytics and formatting only
// ever read from it.
//
// Every mutating operation is a read-modify-write over the entire persisted
// snapshot and is not internally serialized. Callers must keep at most one
// mutation in flight per store; unserialized concurrent mutations are
// last-write-wins on the full snapshot. Reads observe either the pre- or
// post-mutation snapshot as long as the store's write is atomic.
type Repository struct {
	store      store.Store
	maxEntries int
	now        func() time.Time
	newID      func() string
}

// Option configures a Repository.
type Option func(*Repository)

// WithMaxEntries overrides the retention bound.
func WithMaxEntries(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.maxEntries = n
		}
	}
}

// WithClock overrides the time source used to stamp savedAt.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDFunc overrides the id generator.
func WithIDFunc(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// New creates a Repository over the given store.
func New(st store.Store, opts ...Option) *Repository {
	r := &Repository{
		store:      st,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Save admits a new analysis into the history: it generates an id, stamps
// savedAt, prepends the entry, evicts the oldest entries beyond the bound,
// and persists the full snapshot. A store write failure propagates and
// leaves the prior durable snapshot authoritative.
func (r *Repository) Save(ctx context.Context, result model.AnalysisResult, notes string) (string, error) {
	if result.PredictedClass == "" {
		return "", eris.New("history: predicted class is empty")
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return "", eris.Errorf("history: confidence %v outside [0,1]", result.Confidence)
	}
	if result.ProcessingTime < 0 {
		return "", eris.Errorf("history: negative processing time %v", result.ProcessingTime)
	}

	now := r.now().UTC()
	saved := model.SavedAnalysis{
		ID:             r.newID(),
		AnalysisResult: result,
		SavedAt:        now,
		UserNotes:      notes,
	}
	if saved.Timestamp.IsZero() {
		saved.Timestamp = now
	}

	entries := append([]model.SavedAnalysis{saved}, r.load(ctx)...)
	if len(entries) > r.maxEntries {
		entries = entries[:r.maxEntries]
	}

	if err := r.persist(ctx, entries); err != nil {
		return "", err
	}

	zap.L().Debug("history: analysis saved",
		zap.String("id", saved.ID),
		zap.String("food", saved.PredictedClass),
		zap.Int("entries", len(entries)),
	)
	return saved.ID, nil
}

// List returns the current snapshot, most recently saved first. A missing
// key, an unreadable store, or a corrupt payload all yield an empty snapshot
// rather than an error; corrupt state is repaired by the next successful
// write, not here.
func (r *Repository) List(ctx context.Context) []model.SavedAnalysis {
	return r.load(ctx)
}

// Delete removes the entry with the given id. Unknown ids are a no-op; the
// (possibly unchanged) snapshot is persisted either way.
func (r *Repository) Delete(ctx context.Context, id string) error {
	entries := r.load(ctx)
	kept := make([]model.SavedAnalysis, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return r.persist(ctx, kept)
}

// UpdateNotes replaces the user notes on the entry with the given id.
// Unknown ids are a no-op. All other fields stay immutable.
func (r *Repository) UpdateNotes(ctx context.Context, id, notes string) error {
	entries := r.load(ctx)
	for i := range entries {
		if entries[i].ID == id {
			entries[i].UserNotes = notes
			break
		}
	}
	return r.persist(ctx, entries)
}

// ExportAll renders the current snapshot as indented JSON, identical in
// shape to the stored collection. Pure read.
func (r *Repository) ExportAll(ctx context.Context) (string, error) {
	entries := r.load(ctx)
	if entries == nil {
		entries = []model.SavedAnalysis{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "history: encode export")
	}
	return string(data), nil
}

// ClearAll removes the durable key entirely. A subsequent List returns an
// empty snapshot.
func (r *Repository) ClearAll(ctx context.Context) error {
	if err := r.store.Remove(ctx, historyKey); err != nil {
		return eris.Wrap(err, "history: clear")
	}
	return nil
}

func (r *Repository) load(ctx context.Context) []model.SavedAnalysis {
	raw, ok, err := r.store.Get(ctx, historyKey)
	if err != nil {
		zap.L().Warn("history: store read failed, treating as empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var entries []model.SavedAnalysis
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// Corrupt snapshot is recoverable: it reads as empty and the next
		// successful write replaces it.
		zap.L().Warn("history: corrupt snapshot, treating as empty", zap.Error(err))
		return nil
	}
	return entries
}

func (r *Repository) persist(ctx context.Context, entries []model.SavedAnalysis) error {
	if entries == nil {
		entries = []model.SavedAnalysis{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return eris.Wrap(err, "history: encode snapshot")
	}
	if err := r.store.Set(ctx, historyKey, string(data)); err != nil {
		return eris.Wrap(err, "history: write snapshot")
	}
	return nil
}
