// Package repository owns the persisted prompt collection: it loads the
// collection from a store.Store, applies mutations to a fresh copy, writes
// the whole collection back, and only then swaps its in-memory snapshot.
package repository

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/logging"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/store"
)

// maxIDAttempts bounds regeneration when a generated id is already taken.
const maxIDAttempts = 5

// Repository is safe for concurrent use. Mutations are serialized; there is
// no coordination across processes sharing the same store (last write wins).
type Repository struct {
	mu      sync.Mutex
	store   store.Store
	key     string
	seed    []prompt.Prompt
	now     func() time.Time
	newID   func() (string, error)
	logger  *log.Logger
	prompts []prompt.Prompt
}

// Option configures a Repository.
type Option func(*Repository)

// WithSeed sets the collection used (and persisted) when nothing is stored yet.
// A seed with empty or duplicate ids makes Load fail without writing.
func WithSeed(seed []prompt.Prompt) Option {
	return func(r *Repository) { r.seed = prompt.CloneAll(seed) }
}

// WithClock overrides time.Now, for timestamps and generated ids.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides ULID generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(r *Repository) { r.newID = newID }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(r *Repository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithKey overrides the storage key (default "prompts"). An empty key keeps
// the default.
func WithKey(key string) Option {
	return func(r *Repository) {
		if key != "" {
			r.key = key
		}
	}
}

// New creates a Repository over s. Call Load before reading the snapshot.
func New(s store.Store, opts ...Option) *Repository {
	r := &Repository{
		store:   s,
		key:     prompt.StorageKey,
		now:     time.Now,
		logger:  logging.Discard(),
		prompts: []prompt.Prompt{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newID == nil {
		r.newID = newULID(rand.Reader, r.now)
	}
	return r
}

func newULID(r io.Reader, now func() time.Time) func() (string, error) {
	entropy := ulid.Monotonic(r, 0)
	return func() (string, error) {
		id, err := ulid.New(ulid.Timestamp(now()), entropy)
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}
}

// CreateParams holds the fields of a new prompt.
type CreateParams struct {
	Title      string
	Content    string
	Tags       []string
	IsFavorite bool
}

// Patch lists the fields to change; nil fields are left alone. RemoveTags is
// applied after Tags.
type Patch struct {
	Title      *string
	Content    *string
	Tags       *[]string
	RemoveTags []string
	IsFavorite *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && len(p.RemoveTags) == 0 && p.IsFavorite == nil
}

// Load reads the stored collection and replaces the snapshot.
//
// When nothing is stored the configured seed is returned and persisted right
// away; with no seed the result is empty and nothing is written.
func (r *Repository) Load(ctx context.Context) ([]prompt.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, absent, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	if absent && len(prompts) > 0 {
		if err := r.write(ctx, prompts); err != nil {
			return nil, err
		}
		r.logger.Debug("seeded prompt collection", "key", r.key, "count", len(prompts))
	}

	r.prompts = prompts
	r.logger.Debug("loaded prompt collection", "key", r.key, "count", len(prompts))
	return prompt.CloneAll(prompts), nil
}

// Create appends a new prompt and persists the collection.
func (r *Repository) Create(ctx context.Context, params CreateParams) (prompt.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, _, err := r.read(ctx)
	if err != nil {
		return prompt.Prompt{}, err
	}

	id, err := r.uniqueID(prompts)
	if err != nil {
		return prompt.Prompt{}, err
	}

	now := r.timestamp()
	p := prompt.Prompt{
		ID:         id,
		Title:      params.Title,
		Content:    params.Content,
		Tags:       prompt.CleanTags(params.Tags),
		IsFavorite: params.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	next := append(prompts, p)
	if err := r.commit(ctx, next); err != nil {
		return prompt.Prompt{}, err
	}
	r.logger.Debug("created prompt", "id", id, "tags", len(p.Tags))
	return p.Clone(), nil
}

// Update applies patch to the prompt with id. The id and createdAt never change.
func (r *Repository) Update(ctx context.Context, id string, patch Patch) (prompt.Prompt, error) {
	return r.mutate(ctx, id, "updated prompt", func(p *prompt.Prompt) {
		if patch.Title != nil {
			p.Title = *patch.Title
		}
		if patch.Content != nil {
			p.Content = *patch.Content
		}
		if patch.Tags != nil {
			p.Tags = prompt.CleanTags(*patch.Tags)
		}
		for _, tag := range patch.RemoveTags {
			p.Tags = prompt.RemoveTag(p.Tags, strings.TrimSpace(tag))
		}
		if patch.IsFavorite != nil {
			p.IsFavorite = *patch.IsFavorite
		}
	})
}

// ToggleFavorite flips the favorite flag of the prompt with id.
func (r *Repository) ToggleFavorite(ctx context.Context, id string) (prompt.Prompt, error) {
	return r.mutate(ctx, id, "toggled favorite", func(p *prompt.Prompt) {
		p.IsFavorite = !p.IsFavorite
	})
}

// Delete removes the prompt with id. Deleting an unknown id is a no-op and
// does not touch the store. It reports whether anything was removed.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, _, err := r.read(ctx)
	if err != nil {
		return false, err
	}

	i := prompt.IndexOf(prompts, id)
	if i < 0 {
		r.prompts = prompts
		return false, nil
	}

	next := append(prompts[:i:i], prompts[i+1:]...)
	if err := r.commit(ctx, next); err != nil {
		return false, err
	}
	r.logger.Debug("deleted prompt", "id", id)
	return true, nil
}

// Apply runs fn on a copy of the stored collection and persists whatever it
// returns as the new collection. Used by import. An error from fn aborts
// without writing, as does a result with empty or duplicate ids.
func (r *Repository) Apply(ctx context.Context, fn func([]prompt.Prompt) ([]prompt.Prompt, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, _, err := r.read(ctx)
	if err != nil {
		return err
	}
	next, err := fn(prompts)
	if err != nil {
		return err
	}
	next = prompt.CloneAll(next)
	if err := prompt.Validate(next); err != nil {
		return err
	}

	if err := r.commit(ctx, next); err != nil {
		return err
	}
	r.logger.Debug("applied collection change", "before", len(prompts), "after", len(next))
	return nil
}

// GetByID looks up a prompt in the snapshot without touching the store.
func (r *Repository) GetByID(id string) (prompt.Prompt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := prompt.IndexOf(r.prompts, id)
	if i < 0 {
		return prompt.Prompt{}, false
	}
	return r.prompts[i].Clone(), true
}

// Prompts returns a copy of the snapshot in stored order.
func (r *Repository) Prompts() []prompt.Prompt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return prompt.CloneAll(r.prompts)
}

// KnownTags returns the distinct tags in the snapshot in first-seen order.
func (r *Repository) KnownTags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return prompt.KnownTags(nil, r.prompts)
}

// mutate runs fn on a fresh copy of the prompt with id and persists it.
func (r *Repository) mutate(ctx context.Context, id, event string, fn func(*prompt.Prompt)) (prompt.Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prompts, _, err := r.read(ctx)
	if err != nil {
		return prompt.Prompt{}, err
	}

	i := prompt.IndexOf(prompts, id)
	if i < 0 {
		return prompt.Prompt{}, errors.NewNotFound(id)
	}

	p := prompts[i].Clone()
	fn(&p)
	p.ID = prompts[i].ID
	p.CreatedAt = prompts[i].CreatedAt
	p.UpdatedAt = r.after(prompts[i].UpdatedAt)
	prompts[i] = p

	if err := r.commit(ctx, prompts); err != nil {
		return prompt.Prompt{}, err
	}
	r.logger.Debug(event, "id", id)
	return p.Clone(), nil
}

// read fetches and decodes the stored collection. absent reports that the
// key was missing, in which case the result is a copy of the seed.
func (r *Repository) read(ctx context.Context) (prompts []prompt.Prompt, absent bool, err error) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.logger.Error("storage read failed", "key", r.key, "err", err)
		return nil, false, errors.NewIO("get", r.key, err)
	}
	if data == nil {
		return prompt.CloneAll(r.seed), true, nil
	}
	prompts, err = prompt.Decode(data)
	if err != nil {
		r.logger.Error("stored collection is corrupt", "key", r.key, "err", err)
		return nil, false, err
	}
	return prompts, false, nil
}

func (r *Repository) write(ctx context.Context, prompts []prompt.Prompt) error {
	data, err := prompt.Encode(prompts)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		r.logger.Error("storage write failed", "key", r.key, "err", err)
		return errors.NewIO("set", r.key, err)
	}
	return nil
}

// commit writes prompts and, only on success, makes them the snapshot.
func (r *Repository) commit(ctx context.Context, prompts []prompt.Prompt) error {
	if err := r.write(ctx, prompts); err != nil {
		return err
	}
	r.prompts = prompts
	return nil
}

func (r *Repository) uniqueID(prompts []prompt.Prompt) (string, error) {
	for range maxIDAttempts {
		id, err := r.newID()
		if err != nil {
			return "", errors.NewInternal(err)
		}
		if id != "" && prompt.IndexOf(prompts, id) < 0 {
			return id, nil
		}
		r.logger.Warn("generated id already in use; regenerating", "id", id)
	}
	return "", errors.NewConflict("could not generate an unused prompt id", nil)
}

// timestamp is the current time at the precision the codec persists.
func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// after returns the current timestamp, moved forward to stay strictly later
// than prev.
func (r *Repository) after(prev time.Time) time.Time {
	now := r.timestamp()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}
