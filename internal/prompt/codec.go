package prompt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hpungsan/sprig/internal/errors"
)

// record is the persisted shape of a Prompt. Pointer fields let Decode tell
// a missing field apart from a zero value.
type record struct {
	ID         *string   `json:"id"`
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Tags       *[]string `json:"tags"`
	IsFavorite *bool     `json:"isFavorite"`
	CreatedAt  *string   `json:"createdAt"`
	UpdatedAt  *string   `json:"updatedAt"`
}

// Decode parses a stored collection. A nil input means "no stored value" and
// yields an empty collection.
//
// Any malformed record fails the whole collection with CORRUPT_DATA; there is
// no partial recovery. Unknown fields are ignored. Duplicate tags within a
// record are collapsed, duplicate ids are corruption.
func Decode(data []byte) ([]Prompt, error) {
	if data == nil {
		return []Prompt{}, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.NewCorruptData("not a JSON array", err)
	}
	if raws == nil {
		return nil, errors.NewCorruptData("collection is null", nil)
	}

	prompts := make([]Prompt, 0, len(raws))
	seen := make(map[string]bool, len(raws))
	for i, raw := range raws {
		p, err := decodeRecord(raw)
		if err != nil {
			return nil, errors.NewCorruptData(fmt.Sprintf("record %d: %v", i, err), err)
		}
		if seen[p.ID] {
			return nil, errors.NewCorruptData(fmt.Sprintf("record %d: duplicate id %q", i, p.ID), nil)
		}
		seen[p.ID] = true
		prompts = append(prompts, p)
	}

	return prompts, nil
}

// decodeRecord validates and converts a single record.
func decodeRecord(raw json.RawMessage) (Prompt, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return Prompt{}, err
	}

	switch {
	case r.ID == nil:
		return Prompt{}, missingField("id")
	case r.Title == nil:
		return Prompt{}, missingField("title")
	case r.Content == nil:
		return Prompt{}, missingField("content")
	case r.Tags == nil:
		return Prompt{}, missingField("tags")
	case r.IsFavorite == nil:
		return Prompt{}, missingField("isFavorite")
	case r.CreatedAt == nil:
		return Prompt{}, missingField("createdAt")
	case r.UpdatedAt == nil:
		return Prompt{}, missingField("updatedAt")
	}

	if *r.ID == "" {
		return Prompt{}, fmt.Errorf("empty id")
	}

	createdAt, err := parseTimestamp(*r.CreatedAt)
	if err != nil {
		return Prompt{}, fmt.Errorf("createdAt: %w", err)
	}
	updatedAt, err := parseTimestamp(*r.UpdatedAt)
	if err != nil {
		return Prompt{}, fmt.Errorf("updatedAt: %w", err)
	}

	return Prompt{
		ID:         *r.ID,
		Title:      *r.Title,
		Content:    *r.Content,
		Tags:       dedupeTags(*r.Tags),
		IsFavorite: *r.IsFavorite,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

// Encode serializes the collection. The output always decodes back to an
// equal collection; collections Validate rejects are not encoded.
func Encode(prompts []Prompt) ([]byte, error) {
	if err := Validate(prompts); err != nil {
		return nil, err
	}
	out := make([]Prompt, len(prompts))
	for i, p := range prompts {
		c := p.Clone()
		c.CreatedAt = p.CreatedAt.UTC()
		c.UpdatedAt = p.UpdatedAt.UTC()
		out[i] = c
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return data, nil
}

// Validate checks the collection-level rules Decode enforces: every id is
// non-empty (INVALID_REQUEST) and unique (CONFLICT).
func Validate(prompts []Prompt) error {
	seen := make(map[string]bool, len(prompts))
	var dups []string
	for i, p := range prompts {
		if p.ID == "" {
			return errors.NewInvalidRequest(fmt.Sprintf("record %d: empty id", i))
		}
		if seen[p.ID] {
			dups = append(dups, p.ID)
		}
		seen[p.ID] = true
	}
	if len(dups) > 0 {
		return errors.NewConflict("collection contains duplicate ids", dups)
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("missing field %q", name)
}

// parseTimestamp accepts RFC 3339 with optional fractional seconds, the
// format of ISO strings written by earlier clients.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
