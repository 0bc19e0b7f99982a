package ops

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/fsutil"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// MaxImportBytes caps the size of an import file.
const MaxImportBytes = 32 << 20

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on any id collision; nothing is imported
	ImportModeReplace ImportMode = "replace" // overwrite colliding prompts in place
	ImportModeSkip    ImportMode = "skip"    // keep existing prompts, drop colliding records
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int `json:"imported"` // new prompts appended
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// Import merges prompts from a JSON collection file into the stored
// collection. The file is validated as a whole before anything is written.
func Import(ctx context.Context, repo *repository.Repository, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	incoming, err := ReadCollectionFile(input.Path)
	if err != nil {
		return nil, err
	}

	out := &ImportOutput{}
	err = repo.Apply(ctx, func(current []prompt.Prompt) ([]prompt.Prompt, error) {
		*out = ImportOutput{}
		index := make(map[string]int, len(current))
		for i, p := range current {
			index[p.ID] = i
		}

		if input.Mode == ImportModeError {
			var collisions []string
			for _, p := range incoming {
				if _, ok := index[p.ID]; ok {
					collisions = append(collisions, p.ID)
				}
			}
			if len(collisions) > 0 {
				return nil, errors.NewConflict(
					fmt.Sprintf("%d imported prompt(s) already exist", len(collisions)), collisions)
			}
		}

		for _, p := range incoming {
			i, exists := index[p.ID]
			switch {
			case !exists:
				index[p.ID] = len(current)
				current = append(current, p)
				out.Imported++
			case input.Mode == ImportModeReplace:
				current[i] = p
				out.Replaced++
			default:
				out.Skipped++
			}
		}
		return current, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReadCollectionFile reads and decodes a JSON prompt collection, refusing
// symlinks. Decoding failures are reported as INVALID_REQUEST naming the file.
func ReadCollectionFile(path string) ([]prompt.Prompt, error) {
	file, err := fsutil.OpenNoFollowRead(path)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open %s: %w", path, err))
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read %s: %w", path, err))
	}
	if len(data) > MaxImportBytes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("%s exceeds %d bytes", path, MaxImportBytes))
	}

	prompts, err := prompt.Decode(data)
	if err != nil {
		reason := err.Error()
		if sErr, ok := errors.As(err); ok {
			if r, ok := sErr.Details["reason"].(string); ok {
				reason = r
			}
		}
		return nil, errors.NewInvalidRequest(fmt.Sprintf("%s is not a valid prompt collection: %s", path, reason))
	}
	return prompts, nil
}
