package ops

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/errors"
	"github.com/hpungsan/sprig/internal/fsutil"
	"github.com/hpungsan/sprig/internal/prompt"
	"github.com/hpungsan/sprig/internal/repository"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: ~/.sprig/exports/<storage_key>-<timestamp>.json
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes the whole collection to a JSON file in the persisted format,
// so the file can be imported again or used as seed_path.
func Export(ctx context.Context, repo *repository.Repository, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	exportPath := input.Path
	if exportPath == "" {
		var err error
		exportPath, err = defaultExportPath(cfg, now)
		if err != nil {
			return nil, err
		}
	}

	// Default paths are validated too; storage_key ends up in the file name
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	prompts, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}

	data, err := prompt.Encode(prompts)
	if err != nil {
		return nil, err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		return nil, errors.NewInternal(err)
	}
	pretty.WriteByte('\n')

	if err := fsutil.WriteAtomic(exportPath, pretty.Bytes(), 0600); err != nil {
		if stderrors.Is(err, fsutil.ErrDestinationExists) {
			return nil, errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
		}
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to write export: %w", err))
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      len(prompts),
		ExportedAt: now.Unix(),
	}, nil
}

// defaultExportPath generates <exports>/<storage_key>-<timestamp>.json.
func defaultExportPath(cfg *config.Config, now time.Time) (string, error) {
	dir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}
	key := prompt.StorageKey
	if cfg != nil && cfg.StorageKey != "" {
		key = cfg.StorageKey
	}
	filename := fmt.Sprintf("%s-%s%s", SanitizeForFilename(key), now.Format("2006-01-02T150405"), ExportExt)
	return filepath.Join(dir, filename), nil
}
