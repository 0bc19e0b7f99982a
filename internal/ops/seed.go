package ops

import (
	"time"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/prompt"
)

// LoadSeed resolves the first-run collection from config: the seed_path file
// if set, else the built-in samples if seed_samples is on, else nothing.
// seed_path comes from the user's own config, so it skips ValidatePath.
func LoadSeed(cfg *config.Config, now time.Time) ([]prompt.Prompt, error) {
	if cfg == nil {
		return nil, nil
	}
	if cfg.SeedPath != "" {
		return ReadCollectionFile(cfg.SeedPath)
	}
	if cfg.SeedSamples {
		return prompt.Samples(now), nil
	}
	return nil, nil
}
