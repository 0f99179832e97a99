package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/talentlink/appcore/internal/core/domain"
)

// FileSampler reads the most recent device fix from a JSON file maintained
// by the platform location shim. The daemon has no direct GPS access; the
// shim writes `{"latitude": ..., "longitude": ...}` and the sampler picks it
// up on the next tick.
type FileSampler struct {
	path string
}

func NewFileSampler(path string) *FileSampler {
	return &FileSampler{path: path}
}

func (s *FileSampler) Sample(ctx context.Context) (Fix, error) {
	if err := ctx.Err(); err != nil {
		return Fix{}, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Fix{}, fmt.Errorf("sampler: read fix: %w", err)
	}

	var fix Fix
	if err := json.Unmarshal(raw, &fix); err != nil {
		return Fix{}, fmt.Errorf("sampler: decode fix: %w", err)
	}
	return fix, nil
}

// StaticPermission models the platform's background-location grant as
// resolved at composition time: the OS prompt happened out-of-process and
// the outcome arrives via configuration.
type StaticPermission bool

func (p StaticPermission) RequestBackground(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bool(p) {
		return domain.ErrPermissionDenied
	}
	return nil
}
