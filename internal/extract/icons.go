package extract

import (
	"context"

	"go.uber.org/zap"
)

type IconResult struct {
	Written int
	Missing int
	Errors  []error
}

// DumpIcons writes an icon for every identifier in the range that has one,
// whether or not an item composition exists for it.
func (e *Extractor) DumpIcons(ctx context.Context, r Range) *IconResult {
	result := &IconResult{}

	for id := r.Start; id < r.End; id++ {
		written, err := e.writeIcon(ctx, id)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, err)
		case written:
			result.Written++
		default:
			result.Missing++
		}
	}

	e.log.Debug("icon dump complete",
		zap.Int("start", r.Start),
		zap.Int("end", r.End),
		zap.Int("written", result.Written),
		zap.Int("missing", result.Missing))
	return result
}
