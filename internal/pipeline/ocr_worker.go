package pipeline

import (
	"context"
	"fmt"

	"github.com/Alias-z/FungariumOCR/internal/data"
	"github.com/Alias-z/FungariumOCR/internal/ocr"
	"go.uber.org/zap"
)

// performOcr runs the invoker over every path in order and stops at the
// first failure.
func performOcr[T ocr.Schema](ctx context.Context, log *zap.SugaredLogger, eng ocr.OCREngine, cfg ocr.Config, paths []string) ([]*data.Record, error) {
	records := make([]*data.Record, 0, len(paths))

	for i, imagePath := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Debugf("[performOcr]: processing image %d/%d %s", i+1, len(paths), imagePath)
		result, err := ocr.Invoke[T](ctx, eng, cfg, imagePath)
		if err != nil {
			return nil, fmt.Errorf("ocr %s: %w", imagePath, err)
		}

		rec, err := extractData(result)
		if err != nil {
			return nil, fmt.Errorf("ocr %s: %w", imagePath, err)
		}
		records = append(records, rec)
		log.Infof("processed %s (%d/%d)", imagePath, i+1, len(paths))
	}
	return records, nil
}
