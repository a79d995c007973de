package importer

import (
	"context"

	"vocab-graph/web/types"

	"go.uber.org/zap"
)

// Sink receives one row at a time. database.Neo4jStore implements it.
type Sink interface {
	ImportWord(ctx context.Context, row types.WordRow) error
}

// Import feeds rows into sink. Rows without a word are skipped and a failing
// row is logged and counted; neither stops the batch. Only context
// cancellation ends the run early.
func Import(ctx context.Context, rows []types.WordRow, sink Sink, logger *zap.Logger) (types.ImportStats, error) {
	var stats types.ImportStats
	logger.Info("Processing rows", zap.Int("rows", len(rows)))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if row.Word == "" {
			stats.Skipped++
			continue
		}
		if err := sink.ImportWord(ctx, row); err != nil {
			logger.Error("Error processing row",
				zap.String("word", row.Word),
				zap.Error(err))
			stats.Errors++
			continue
		}
		stats.Created++
	}

	logger.Info("Import finished",
		zap.Int("created", stats.Created),
		zap.Int("errors", stats.Errors),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}
