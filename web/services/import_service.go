package services

import (
	"context"

	apperrors "vocab-graph/errors"
	"vocab-graph/importer"
	"vocab-graph/utils"
	"vocab-graph/web/types"

	"go.uber.org/zap"
)

// ImportSink is a graph store that can take CSV rows.
type ImportSink interface {
	importer.Sink
	Enabled() bool
}

type ImportService struct {
	sink   ImportSink
	path   string
	logger *zap.Logger
}

func NewImportService(sink ImportSink, path string, logger *zap.Logger) *ImportService {
	return &ImportService{
		sink:   sink,
		path:   path,
		logger: logger,
	}
}

// Import loads the configured CSV into the graph store.
func (is *ImportService) Import(ctx context.Context) (types.ImportStats, error) {
	if !is.sink.Enabled() {
		return types.ImportStats{}, apperrors.WrapError(apperrors.ErrServiceUnavailable, "neo4j driver not initialized")
	}
	if is.path == "" {
		return types.ImportStats{}, apperrors.WrapError(apperrors.ErrInvalidInput, "IMPORT_CSV_PATH is not configured")
	}

	if !utils.VerifyFileExists(is.path) {
		return types.ImportStats{}, apperrors.WrapErrorf(apperrors.ErrNotFound, "import CSV %s", is.path)
	}

	rows, err := importer.ReadFile(is.path)
	if err != nil {
		return types.ImportStats{}, err
	}
	is.logger.Info("Importing vocabulary CSV", zap.String("path", is.path), zap.Int("rows", len(rows)))
	return importer.Import(ctx, rows, is.sink, is.logger)
}
