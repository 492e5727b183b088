// Package services orchestrates the import pipeline across the decoder,
// the SQLite store and the optional AMQP publisher.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/huyhoang1996vn/zinc-assignment/internal/amqp"
	"github.com/huyhoang1996vn/zinc-assignment/internal/core"
	"github.com/huyhoang1996vn/zinc-assignment/internal/importer"
)

// SaleStore is the slice of the repository the import pipeline needs.
type SaleStore interface {
	BulkInsertSales(ctx context.Context, sales []core.Sale) error
	CountSales(ctx context.Context) (int64, error)
}

// EventPublisher announces completed imports. A nil publisher disables events.
type EventPublisher interface {
	PublishImportCompleted(ctx context.Context, msg *amqp.ImportCompletedMessage) error
}

// CacheInvalidator drops cached aggregates once new rows land.
type CacheInvalidator interface {
	Invalidate()
}

type ImportService struct {
	store     SaleStore
	publisher EventPublisher
	cache     CacheInvalidator
}

func NewImportService(store SaleStore, publisher EventPublisher) *ImportService {
	return &ImportService{
		store:     store,
		publisher: publisher,
	}
}

// UseMetricsCache registers a cache to invalidate after every import, so
// metrics reads always reflect rows that were just committed.
func (s *ImportService) UseMetricsCache(cache CacheInvalidator) {
	s.cache = cache
}

// ImportFile decodes the payload by filename extension, maps the rows and
// bulk-inserts them. It returns the table's TOTAL row count after the insert,
// which is what the API reports as imported_rows.
func (s *ImportService) ImportFile(ctx context.Context, filename string, data []byte) (int64, error) {
	table, err := importer.Decode(filename, data)
	if err != nil {
		return 0, err
	}
	return s.ImportTable(ctx, filename, table)
}

// ImportTable runs the mapping and persistence stages on an already-decoded
// table. Used directly by the Google Sheets import source.
func (s *ImportService) ImportTable(ctx context.Context, source string, table importer.Table) (int64, error) {
	sales, err := importer.MapSales(table)
	if err != nil {
		return 0, err
	}

	if err := s.store.BulkInsertSales(ctx, sales); err != nil {
		return 0, fmt.Errorf("persist sales: %w", err)
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}

	total, err := s.store.CountSales(ctx)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}

	// Event delivery is best effort: the rows are already committed.
	if s.publisher != nil {
		msg := amqp.NewImportCompletedMessage(source, int64(len(sales)), total)
		if err := s.publisher.PublishImportCompleted(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish import completed event",
				"source", source, "error", err)
		}
	}

	return total, nil
}
