package report

import (
	"context"
)

// Repository defines the persistence operations for build reports.
type Repository interface {
	// Save stores a build report and its list records.
	Save(ctx context.Context, r *BuildReport) error

	// Get retrieves a build report by id, including its list records.
	Get(ctx context.Context, id uint) (*BuildReport, error)

	// List retrieves the most recent build reports, newest first.
	List(ctx context.Context, limit int) ([]BuildReport, error)

	// Close releases the underlying database connection.
	Close() error
}
