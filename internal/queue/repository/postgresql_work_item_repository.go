// Package repository implements durable work queue persistence for PostgreSQL, MySQL and
// memory. Every state change is a single conditional write: a claim only takes rows that
// still satisfy the claim predicate, and complete or fail only touch rows still leased to
// the calling consumer.
package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmcts/et-case-transfer/internal/database"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

const workItemColumns = `id, event_type, payload, status, locked_by, locked_until, retry_count,
	error_message, created_at, updated_at, processed_at`

// PostgreSQLWorkItemRepository implements WorkItem persistence for PostgreSQL databases.
type PostgreSQLWorkItemRepository struct {
	db *sql.DB
}

// Create inserts a new pending work item.
func (p *PostgreSQLWorkItemRepository) Create(ctx context.Context, item *queueDomain.WorkItem) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO transfer_work_items (` + workItemColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := querier.ExecContext(
		ctx,
		query,
		item.ID,
		item.EventType,
		item.Payload,
		item.Status,
		item.LockedBy,
		item.LockedUntil,
		item.RetryCount,
		item.ErrorMessage,
		item.CreatedAt,
		item.UpdatedAt,
		item.ProcessedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create work item")
	}
	return nil
}

// Claim leases up to req.Limit claimable items to req.ConsumerID, oldest first. Rows
// locked by a concurrent claim are skipped, and the outer predicate is re-checked at
// write time, so an item is never handed to two consumers for the same lease.
func (p *PostgreSQLWorkItemRepository) Claim(
	ctx context.Context,
	req queueDomain.ClaimRequest,
) ([]*queueDomain.WorkItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	querier := database.GetTx(ctx, p.db)

	predicate := `((status = 'pending' AND (locked_until IS NULL OR locked_until <= $3))
			      OR (status = 'processing' AND locked_until <= $3))`

	query := `UPDATE transfer_work_items
			  SET status = 'processing', locked_by = $1, locked_until = $2, updated_at = $3
			  WHERE id IN (
			      SELECT id FROM transfer_work_items
			      WHERE ` + predicate + `
			      ORDER BY created_at ASC, id ASC
			      LIMIT $4
			      FOR UPDATE SKIP LOCKED
			  )
			  AND ` + predicate + `
			  RETURNING ` + workItemColumns

	rows, err := querier.QueryContext(
		ctx,
		query,
		req.ConsumerID,
		req.Now.Add(req.LeaseDuration),
		req.Now,
		req.Limit,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to claim work items")
	}
	defer rows.Close() //nolint:errcheck

	items, err := scanPostgreSQLWorkItems(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan claimed work items")
	}

	// RETURNING does not preserve the sub-select order.
	sortByCreation(items)
	return items, nil
}

// Complete marks an item completed and releases its lease. Only the lease holder can
// complete a processing item; completing an item that is already completed or failed is
// a no-op.
func (p *PostgreSQLWorkItemRepository) Complete(
	ctx context.Context,
	id uuid.UUID,
	consumerID string,
	now time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE transfer_work_items
			  SET status = 'completed', locked_by = NULL, locked_until = NULL,
			      processed_at = $1, updated_at = $1
			  WHERE id = $2 AND status = 'processing' AND locked_by = $3`

	result, err := querier.ExecContext(ctx, query, now, id, consumerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to complete work item")
	}

	updated, err := affected(result)
	if err != nil || updated {
		return err
	}
	item, err := p.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = missedSettlement(item)
	return err
}

// Fail records a processing failure by the lease holder. Below maxRetries the item
// returns to pending with its lease cleared; otherwise it becomes failed. The resulting
// status is returned.
func (p *PostgreSQLWorkItemRepository) Fail(
	ctx context.Context,
	id uuid.UUID,
	consumerID string,
	errorMessage string,
	retryCount int,
	maxRetries int,
	now time.Time,
) (queueDomain.Status, error) {
	querier := database.GetTx(ctx, p.db)

	status := failStatus(retryCount, maxRetries)
	var processedAt *time.Time
	if status == queueDomain.StatusFailed {
		processedAt = &now
	}

	query := `UPDATE transfer_work_items
			  SET status = $1, locked_by = NULL, locked_until = NULL, retry_count = $2,
			      error_message = $3, processed_at = $4, updated_at = $5
			  WHERE id = $6 AND status = 'processing' AND locked_by = $7`

	result, err := querier.ExecContext(
		ctx, query, status, retryCount, errorMessage, processedAt, now, id, consumerID,
	)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to fail work item")
	}

	updated, err := affected(result)
	if err != nil {
		return "", err
	}
	if !updated {
		item, err := p.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return missedSettlement(item)
	}
	return status, nil
}

// Get retrieves a work item by ID.
func (p *PostgreSQLWorkItemRepository) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + workItemColumns + ` FROM transfer_work_items WHERE id = $1`

	rows, err := querier.QueryContext(ctx, query, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get work item")
	}
	defer rows.Close() //nolint:errcheck

	items, err := scanPostgreSQLWorkItems(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan work item")
	}
	if len(items) == 0 {
		return nil, queueDomain.ErrWorkItemNotFound
	}
	return items[0], nil
}

// List returns work items ordered by creation time.
func (p *PostgreSQLWorkItemRepository) List(
	ctx context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, p.db)

	var rows *sql.Rows
	var err error
	if filter.Status != nil {
		query := `SELECT ` + workItemColumns + ` FROM transfer_work_items
				  WHERE status = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
		rows, err = querier.QueryContext(ctx, query, *filter.Status, filter.Limit, filter.Offset)
	} else {
		query := `SELECT ` + workItemColumns + ` FROM transfer_work_items
				  ORDER BY created_at ASC, id ASC LIMIT $1 OFFSET $2`
		rows, err = querier.QueryContext(ctx, query, filter.Limit, filter.Offset)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list work items")
	}
	defer rows.Close() //nolint:errcheck

	items, err := scanPostgreSQLWorkItems(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan work items")
	}
	return items, nil
}

// CountByStatus returns the number of items per status.
func (p *PostgreSQLWorkItemRepository) CountByStatus(ctx context.Context) (map[queueDomain.Status]int, error) {
	querier := database.GetTx(ctx, p.db)
	return countByStatus(ctx, querier)
}

// DeleteFinishedBefore removes completed and failed items processed before the cutoff.
func (p *PostgreSQLWorkItemRepository) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM transfer_work_items
			  WHERE status IN ('completed', 'failed') AND processed_at < $1`

	result, err := querier.ExecContext(ctx, query, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete finished work items")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

func affected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get affected rows")
	}
	return rows > 0, nil
}

func scanPostgreSQLWorkItems(rows *sql.Rows) ([]*queueDomain.WorkItem, error) {
	var items []*queueDomain.WorkItem
	for rows.Next() {
		var item queueDomain.WorkItem
		err := rows.Scan(
			&item.ID,
			&item.EventType,
			&item.Payload,
			&item.Status,
			&item.LockedBy,
			&item.LockedUntil,
			&item.RetryCount,
			&item.ErrorMessage,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.ProcessedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func countByStatus(ctx context.Context, querier database.Querier) (map[queueDomain.Status]int, error) {
	rows, err := querier.QueryContext(ctx, `SELECT status, COUNT(*) FROM transfer_work_items GROUP BY status`)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count work items")
	}
	defer rows.Close() //nolint:errcheck

	counts := make(map[queueDomain.Status]int)
	for rows.Next() {
		var status queueDomain.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan work item count")
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to count work items")
	}
	return counts, nil
}

// missedSettlement explains a complete or fail that matched no row: terminal items are
// reported as they are, anything else has moved to another lease.
func missedSettlement(item *queueDomain.WorkItem) (queueDomain.Status, error) {
	if item.Status.Terminal() {
		return item.Status, nil
	}
	return "", queueDomain.ErrLeaseLost
}

func failStatus(retryCount, maxRetries int) queueDomain.Status {
	if retryCount < maxRetries {
		return queueDomain.StatusPending
	}
	return queueDomain.StatusFailed
}

func sortByCreation(items []*queueDomain.WorkItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return strings.Compare(items[i].ID.String(), items[j].ID.String()) < 0
	})
}

// NewPostgreSQLWorkItemRepository creates a new PostgreSQL work item repository.
func NewPostgreSQLWorkItemRepository(db *sql.DB) *PostgreSQLWorkItemRepository {
	return &PostgreSQLWorkItemRepository{db: db}
}
