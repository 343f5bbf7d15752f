package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hmcts/et-case-transfer/internal/database"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
)

const mysqlClaimPredicate = `((status = 'pending' AND (locked_until IS NULL OR locked_until <= ?))
	OR (status = 'processing' AND locked_until <= ?))`

// MySQLWorkItemRepository implements WorkItem persistence for MySQL databases.
type MySQLWorkItemRepository struct {
	db *sql.DB
}

// Create inserts a new pending work item.
func (m *MySQLWorkItemRepository) Create(ctx context.Context, item *queueDomain.WorkItem) error {
	querier := database.GetTx(ctx, m.db)

	id, err := item.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `INSERT INTO transfer_work_items (` + workItemColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Claim leases up to req.Limit claimable items to req.ConsumerID, oldest first. MySQL
// has no UPDATE ... RETURNING, so the rows are locked with SKIP LOCKED, updated under the
// same predicate and read back inside one transaction.
func (m *MySQLWorkItemRepository) Claim(
	ctx context.Context,
	req queueDomain.ClaimRequest,
) ([]*queueDomain.WorkItem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var items []*queueDomain.WorkItem
	err := database.RunInTx(ctx, m.db, func(ctx context.Context) error {
		querier := database.GetTx(ctx, m.db)

		ids, err := m.lockClaimable(ctx, querier, req)
		if err != nil || len(ids) == 0 {
			return err
		}

		args := []any{req.ConsumerID, req.Now.Add(req.LeaseDuration), req.Now}
		args = append(args, ids...)
		args = append(args, req.Now, req.Now)

		update := `UPDATE transfer_work_items
				   SET status = 'processing', locked_by = ?, locked_until = ?, updated_at = ?
				   WHERE id IN (` + placeholders(len(ids)) + `) AND ` + mysqlClaimPredicate
		if _, err := querier.ExecContext(ctx, update, args...); err != nil {
			return apperrors.Wrap(err, "failed to lease work items")
		}

		selectArgs := append(append([]any{}, ids...), req.ConsumerID)
		rows, err := querier.QueryContext(
			ctx,
			`SELECT `+workItemColumns+` FROM transfer_work_items
			 WHERE id IN (`+placeholders(len(ids))+`) AND status = 'processing' AND locked_by = ?
			 ORDER BY created_at ASC, id ASC`,
			selectArgs...,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to read claimed work items")
		}
		defer rows.Close() //nolint:errcheck

		items, err = scanMySQLWorkItems(rows)
		if err != nil {
			return apperrors.Wrap(err, "failed to scan claimed work items")
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to claim work items")
	}
	return items, nil
}

func (m *MySQLWorkItemRepository) lockClaimable(
	ctx context.Context,
	querier database.Querier,
	req queueDomain.ClaimRequest,
) ([]any, error) {
	query := `SELECT id FROM transfer_work_items
			  WHERE ` + mysqlClaimPredicate + `
			  ORDER BY created_at ASC, id ASC
			  LIMIT ?
			  FOR UPDATE SKIP LOCKED`

	rows, err := querier.QueryContext(ctx, query, req.Now, req.Now, req.Limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to select claimable work items")
	}
	defer rows.Close() //nolint:errcheck

	var ids []any
	for rows.Next() {
		var id []byte
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan work item id")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Complete marks an item completed and releases its lease. Only the lease holder can
// complete a processing item; completing a terminal item is a no-op.
func (m *MySQLWorkItemRepository) Complete(
	ctx context.Context,
	id uuid.UUID,
	consumerID string,
	now time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `UPDATE transfer_work_items
			  SET status = 'completed', locked_by = NULL, locked_until = NULL,
			      processed_at = ?, updated_at = ?
			  WHERE id = ? AND status = 'processing' AND locked_by = ?`

	result, err := querier.ExecContext(ctx, query, now, now, idBytes, consumerID)
	if err != nil {
		return apperrors.Wrap(err, "failed to complete work item")
	}

	updated, err := affected(result)
	if err != nil || updated {
		return err
	}
	item, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = missedSettlement(item)
	return err
}

// Fail records a processing failure by the lease holder and returns the resulting status.
func (m *MySQLWorkItemRepository) Fail(
	ctx context.Context,
	id uuid.UUID,
	consumerID string,
	errorMessage string,
	retryCount int,
	maxRetries int,
	now time.Time,
) (queueDomain.Status, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal work item id")
	}

	status := failStatus(retryCount, maxRetries)
	var processedAt *time.Time
	if status == queueDomain.StatusFailed {
		processedAt = &now
	}

	query := `UPDATE transfer_work_items
			  SET status = ?, locked_by = NULL, locked_until = NULL, retry_count = ?,
			      error_message = ?, processed_at = ?, updated_at = ?
			  WHERE id = ? AND status = 'processing' AND locked_by = ?`

	result, err := querier.ExecContext(
		ctx, query, status, retryCount, errorMessage, processedAt, now, idBytes, consumerID,
	)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to fail work item")
	}

	updated, err := affected(result)
	if err != nil {
		return "", err
	}
	if !updated {
		item, err := m.Get(ctx, id)
		if err != nil {
			return "", err
		}
		return missedSettlement(item)
	}
	return status, nil
}

// Get retrieves a work item by ID.
func (m *MySQLWorkItemRepository) Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal work item id")
	}

	rows, err := querier.QueryContext(
		ctx,
		`SELECT `+workItemColumns+` FROM transfer_work_items WHERE id = ?`,
		idBytes,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get work item")
	}
	defer rows.Close() //nolint:errcheck

	items, err := scanMySQLWorkItems(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan work item")
	}
	if len(items) == 0 {
		return nil, queueDomain.ErrWorkItemNotFound
	}
	return items[0], nil
}

// List returns work items ordered by creation time.
func (m *MySQLWorkItemRepository) List(
	ctx context.Context,
	filter queueDomain.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + workItemColumns + ` FROM transfer_work_items`
	var args []any
	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, *filter.Status)
	}
	query += ` ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list work items")
	}
	defer rows.Close() //nolint:errcheck

	items, err := scanMySQLWorkItems(rows)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scan work items")
	}
	return items, nil
}

// CountByStatus returns the number of items per status.
func (m *MySQLWorkItemRepository) CountByStatus(ctx context.Context) (map[queueDomain.Status]int, error) {
	return countByStatus(ctx, database.GetTx(ctx, m.db))
}

// DeleteFinishedBefore removes completed and failed items processed before the cutoff.
func (m *MySQLWorkItemRepository) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(
		ctx,
		`DELETE FROM transfer_work_items WHERE status IN ('completed', 'failed') AND processed_at < ?`,
		before,
	)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete finished work items")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

func scanMySQLWorkItems(rows *sql.Rows) ([]*queueDomain.WorkItem, error) {
	var items []*queueDomain.WorkItem
	for rows.Next() {
		var item queueDomain.WorkItem
		var id []byte
		err := rows.Scan(
			&id,
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
		if err := item.ID.UnmarshalBinary(id); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// NewMySQLWorkItemRepository creates a new MySQL work item repository.
func NewMySQLWorkItemRepository(db *sql.DB) *MySQLWorkItemRepository {
	return &MySQLWorkItemRepository{db: db}
}
