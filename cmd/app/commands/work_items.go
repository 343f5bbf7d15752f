package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"text/tabwriter"
	"time"

	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	"github.com/hmcts/et-case-transfer/internal/queue/http/dto"
	queueUsecase "github.com/hmcts/et-case-transfer/internal/queue/usecase"
)

// RunListWorkItems prints the queue depth per status followed by a page of work items,
// optionally filtered by status.
func RunListWorkItems(
	ctx context.Context,
	useCase queueUsecase.WorkItemUseCase,
	writer io.Writer,
	status string,
	offset int,
	limit int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	filter := queueDomain.ListFilter{Offset: offset, Limit: limit}
	if status != "" {
		s := queueDomain.Status(status)
		if !s.Valid() {
			return fmt.Errorf("invalid status: %s", status)
		}
		filter.Status = &s
	}

	stats, err := useCase.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to count work items: %w", err)
	}

	items, err := useCase.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list work items: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"counts": dto.MapStatsToResponse(stats).Counts,
			"data":   dto.MapWorkItemsToListResponse(items).Data,
		})
	}

	statuses := make([]string, 0, len(stats))
	for s := range stats {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		_, _ = fmt.Fprintf(writer, "%s: %d\n", s, stats[queueDomain.Status(s)])
	}
	_, _ = fmt.Fprintln(writer)

	tw := tabwriter.NewWriter(writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tEVENT TYPE\tSTATUS\tRETRIES\tCREATED")
	for _, item := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.EventType, item.Status, item.RetryCount, item.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

// RunCleanWorkItems deletes completed and failed work items processed more than days ago.
func RunCleanWorkItems(
	ctx context.Context,
	useCase queueUsecase.WorkItemUseCase,
	logger *slog.Logger,
	writer io.Writer,
	days int,
	format string,
) error {
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("cleaning work items", slog.Int("days", days))

	count, err := useCase.DeleteOlderThan(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to delete work items: %w", err)
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{"count": count, "days": days}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d work item(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed", slog.Int64("count", count), slog.Int("days", days))
	return nil
}
