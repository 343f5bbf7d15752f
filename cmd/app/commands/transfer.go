package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
	"github.com/hmcts/et-case-transfer/internal/transfer/http/dto"
	transferUsecase "github.com/hmcts/et-case-transfer/internal/transfer/usecase"
)

// RunTransferCase transfers one case and its linked cases, printing the outcome.
// A blocked transfer prints the validation messages and returns an error.
func RunTransferCase(
	ctx context.Context,
	useCase transferUsecase.TransferUseCase,
	logger *slog.Logger,
	writer io.Writer,
	credential string,
	input transferUsecase.TransferCaseInput,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("transferring case",
		slog.String("case_reference", input.CaseReference),
		slog.String("target_office", input.TargetOffice),
	)

	result, err := useCase.TransferCase(withCredential(ctx, credential), input)
	if err != nil {
		return fmt.Errorf("failed to transfer case %s: %w", input.CaseReference, err)
	}
	return outputTransferResult(writer, input.CaseReference, result, format)
}

// RunTransferBulk transfers the cases of a bulk container. An empty references list
// transfers the container's own list.
func RunTransferBulk(
	ctx context.Context,
	useCase transferUsecase.TransferUseCase,
	logger *slog.Logger,
	writer io.Writer,
	credential string,
	input transferUsecase.BulkTransferInput,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("transferring bulk",
		slog.String("bulk_reference", input.BulkReference),
		slog.String("target_office", input.TargetOffice),
		slog.Int("case_count", len(input.CaseReferences)),
	)

	result, err := useCase.TransferBulk(withCredential(ctx, credential), input)
	if err != nil {
		return fmt.Errorf("failed to transfer bulk %s: %w", input.BulkReference, err)
	}
	return outputTransferResult(writer, input.BulkReference, result, format)
}

func outputTransferResult(
	writer io.Writer,
	reference string,
	result *transferDomain.TransferResult,
	format string,
) error {
	blocked := result.Blocked() && len(result.WorkItems) == 0 && len(result.UpdatedCases) == 0

	if format == "json" {
		if err := writeJSON(writer, dto.MapResultToResponse(result)); err != nil {
			return err
		}
	} else {
		response := dto.MapResultToResponse(result)
		if blocked {
			_, _ = fmt.Fprintf(writer, "Transfer of %s blocked:\n", reference)
		} else {
			_, _ = fmt.Fprintf(writer, "Transfer of %s accepted (%s)\n", reference, response.Strategy)
			if len(response.UpdatedCases) > 0 {
				_, _ = fmt.Fprintf(writer, "Updated cases: %s\n", strings.Join(response.UpdatedCases, ", "))
			}
			_, _ = fmt.Fprintf(writer, "Queued work items: %d\n", len(response.WorkItemIDs))
			if len(response.Errors) > 0 {
				_, _ = fmt.Fprintln(writer, "Not transferred:")
			}
		}
		for _, message := range response.Errors {
			_, _ = fmt.Fprintf(writer, "  - %s\n", message)
		}
	}

	if blocked {
		return fmt.Errorf("transfer of %s blocked by %d validation error(s)", reference, len(result.Errors))
	}
	return nil
}
