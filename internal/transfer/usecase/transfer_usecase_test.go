package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	casesRepository "github.com/hmcts/et-case-transfer/internal/cases/repository"
	"github.com/hmcts/et-case-transfer/internal/database"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
	queueDomain "github.com/hmcts/et-case-transfer/internal/queue/domain"
	queueRepository "github.com/hmcts/et-case-transfer/internal/queue/repository"
	queueUseCase "github.com/hmcts/et-case-transfer/internal/queue/usecase"
	transferDomain "github.com/hmcts/et-case-transfer/internal/transfer/domain"
)

func TestTransferUseCase_TransferCase(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_SameJurisdictionNoLinks", func(t *testing.T) {
		h := newHarness(t, newCase("120001/2021", "Leeds", ""))

		result, err := h.useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Manchester",
		})
		require.NoError(t, err)
		assert.Equal(t, transferDomain.StrategySameJurisdiction, result.Strategy)
		assert.Empty(t, result.Errors)
		assert.Empty(t, result.WorkItems)
		assert.Equal(t, []string{"120001/2021"}, result.UpdatedCases)

		moved, err := h.cases.GetByReference(ctx, "120001/2021")
		require.NoError(t, err)
		assert.Equal(t, "Manchester", moved.ManagingOffice)
		assert.Empty(t, h.pending(t))
	})

	t.Run("Success_SameJurisdictionWithCounterClaim", func(t *testing.T) {
		h := newHarness(t,
			newCase("120001/2021", "Leeds", "120002/2021"),
			newCase("120002/2021", "Leeds", "120001/2021"),
		)

		result, err := h.useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Manchester",
			Reason:        "Claimant relocated",
		})
		require.NoError(t, err)
		require.Len(t, result.WorkItems, 1)

		primary, err := h.cases.GetByReference(ctx, "120001/2021")
		require.NoError(t, err)
		assert.Equal(t, "Manchester", primary.ManagingOffice)

		linked, err := h.cases.GetByReference(ctx, "120002/2021")
		require.NoError(t, err)
		assert.Equal(t, "Leeds", linked.ManagingOffice)

		items := h.pending(t)
		require.Len(t, items, 1)
		assert.Equal(t, queueDomain.StatusPending, items[0].Status)
		assert.Equal(t, transferDomain.EventTypeSameJurisdiction, items[0].EventType)
		params, err := transferDomain.DecodeTransferEventParams(items[0].Payload)
		require.NoError(t, err)
		assert.Equal(t, "120002/2021", params.CaseReference)
		assert.Equal(t, "Claimant relocated", params.Reason)
	})

	t.Run("Success_CrossJurisdictionQueuesEveryCase", func(t *testing.T) {
		h := newHarness(t,
			newCase("120001/2021", "Leeds", "120002/2021"),
			newCase("120002/2021", "Leeds", "120001/2021"),
		)

		result, err := h.useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Glasgow",
		})
		require.NoError(t, err)
		assert.Equal(t, transferDomain.StrategyCrossJurisdiction, result.Strategy)
		require.Len(t, result.WorkItems, 2)

		items := h.pending(t)
		require.Len(t, items, 2)
		first, err := transferDomain.DecodeTransferEventParams(items[0].Payload)
		require.NoError(t, err)
		second, err := transferDomain.DecodeTransferEventParams(items[1].Payload)
		require.NoError(t, err)
		assert.Equal(t, "120001/2021", first.CaseReference)
		assert.Equal(t, "120002/2021", second.CaseReference)
		assert.True(t, first.ConfirmationRequired)
		assert.Equal(t, casesDomain.JurisdictionScotland, first.TargetJurisdiction)

		primary, err := h.cases.GetByReference(ctx, "120001/2021")
		require.NoError(t, err)
		assert.Equal(t, casesDomain.StateTransferred, primary.State)
		assert.Equal(t, "Leeds", primary.ManagingOffice)
	})

	t.Run("Success_BlockedTransferChangesNothing", func(t *testing.T) {
		c := newCase("120001/2021", "Leeds", "")
		c.PendingActions = []casesDomain.PendingAction{{ID: "bf1", Description: "Chase ET3"}}
		h := newHarness(t, c)

		result, err := h.useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Manchester",
		})
		require.NoError(t, err)
		assert.True(t, result.Blocked())
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "120001/2021")
		assert.Empty(t, result.WorkItems)

		unchanged, err := h.cases.GetByReference(ctx, "120001/2021")
		require.NoError(t, err)
		assert.Equal(t, "Leeds", unchanged.ManagingOffice)
		assert.Equal(t, 1, unchanged.Version)
		assert.Empty(t, h.pending(t))
	})

	t.Run("Success_LinkedCaseBlocksPrimary", func(t *testing.T) {
		linked := newCase("120002/2021", "Leeds", "120001/2021")
		linked.Hearings = []casesDomain.Hearing{{ID: "h1", Status: casesDomain.HearingStatusListed}}
		h := newHarness(t, newCase("120001/2021", "Leeds", "120002/2021"), linked)

		result, err := h.useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Manchester",
		})
		require.NoError(t, err)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "120002/2021")

		primary, err := h.cases.GetByReference(ctx, "120001/2021")
		require.NoError(t, err)
		assert.Equal(t, "Leeds", primary.ManagingOffice)
	})

	t.Run("Error_CaseNotFound", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Manchester",
		})
		assert.ErrorIs(t, err, transferDomain.ErrNoCasesFound)
	})

	t.Run("Error_SameOffice", func(t *testing.T) {
		h := newHarness(t, newCase("120001/2021", "Leeds", ""))

		_, err := h.useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Leeds",
		})
		assert.ErrorIs(t, err, transferDomain.ErrSameOffice)
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.useCase.TransferCase(ctx, TransferCaseInput{CaseReference: "not-a-reference"})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("Error_EnqueueFailureIsFatal", func(t *testing.T) {
		h := newHarness(t,
			newCase("120001/2021", "Leeds", "120002/2021"),
			newCase("120002/2021", "Leeds", "120001/2021"),
		)
		useCase := buildUseCase(
			database.NoopTxManager{},
			h.cases,
			&failingProducer{next: h.producer},
			casesDomain.DefaultOfficeDirectory(),
		)

		result, err := useCase.TransferCase(ctx, TransferCaseInput{
			CaseReference: "120001/2021",
			TargetOffice:  "Manchester",
		})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, transferDomain.ErrEnqueueFailed)
		assert.Contains(t, err.Error(), "120002/2021")
	})
}

func TestTransferUseCase_TransferCase_RollsBackOnEnqueueFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	directory := casesDomain.DefaultOfficeDirectory()
	caseRepo := casesRepository.NewPostgreSQLCaseRepository(db, directory)
	queueRepo := queueRepository.NewPostgreSQLWorkItemRepository(db)
	useCase := buildUseCase(
		database.NewTxManager(db),
		caseRepo,
		queueUseCase.NewWorkItemUseCase(queueRepo),
		directory,
	)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .* FROM cases WHERE reference = \$1`).
		WithArgs("120001/2021").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "reference", "jurisdiction", "managing_office", "state", "position_type",
			"counter_claim_reference", "pending_actions", "hearings", "office_change", "transferred_to",
			"transferred_from", "transfer_reason", "version", "created_at", "updated_at",
		}).AddRow(
			"0190f5a4-6a8e-7cc2-9d5c-1f2e3d4c5b6a", "120001/2021", "ET_EnglandWales", "Leeds", "Accepted", "",
			nil, []byte(`[]`), []byte(`[]`), nil, nil, nil, "", 1, now, now,
		))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE cases`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO transfer_work_items`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	result, err := useCase.TransferCase(context.Background(), TransferCaseInput{
		CaseReference: "120001/2021",
		TargetOffice:  "Glasgow",
	})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, transferDomain.ErrEnqueueFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransferUseCase_TransferBulk(t *testing.T) {
	ctx := context.Background()

	newBulkHarness := func(t *testing.T, references []string, cases ...*casesDomain.Case) *harness {
		t.Helper()
		h := newHarness(t, cases...)
		require.NoError(t, h.cases.CreateBulk(ctx, &casesDomain.BulkCase{
			Reference:      "6000100/2021",
			Name:           "Acme redundancies",
			Jurisdiction:   casesDomain.JurisdictionEnglandWales,
			ManagingOffice: "Leeds",
			CaseReferences: references,
		}))
		return h
	}

	t.Run("Success_ContainerListOneEventPerCase", func(t *testing.T) {
		h := newBulkHarness(t, []string{"120001/2021", "120003/2021"},
			newCase("120001/2021", "Leeds", "120002/2021"),
			newCase("120002/2021", "Leeds", "120001/2021"),
			newCase("120003/2021", "Leeds", ""),
		)

		result, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference: "6000100/2021",
			TargetOffice:  "Manchester",
		})
		require.NoError(t, err)
		assert.Empty(t, result.Errors)
		require.Len(t, result.WorkItems, 3)

		var references []string
		for _, item := range h.pending(t) {
			params, err := transferDomain.DecodeTransferEventParams(item.Payload)
			require.NoError(t, err)
			assert.Equal(t, "6000100/2021", params.MultipleReference)
			assert.Equal(t, "Multiple Acme redundancies (6000100/2021)", params.MultipleReferenceLink)
			references = append(references, params.CaseReference)
		}
		assert.Equal(t, []string{"120001/2021", "120002/2021", "120003/2021"}, references)

		untouched, err := h.cases.GetByReference(ctx, "120001/2021")
		require.NoError(t, err)
		assert.Equal(t, "Leeds", untouched.ManagingOffice)
	})

	t.Run("Success_SharedCaseTransferredOnce", func(t *testing.T) {
		h := newBulkHarness(t, nil,
			newCase("120001/2021", "Leeds", "120002/2021"),
			newCase("120002/2021", "Leeds", "120001/2021"),
		)

		result, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference:  "6000100/2021",
			CaseReferences: []string{"120001/2021", "120002/2021", "120001/2021"},
			TargetOffice:   "Manchester",
		})
		require.NoError(t, err)
		assert.Len(t, result.WorkItems, 2)
	})

	t.Run("Success_SameJurisdictionQueuesPassingGroups", func(t *testing.T) {
		blocked := newCase("120003/2021", "Leeds", "")
		blocked.PendingActions = []casesDomain.PendingAction{{ID: "bf1"}}
		h := newBulkHarness(t, []string{"120001/2021", "120003/2021", "120009/2021"},
			newCase("120001/2021", "Leeds", ""),
			blocked,
		)

		result, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference: "6000100/2021",
			TargetOffice:  "Manchester",
		})
		require.NoError(t, err)
		require.Len(t, result.Errors, 2)
		assert.Contains(t, result.Errors[0], "120003/2021")
		assert.Equal(t, "Case 120009/2021 not found", result.Errors[1])
		require.Len(t, result.WorkItems, 1)
	})

	t.Run("Success_CrossJurisdictionAbortsWholeBatch", func(t *testing.T) {
		blocked := newCase("120003/2021", "Leeds", "")
		blocked.Hearings = []casesDomain.Hearing{{ID: "h1", Status: casesDomain.HearingStatusListed}}
		h := newBulkHarness(t, []string{"120001/2021", "120003/2021"},
			newCase("120001/2021", "Leeds", ""),
			blocked,
		)

		result, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference: "6000100/2021",
			TargetOffice:  "Glasgow",
		})
		require.NoError(t, err)
		assert.Equal(t, transferDomain.StrategyCrossJurisdiction, result.Strategy)
		require.Len(t, result.Errors, 1)
		assert.Empty(t, result.WorkItems)
		assert.Empty(t, h.pending(t))
	})

	t.Run("Error_EmptyCaseList", func(t *testing.T) {
		h := newBulkHarness(t, nil)

		result, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference:  "6000100/2021",
			CaseReferences: []string{},
			TargetOffice:   "Manchester",
		})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, transferDomain.ErrNoCasesFound)
	})

	t.Run("Error_EmptyContainer", func(t *testing.T) {
		h := newBulkHarness(t, nil)

		_, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference: "6000100/2021",
			TargetOffice:  "Manchester",
		})
		assert.ErrorIs(t, err, transferDomain.ErrNoCasesFound)
	})

	t.Run("Error_BulkNotFound", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference: "6000100/2021",
			TargetOffice:  "Manchester",
		})
		assert.ErrorIs(t, err, casesDomain.ErrBulkNotFound)
	})

	t.Run("Error_InvalidReferenceInList", func(t *testing.T) {
		h := newBulkHarness(t, nil)

		_, err := h.useCase.TransferBulk(ctx, BulkTransferInput{
			BulkReference:  "6000100/2021",
			CaseReferences: []string{"oops"},
			TargetOffice:   "Manchester",
		})
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
