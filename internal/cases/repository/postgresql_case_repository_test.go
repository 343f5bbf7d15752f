package repository

import (
	"context"
	"database/sql"
	"fmt"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

var caseRowColumns = []string{
	"id", "reference", "jurisdiction", "managing_office", "state", "position_type",
	"counter_claim_reference", "pending_actions", "hearings", "office_change", "transferred_to",
	"transferred_from", "transfer_reason", "version", "created_at", "updated_at",
}

func newPostgresMock(t *testing.T) (*PostgreSQLCaseRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewPostgreSQLCaseRepository(db, casesDomain.DefaultOfficeDirectory()), mock
}

func TestNewPostgreSQLCaseRepository(t *testing.T) {
	repo, _ := newPostgresMock(t)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLCaseRepository{}, repo)
}

func TestPostgreSQLCaseRepository_GetByReference(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DecodesJSONColumns", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		id := uuid.Must(uuid.NewV7())
		now := time.Now().UTC()

		rows := sqlmock.NewRows(caseRowColumns).AddRow(
			id.String(), "120001/2021", "ET_EnglandWales", "Leeds", "Accepted", "",
			"120002/2021",
			[]byte(`[{"id":"a1","description":"chase","cleared":false}]`),
			[]byte(`[{"id":"h1","number":"1","status":"Heard"}]`),
			[]byte(`{"office":"Manchester"}`),
			nil, nil, "", 3, now, now,
		)
		mock.ExpectQuery(`SELECT .* FROM cases WHERE reference = \$1`).
			WithArgs("120001/2021").
			WillReturnRows(rows)

		c, err := repo.GetByReference(ctx, "120001/2021")
		require.NoError(t, err)

		assert.Equal(t, id, c.ID)
		assert.Equal(t, casesDomain.JurisdictionEnglandWales, c.Jurisdiction)
		assert.Equal(t, casesDomain.StateAccepted, c.State)
		ref, ok := c.CounterClaim()
		assert.True(t, ok)
		assert.Equal(t, "120002/2021", ref)
		require.Len(t, c.PendingActions, 1)
		assert.True(t, c.HasUnclearedActions())
		require.Len(t, c.Hearings, 1)
		assert.False(t, c.HasListedHearings())
		require.NotNil(t, c.OfficeChange)
		assert.Equal(t, "Manchester", c.OfficeChange.Office)
		assert.Equal(t, 3, c.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectQuery(`SELECT .* FROM cases`).WillReturnError(sql.ErrNoRows)

		c, err := repo.GetByReference(ctx, "999999/2021")
		assert.Nil(t, c)
		assert.ErrorIs(t, err, casesDomain.ErrCaseNotFound)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("Error_Database", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectQuery(`SELECT .* FROM cases`).WillReturnError(errors.New("connection reset"))

		_, err := repo.GetByReference(ctx, "120001/2021")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get case by reference")
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLCaseRepository_UpdateManagingOffice(t *testing.T) {
	ctx := context.Background()
	change := casesDomain.OfficeChange{Office: "Manchester", Reason: "relocation"}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectExec(`UPDATE cases\s+SET managing_office = \$1`).
			WithArgs("Manchester", "", "relocation", sqlmock.AnyArg(), "120001/2021").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateManagingOffice(ctx, "120001/2021", change))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectExec(`UPDATE cases`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateManagingOffice(ctx, "999999/2021", change)
		assert.ErrorIs(t, err, casesDomain.ErrCaseNotFound)
	})
}

func TestPostgreSQLCaseRepository_MarkTransferred(t *testing.T) {
	repo, mock := newPostgresMock(t)
	mock.ExpectExec(`UPDATE cases\s+SET state = \$1`).
		WithArgs(
			casesDomain.StateTransferred,
			"",
			"moving to Scotland",
			[]byte(`{"office":"Glasgow","reason":"moving to Scotland"}`),
			sqlmock.AnyArg(),
			"120001/2021",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkTransferred(
		context.Background(),
		"120001/2021",
		casesDomain.OfficeChange{Office: "Glasgow", Reason: "moving to Scotland"},
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCaseRepository_CreateInJurisdiction(t *testing.T) {
	ctx := context.Background()
	snapshot := &casesDomain.Case{
		Reference:      "6000001/2026",
		Jurisdiction:   casesDomain.JurisdictionEnglandWales,
		ManagingOffice: "Leeds",
		State:          casesDomain.StateAccepted,
	}

	t.Run("Success_CreatesDestination", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		year := time.Now().UTC().Year()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT reference FROM cases WHERE jurisdiction = \$1 AND transferred_from = \$2`).
			WithArgs(casesDomain.JurisdictionScotland, "6000001/2026").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO case_reference_counters`).
			WithArgs(casesDomain.JurisdictionScotland, year).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(7))
		mock.ExpectExec(`INSERT INTO cases`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ref, err := repo.CreateInJurisdiction(ctx, casesDomain.JurisdictionScotland, "Glasgow", snapshot, true)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("4100007/%d", year), ref)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_ReferenceSequenceExhausted", func(t *testing.T) {
		repo, mock := newPostgresMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT reference FROM cases`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO case_reference_counters`).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(casesDomain.MaxReferenceSequence + 1))
		mock.ExpectRollback()

		_, err := repo.CreateInJurisdiction(ctx, casesDomain.JurisdictionScotland, "Glasgow", snapshot, true)
		assert.ErrorIs(t, err, casesDomain.ErrReferenceSequenceExhausted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_ReturnsExistingDestination", func(t *testing.T) {
		repo, mock := newPostgresMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT reference FROM cases`).
			WillReturnRows(sqlmock.NewRows([]string{"reference"}).AddRow("4100003/2026"))
		mock.ExpectCommit()

		ref, err := repo.CreateInJurisdiction(ctx, casesDomain.JurisdictionScotland, "Glasgow", snapshot, true)
		require.NoError(t, err)
		assert.Equal(t, "4100003/2026", ref)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_ConcurrentCreateResolvesToWinner", func(t *testing.T) {
		repo, mock := newPostgresMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT reference FROM cases`).WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`INSERT INTO case_reference_counters`).
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(8))
		mock.ExpectExec(`INSERT INTO cases`).WillReturnError(&pq.Error{Code: "23505"})
		mock.ExpectRollback()
		mock.ExpectQuery(`SELECT reference FROM cases`).
			WillReturnRows(sqlmock.NewRows([]string{"reference"}).AddRow("4100007/2026"))

		ref, err := repo.CreateInJurisdiction(ctx, casesDomain.JurisdictionScotland, "Glasgow", snapshot, true)
		require.NoError(t, err)
		assert.Equal(t, "4100007/2026", ref)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_UnknownJurisdiction", func(t *testing.T) {
		repo, _ := newPostgresMock(t)

		_, err := repo.CreateInJurisdiction(ctx, casesDomain.Jurisdiction("ET_Mars"), "Olympus", snapshot, true)
		assert.ErrorIs(t, err, casesDomain.ErrUnknownJurisdiction)
	})
}

func TestPostgreSQLCaseRepository_LinkTransferred(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectExec(`UPDATE cases\s+SET transferred_to = \$1`).
			WithArgs("4100001/2026", casesDomain.StateTransferred, sqlmock.AnyArg(), "6000001/2026").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.LinkTransferred(ctx, "6000001/2026", "4100001/2026"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success_AlreadyLinked", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		now := time.Now().UTC()
		mock.ExpectExec(`UPDATE cases`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM cases WHERE reference = \$1`).
			WillReturnRows(sqlmock.NewRows(caseRowColumns).AddRow(
				uuid.Must(uuid.NewV7()).String(), "6000001/2026", "ET_EnglandWales", "Leeds", "Transferred", "",
				nil, []byte(`[]`), []byte(`[]`), nil, "4100001/2026", nil, "", 4, now, now,
			))

		require.NoError(t, repo.LinkTransferred(ctx, "6000001/2026", "4100001/2026"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_SourceMissing", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectExec(`UPDATE cases`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM cases`).WillReturnError(sql.ErrNoRows)

		err := repo.LinkTransferred(ctx, "6000001/2026", "4100001/2026")
		assert.ErrorIs(t, err, casesDomain.ErrCaseNotFound)
	})
}

func TestPostgreSQLCaseRepository_LinkCounterClaims(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BothDirectionsInOneTransaction", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE cases\s+SET counter_claim_reference = \$1`).
			WithArgs("4100002/2026", sqlmock.AnyArg(), "4100001/2026").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE cases\s+SET counter_claim_reference = \$1`).
			WithArgs("4100001/2026", sqlmock.AnyArg(), "4100002/2026").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.LinkCounterClaims(ctx, "4100001/2026", "4100002/2026"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Error_CounterpartMissingRollsBack", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE cases`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE cases`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM cases WHERE reference = \$1`).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.LinkCounterClaims(ctx, "4100001/2026", "4100002/2026")
		assert.ErrorIs(t, err, casesDomain.ErrCaseNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgreSQLCaseRepository_GetBulkByReference(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectQuery(`SELECT .* FROM case_bulks WHERE reference = \$1`).
			WithArgs("6000100").
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "reference", "name", "jurisdiction", "managing_office", "case_references", "created_at"},
			).AddRow(
				uuid.Must(uuid.NewV7()).String(), "6000100", "Acme multiple", "ET_EnglandWales", "Leeds",
				[]byte(`["120001/2021","120002/2021"]`), time.Now().UTC(),
			))

		bulk, err := repo.GetBulkByReference(ctx, "6000100")
		require.NoError(t, err)
		assert.Equal(t, []string{"120001/2021", "120002/2021"}, bulk.CaseReferences)
		assert.Equal(t, "Acme multiple", bulk.Name)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo, mock := newPostgresMock(t)
		mock.ExpectQuery(`SELECT .* FROM case_bulks`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetBulkByReference(ctx, "missing")
		assert.ErrorIs(t, err, casesDomain.ErrBulkNotFound)
	})
}
