package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	"github.com/hmcts/et-case-transfer/internal/database"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// MySQLCaseRepository implements case persistence for MySQL databases.
type MySQLCaseRepository struct {
	db        *sql.DB
	directory *casesDomain.OfficeDirectory
}

// Create inserts a case record.
func (m *MySQLCaseRepository) Create(ctx context.Context, c *casesDomain.Case) error {
	querier := database.GetTx(ctx, m.db)

	id, err := c.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal case id")
	}

	cols, err := encodeCaseColumns(c)
	if err != nil {
		return err
	}

	query := `INSERT INTO cases (` + caseColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		c.Reference,
		c.Jurisdiction,
		c.ManagingOffice,
		c.State,
		c.PositionType,
		c.CounterClaimReference,
		cols.pendingActions,
		cols.hearings,
		cols.officeChange,
		c.TransferredTo,
		c.TransferredFrom,
		c.TransferReason,
		c.Version,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create case")
	}
	return nil
}

// GetByReference retrieves a case by its reference.
func (m *MySQLCaseRepository) GetByReference(
	ctx context.Context,
	reference string,
) (*casesDomain.Case, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + caseColumns + ` FROM cases WHERE reference = ?`

	var c casesDomain.Case
	var id []byte
	var cols jsonColumns
	err := querier.QueryRowContext(ctx, query, reference).Scan(
		&id,
		&c.Reference,
		&c.Jurisdiction,
		&c.ManagingOffice,
		&c.State,
		&c.PositionType,
		&c.CounterClaimReference,
		&cols.pendingActions,
		&cols.hearings,
		&cols.officeChange,
		&c.TransferredTo,
		&c.TransferredFrom,
		&c.TransferReason,
		&c.Version,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, casesDomain.ErrCaseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get case by reference")
	}

	if err := c.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal case id")
	}
	if err := cols.decodeInto(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateManagingOffice moves a case to another office within its jurisdiction and clears
// the pending office-change marker.
func (m *MySQLCaseRepository) UpdateManagingOffice(
	ctx context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE cases
			  SET managing_office = ?,
			      position_type = IF(? = '', position_type, ?),
			      transfer_reason = ?,
			      office_change = NULL,
			      version = version + 1,
			      updated_at = ?
			  WHERE reference = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		change.Office,
		change.PositionType,
		change.PositionType,
		change.Reason,
		time.Now().UTC(),
		reference,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update managing office")
	}
	return requireAffected(result, casesDomain.ErrCaseNotFound)
}

// MarkTransferred records on the source case that it is being transferred to another
// jurisdiction.
func (m *MySQLCaseRepository) MarkTransferred(
	ctx context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	querier := database.GetTx(ctx, m.db)

	officeChange, err := encodeOfficeChange(change)
	if err != nil {
		return err
	}

	query := `UPDATE cases
			  SET state = ?,
			      position_type = IF(? = '', position_type, ?),
			      transfer_reason = ?,
			      office_change = ?,
			      version = version + 1,
			      updated_at = ?
			  WHERE reference = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		casesDomain.StateTransferred,
		change.PositionType,
		change.PositionType,
		change.Reason,
		officeChange,
		time.Now().UTC(),
		reference,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark case as transferred")
	}
	return requireAffected(result, casesDomain.ErrCaseNotFound)
}

// CreateInJurisdiction recreates snapshot as a new case in jurisdiction and returns the
// new reference, or the reference of a destination already created for the same source.
func (m *MySQLCaseRepository) CreateInJurisdiction(
	ctx context.Context,
	jurisdiction casesDomain.Jurisdiction,
	office string,
	snapshot *casesDomain.Case,
	confirmationRequired bool,
) (string, error) {
	prefix, err := m.directory.ReferencePrefix(jurisdiction)
	if err != nil {
		return "", err
	}

	var reference string
	err = database.RunInTx(ctx, m.db, func(ctx context.Context) error {
		existing, err := m.findDestination(ctx, jurisdiction, snapshot.Reference)
		if err != nil {
			return err
		}
		if existing != "" {
			reference = existing
			return nil
		}

		now := time.Now().UTC()
		sequence, err := m.nextSequence(ctx, jurisdiction, now.Year())
		if err != nil {
			return err
		}

		destination, err := newDestinationCase(
			prefix,
			sequence,
			jurisdiction,
			office,
			snapshot,
			confirmationRequired,
			now,
		)
		if err != nil {
			return err
		}
		if err := m.Create(ctx, destination); err != nil {
			return err
		}
		reference = destination.Reference
		return nil
	})
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			existing, findErr := m.findDestination(ctx, jurisdiction, snapshot.Reference)
			if findErr == nil && existing != "" {
				return existing, nil
			}
		}
		return "", err
	}
	return reference, nil
}

// LinkTransferred points the source case at the case recreated from it.
func (m *MySQLCaseRepository) LinkTransferred(
	ctx context.Context,
	sourceReference string,
	destinationReference string,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE cases
			  SET transferred_to = ?,
			      state = ?,
			      office_change = NULL,
			      version = version + 1,
			      updated_at = ?
			  WHERE reference = ?
			    AND (transferred_to IS NULL OR transferred_to <> ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		destinationReference,
		casesDomain.StateTransferred,
		time.Now().UTC(),
		sourceReference,
		destinationReference,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to link transferred case")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows > 0 {
		return nil
	}

	_, err = m.GetByReference(ctx, sourceReference)
	return err
}

// LinkCounterClaims makes reference and counterpart each other's counter-claim in one
// transaction.
func (m *MySQLCaseRepository) LinkCounterClaims(
	ctx context.Context,
	reference string,
	counterpart string,
) error {
	return database.RunInTx(ctx, m.db, func(ctx context.Context) error {
		if err := m.setCounterClaim(ctx, reference, counterpart); err != nil {
			return err
		}
		return m.setCounterClaim(ctx, counterpart, reference)
	})
}

func (m *MySQLCaseRepository) setCounterClaim(ctx context.Context, reference, counterClaim string) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE cases
			  SET counter_claim_reference = ?, version = version + 1, updated_at = ?
			  WHERE reference = ?
			    AND (counter_claim_reference IS NULL OR counter_claim_reference <> ?)`

	result, err := querier.ExecContext(ctx, query, counterClaim, time.Now().UTC(), reference, counterClaim)
	if err != nil {
		return apperrors.Wrap(err, "failed to link counter-claim")
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if updated > 0 {
		return nil
	}
	_, err = m.GetByReference(ctx, reference)
	return err
}

// CreateBulk inserts a bulk container.
func (m *MySQLCaseRepository) CreateBulk(ctx context.Context, bulk *casesDomain.BulkCase) error {
	querier := database.GetTx(ctx, m.db)

	id, err := bulk.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal bulk case id")
	}

	references, err := json.Marshal(nonNilReferences(bulk.CaseReferences))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal case references")
	}

	query := `INSERT INTO case_bulks (id, reference, name, jurisdiction, managing_office, case_references, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		bulk.Reference,
		bulk.Name,
		bulk.Jurisdiction,
		bulk.ManagingOffice,
		references,
		bulk.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create bulk case")
	}
	return nil
}

// GetBulkByReference retrieves a bulk container by its reference.
func (m *MySQLCaseRepository) GetBulkByReference(
	ctx context.Context,
	reference string,
) (*casesDomain.BulkCase, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, reference, name, jurisdiction, managing_office, case_references, created_at
			  FROM case_bulks WHERE reference = ?`

	var bulk casesDomain.BulkCase
	var id, references []byte
	err := querier.QueryRowContext(ctx, query, reference).Scan(
		&id,
		&bulk.Reference,
		&bulk.Name,
		&bulk.Jurisdiction,
		&bulk.ManagingOffice,
		&references,
		&bulk.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, casesDomain.ErrBulkNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get bulk case by reference")
	}

	if err := bulk.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal bulk case id")
	}
	if err := json.Unmarshal(references, &bulk.CaseReferences); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal case references")
	}
	return &bulk, nil
}

func (m *MySQLCaseRepository) findDestination(
	ctx context.Context,
	jurisdiction casesDomain.Jurisdiction,
	sourceReference string,
) (string, error) {
	querier := database.GetTx(ctx, m.db)

	var reference string
	err := querier.QueryRowContext(
		ctx,
		`SELECT reference FROM cases WHERE jurisdiction = ? AND transferred_from = ?`,
		jurisdiction,
		sourceReference,
	).Scan(&reference)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", apperrors.Wrap(err, "failed to find destination case")
	}
	return reference, nil
}

// nextSequence must run inside a transaction so LAST_INSERT_ID is read on the same
// connection that incremented the counter.
func (m *MySQLCaseRepository) nextSequence(
	ctx context.Context,
	jurisdiction casesDomain.Jurisdiction,
	year int,
) (int, error) {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO case_reference_counters (jurisdiction, year, last_value)
			  VALUES (?, ?, LAST_INSERT_ID(1))
			  ON DUPLICATE KEY UPDATE last_value = LAST_INSERT_ID(last_value + 1)`

	if _, err := querier.ExecContext(ctx, query, jurisdiction, year); err != nil {
		return 0, apperrors.Wrap(err, "failed to allocate case reference")
	}

	var sequence int
	if err := querier.QueryRowContext(ctx, `SELECT LAST_INSERT_ID()`).Scan(&sequence); err != nil {
		return 0, apperrors.Wrap(err, "failed to read case reference sequence")
	}
	return sequence, nil
}

func isMySQLDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// NewMySQLCaseRepository creates a new MySQL case repository.
func NewMySQLCaseRepository(db *sql.DB, directory *casesDomain.OfficeDirectory) *MySQLCaseRepository {
	return &MySQLCaseRepository{db: db, directory: directory}
}
