package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/lib/pq"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	"github.com/hmcts/et-case-transfer/internal/database"
	apperrors "github.com/hmcts/et-case-transfer/internal/errors"
)

// PostgreSQLCaseRepository implements case persistence for PostgreSQL databases.
type PostgreSQLCaseRepository struct {
	db        *sql.DB
	directory *casesDomain.OfficeDirectory
}

// Create inserts a case record.
func (p *PostgreSQLCaseRepository) Create(ctx context.Context, c *casesDomain.Case) error {
	querier := database.GetTx(ctx, p.db)

	cols, err := encodeCaseColumns(c)
	if err != nil {
		return err
	}

	query := `INSERT INTO cases (` + caseColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = querier.ExecContext(
		ctx,
		query,
		c.ID,
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
func (p *PostgreSQLCaseRepository) GetByReference(
	ctx context.Context,
	reference string,
) (*casesDomain.Case, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + caseColumns + ` FROM cases WHERE reference = $1`

	var c casesDomain.Case
	var cols jsonColumns
	err := querier.QueryRowContext(ctx, query, reference).Scan(
		&c.ID,
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

	if err := cols.decodeInto(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateManagingOffice moves a case to another office within its jurisdiction and clears
// the pending office-change marker.
func (p *PostgreSQLCaseRepository) UpdateManagingOffice(
	ctx context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cases
			  SET managing_office = $1,
			      position_type = CASE WHEN $2 = '' THEN position_type ELSE $2 END,
			      transfer_reason = $3,
			      office_change = NULL,
			      version = version + 1,
			      updated_at = $4
			  WHERE reference = $5`

	result, err := querier.ExecContext(
		ctx,
		query,
		change.Office,
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
// jurisdiction. The case itself is kept.
func (p *PostgreSQLCaseRepository) MarkTransferred(
	ctx context.Context,
	reference string,
	change casesDomain.OfficeChange,
) error {
	querier := database.GetTx(ctx, p.db)

	officeChange, err := encodeOfficeChange(change)
	if err != nil {
		return err
	}

	query := `UPDATE cases
			  SET state = $1,
			      position_type = CASE WHEN $2 = '' THEN position_type ELSE $2 END,
			      transfer_reason = $3,
			      office_change = $4,
			      version = version + 1,
			      updated_at = $5
			  WHERE reference = $6`

	result, err := querier.ExecContext(
		ctx,
		query,
		casesDomain.StateTransferred,
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
// new reference. When a destination for the same source already exists its reference is
// returned instead.
func (p *PostgreSQLCaseRepository) CreateInJurisdiction(
	ctx context.Context,
	jurisdiction casesDomain.Jurisdiction,
	office string,
	snapshot *casesDomain.Case,
	confirmationRequired bool,
) (string, error) {
	prefix, err := p.directory.ReferencePrefix(jurisdiction)
	if err != nil {
		return "", err
	}

	var reference string
	err = database.RunInTx(ctx, p.db, func(ctx context.Context) error {
		existing, err := p.findDestination(ctx, jurisdiction, snapshot.Reference)
		if err != nil {
			return err
		}
		if existing != "" {
			reference = existing
			return nil
		}

		now := time.Now().UTC()
		sequence, err := p.nextSequence(ctx, jurisdiction, now.Year())
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
		if err := p.Create(ctx, destination); err != nil {
			return err
		}
		reference = destination.Reference
		return nil
	})
	if err != nil {
		// A concurrent consumer created the destination first.
		if isPostgresUniqueViolation(err) {
			existing, findErr := p.findDestination(ctx, jurisdiction, snapshot.Reference)
			if findErr == nil && existing != "" {
				return existing, nil
			}
		}
		return "", err
	}
	return reference, nil
}

// LinkTransferred points the source case at the case recreated from it.
func (p *PostgreSQLCaseRepository) LinkTransferred(
	ctx context.Context,
	sourceReference string,
	destinationReference string,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cases
			  SET transferred_to = $1,
			      state = $2,
			      office_change = NULL,
			      version = version + 1,
			      updated_at = $3
			  WHERE reference = $4
			    AND (transferred_to IS NULL OR transferred_to <> $1)`

	result, err := querier.ExecContext(
		ctx,
		query,
		destinationReference,
		casesDomain.StateTransferred,
		time.Now().UTC(),
		sourceReference,
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

	// Already linked, or missing.
	_, err = p.GetByReference(ctx, sourceReference)
	return err
}

// LinkCounterClaims makes reference and counterpart each other's counter-claim. Both
// rows are written in one transaction; an existing pairing is left untouched.
func (p *PostgreSQLCaseRepository) LinkCounterClaims(
	ctx context.Context,
	reference string,
	counterpart string,
) error {
	return database.RunInTx(ctx, p.db, func(ctx context.Context) error {
		if err := p.setCounterClaim(ctx, reference, counterpart); err != nil {
			return err
		}
		return p.setCounterClaim(ctx, counterpart, reference)
	})
}

func (p *PostgreSQLCaseRepository) setCounterClaim(ctx context.Context, reference, counterClaim string) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE cases
			  SET counter_claim_reference = $1, version = version + 1, updated_at = $2
			  WHERE reference = $3
			    AND (counter_claim_reference IS NULL OR counter_claim_reference <> $1)`

	result, err := querier.ExecContext(ctx, query, counterClaim, time.Now().UTC(), reference)
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
	_, err = p.GetByReference(ctx, reference)
	return err
}

// CreateBulk inserts a bulk container.
func (p *PostgreSQLCaseRepository) CreateBulk(ctx context.Context, bulk *casesDomain.BulkCase) error {
	querier := database.GetTx(ctx, p.db)

	references, err := json.Marshal(nonNilReferences(bulk.CaseReferences))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal case references")
	}

	query := `INSERT INTO case_bulks (id, reference, name, jurisdiction, managing_office, case_references, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		bulk.ID,
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
func (p *PostgreSQLCaseRepository) GetBulkByReference(
	ctx context.Context,
	reference string,
) (*casesDomain.BulkCase, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, reference, name, jurisdiction, managing_office, case_references, created_at
			  FROM case_bulks WHERE reference = $1`

	var bulk casesDomain.BulkCase
	var references []byte
	err := querier.QueryRowContext(ctx, query, reference).Scan(
		&bulk.ID,
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

	if err := json.Unmarshal(references, &bulk.CaseReferences); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal case references")
	}
	return &bulk, nil
}

func (p *PostgreSQLCaseRepository) findDestination(
	ctx context.Context,
	jurisdiction casesDomain.Jurisdiction,
	sourceReference string,
) (string, error) {
	querier := database.GetTx(ctx, p.db)

	var reference string
	err := querier.QueryRowContext(
		ctx,
		`SELECT reference FROM cases WHERE jurisdiction = $1 AND transferred_from = $2`,
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

func (p *PostgreSQLCaseRepository) nextSequence(
	ctx context.Context,
	jurisdiction casesDomain.Jurisdiction,
	year int,
) (int, error) {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO case_reference_counters (jurisdiction, year, last_value)
			  VALUES ($1, $2, 1)
			  ON CONFLICT (jurisdiction, year)
			  DO UPDATE SET last_value = case_reference_counters.last_value + 1
			  RETURNING last_value`

	var sequence int
	if err := querier.QueryRowContext(ctx, query, jurisdiction, year).Scan(&sequence); err != nil {
		return 0, apperrors.Wrap(err, "failed to allocate case reference")
	}
	return sequence, nil
}

func isPostgresUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func requireAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get affected rows")
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func nonNilReferences(references []string) []string {
	if references == nil {
		return []string{}
	}
	return references
}

// NewPostgreSQLCaseRepository creates a new PostgreSQL case repository. The office
// directory supplies the reference prefix of each jurisdiction.
func NewPostgreSQLCaseRepository(
	db *sql.DB,
	directory *casesDomain.OfficeDirectory,
) *PostgreSQLCaseRepository {
	return &PostgreSQLCaseRepository{db: db, directory: directory}
}
