package app

import (
	"fmt"

	casesDomain "github.com/hmcts/et-case-transfer/internal/cases/domain"
	casesRepository "github.com/hmcts/et-case-transfer/internal/cases/repository"
	"github.com/hmcts/et-case-transfer/internal/database"
	transferUsecase "github.com/hmcts/et-case-transfer/internal/transfer/usecase"
)

// OfficeDirectory returns the tribunal office directory.
func (c *Container) OfficeDirectory() *casesDomain.OfficeDirectory {
	c.officeDirectoryInit.Do(func() {
		c.officeDirectory = casesDomain.DefaultOfficeDirectory()
	})
	return c.officeDirectory
}

// CaseRepository returns the case store for the configured database driver.
func (c *Container) CaseRepository() (transferUsecase.CaseStore, error) {
	c.caseRepositoryInit.Do(func() {
		repo, err := c.initCaseRepository()
		c.store("caseRepository", err)
		c.caseRepository = repo
	})
	if err := c.stored("caseRepository"); err != nil {
		return nil, err
	}
	return c.caseRepository, nil
}

func (c *Container) initCaseRepository() (transferUsecase.CaseStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for case repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return casesRepository.NewPostgreSQLCaseRepository(db, c.OfficeDirectory()), nil
	case database.DriverMySQL:
		return casesRepository.NewMySQLCaseRepository(db, c.OfficeDirectory()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
