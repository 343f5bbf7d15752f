package domain

import (
	"time"

	"github.com/google/uuid"
)

// BulkCase is a container grouping many case references (a "multiple") so they can be
// managed and transferred together.
type BulkCase struct {
	ID             uuid.UUID
	Reference      string
	Name           string
	Jurisdiction   Jurisdiction
	ManagingOffice string
	CaseReferences []string
	CreatedAt      time.Time
}
