package portal

import (
	"github.com/google/uuid"

	auth "github.com/goliatone/go-jobportal"
)

var (
	ErrCompanyExists       = auth.NewConflictError("company already exists", "COMPANY_EXISTS")
	ErrAlreadyApplied      = auth.NewConflictError("you have already applied for this job", "ALREADY_APPLIED")
	ErrCompanyNotFound     = auth.NewNotFoundError("company not found", nil).WithTextCode("COMPANY_NOT_FOUND")
	ErrJobNotFound         = auth.NewNotFoundError("job not found", nil).WithTextCode("JOB_NOT_FOUND")
	ErrApplicationNotFound = auth.NewNotFoundError("application not found", nil).WithTextCode("APPLICATION_NOT_FOUND")
)

// mustUUID is only called on values already validated as UUIDs
func mustUUID(s string) uuid.UUID {
	id, _ := uuid.Parse(s)
	return id
}
