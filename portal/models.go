package portal

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ApplicationStatus is the recruiter decision on an application
type ApplicationStatus = string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus accepts any casing of the known statuses
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// Company is owned by the recruiter that registered it
type Company struct {
	bun.BaseModel `bun:"table:companies,alias:cmp"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"_id"`
	Name          string     `bun:"name,notnull,unique" json:"name"`
	Description   string     `bun:"description" json:"description,omitempty"`
	Website       string     `bun:"website" json:"website,omitempty"`
	Location      string     `bun:"location" json:"location,omitempty"`
	Logo          string     `bun:"logo" json:"logo,omitempty"`
	UserID        uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"userId"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Job is a posting under a company
type Job struct {
	bun.BaseModel   `bun:"table:jobs,alias:job"`
	ID              uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"_id"`
	Title           string     `bun:"title,notnull" json:"title"`
	Description     string     `bun:"description,notnull" json:"description"`
	Requirements    []string   `bun:"requirements,type:jsonb" json:"requirements"`
	Salary          float64    `bun:"salary,notnull" json:"salary"`
	ExperienceLevel int        `bun:"experience_level,notnull" json:"experienceLevel"`
	Location        string     `bun:"location,notnull" json:"location"`
	JobType         string     `bun:"job_type,notnull" json:"jobType"`
	Position        int        `bun:"position,notnull" json:"position"`
	CompanyID       uuid.UUID  `bun:"company_id,notnull,type:uuid" json:"companyId"`
	Company         *Company   `bun:"rel:belongs-to,join:company_id=id" json:"company,omitempty"`
	CreatedBy       uuid.UUID  `bun:"created_by,notnull,type:uuid" json:"created_by"`
	Applications    int        `bun:"applications_count,scanonly" json:"applications"`
	CreatedAt       *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt       *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Application links a student to a job. A student applies once per job.
type Application struct {
	bun.BaseModel `bun:"table:applications,alias:app"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"_id"`
	JobID         uuid.UUID  `bun:"job_id,notnull,type:uuid,unique:job_applicant" json:"jobId"`
	Job           *Job       `bun:"rel:belongs-to,join:job_id=id" json:"job,omitempty"`
	ApplicantID   uuid.UUID  `bun:"applicant_id,notnull,type:uuid,unique:job_applicant" json:"applicantId"`
	Applicant     *Applicant `bun:"rel:belongs-to,join:applicant_id=id" json:"applicant,omitempty"`
	Status        string     `bun:"status,notnull" json:"status"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// Applicant is the read only, digest free projection of a user
type Applicant struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"_id"`
	FullName      string    `bun:"full_name" json:"fullname"`
	Email         string    `bun:"email" json:"email"`
	Phone         string    `bun:"phone_number" json:"phoneNumber,omitempty"`
	Bio           string    `bun:"bio" json:"bio,omitempty"`
	Skills        []string  `bun:"skills,type:jsonb" json:"skills,omitempty"`
}
