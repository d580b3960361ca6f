package portal

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

// RegisterCompanyPayload creates a company
type RegisterCompanyPayload struct {
	CompanyName string `json:"companyName" form:"companyName"`
}

func (r RegisterCompanyPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CompanyName, validation.Required, validation.Length(1, 200)),
	)
}

// UpdateCompanyPayload holds the editable company fields
type UpdateCompanyPayload struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Website     string `json:"website" form:"website"`
	Location    string `json:"location" form:"location"`
}

func (r UpdateCompanyPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Website, is.URL),
		validation.Field(&r.Location, validation.Length(0, 200)),
	)
}

// PostJobPayload creates a job, every field is required
type PostJobPayload struct {
	Title           string  `json:"title" form:"title"`
	Description     string  `json:"description" form:"description"`
	Requirements    string  `json:"requirements" form:"requirements"`
	Salary          float64 `json:"salary" form:"salary"`
	Location        string  `json:"location" form:"location"`
	JobType         string  `json:"jobType" form:"jobType"`
	ExperienceLevel int     `json:"experience" form:"experience"`
	Position        int     `json:"position" form:"position"`
	CompanyID       string  `json:"companyId" form:"companyId"`
}

func (r PostJobPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Requirements, validation.Required),
		validation.Field(&r.Salary, validation.Required, validation.Min(0.0)),
		validation.Field(&r.Location, validation.Required),
		validation.Field(&r.JobType, validation.Required),
		validation.Field(&r.ExperienceLevel, validation.Required, validation.Min(0)),
		validation.Field(&r.Position, validation.Required, validation.Min(1)),
		validation.Field(&r.CompanyID, validation.Required, validation.By(isUUID)),
	)
}

// UpdateStatusPayload changes an application status
type UpdateStatusPayload struct {
	Status string `json:"status" form:"status"`
}

func (r UpdateStatusPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.Required, validation.By(func(value any) error {
			s, _ := value.(string)
			if _, ok := ParseApplicationStatus(s); !ok {
				return errors.New("must be one of pending, accepted, rejected")
			}
			return nil
		})),
	)
}

func isUUID(value any) error {
	s, _ := value.(string)
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid id")
	}
	return nil
}
