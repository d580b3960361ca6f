package portal

import (
	"net/http"
	"strings"

	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// Controller serves companies, jobs and applications. Every route runs after
// the gate and LoadSubject.
type Controller struct {
	store  *Store
	logger auth.Logger
}

func NewController(store *Store, logger auth.Logger) *Controller {
	if logger == nil {
		logger = auth.DefaultLogger()
	}
	return &Controller{store: store, logger: logger}
}

// RegisterRoutes mounts the portal groups on app behind gate
func RegisterRoutes[T any](app router.Router[T], gate router.MiddlewareFunc, users auth.UserFinder, ctrl *Controller) {
	load := LoadSubject(users)
	recruiter := RequireRole(auth.RoleRecruiter)
	student := RequireRole(auth.RoleStudent)

	company := app.Group("/company")
	company.Post("/register", ctrl.RegisterCompany, gate, load, recruiter)
	company.Get("/get", ctrl.ListCompanies, gate, load, recruiter)
	company.Get("/get/:id", ctrl.GetCompany, gate, load)
	company.Put("/update/:id", ctrl.UpdateCompany, gate, load, recruiter)

	job := app.Group("/job")
	job.Post("/post", ctrl.PostJob, gate, load, recruiter)
	job.Get("/get", ctrl.ListJobs, gate, load)
	job.Get("/getadminjobs", ctrl.AdminJobs, gate, load, recruiter)
	job.Get("/get/:id", ctrl.GetJob, gate, load)

	application := app.Group("/application")
	application.Get("/apply/:id", ctrl.Apply, gate, load, student)
	application.Get("/get", ctrl.AppliedJobs, gate, load)
	application.Get("/:id/applicants", ctrl.Applicants, gate, load, recruiter)
	application.Post("/status/:id/update", ctrl.UpdateStatus, gate, load, recruiter)
}

// Companies

func (h *Controller) RegisterCompany(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	payload := new(RegisterCompanyPayload)
	if err := ctx.Bind(payload); err != nil {
		return auth.ErrUnableToParseData
	}
	payload.CompanyName = strings.TrimSpace(payload.CompanyName)
	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(auth.FormatValidationErrorToMap(err))
	}

	taken, err := h.store.CompanyNameTaken(ctx.Context(), payload.CompanyName, uuid.Nil)
	if err != nil {
		return auth.WrapInternal(err, "failed to check company name")
	}
	if taken {
		return ErrCompanyExists
	}

	company, err := h.store.CreateCompany(ctx.Context(), &Company{
		Name:   payload.CompanyName,
		UserID: user.ID,
	})
	if err != nil {
		if auth.IsUniqueViolation(err) {
			return ErrCompanyExists
		}
		return auth.WrapInternal(err, "failed to register company")
	}

	h.logger.Info("company registered", "company_id", company.ID.String(), "user_id", user.GetID())

	return ctx.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "Company registered successfully.",
		"company": company,
	})
}

func (h *Controller) ListCompanies(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	companies, err := h.store.CompaniesByOwner(ctx.Context(), user.ID)
	if err != nil {
		return auth.WrapInternal(err, "failed to list companies")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"companies": companies,
	})
}

func (h *Controller) GetCompany(ctx router.Context) error {
	company, err := h.companyFromParam(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"company": company,
	})
}

func (h *Controller) UpdateCompany(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	company, err := h.companyFromParam(ctx)
	if err != nil {
		return err
	}
	if company.UserID != user.ID {
		return auth.NewForbiddenError("you do not own this company")
	}

	payload := new(UpdateCompanyPayload)
	if err := ctx.Bind(payload); err != nil {
		return auth.ErrUnableToParseData
	}
	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(auth.FormatValidationErrorToMap(err))
	}

	if name := strings.TrimSpace(payload.Name); name != "" && name != company.Name {
		taken, err := h.store.CompanyNameTaken(ctx.Context(), name, company.ID)
		if err != nil {
			return auth.WrapInternal(err, "failed to check company name")
		}
		if taken {
			return ErrCompanyExists
		}
		company.Name = name
	}
	if payload.Description != "" {
		company.Description = payload.Description
	}
	if payload.Website != "" {
		company.Website = payload.Website
	}
	if payload.Location != "" {
		company.Location = payload.Location
	}

	updated, err := h.store.UpdateCompany(ctx.Context(), company)
	if err != nil {
		if auth.IsUniqueViolation(err) {
			return ErrCompanyExists
		}
		return auth.WrapInternal(err, "failed to update company")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Company information updated.",
		"company": updated,
	})
}

func (h *Controller) companyFromParam(ctx router.Context) (*Company, error) {
	id, err := paramUUID(ctx, "id", "company")
	if err != nil {
		return nil, err
	}

	company, err := h.store.CompanyByID(ctx.Context(), id)
	if err != nil {
		if auth.IsNotFound(err) {
			return nil, ErrCompanyNotFound
		}
		return nil, auth.WrapInternal(err, "failed to load company")
	}
	return company, nil
}

// Jobs

func (h *Controller) PostJob(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	payload := new(PostJobPayload)
	if err := ctx.Bind(payload); err != nil {
		return auth.ErrUnableToParseData
	}
	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(auth.FormatValidationErrorToMap(err))
	}

	company, err := h.store.CompanyByID(ctx.Context(), mustUUID(payload.CompanyID))
	if err != nil {
		if auth.IsNotFound(err) {
			return ErrCompanyNotFound
		}
		return auth.WrapInternal(err, "failed to load company")
	}
	if company.UserID != user.ID {
		return auth.NewForbiddenError("you do not own this company")
	}

	job, err := h.store.CreateJob(ctx.Context(), &Job{
		Title:           payload.Title,
		Description:     payload.Description,
		Requirements:    auth.SplitList(payload.Requirements),
		Salary:          payload.Salary,
		ExperienceLevel: payload.ExperienceLevel,
		Location:        payload.Location,
		JobType:         payload.JobType,
		Position:        payload.Position,
		CompanyID:       company.ID,
		CreatedBy:       user.ID,
	})
	if err != nil {
		return auth.WrapInternal(err, "failed to create job")
	}

	h.logger.Info("job posted", "job_id", job.ID.String(), "company_id", company.ID.String())

	return ctx.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "New job created successfully.",
		"job":     job,
	})
}

func (h *Controller) ListJobs(ctx router.Context) error {
	jobs, err := h.store.ListJobs(ctx.Context())
	if err != nil {
		return auth.WrapInternal(err, "failed to list jobs")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"jobs":    jobs,
	})
}

func (h *Controller) GetJob(ctx router.Context) error {
	job, err := h.jobFromParam(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"job":     job,
	})
}

func (h *Controller) AdminJobs(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	jobs, err := h.store.JobsByCreator(ctx.Context(), user.ID)
	if err != nil {
		return auth.WrapInternal(err, "failed to list jobs")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"jobs":    jobs,
	})
}

func (h *Controller) jobFromParam(ctx router.Context) (*Job, error) {
	id, err := paramUUID(ctx, "id", "job")
	if err != nil {
		return nil, err
	}

	job, err := h.store.JobByID(ctx.Context(), id)
	if err != nil {
		if auth.IsNotFound(err) {
			return nil, ErrJobNotFound
		}
		return nil, auth.WrapInternal(err, "failed to load job")
	}
	return job, nil
}

// Applications

func (h *Controller) Apply(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	job, err := h.jobFromParam(ctx)
	if err != nil {
		return err
	}

	applied, err := h.store.HasApplied(ctx.Context(), job.ID, user.ID)
	if err != nil {
		return auth.WrapInternal(err, "failed to check application")
	}
	if applied {
		return ErrAlreadyApplied
	}

	app, err := h.store.CreateApplication(ctx.Context(), &Application{
		JobID:       job.ID,
		ApplicantID: user.ID,
	})
	if err != nil {
		if auth.IsUniqueViolation(err) {
			return ErrAlreadyApplied
		}
		return auth.WrapInternal(err, "failed to apply")
	}

	return ctx.JSON(http.StatusCreated, map[string]any{
		"success":     true,
		"message":     "Job applied successfully.",
		"application": app,
	})
}

func (h *Controller) AppliedJobs(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	apps, err := h.store.ApplicationsByApplicant(ctx.Context(), user.ID)
	if err != nil {
		return auth.WrapInternal(err, "failed to list applications")
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"application": apps,
	})
}

func (h *Controller) Applicants(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	job, err := h.jobFromParam(ctx)
	if err != nil {
		return err
	}
	if job.CreatedBy != user.ID {
		return auth.NewForbiddenError("you do not own this job")
	}

	apps, err := h.store.ApplicationsByJob(ctx.Context(), job.ID)
	if err != nil {
		return auth.WrapInternal(err, "failed to list applicants")
	}

	job.Company = nil
	return ctx.JSON(http.StatusOK, map[string]any{
		"success":      true,
		"job":          job,
		"applications": apps,
	})
}

func (h *Controller) UpdateStatus(ctx router.Context) error {
	user, err := CurrentUser(ctx)
	if err != nil {
		return err
	}

	payload := new(UpdateStatusPayload)
	if err := ctx.Bind(payload); err != nil {
		return auth.ErrUnableToParseData
	}
	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(auth.FormatValidationErrorToMap(err))
	}
	status, _ := ParseApplicationStatus(payload.Status)

	id, err := paramUUID(ctx, "id", "application")
	if err != nil {
		return err
	}

	app, err := h.store.ApplicationByID(ctx.Context(), id)
	if err != nil {
		if auth.IsNotFound(err) {
			return ErrApplicationNotFound
		}
		return auth.WrapInternal(err, "failed to load application")
	}
	if app.Job == nil || app.Job.CreatedBy != user.ID {
		return auth.NewForbiddenError("you do not own this job")
	}

	if err := h.store.UpdateApplicationStatus(ctx.Context(), app.ID, status); err != nil {
		return auth.WrapInternal(err, "failed to update status")
	}

	h.logger.Info("application status updated", "application_id", app.ID.String(), "status", status)

	return ctx.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Status updated successfully.",
		"status":  status,
	})
}
