package portal

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store groups the portal repositories over one database
type Store struct {
	db           *bun.DB
	companies    repository.Repository[*Company]
	jobs         repository.Repository[*Job]
	applications repository.Repository[*Application]
}

func NewStore(db *bun.DB) *Store {
	return &Store{
		db:           db,
		companies:    newRepository(db, func() *Company { return &Company{} }, func(r *Company) *uuid.UUID { return &r.ID }),
		jobs:         newRepository(db, func() *Job { return &Job{} }, func(r *Job) *uuid.UUID { return &r.ID }),
		applications: newRepository(db, func() *Application { return &Application{} }, func(r *Application) *uuid.UUID { return &r.ID }),
	}
}

func newRepository[T any](db *bun.DB, newRecord func() T, idOf func(T) *uuid.UUID) repository.Repository[T] {
	return repository.NewRepository[T](db, repository.ModelHandlers[T]{
		NewRecord: newRecord,
		GetID: func(record T) uuid.UUID {
			return *idOf(record)
		},
		SetID: func(record T, id uuid.UUID) {
			*idOf(record) = id
		},
	})
}

// Migrate creates the portal tables
func Migrate(ctx context.Context, db bun.IDB) error {
	models := []any{
		(*Company)(nil),
		(*Job)(nil),
		(*Application)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func stamp(id *uuid.UUID, createdAt, updatedAt **time.Time) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	now := time.Now().UTC()
	if *createdAt == nil {
		*createdAt = &now
	}
	*updatedAt = &now
}

// Companies

func (s *Store) CreateCompany(ctx context.Context, company *Company) (*Company, error) {
	stamp(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	return s.companies.Create(ctx, company)
}

func (s *Store) CompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	return s.companies.GetByID(ctx, id.String())
}

func (s *Store) CompanyNameTaken(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	q := s.db.NewSelect().
		Model((*Company)(nil)).
		Where("LOWER(?TableAlias.name) = LOWER(?)", name)
	if exclude != uuid.Nil {
		q = q.Where("?TableAlias.id != ?", exclude)
	}
	return q.Exists(ctx)
}

func (s *Store) CompaniesByOwner(ctx context.Context, userID uuid.UUID) ([]*Company, error) {
	records := make([]*Company, 0)
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)
	return records, err
}

func (s *Store) UpdateCompany(ctx context.Context, company *Company) (*Company, error) {
	now := time.Now().UTC()
	company.UpdatedAt = &now
	return s.companies.UpdateTx(ctx, s.db, company, repository.UpdateByID(company.ID.String()))
}

// Jobs

func (s *Store) CreateJob(ctx context.Context, job *Job) (*Job, error) {
	stamp(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	return s.jobs.Create(ctx, job)
}

func (s *Store) JobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	job := &Job{}
	err := s.jobSelect(job).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ListJobs returns every job, newest first
func (s *Store) ListJobs(ctx context.Context) ([]*Job, error) {
	jobs := make([]*Job, 0)
	err := s.jobSelect(&jobs).
		Order("job.created_at DESC").
		Scan(ctx)
	return jobs, err
}

func (s *Store) JobsByCreator(ctx context.Context, userID uuid.UUID) ([]*Job, error) {
	jobs := make([]*Job, 0)
	err := s.jobSelect(&jobs).
		Where("?TableAlias.created_by = ?", userID).
		Order("job.created_at DESC").
		Scan(ctx)
	return jobs, err
}

func (s *Store) jobSelect(model any) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(model).
		Relation("Company").
		ColumnExpr("job.*").
		ColumnExpr("(SELECT COUNT(*) FROM applications AS a WHERE a.job_id = job.id) AS applications_count")
}

// Applications

func (s *Store) CreateApplication(ctx context.Context, app *Application) (*Application, error) {
	stamp(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if app.Status == "" {
		app.Status = StatusPending
	}
	return s.applications.Create(ctx, app)
}

func (s *Store) HasApplied(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	return s.db.NewSelect().
		Model((*Application)(nil)).
		Where("?TableAlias.job_id = ?", jobID).
		Where("?TableAlias.applicant_id = ?", applicantID).
		Exists(ctx)
}

func (s *Store) ApplicationByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	app := &Application{}
	err := s.db.NewSelect().
		Model(app).
		Relation("Job").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *Store) ApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]*Application, error) {
	apps := make([]*Application, 0)
	err := s.db.NewSelect().
		Model(&apps).
		Relation("Job").
		Relation("Job.Company").
		Where("?TableAlias.applicant_id = ?", applicantID).
		Order("app.created_at DESC").
		Scan(ctx)
	return apps, err
}

func (s *Store) ApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]*Application, error) {
	apps := make([]*Application, 0)
	err := s.db.NewSelect().
		Model(&apps).
		Relation("Applicant").
		Where("?TableAlias.job_id = ?", jobID).
		Order("app.created_at DESC").
		Scan(ctx)
	return apps, err
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus) error {
	now := time.Now().UTC()
	_, err := s.db.NewUpdate().
		Model(&Application{ID: id, Status: status, UpdatedAt: &now}).
		Column("status", "updated_at").
		WherePK().
		Exec(ctx)
	return err
}
