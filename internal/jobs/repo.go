package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("job not found")

// Store is what the job handlers need from persistence. Appending an
// application and updating a status are single-row atomic mutations.
type Store interface {
	Create(ctx context.Context, j Job) (*Job, error)
	List(ctx context.Context, query, location string) ([]Job, error)
	GetByID(ctx context.Context, id string) (*Job, error)
	AppendApplication(ctx context.Context, jobID string, app Application) (*Job, error)
	SetApplicationStatus(ctx context.Context, jobID string, index int, status Status) (*Job, error)
	ListApplicationsByStudent(ctx context.Context, studentID string) ([]StudentApplication, error)
}

type Repository struct {
	Pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{Pool: pool}
}

const jobColumns = `id, title, company, location, description, COALESCE(salary, ''), applications, created_at`

func (r *Repository) Create(ctx context.Context, j Job) (*Job, error) {
	j.ID = uuid.NewString()
	j.CreatedAt = time.Now().UTC()
	j.Applications = []Application{}
	_, err := r.Pool.Exec(
		ctx,
		`INSERT INTO jobs (id, title, company, location, description, salary, applications, created_at)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), '[]'::jsonb, $7)`,
		j.ID, j.Title, j.Company, j.Location, j.Description, j.Salary, j.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repository) List(ctx context.Context, query, location string) ([]Job, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT `+jobColumns+`
		 FROM jobs
		 WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR company ILIKE '%' || $1 || '%')
		   AND ($2 = '' OR location ILIKE '%' || $2 || '%')
		 ORDER BY created_at DESC`,
		query, location,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Job, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	row := r.Pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJobRow(row)
}

func (r *Repository) AppendApplication(ctx context.Context, jobID string, app Application) (*Job, error) {
	if !validID(jobID) {
		return nil, ErrNotFound
	}
	payload, err := json.Marshal(app)
	if err != nil {
		return nil, err
	}
	row := r.Pool.QueryRow(
		ctx,
		`UPDATE jobs
		 SET applications = applications || $2::jsonb
		 WHERE id = $1
		 RETURNING `+jobColumns,
		jobID, string(payload),
	)
	return scanJobRow(row)
}

func (r *Repository) SetApplicationStatus(ctx context.Context, jobID string, index int, status Status) (*Job, error) {
	if !validID(jobID) {
		return nil, ErrNotFound
	}
	row := r.Pool.QueryRow(
		ctx,
		`UPDATE jobs
		 SET applications = jsonb_set(applications, ARRAY[($2::int)::text, 'status'], to_jsonb($3::text))
		 WHERE id = $1 AND jsonb_array_length(applications) > $2::int
		 RETURNING `+jobColumns,
		jobID, index, string(status),
	)
	return scanJobRow(row)
}

func (r *Repository) ListApplicationsByStudent(ctx context.Context, studentID string) ([]StudentApplication, error) {
	rows, err := r.Pool.Query(
		ctx,
		`SELECT j.id, j.title, j.company, a.elem
		 FROM jobs j
		 CROSS JOIN LATERAL jsonb_array_elements(j.applications) AS a(elem)
		 WHERE a.elem ->> 'studentId' = $1
		 ORDER BY a.elem ->> 'appliedAt' DESC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []StudentApplication{}
	for rows.Next() {
		var sa StudentApplication
		var raw []byte
		if err := rows.Scan(&sa.JobID, &sa.JobTitle, &sa.Company, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &sa.Application); err != nil {
			return nil, err
		}
		apps = append(apps, sa)
	}
	return apps, rows.Err()
}

// validID rejects values that cannot be a uuid column value, so an
// unknown id surfaces as not-found instead of a driver type error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func scanJobRow(row pgx.Row) (*Job, error) {
	j, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return j, nil
}

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	var raw []byte
	if err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Salary, &raw, &j.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &j.Applications); err != nil {
		return nil, err
	}
	if j.Applications == nil {
		j.Applications = []Application{}
	}
	return &j, nil
}
