package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"linkedout/internal/domain"
)

const jobSelect = `SELECT j.id,j.recruiter_id,j.title,j.about,j.description,j.salary_min,j.salary_max,j.benefits,j.location,j.employment_type,j.status,j.created_at,j.updated_at,u.email,p.company_name,p.company_size,p.company_website
FROM jobs j
JOIN users u ON u.id=j.recruiter_id
LEFT JOIN profiles p ON p.user_id=j.recruiter_id`

func scanJob(s scanner) (domain.Job, error) {
	var j domain.Job
	err := s.Scan(&j.ID, &j.RecruiterID, &j.Title, &j.About, &j.Description, &j.SalaryMin, &j.SalaryMax, &j.Benefits,
		&j.Location, &j.EmploymentType, &j.Status, &j.CreatedAt, &j.UpdatedAt,
		&j.RecruiterEmail, &j.CompanyName, &j.CompanySize, &j.CompanyWebsite)
	if err == sql.ErrNoRows {
		return j, ErrNotFound
	}
	return j, err
}

func (r Repo) InsertJob(ctx context.Context, tx *sql.Tx, j domain.Job) (int, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO jobs(recruiter_id,title,about,description,salary_min,salary_max,benefits,location,employment_type,status,created_at,updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		j.RecruiterID, j.Title, nullableStringPtr(j.About), j.Description, nullableFloatPtr(j.SalaryMin), nullableFloatPtr(j.SalaryMax),
		nullableStringPtr(j.Benefits), nullableStringPtr(j.Location), nullableStringPtr(j.EmploymentType), j.Status, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (r Repo) GetJob(ctx context.Context, id int) (domain.Job, error) {
	return scanJob(r.DB.QueryRowContext(ctx, jobSelect+` WHERE j.id=?`, id))
}

func (r Repo) GetJobTx(ctx context.Context, tx *sql.Tx, id int) (domain.Job, error) {
	return scanJob(tx.QueryRowContext(ctx, jobSelect+` WHERE j.id=?`, id))
}

func (r Repo) UpdateJob(ctx context.Context, tx *sql.Tx, j domain.Job) error {
	res, err := tx.ExecContext(ctx, `UPDATE jobs SET title=?,about=?,description=?,salary_min=?,salary_max=?,benefits=?,location=?,employment_type=?,status=?,updated_at=? WHERE id=?`,
		j.Title, nullableStringPtr(j.About), j.Description, nullableFloatPtr(j.SalaryMin), nullableFloatPtr(j.SalaryMax),
		nullableStringPtr(j.Benefits), nullableStringPtr(j.Location), nullableStringPtr(j.EmploymentType), j.Status, j.UpdatedAt, j.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteJob(ctx context.Context, tx *sql.Tx, id int) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// JobFilters narrows ListJobs. Zero values are ignored; Limit 0 means no limit.
type JobFilters struct {
	RecruiterID    int
	Status         string
	Location       string
	SalaryMin      *float64
	SalaryMax      *float64
	EmploymentType string
	Keywords       []string
	Limit          int
	Offset         int
}

// ListJobs returns one page of matching jobs, newest first, and the total match count.
func (r Repo) ListJobs(ctx context.Context, f JobFilters) ([]domain.Job, int, error) {
	clauses := []string{"1=1"}
	var args []any
	if f.RecruiterID != 0 {
		clauses = append(clauses, "j.recruiter_id=?")
		args = append(args, f.RecruiterID)
	}
	if f.Status != "" {
		clauses = append(clauses, "j.status=?")
		args = append(args, f.Status)
	}
	if f.Location != "" {
		clauses = append(clauses, "j.location LIKE ?")
		args = append(args, "%"+f.Location+"%")
	}
	if f.SalaryMin != nil {
		clauses = append(clauses, "COALESCE(j.salary_max,j.salary_min)>=?")
		args = append(args, *f.SalaryMin)
	}
	if f.SalaryMax != nil {
		clauses = append(clauses, "COALESCE(j.salary_min,j.salary_max)<=?")
		args = append(args, *f.SalaryMax)
	}
	if f.EmploymentType != "" {
		clauses = append(clauses, "j.employment_type=?")
		args = append(args, f.EmploymentType)
	}
	var keywords []string
	for _, kw := range f.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		keywords = append(keywords, "(j.title LIKE ? OR j.description LIKE ?)")
		args = append(args, "%"+kw+"%", "%"+kw+"%")
	}
	if len(keywords) > 0 {
		clauses = append(clauses, "("+strings.Join(keywords, " OR ")+")")
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM jobs j`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}
	query := jobSelect + where + ` ORDER BY j.created_at DESC, j.id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []domain.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, j)
	}
	return res, total, rows.Err()
}
