package repo

import (
	"context"
	"database/sql"
	"fmt"

	"linkedout/internal/domain"
)

const applicantSelect = `SELECT a.id,a.job_id,a.seeker_id,a.cover_letter,a.status,a.applied_at,a.updated_at,
u.email,COALESCE(p.full_name,''),p.current_job,p.years_experience,p.location,p.phone,p.profile_image_url,p.resume_url,
j.title,j.recruiter_id
FROM applications a
JOIN users u ON u.id=a.seeker_id
LEFT JOIN profiles p ON p.user_id=a.seeker_id
JOIN jobs j ON j.id=a.job_id`

func scanApplicant(s scanner) (domain.Applicant, error) {
	var a domain.Applicant
	err := s.Scan(&a.ID, &a.JobID, &a.SeekerID, &a.CoverLetter, &a.Status, &a.AppliedAt, &a.UpdatedAt,
		&a.SeekerEmail, &a.FullName, &a.CurrentJob, &a.YearsExperience, &a.Location, &a.Phone, &a.ProfileImageURL, &a.ResumeURL,
		&a.JobTitle, &a.RecruiterID)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}

func (r Repo) InsertApplication(ctx context.Context, tx *sql.Tx, a domain.Application) (int, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO applications(job_id,seeker_id,cover_letter,status,applied_at) VALUES (?,?,?,?,?)`,
		a.JobID, a.SeekerID, nullableStringPtr(a.CoverLetter), a.Status, a.AppliedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// HasApplied reports whether the seeker already applied to the job.
func (r Repo) HasApplied(ctx context.Context, tx *sql.Tx, jobID, seekerID int) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM applications WHERE job_id=? AND seeker_id=? LIMIT 1`, jobID, seekerID).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r Repo) GetApplicant(ctx context.Context, id int) (domain.Applicant, error) {
	return scanApplicant(r.DB.QueryRowContext(ctx, applicantSelect+` WHERE a.id=?`, id))
}

func (r Repo) GetApplicantTx(ctx context.Context, tx *sql.Tx, id int) (domain.Applicant, error) {
	return scanApplicant(tx.QueryRowContext(ctx, applicantSelect+` WHERE a.id=?`, id))
}

func (r Repo) ListApplicants(ctx context.Context, jobID int) ([]domain.Applicant, error) {
	rows, err := r.DB.QueryContext(ctx, applicantSelect+` WHERE a.job_id=? ORDER BY a.applied_at DESC, a.id DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, rows.Err()
}

func (r Repo) UpdateApplicationStatus(ctx context.Context, tx *sql.Tx, id int, status, now string) error {
	res, err := tx.ExecContext(ctx, `UPDATE applications SET status=?,updated_at=? WHERE id=?`, status, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountApplicationsByStatus counts one job's applications per status.
func (r Repo) CountApplicationsByStatus(ctx context.Context, jobID int) (map[string]int, error) {
	return countByStatus(ctx, r.DB, `SELECT status, count(*) FROM applications WHERE job_id=? GROUP BY status`, jobID)
}

// CountSeekerApplications counts one seeker's applications per status.
func (r Repo) CountSeekerApplications(ctx context.Context, seekerID int) (map[string]int, error) {
	return countByStatus(ctx, r.DB, `SELECT status, count(*) FROM applications WHERE seeker_id=? GROUP BY status`, seekerID)
}

func countByStatus(ctx context.Context, q querier, query string, id int) (map[string]int, error) {
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		res[status] = count
	}
	return res, rows.Err()
}

// ListSeekerApplications returns one page of a seeker's applications and the total count.
// An empty status lists every status.
func (r Repo) ListSeekerApplications(ctx context.Context, seekerID int, status string, limit, offset int) ([]domain.SeekerApplication, int, error) {
	where := ` WHERE a.seeker_id=?`
	args := []any{seekerID}
	if status != "" {
		where += ` AND a.status=?`
		args = append(args, status)
	}
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT count(*) FROM applications a`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	query := `SELECT a.id,a.job_id,a.seeker_id,a.cover_letter,a.status,a.applied_at,a.updated_at,
j.title,j.location,j.employment_type,p.company_name,j.salary_min,j.salary_max
FROM applications a
JOIN jobs j ON j.id=a.job_id
LEFT JOIN profiles p ON p.user_id=j.recruiter_id` + where + ` ORDER BY a.applied_at DESC, a.id DESC`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var res []domain.SeekerApplication
	for rows.Next() {
		var a domain.SeekerApplication
		if err := rows.Scan(&a.ID, &a.JobID, &a.SeekerID, &a.CoverLetter, &a.Status, &a.AppliedAt, &a.UpdatedAt,
			&a.JobTitle, &a.JobLocation, &a.EmploymentType, &a.CompanyName, &a.SalaryMin, &a.SalaryMax); err != nil {
			return nil, 0, err
		}
		res = append(res, a)
	}
	return res, total, rows.Err()
}
