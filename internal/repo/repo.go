package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"linkedout/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Users

func (r Repo) InsertUser(ctx context.Context, tx *sql.Tx, u domain.User) (int, error) {
	res, err := tx.ExecContext(ctx, `INSERT INTO users(email,password_hash,user_type,created_at) VALUES (?,?,?,?)`,
		u.Email, u.PasswordHash, u.UserType, u.CreatedAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

func (r Repo) GetUser(ctx context.Context, id int) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT id,email,password_hash,user_type,created_at FROM users WHERE id=?`, id))
}

func (r Repo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, `SELECT id,email,password_hash,user_type,created_at FROM users WHERE email=? COLLATE NOCASE`, email))
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.UserType, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// Profiles

const profileColumns = `id,user_id,full_name,birth_date,phone,location,current_job,years_experience,resume_url,profile_image_url,company_name,company_size,company_website,company_logo_url,profile_completion_step,created_at,updated_at`

func (r Repo) InsertProfile(ctx context.Context, tx *sql.Tx, p domain.Profile) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO profiles(user_id,full_name,birth_date,profile_completion_step,created_at,updated_at) VALUES (?,?,?,?,?,?)`,
		p.UserID, p.FullName, nullableStringPtr(p.BirthDate), p.CompletionStep, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r Repo) GetProfile(ctx context.Context, userID int) (domain.Profile, error) {
	return getProfile(ctx, r.DB, userID)
}

func (r Repo) GetProfileTx(ctx context.Context, tx *sql.Tx, userID int) (domain.Profile, error) {
	return getProfile(ctx, tx, userID)
}

func getProfile(ctx context.Context, q querier, userID int) (domain.Profile, error) {
	var p domain.Profile
	err := q.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id=?`, userID).
		Scan(&p.ID, &p.UserID, &p.FullName, &p.BirthDate, &p.Phone, &p.Location, &p.CurrentJob, &p.YearsExperience,
			&p.ResumeURL, &p.ProfileImageURL, &p.CompanyName, &p.CompanySize, &p.CompanyWebsite, &p.CompanyLogoURL,
			&p.CompletionStep, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// UpdateProfile writes every mutable profile column.
func (r Repo) UpdateProfile(ctx context.Context, tx *sql.Tx, p domain.Profile) error {
	res, err := tx.ExecContext(ctx, `UPDATE profiles SET full_name=?,birth_date=?,phone=?,location=?,current_job=?,years_experience=?,resume_url=?,profile_image_url=?,company_name=?,company_size=?,company_website=?,company_logo_url=?,profile_completion_step=?,updated_at=? WHERE user_id=?`,
		p.FullName, nullableStringPtr(p.BirthDate), nullableStringPtr(p.Phone), nullableStringPtr(p.Location), nullableStringPtr(p.CurrentJob),
		nullableIntPtr(p.YearsExperience), nullableStringPtr(p.ResumeURL), nullableStringPtr(p.ProfileImageURL),
		nullableStringPtr(p.CompanyName), nullableStringPtr(p.CompanySize), nullableStringPtr(p.CompanyWebsite), nullableStringPtr(p.CompanyLogoURL),
		p.CompletionStep, p.UpdatedAt, p.UserID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Preferences

func (r Repo) UpsertPreferences(ctx context.Context, tx *sql.Tx, p domain.Preferences) error {
	titles, err := marshalStrings(p.JobTitles)
	if err != nil {
		return err
	}
	industries, err := marshalStrings(p.Industries)
	if err != nil {
		return err
	}
	locations, err := marshalStrings(p.Locations)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO preferences(user_id,preferred_job_titles_json,preferred_industries_json,preferred_locations_json,salary_min,salary_max,is_skipped,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON CONFLICT(user_id) DO UPDATE SET
  preferred_job_titles_json=excluded.preferred_job_titles_json,
  preferred_industries_json=excluded.preferred_industries_json,
  preferred_locations_json=excluded.preferred_locations_json,
  salary_min=excluded.salary_min,
  salary_max=excluded.salary_max,
  is_skipped=excluded.is_skipped,
  updated_at=excluded.updated_at`,
		p.UserID, titles, industries, locations, nullableFloatPtr(p.SalaryMin), nullableFloatPtr(p.SalaryMax), p.IsSkipped, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r Repo) GetPreferences(ctx context.Context, userID int) (domain.Preferences, error) {
	var p domain.Preferences
	var titles, industries, locations sql.NullString
	err := r.DB.QueryRowContext(ctx, `SELECT id,user_id,preferred_job_titles_json,preferred_industries_json,preferred_locations_json,salary_min,salary_max,is_skipped,created_at,updated_at FROM preferences WHERE user_id=?`, userID).
		Scan(&p.ID, &p.UserID, &titles, &industries, &locations, &p.SalaryMin, &p.SalaryMax, &p.IsSkipped, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	if p.JobTitles, err = unmarshalStrings(titles); err != nil {
		return p, err
	}
	if p.Industries, err = unmarshalStrings(industries); err != nil {
		return p, err
	}
	if p.Locations, err = unmarshalStrings(locations); err != nil {
		return p, err
	}
	return p, nil
}

func marshalStrings(v []string) (any, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalStrings(v sql.NullString) ([]string, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil, fmt.Errorf("decode string list: %w", err)
	}
	return out, nil
}

func nullableStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	if strings.TrimSpace(*v) == "" {
		return nil
	}
	return *v
}

func nullableIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloatPtr(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
