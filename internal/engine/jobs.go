package engine

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"linkedout/internal/domain"
	"linkedout/internal/engine/auth"
	"linkedout/internal/events"
	"linkedout/internal/onboarding"
	"linkedout/internal/repo"
)

const (
	JobActive = "active"
	JobClosed = "closed"
)

// JobInput holds the fields a recruiter sets on a posting. Nil pointers leave
// a field unchanged on update.
type JobInput struct {
	Title          *string
	About          *string
	Description    *string
	SalaryMin      *float64
	SalaryMax      *float64
	Benefits       *string
	Location       *string
	EmploymentType *string
	Status         *string
}

func requireRecruiter(p auth.Principal) error {
	if p.UserType != string(onboarding.RoleRecruiter) {
		return auth.ForbiddenError{Reason: "Only recruiters can manage job postings"}
	}
	return nil
}

func requireSeeker(p auth.Principal, reason string) error {
	if p.UserType != string(onboarding.RoleSeeker) {
		return auth.ForbiddenError{Reason: reason}
	}
	return nil
}

func (in JobInput) apply(j *domain.Job) error {
	if in.Title != nil {
		j.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		j.Description = strings.TrimSpace(*in.Description)
	}
	if in.About != nil {
		j.About = trimmed(in.About)
	}
	if in.SalaryMin != nil {
		j.SalaryMin = in.SalaryMin
	}
	if in.SalaryMax != nil {
		j.SalaryMax = in.SalaryMax
	}
	if in.Benefits != nil {
		j.Benefits = trimmed(in.Benefits)
	}
	if in.Location != nil {
		j.Location = trimmed(in.Location)
	}
	if in.EmploymentType != nil {
		j.EmploymentType = trimmed(in.EmploymentType)
	}
	if in.Status != nil {
		j.Status = *in.Status
	}
	switch {
	case j.Title == "":
		return invalid("title", "Title is required")
	case j.Description == "":
		return invalid("description", "Description is required")
	case j.Status != JobActive && j.Status != JobClosed:
		return invalid("status", "Status must be active or closed")
	case j.SalaryMin != nil && *j.SalaryMin < 0:
		return invalid("salaryMin", "Salary cannot be negative")
	case j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax:
		return invalid("salaryMax", "Maximum salary must not be below minimum salary")
	}
	return nil
}

func (e Engine) CreateJob(ctx context.Context, p auth.Principal, in JobInput) (domain.Job, error) {
	if err := requireRecruiter(p); err != nil {
		return domain.Job{}, err
	}
	now := e.timestamp()
	j := domain.Job{RecruiterID: p.UserID, Status: JobActive, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&j); err != nil {
		return domain.Job{}, err
	}
	var id int
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		if id, err = e.Repo.InsertJob(ctx, tx, j); err != nil {
			return fmt.Errorf("insert job: %w", err)
		}
		return e.Events.Append(ctx, tx, "job.create", "job", id, p.UserID, events.EventPayload{"title": j.Title})
	})
	if err != nil {
		return domain.Job{}, err
	}
	return e.Repo.GetJob(ctx, id)
}

// RecruiterJobs lists every posting owned by the recruiter, newest first.
func (e Engine) RecruiterJobs(ctx context.Context, p auth.Principal) ([]domain.Job, error) {
	if err := requireRecruiter(p); err != nil {
		return nil, err
	}
	jobs, _, err := e.Repo.ListJobs(ctx, repo.JobFilters{RecruiterID: p.UserID})
	return jobs, err
}

// ownedJob loads a job inside tx; jobs of other recruiters are reported as not found.
func (e Engine) ownedJob(ctx context.Context, tx *sql.Tx, p auth.Principal, jobID int) (domain.Job, error) {
	j, err := e.Repo.GetJobTx(ctx, tx, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if j.RecruiterID != p.UserID {
		return domain.Job{}, repo.ErrNotFound
	}
	return j, nil
}

func (e Engine) UpdateJob(ctx context.Context, p auth.Principal, jobID int, in JobInput) (domain.Job, error) {
	if err := requireRecruiter(p); err != nil {
		return domain.Job{}, err
	}
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		j, err := e.ownedJob(ctx, tx, p, jobID)
		if err != nil {
			return err
		}
		if err := in.apply(&j); err != nil {
			return err
		}
		j.UpdatedAt = e.timestamp()
		if err := e.Repo.UpdateJob(ctx, tx, j); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "job.update", "job", j.ID, p.UserID, events.EventPayload{"status": j.Status})
	})
	if err != nil {
		return domain.Job{}, err
	}
	return e.Repo.GetJob(ctx, jobID)
}

func (e Engine) DeleteJob(ctx context.Context, p auth.Principal, jobID int) error {
	if err := requireRecruiter(p); err != nil {
		return err
	}
	return e.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := e.ownedJob(ctx, tx, p, jobID); err != nil {
			return err
		}
		if err := e.Repo.DeleteJob(ctx, tx, jobID); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "job.delete", "job", jobID, p.UserID, nil)
	})
}

type BrowseOptions struct {
	Location       string
	SalaryMin      *float64
	SalaryMax      *float64
	EmploymentType string
	// Tags is a comma separated keyword list matched against title and description.
	Tags  string
	Page  int
	Limit int
}

// BrowseJobs pages through active jobs.
func (e Engine) BrowseJobs(ctx context.Context, opts BrowseOptions) ([]domain.Job, Page, error) {
	page := newPage(opts.Page, opts.Limit)
	jobs, total, err := e.Repo.ListJobs(ctx, repo.JobFilters{
		Status:         JobActive,
		Location:       strings.TrimSpace(opts.Location),
		SalaryMin:      opts.SalaryMin,
		SalaryMax:      opts.SalaryMax,
		EmploymentType: strings.TrimSpace(opts.EmploymentType),
		Keywords:       strings.Split(opts.Tags, ","),
		Limit:          page.Limit,
		Offset:         page.offset(),
	})
	if err != nil {
		return nil, Page{}, err
	}
	return jobs, page.withTotal(total), nil
}

// JobDetails returns a job. Closed jobs are only visible to their owner.
func (e Engine) JobDetails(ctx context.Context, p auth.Principal, jobID int) (domain.Job, error) {
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return domain.Job{}, err
	}
	if j.Status != JobActive && j.RecruiterID != p.UserID {
		return domain.Job{}, repo.ErrNotFound
	}
	return j, nil
}

// Match score weights.
const (
	scoreTitle    = 50
	scoreLocation = 30
	scoreSalary   = 20
)

type ScoredJob struct {
	domain.Job
	Score int
}

type Recommendations struct {
	Jobs []ScoredJob
	Page Page
	// TotalPreferred counts the preferred titles, industries and locations.
	TotalPreferred int
	// Message is set when there are no preferences to score against.
	Message string
}

// Recommend ranks active jobs against the seeker's preferences. Without
// preferences it falls back to the newest jobs.
func (e Engine) Recommend(ctx context.Context, p auth.Principal, page, limit int) (Recommendations, error) {
	if err := requireSeeker(p, "Only job seekers get recommendations"); err != nil {
		return Recommendations{}, err
	}
	pg := newPage(page, limit)
	acc, err := e.Account(ctx, p.UserID)
	if err != nil {
		return Recommendations{}, err
	}
	prefs := acc.Preferences
	if prefs == nil || prefs.IsSkipped || (len(prefs.JobTitles) == 0 && len(prefs.Locations) == 0 && prefs.SalaryMin == nil && prefs.SalaryMax == nil) {
		jobs, total, err := e.Repo.ListJobs(ctx, repo.JobFilters{Status: JobActive, Limit: pg.Limit, Offset: pg.offset()})
		if err != nil {
			return Recommendations{}, err
		}
		res := Recommendations{Page: pg.withTotal(total), Message: "Set your job preferences to get personalized recommendations"}
		for _, j := range jobs {
			res.Jobs = append(res.Jobs, ScoredJob{Job: j})
		}
		return res, nil
	}
	all, _, err := e.Repo.ListJobs(ctx, repo.JobFilters{Status: JobActive})
	if err != nil {
		return Recommendations{}, err
	}
	var scored []ScoredJob
	for _, j := range all {
		if s := matchScore(j, *prefs); s > 0 {
			scored = append(scored, ScoredJob{Job: j, Score: s})
		}
	}
	sort.SliceStable(scored, func(a, b int) bool { return scored[a].Score > scored[b].Score })
	res := Recommendations{
		Page:           pg.withTotal(len(scored)),
		TotalPreferred: len(prefs.JobTitles) + len(prefs.Industries) + len(prefs.Locations),
	}
	if start := pg.offset(); start < len(scored) {
		res.Jobs = scored[start:min(start+pg.Limit, len(scored))]
	}
	return res, nil
}

func matchScore(j domain.Job, prefs domain.Preferences) int {
	score := 0
	title := strings.ToLower(j.Title)
	for _, t := range prefs.JobTitles {
		if strings.Contains(title, strings.ToLower(t)) {
			score += scoreTitle
			break
		}
	}
	if j.Location != nil {
		loc := strings.ToLower(*j.Location)
		for _, l := range prefs.Locations {
			if strings.Contains(loc, strings.ToLower(l)) {
				score += scoreLocation
				break
			}
		}
	}
	if salaryOverlaps(j, prefs) {
		score += scoreSalary
	}
	return score
}

func salaryOverlaps(j domain.Job, prefs domain.Preferences) bool {
	if prefs.SalaryMin == nil && prefs.SalaryMax == nil {
		return false
	}
	if j.SalaryMin == nil && j.SalaryMax == nil {
		return false
	}
	jobLow, jobHigh := bounds(j.SalaryMin, j.SalaryMax)
	wantLow, wantHigh := bounds(prefs.SalaryMin, prefs.SalaryMax)
	return jobLow <= wantHigh && wantLow <= jobHigh
}

// bounds turns an optional range into a closed interval; a missing end is open.
func bounds(lo, hi *float64) (float64, float64) {
	low, high := 0.0, float64(1<<53)
	if lo != nil {
		low = *lo
	}
	if hi != nil {
		high = *hi
	}
	return low, high
}
