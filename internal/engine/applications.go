package engine

import (
	"context"
	"database/sql"
	"strings"

	"linkedout/internal/domain"
	"linkedout/internal/engine/auth"
	"linkedout/internal/events"
	"linkedout/internal/onboarding"
	"linkedout/internal/repo"
)

// Apply files a pending application for the seeker.
func (e Engine) Apply(ctx context.Context, p auth.Principal, jobID int, coverLetter string) (domain.Application, error) {
	if err := requireSeeker(p, "Only job seekers can apply to jobs"); err != nil {
		return domain.Application{}, err
	}
	prof, err := e.Repo.GetProfile(ctx, p.UserID)
	if err != nil {
		return domain.Application{}, err
	}
	if prof.CompletionStep < onboarding.CompletionThreshold {
		return domain.Application{}, auth.ForbiddenError{Reason: "Complete your profile before applying"}
	}
	a := domain.Application{
		JobID:       jobID,
		SeekerID:    p.UserID,
		CoverLetter: trimmed(&coverLetter),
		Status:      string(onboarding.StatusPending),
		AppliedAt:   e.timestamp(),
	}
	err = e.withTx(ctx, func(tx *sql.Tx) error {
		j, err := e.Repo.GetJobTx(ctx, tx, jobID)
		if err != nil {
			return err
		}
		if j.Status != JobActive {
			return repo.ErrNotFound
		}
		applied, err := e.Repo.HasApplied(ctx, tx, jobID, p.UserID)
		if err != nil {
			return err
		}
		if applied {
			return ErrAlreadyApplied
		}
		if a.ID, err = e.Repo.InsertApplication(ctx, tx, a); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "application.create", "application", a.ID, p.UserID, events.EventPayload{"job_id": jobID})
	})
	if err != nil {
		return domain.Application{}, err
	}
	return a, nil
}

// JobApplicants is a job with its applicants and per-status counts.
type JobApplicants struct {
	Job        domain.Job
	Applicants []domain.Applicant
	Statistics map[string]int
}

func (e Engine) Applicants(ctx context.Context, p auth.Principal, jobID int) (JobApplicants, error) {
	if err := requireRecruiter(p); err != nil {
		return JobApplicants{}, err
	}
	j, err := e.Repo.GetJob(ctx, jobID)
	if err != nil {
		return JobApplicants{}, err
	}
	if j.RecruiterID != p.UserID {
		return JobApplicants{}, repo.ErrNotFound
	}
	applicants, err := e.Repo.ListApplicants(ctx, jobID)
	if err != nil {
		return JobApplicants{}, err
	}
	counts, err := e.Repo.CountApplicationsByStatus(ctx, jobID)
	if err != nil {
		return JobApplicants{}, err
	}
	stats := map[string]int{"total": len(applicants)}
	for _, s := range []onboarding.ApplicationStatus{onboarding.StatusPending, onboarding.StatusReviewed, onboarding.StatusAccepted, onboarding.StatusRejected} {
		stats[string(s)] = counts[string(s)]
	}
	return JobApplicants{Job: j, Applicants: applicants, Statistics: stats}, nil
}

// Applicant returns one application on a job owned by the recruiter.
func (e Engine) Applicant(ctx context.Context, p auth.Principal, applicationID int) (domain.Applicant, error) {
	if err := requireRecruiter(p); err != nil {
		return domain.Applicant{}, err
	}
	a, err := e.Repo.GetApplicant(ctx, applicationID)
	if err != nil {
		return domain.Applicant{}, err
	}
	if a.RecruiterID != p.UserID {
		return domain.Applicant{}, repo.ErrNotFound
	}
	return a, nil
}

// SetApplicationStatus records the recruiter's decision on a pending application.
func (e Engine) SetApplicationStatus(ctx context.Context, p auth.Principal, applicationID int, status string) (domain.Applicant, error) {
	if err := requireRecruiter(p); err != nil {
		return domain.Applicant{}, err
	}
	to := onboarding.ApplicationStatus(strings.ToLower(strings.TrimSpace(status)))
	if !onboarding.IsDecision(to) {
		return domain.Applicant{}, invalid("status", "Status must be accepted or rejected")
	}
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		a, err := e.Repo.GetApplicantTx(ctx, tx, applicationID)
		if err != nil {
			return err
		}
		if a.RecruiterID != p.UserID {
			return repo.ErrNotFound
		}
		if err := onboarding.EnsureTransition(onboarding.ApplicationStatus(a.Status), to); err != nil {
			return invalid("status", "Application is already %s", a.Status)
		}
		if err := e.Repo.UpdateApplicationStatus(ctx, tx, applicationID, string(to), e.timestamp()); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "application.status", "application", applicationID, p.UserID, events.EventPayload{"from": a.Status, "to": string(to)})
	})
	if err != nil {
		return domain.Applicant{}, err
	}
	return e.Repo.GetApplicant(ctx, applicationID)
}

// SeekerApplications is one page of a seeker's applications.
type SeekerApplications struct {
	Applications []domain.SeekerApplication
	Statistics   map[string]int
	Page         Page
}

func (e Engine) SeekerApplications(ctx context.Context, p auth.Principal, status string, page, limit int) (SeekerApplications, error) {
	if err := requireSeeker(p, "Only job seekers have applications"); err != nil {
		return SeekerApplications{}, err
	}
	if status != "" {
		switch onboarding.ApplicationStatus(status) {
		case onboarding.StatusPending, onboarding.StatusReviewed, onboarding.StatusAccepted, onboarding.StatusRejected:
		default:
			return SeekerApplications{}, invalid("status", "Unknown status %q", status)
		}
	}
	pg := newPage(page, limit)
	apps, total, err := e.Repo.ListSeekerApplications(ctx, p.UserID, status, pg.Limit, pg.offset())
	if err != nil {
		return SeekerApplications{}, err
	}
	counts, err := e.Repo.CountSeekerApplications(ctx, p.UserID)
	if err != nil {
		return SeekerApplications{}, err
	}
	all := 0
	for _, n := range counts {
		all += n
	}
	counts["total"] = all
	return SeekerApplications{Applications: apps, Statistics: counts, Page: pg.withTotal(total)}, nil
}
