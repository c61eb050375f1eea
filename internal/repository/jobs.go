package repository

import (
	"context"
	"encoding/json"

	"linkedout/internal/outcome"
	linkedoutsdk "linkedout/sdk/go"
)

// Recruiter

func (r *Repository) CreateJob(ctx context.Context, req linkedoutsdk.CreateJobRequest) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
	return run(ctx, r, step[linkedoutsdk.JobResponse, linkedoutsdk.JobResponse]{
		useCase: CreateJob,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.JobResponse], error) {
			return r.api.CreateJob(ctx, req)
		},
		extract: data[linkedoutsdk.JobResponse],
	})
}

func (r *Repository) RecruiterJobs(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobListResponse] {
	return run(ctx, r, step[linkedoutsdk.JobListResponse, linkedoutsdk.JobListResponse]{
		useCase: RecruiterJobs,
		call:    r.api.RecruiterJobs,
		extract: data[linkedoutsdk.JobListResponse],
	})
}

func (r *Repository) UpdateJob(ctx context.Context, jobID int, req linkedoutsdk.UpdateJobRequest) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
	return run(ctx, r, step[linkedoutsdk.JobResponse, linkedoutsdk.JobResponse]{
		useCase: UpdateJob,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.JobResponse], error) {
			return r.api.UpdateJob(ctx, jobID, req)
		},
		extract: data[linkedoutsdk.JobResponse],
	})
}

// DeleteJob succeeds on the envelope flag alone.
func (r *Repository) DeleteJob(ctx context.Context, jobID int) <-chan outcome.Outcome[Unit] {
	return run(ctx, r, step[json.RawMessage, Unit]{
		useCase: DeleteJob,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[json.RawMessage], error) {
			return r.api.DeleteJob(ctx, jobID)
		},
		extract: unit[json.RawMessage],
	})
}

func (r *Repository) JobApplicants(ctx context.Context, jobID int) <-chan outcome.Outcome[linkedoutsdk.JobApplicantsResponse] {
	return run(ctx, r, step[linkedoutsdk.JobApplicantsResponse, linkedoutsdk.JobApplicantsResponse]{
		useCase: JobApplicants,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.JobApplicantsResponse], error) {
			return r.api.JobApplicants(ctx, jobID)
		},
		extract: data[linkedoutsdk.JobApplicantsResponse],
	})
}

func (r *Repository) ApplicantDetails(ctx context.Context, applicationID int) <-chan outcome.Outcome[linkedoutsdk.ApplicantDetailsResponse] {
	return run(ctx, r, step[linkedoutsdk.ApplicantDetailsResponse, linkedoutsdk.ApplicantDetailsResponse]{
		useCase: ApplicantDetails,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.ApplicantDetailsResponse], error) {
			return r.api.ApplicantDetails(ctx, applicationID)
		},
		extract: data[linkedoutsdk.ApplicantDetailsResponse],
	})
}

func (r *Repository) UpdateApplicationStatus(ctx context.Context, applicationID int, status string) <-chan outcome.Outcome[Unit] {
	return run(ctx, r, step[json.RawMessage, Unit]{
		useCase: UpdateApplicationStatus,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[json.RawMessage], error) {
			return r.api.UpdateApplicationStatus(ctx, applicationID, status)
		},
		extract: unit[json.RawMessage],
	})
}

// Seeker

// BrowseJobs yields the job list only, dropping pagination.
func (r *Repository) BrowseJobs(ctx context.Context, f linkedoutsdk.JobFilter) <-chan outcome.Outcome[[]linkedoutsdk.Job] {
	return run(ctx, r, step[linkedoutsdk.JobListResponse, []linkedoutsdk.Job]{
		useCase: BrowseJobs,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.JobListResponse], error) {
			return r.api.BrowseJobs(ctx, f)
		},
		extract: func(env linkedoutsdk.Envelope[linkedoutsdk.JobListResponse]) ([]linkedoutsdk.Job, bool) {
			if env.Data == nil {
				return nil, false
			}
			return env.Data.Jobs, true
		},
	})
}

func (r *Repository) JobDetails(ctx context.Context, jobID int) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
	return run(ctx, r, step[linkedoutsdk.JobResponse, linkedoutsdk.JobResponse]{
		useCase: JobDetails,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.JobResponse], error) {
			return r.api.JobDetails(ctx, jobID)
		},
		extract: data[linkedoutsdk.JobResponse],
	})
}

func (r *Repository) RecommendedJobs(ctx context.Context, page, limit int) <-chan outcome.Outcome[linkedoutsdk.JobListResponse] {
	return run(ctx, r, step[linkedoutsdk.JobListResponse, linkedoutsdk.JobListResponse]{
		useCase: RecommendedJobs,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.JobListResponse], error) {
			return r.api.RecommendedJobs(ctx, page, limit)
		},
		extract: data[linkedoutsdk.JobListResponse],
	})
}

// ApplyToJob reports failures with the apply-specific copy.
func (r *Repository) ApplyToJob(ctx context.Context, jobID int, coverLetter string) <-chan outcome.Outcome[Unit] {
	return run(ctx, r, step[json.RawMessage, Unit]{
		useCase: ApplyToJob,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[json.RawMessage], error) {
			return r.api.ApplyToJob(ctx, jobID, coverLetter)
		},
		extract: unit[json.RawMessage],
	})
}

// SeekerApplications lists the caller's applications; an empty status lists all.
func (r *Repository) SeekerApplications(ctx context.Context, status string, page, limit int) <-chan outcome.Outcome[linkedoutsdk.SeekerApplicationsResponse] {
	return run(ctx, r, step[linkedoutsdk.SeekerApplicationsResponse, linkedoutsdk.SeekerApplicationsResponse]{
		useCase: SeekerApplications,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.SeekerApplicationsResponse], error) {
			return r.api.SeekerApplications(ctx, status, page, limit)
		},
		extract: data[linkedoutsdk.SeekerApplicationsResponse],
	})
}
