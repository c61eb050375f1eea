package viewmodel

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"linkedout/internal/onboarding"
	"linkedout/internal/outcome"
	"linkedout/internal/repository"
	linkedoutsdk "linkedout/sdk/go"
)

// JobRepository is the repository surface used by JobViewModel.
type JobRepository interface {
	CreateJob(ctx context.Context, req linkedoutsdk.CreateJobRequest) <-chan outcome.Outcome[linkedoutsdk.JobResponse]
	RecruiterJobs(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobListResponse]
	UpdateJob(ctx context.Context, jobID int, req linkedoutsdk.UpdateJobRequest) <-chan outcome.Outcome[linkedoutsdk.JobResponse]
	DeleteJob(ctx context.Context, jobID int) <-chan outcome.Outcome[repository.Unit]
	JobApplicants(ctx context.Context, jobID int) <-chan outcome.Outcome[linkedoutsdk.JobApplicantsResponse]
	ApplicantDetails(ctx context.Context, applicationID int) <-chan outcome.Outcome[linkedoutsdk.ApplicantDetailsResponse]
	UpdateApplicationStatus(ctx context.Context, applicationID int, status string) <-chan outcome.Outcome[repository.Unit]
	BrowseJobs(ctx context.Context, f linkedoutsdk.JobFilter) <-chan outcome.Outcome[[]linkedoutsdk.Job]
	JobDetails(ctx context.Context, jobID int) <-chan outcome.Outcome[linkedoutsdk.JobResponse]
	RecommendedJobs(ctx context.Context, page, limit int) <-chan outcome.Outcome[linkedoutsdk.JobListResponse]
	ApplyToJob(ctx context.Context, jobID int, coverLetter string) <-chan outcome.Outcome[repository.Unit]
	SignedURL(ctx context.Context, fileURL string) <-chan outcome.Outcome[string]
}

type JobViewModel struct {
	scope *Scope
	repo  JobRepository
	log   *zap.Logger

	Jobs            Slot[[]linkedoutsdk.Job]
	JobDetail       Slot[linkedoutsdk.JobResponse]
	RecommendedJobs Slot[linkedoutsdk.JobListResponse]
	CreateJob       Slot[linkedoutsdk.JobResponse]
	UpdateJob       Slot[linkedoutsdk.JobResponse]
	DeleteJob       Slot[repository.Unit]
	ApplyJob        Slot[repository.Unit]

	Applicants              Slot[linkedoutsdk.JobApplicantsResponse]
	ApplicantDetails        Slot[linkedoutsdk.ApplicantDetailsResponse]
	ApplicantImageURL       Slot[string]
	ApplicantResumeURL      Slot[string]
	UpdateApplicationStatus Slot[repository.Unit]
}

func NewJobViewModel(parent context.Context, repo JobRepository, log *zap.Logger) *JobViewModel {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobViewModel{scope: NewScope(parent), repo: repo, log: log}
}

// Recruiter

func (vm *JobViewModel) LoadRecruiterJobs() {
	launch(vm.scope, &vm.Jobs, func(ctx context.Context) <-chan outcome.Outcome[[]linkedoutsdk.Job] {
		return outcome.MapStream(vm.repo.RecruiterJobs(ctx), func(l linkedoutsdk.JobListResponse) []linkedoutsdk.Job {
			return l.Jobs
		})
	}, nil)
}

func (vm *JobViewModel) CreateJobPosting(req linkedoutsdk.CreateJobRequest) {
	launch(vm.scope, &vm.CreateJob, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
		return vm.repo.CreateJob(ctx, req)
	}, nil)
}

// UpdateJobPosting refreshes the recruiter's job list on success.
func (vm *JobViewModel) UpdateJobPosting(jobID int, req linkedoutsdk.UpdateJobRequest) {
	launch(vm.scope, &vm.UpdateJob, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
		return vm.repo.UpdateJob(ctx, jobID, req)
	}, func(linkedoutsdk.JobResponse) {
		vm.LoadRecruiterJobs()
	})
}

// DeleteJobPosting refreshes the recruiter's job list on success.
func (vm *JobViewModel) DeleteJobPosting(jobID int) {
	launch(vm.scope, &vm.DeleteJob, func(ctx context.Context) <-chan outcome.Outcome[repository.Unit] {
		return vm.repo.DeleteJob(ctx, jobID)
	}, func(repository.Unit) {
		vm.LoadRecruiterJobs()
	})
}

func (vm *JobViewModel) LoadApplicants(jobID int) {
	launch(vm.scope, &vm.Applicants, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobApplicantsResponse] {
		return vm.repo.JobApplicants(ctx, jobID)
	}, nil)
}

// LoadApplicantDetails also fetches signed URLs for the applicant's picture
// and resume into their own slots. Both slots are cleared first so they never
// show another applicant's files.
func (vm *JobViewModel) LoadApplicantDetails(applicationID int) {
	vm.ApplicantImageURL.Reset()
	vm.ApplicantResumeURL.Reset()
	launch(vm.scope, &vm.ApplicantDetails, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ApplicantDetailsResponse] {
		return vm.repo.ApplicantDetails(ctx, applicationID)
	}, func(d linkedoutsdk.ApplicantDetailsResponse) {
		vm.applicantFile(&vm.ApplicantImageURL, d.Application.ProfileImageS3URL)
		vm.applicantFile(&vm.ApplicantResumeURL, d.Application.ResumeS3URL)
	})
}

func (vm *JobViewModel) applicantFile(slot *Slot[string], fileURL *string) {
	if fileURL == nil || *fileURL == "" {
		slot.Reset()
		return
	}
	vm.signedURL(slot, *fileURL)
}

// SetApplicationStatus records a recruiter decision and re-fetches the
// application on success. Only accepted and rejected are allowed.
func (vm *JobViewModel) SetApplicationStatus(applicationID int, status string) {
	if !onboarding.IsDecision(onboarding.ApplicationStatus(status)) {
		launch(vm.scope, &vm.UpdateApplicationStatus, func(context.Context) <-chan outcome.Outcome[repository.Unit] {
			return failed[repository.Unit](fmt.Sprintf("Invalid status %q", status))
		}, nil)
		return
	}
	launch(vm.scope, &vm.UpdateApplicationStatus, func(ctx context.Context) <-chan outcome.Outcome[repository.Unit] {
		return vm.repo.UpdateApplicationStatus(ctx, applicationID, status)
	}, func(repository.Unit) {
		vm.LoadApplicantDetails(applicationID)
	})
}

// Seeker

// BrowseJobs publishes the job list into Jobs.
func (vm *JobViewModel) BrowseJobs(f linkedoutsdk.JobFilter) {
	launch(vm.scope, &vm.Jobs, func(ctx context.Context) <-chan outcome.Outcome[[]linkedoutsdk.Job] {
		return vm.repo.BrowseJobs(ctx, f)
	}, nil)
}

func (vm *JobViewModel) LoadRecommendedJobs(page, limit int) {
	launch(vm.scope, &vm.RecommendedJobs, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobListResponse] {
		return vm.repo.RecommendedJobs(ctx, page, limit)
	}, nil)
}

func (vm *JobViewModel) LoadJobDetails(jobID int) {
	launch(vm.scope, &vm.JobDetail, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
		return vm.repo.JobDetails(ctx, jobID)
	}, nil)
}

func (vm *JobViewModel) Apply(jobID int, coverLetter string) {
	launch(vm.scope, &vm.ApplyJob, func(ctx context.Context) <-chan outcome.Outcome[repository.Unit] {
		return vm.repo.ApplyToJob(ctx, jobID, coverLetter)
	}, nil)
}

func (vm *JobViewModel) ResetCreateJob() { vm.CreateJob.Reset() }
func (vm *JobViewModel) ResetDeleteJob() { vm.DeleteJob.Reset() }
func (vm *JobViewModel) ResetApplyJob()  { vm.ApplyJob.Reset() }

func (vm *JobViewModel) Wait()  { vm.scope.Wait() }
func (vm *JobViewModel) Close() { vm.scope.Close() }

func (vm *JobViewModel) signedURL(slot *Slot[string], fileURL string) {
	launch(vm.scope, slot, func(ctx context.Context) <-chan outcome.Outcome[string] {
		return vm.repo.SignedURL(ctx, fileURL)
	}, nil)
}

// checked emits Loading at once, then runs check and forwards call's terminal
// outcome. check returns the failure copy, or "" to proceed. A failed check,
// or a superseded invocation, never reaches call.
func checked[T any](ctx context.Context, check func(context.Context) string, call func(context.Context) <-chan outcome.Outcome[T]) <-chan outcome.Outcome[T] {
	ch := make(chan outcome.Outcome[T], 2)
	ch <- outcome.Loading[T]()
	go func() {
		defer close(ch)
		if msg := check(ctx); msg != "" {
			ch <- outcome.Failure[T](msg)
			return
		}
		if err := ctx.Err(); err != nil {
			ch <- outcome.Failure[T](err.Error())
			return
		}
		for o := range call(ctx) {
			if o.Terminal() {
				ch <- o
			}
		}
	}()
	return ch
}

// failed is a finished sequence for a request rejected before any call.
func failed[T any](msg string) <-chan outcome.Outcome[T] {
	ch := make(chan outcome.Outcome[T], 2)
	ch <- outcome.Loading[T]()
	ch <- outcome.Failure[T](msg)
	close(ch)
	return ch
}
