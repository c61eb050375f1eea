// Package repository bridges the LinkedOut API client and the local session
// store. Every use case is published as a Loading → Success | Error sequence.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"linkedout/internal/outcome"
	"linkedout/internal/session"
	linkedoutsdk "linkedout/sdk/go"
)

// API is the subset of the SDK client the repository drives.
type API interface {
	SignUpStep1(ctx context.Context, req linkedoutsdk.SignUpStep1Request) (linkedoutsdk.Envelope[linkedoutsdk.AuthResponse], error)
	SignUpStep2Seeker(ctx context.Context, req linkedoutsdk.SignUpStep2SeekerRequest) (linkedoutsdk.Envelope[linkedoutsdk.ProfileCompletionData], error)
	SignUpStep2Recruiter(ctx context.Context, req linkedoutsdk.SignUpStep2RecruiterRequest) (linkedoutsdk.Envelope[linkedoutsdk.ProfileCompletionData], error)
	SignUpStep3(ctx context.Context, req linkedoutsdk.SignUpStep3Request) (linkedoutsdk.Envelope[linkedoutsdk.ProfileCompletionData], error)
	Login(ctx context.Context, req linkedoutsdk.LoginRequest) (linkedoutsdk.Envelope[linkedoutsdk.AuthResponse], error)
	CurrentUser(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.ProfileData], error)

	CreateJob(ctx context.Context, req linkedoutsdk.CreateJobRequest) (linkedoutsdk.Envelope[linkedoutsdk.JobResponse], error)
	RecruiterJobs(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.JobListResponse], error)
	UpdateJob(ctx context.Context, jobID int, req linkedoutsdk.UpdateJobRequest) (linkedoutsdk.Envelope[linkedoutsdk.JobResponse], error)
	DeleteJob(ctx context.Context, jobID int) (linkedoutsdk.Envelope[json.RawMessage], error)
	JobApplicants(ctx context.Context, jobID int) (linkedoutsdk.Envelope[linkedoutsdk.JobApplicantsResponse], error)
	ApplicantDetails(ctx context.Context, applicationID int) (linkedoutsdk.Envelope[linkedoutsdk.ApplicantDetailsResponse], error)
	UpdateApplicationStatus(ctx context.Context, applicationID int, status string) (linkedoutsdk.Envelope[json.RawMessage], error)

	BrowseJobs(ctx context.Context, f linkedoutsdk.JobFilter) (linkedoutsdk.Envelope[linkedoutsdk.JobListResponse], error)
	JobDetails(ctx context.Context, jobID int) (linkedoutsdk.Envelope[linkedoutsdk.JobResponse], error)
	RecommendedJobs(ctx context.Context, page, limit int) (linkedoutsdk.Envelope[linkedoutsdk.JobListResponse], error)
	ApplyToJob(ctx context.Context, jobID int, coverLetter string) (linkedoutsdk.Envelope[json.RawMessage], error)
	SeekerApplications(ctx context.Context, status string, page, limit int) (linkedoutsdk.Envelope[linkedoutsdk.SeekerApplicationsResponse], error)

	UploadResume(ctx context.Context, f linkedoutsdk.File) (linkedoutsdk.Envelope[linkedoutsdk.FileUploadResponse], error)
	UploadProfileImage(ctx context.Context, f linkedoutsdk.File) (linkedoutsdk.Envelope[linkedoutsdk.FileUploadResponse], error)
	SignedURL(ctx context.Context, fileURL string) (linkedoutsdk.Envelope[linkedoutsdk.SignedURLResponse], error)
}

// SessionStore is the local session surface the repository writes to.
type SessionStore interface {
	Get(ctx context.Context) (session.Session, error)
	SaveAuth(ctx context.Context, token string, userID int, userType string, step int) error
	UpdateOnboardingStep(ctx context.Context, step int) error
	Clear(ctx context.Context) error
}

// Unit is the payload of use cases that only report success.
type Unit struct{}

type Repository struct {
	api   API
	store SessionStore
	log   *zap.Logger
}

func New(api API, store SessionStore, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{api: api, store: store, log: log}
}

// Session returns the stored session.
func (r *Repository) Session(ctx context.Context) (session.Session, error) {
	return r.store.Get(ctx)
}

// Logout clears the local session. No network call is made.
func (r *Repository) Logout(ctx context.Context) error {
	if err := r.store.Clear(ctx); err != nil {
		r.log.Warn("Clear session failed", zap.Error(err))
		return err
	}
	r.log.Debug("Session cleared")
	return nil
}

// step describes one use case invocation.
type step[E, T any] struct {
	useCase UseCase
	call    func(ctx context.Context) (linkedoutsdk.Envelope[E], error)
	// extract pulls the payload out of a successful envelope; false means the
	// envelope lacks a payload the use case requires.
	extract func(env linkedoutsdk.Envelope[E]) (T, bool)
	// effect runs after a successful extract and before Success is published.
	effect func(ctx context.Context, v T) error
}

// run emits Loading before returning, then resolves the call in the
// background. The channel is closed after the terminal value.
func run[E, T any](ctx context.Context, r *Repository, s step[E, T]) <-chan outcome.Outcome[T] {
	out := make(chan outcome.Outcome[T], 2)
	out <- outcome.Loading[T]()
	go func() {
		defer close(out)
		out <- resolve(ctx, r, s)
	}()
	return out
}

func resolve[E, T any](ctx context.Context, r *Repository, s step[E, T]) outcome.Outcome[T] {
	log := r.log.With(zap.String("use_case", string(s.useCase)))
	cp := CopyFor(s.useCase)
	env, err := s.call(ctx)
	if err != nil {
		msg := cp.Message(err)
		log.Warn("Call failed", zap.Error(err), zap.String("message", msg))
		return outcome.Failure[T](msg, fieldErrors(apiValidationErrors(err))...)
	}
	if !env.Success {
		msg := env.MessageOr(cp.Fallback)
		log.Debug("Envelope reported failure", zap.String("message", msg))
		return outcome.Failure[T](msg, fieldErrors(env.Errors)...)
	}
	v, ok := s.extract(env)
	if !ok {
		log.Debug("Envelope missing payload")
		return outcome.Failure[T](env.MessageOr(cp.Fallback), fieldErrors(env.Errors)...)
	}
	if s.effect != nil {
		if err := s.effect(ctx, v); err != nil {
			log.Warn("Session update failed", zap.Error(err))
			return outcome.Failure[T](cp.Fallback)
		}
	}
	log.Debug("Call succeeded")
	return outcome.Success(v)
}

func data[T any](env linkedoutsdk.Envelope[T]) (T, bool) {
	if env.Data == nil {
		var zero T
		return zero, false
	}
	return *env.Data, true
}

func unit[E any](linkedoutsdk.Envelope[E]) (Unit, bool) {
	return Unit{}, true
}

func apiValidationErrors(err error) []linkedoutsdk.ValidationError {
	var apiErr *linkedoutsdk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ValidationErrors()
	}
	return nil
}

func fieldErrors(errs []linkedoutsdk.ValidationError) []outcome.FieldError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]outcome.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, outcome.FieldError{Field: e.Param, Message: e.Msg, Location: e.Location})
	}
	return out
}
