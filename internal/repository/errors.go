package repository

import (
	"context"
	"errors"
	"net"
	"syscall"

	linkedoutsdk "linkedout/sdk/go"
)

// UseCase names a repository operation. It keys the error copy table and the logs.
type UseCase string

const (
	SignUpStep1             UseCase = "signup_step1"
	SignUpStep2Seeker       UseCase = "signup_step2_seeker"
	SignUpStep2Recruiter    UseCase = "signup_step2_recruiter"
	SignUpStep3             UseCase = "signup_step3"
	Login                   UseCase = "login"
	CurrentUser             UseCase = "current_user"
	CreateJob               UseCase = "create_job"
	RecruiterJobs           UseCase = "recruiter_jobs"
	UpdateJob               UseCase = "update_job"
	DeleteJob               UseCase = "delete_job"
	JobApplicants           UseCase = "job_applicants"
	ApplicantDetails        UseCase = "applicant_details"
	UpdateApplicationStatus UseCase = "update_application_status"
	BrowseJobs              UseCase = "browse_jobs"
	JobDetails              UseCase = "job_details"
	RecommendedJobs         UseCase = "recommended_jobs"
	ApplyToJob              UseCase = "apply_to_job"
	SeekerApplications      UseCase = "seeker_applications"
	UploadResume            UseCase = "upload_resume"
	UploadProfileImage      UseCase = "upload_profile_image"
	SignedURL               UseCase = "signed_url"
)

// ErrorCopy holds the user-facing strings for one use case.
type ErrorCopy struct {
	// Fallback is used when the envelope reports failure without a message.
	Fallback string
	// Network is used for any failure no other field covers.
	Network string
	// Offline and Timeout cover unreachable hosts and timeouts when set.
	Offline string
	Timeout string
	// Status maps HTTP status codes to copy. Codes missing from it surface the
	// server's envelope message, then UnlistedStatus.
	Status         map[int]string
	UnlistedStatus string
}

const networkError = "Network error"

func defaultCopy(fallback string) ErrorCopy {
	return ErrorCopy{Fallback: fallback, Network: networkError}
}

const (
	offlineCopy = "Network error. Please check your internet connection"
	timeoutCopy = "Connection timeout. Please try again"
	serverCopy  = "Server error. Please try again later"
)

var applyCopy = ErrorCopy{
	Fallback: "Failed to apply to job",
	Network:  "Failed to apply to job",
	Offline:  offlineCopy,
	Timeout:  timeoutCopy,
	Status: map[int]string{
		400: "You have already applied to this job",
		401: "Please login to apply",
		403: "Please complete your profile before applying",
		404: "Job not found",
		500: serverCopy,
	},
	UnlistedStatus: "Failed to apply",
}

var applicationsCopy = ErrorCopy{
	Fallback: "Failed to load applications",
	Network:  "Failed to load applications",
	Offline:  offlineCopy,
	Timeout:  timeoutCopy,
	Status: map[int]string{
		401: "Please login to view applications",
		403: "Access denied",
		500: serverCopy,
	},
	UnlistedStatus: "Failed to load applications",
}

// errorCopy is the per use case copy table.
var errorCopy = map[UseCase]ErrorCopy{
	SignUpStep1:             defaultCopy("Unknown error"),
	SignUpStep2Seeker:       defaultCopy("Unknown error"),
	SignUpStep2Recruiter:    defaultCopy("Unknown error"),
	SignUpStep3:             defaultCopy("Unknown error"),
	Login:                   defaultCopy("Invalid credentials"),
	CurrentUser:             defaultCopy("Failed to load profile"),
	CreateJob:               defaultCopy("Failed to create job"),
	RecruiterJobs:           defaultCopy("Failed to load jobs"),
	UpdateJob:               defaultCopy("Failed to update job"),
	DeleteJob:               defaultCopy("Failed to delete job"),
	JobApplicants:           defaultCopy("Failed to load applicants"),
	ApplicantDetails:        defaultCopy("Failed to load applicant details"),
	UpdateApplicationStatus: defaultCopy("Failed to update status"),
	BrowseJobs:              defaultCopy("Failed to load jobs"),
	JobDetails:              defaultCopy("Failed to load job details"),
	RecommendedJobs:         defaultCopy("Failed to load recommendations"),
	ApplyToJob:              applyCopy,
	SeekerApplications:      applicationsCopy,
	UploadResume:            defaultCopy("Failed to upload resume"),
	UploadProfileImage:      defaultCopy("Failed to upload image"),
	SignedURL:               defaultCopy("Failed to get file URL"),
}

// CopyFor returns the error copy for a use case.
func CopyFor(uc UseCase) ErrorCopy {
	if c, ok := errorCopy[uc]; ok {
		return c
	}
	return defaultCopy("Unknown error")
}

// Message maps a failed call to user-facing copy.
func (c ErrorCopy) Message(err error) string {
	var apiErr *linkedoutsdk.APIError
	switch {
	case errors.As(err, &apiErr):
		if msg, ok := c.Status[apiErr.StatusCode]; ok {
			return msg
		}
		if msg := apiErr.Message(); msg != "" {
			return msg
		}
		if c.UnlistedStatus != "" {
			return c.UnlistedStatus
		}
	case isTimeout(err):
		if c.Timeout != "" {
			return c.Timeout
		}
	case isOffline(err):
		if c.Offline != "" {
			return c.Offline
		}
	}
	if c.Network != "" {
		return c.Network
	}
	return networkError
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isOffline(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
