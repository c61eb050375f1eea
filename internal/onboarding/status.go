package onboarding

import "fmt"

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusReviewed ApplicationStatus = "reviewed"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// CanTransition reports whether a recruiter may move an application from one
// status to another. Decisions are final.
func CanTransition(from, to ApplicationStatus) bool {
	return from == StatusPending && IsDecision(to)
}

// EnsureTransition is CanTransition as an error.
func EnsureTransition(from, to ApplicationStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("invalid application status transition %s -> %s", from, to)
}

// IsDecision reports whether s is a status a recruiter may set.
func IsDecision(s ApplicationStatus) bool {
	return s == StatusAccepted || s == StatusRejected
}
