// Package onboarding models the signup wizard progression and the entry-point
// dispatch derived from the stored session.
package onboarding

import (
	"errors"
	"fmt"
)

// CompletionThreshold is the first onboarding step that counts as complete.
const CompletionThreshold = 2

type Role string

const (
	RoleSeeker    Role = "seeker"
	RoleRecruiter Role = "recruiter"
)

// ParseRole accepts the wire user types.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSeeker, RoleRecruiter:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

type State int

const (
	NoSession State = iota
	Step1Pending
	Step2Pending
	Step3Pending
	Complete
)

func (s State) String() string {
	switch s {
	case NoSession:
		return "no_session"
	case Step1Pending:
		return "step1_pending"
	case Step2Pending:
		return "step2_pending"
	case Step3Pending:
		return "step3_pending"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Progress is the wizard position. Role is empty until step 1 succeeds.
type Progress struct {
	State State
	Role  Role
}

type EventKind int

const (
	OpenSignup EventKind = iota
	Step1Succeeded
	Step2Succeeded
	Step3Submitted
	Step3Skipped
)

type Event struct {
	Kind EventKind
	// Role is required for Step1Succeeded. On later events a non-empty Role
	// must match the role chosen at step 1.
	Role Role
}

var ErrIllegalTransition = errors.New("illegal onboarding transition")

// Advance applies e to p. Submitting and skipping step 3 are equivalent.
func Advance(p Progress, e Event) (Progress, error) {
	if e.Kind != Step1Succeeded && e.Role != "" && e.Role != p.Role {
		return p, fmt.Errorf("%w: %s step for a %s account", ErrIllegalTransition, e.Role, p.Role)
	}
	switch p.State {
	case NoSession:
		if e.Kind == OpenSignup {
			return Progress{State: Step1Pending}, nil
		}
	case Step1Pending:
		if e.Kind == Step1Succeeded {
			if _, err := ParseRole(string(e.Role)); err != nil {
				return p, err
			}
			return Progress{State: Step2Pending, Role: e.Role}, nil
		}
	case Step2Pending:
		if e.Kind == Step2Succeeded {
			return Progress{State: Step3Pending, Role: p.Role}, nil
		}
	case Step3Pending:
		if e.Kind == Step3Submitted || e.Kind == Step3Skipped {
			return Progress{State: Complete, Role: p.Role}, nil
		}
	}
	return p, fmt.Errorf("%w: event %d in %s", ErrIllegalTransition, e.Kind, p.State)
}

// Derive rebuilds progress from stored session fields. The wizard's optional
// third step is not recorded separately, so any step at or past the threshold
// is Complete.
func Derive(userType string, step *int) Progress {
	role, err := ParseRole(userType)
	if err != nil {
		return Progress{State: NoSession}
	}
	if step == nil || *step < CompletionThreshold {
		return Progress{State: Step2Pending, Role: role}
	}
	return Progress{State: Complete, Role: role}
}

// Resume is the wizard position for stored session fields. Unlike Derive it
// keeps step 3 open until the server reports a step past the threshold.
func Resume(userType string, step *int) Progress {
	p := Derive(userType, step)
	if p.State == Complete && *step == CompletionThreshold {
		p.State = Step3Pending
	}
	return p
}

// Stage is the entry-point destination class.
type Stage int

const (
	StageLogin Stage = iota
	StageStep2
	StageHome
)

func (s Stage) String() string {
	switch s {
	case StageLogin:
		return "login"
	case StageStep2:
		return "step2"
	case StageHome:
		return "home"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// NextStage is the launch and post-login dispatch rule. It must be evaluated
// against fresh session values each time.
func NextStage(userType string, step *int) Stage {
	switch Derive(userType, step).State {
	case Step2Pending:
		return StageStep2
	case Complete:
		return StageHome
	}
	return StageLogin
}
