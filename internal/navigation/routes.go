// Package navigation holds the static route table and the entry-point
// dispatch computed from the stored session.
package navigation

import (
	"fmt"
	"strconv"
	"strings"

	"linkedout/internal/onboarding"
)

type ParamKind int

const (
	ParamString ParamKind = iota
	ParamInt
	// ParamRole accepts only seeker or recruiter.
	ParamRole
)

type Param struct {
	Name string
	Kind ParamKind
}

// Route is a string-keyed destination. Parameterized routes use chi-style
// placeholders, e.g. job_details/{jobId}.
type Route struct {
	Pattern string
	Params  []Param
}

func route(pattern string, params ...Param) Route {
	return Route{Pattern: pattern, Params: params}
}

var (
	Splash           = route("splash")
	Login            = route("login")
	SignupStep1      = route("signup_step1")
	SignupStep2      = route("signup_step2/{userType}", Param{"userType", ParamRole})
	SignupStep3      = route("signup_step3/{userType}", Param{"userType", ParamRole})
	SeekerHome       = route("seeker_home")
	JobDetails       = route("job_details/{jobId}", Param{"jobId", ParamInt})
	SearchJobs       = route("search_jobs")
	RecommendedJobs  = route("recommended_jobs")
	SeekerProfile    = route("seeker_profile")
	RecruiterHome    = route("recruiter_home")
	CreateJob        = route("create_job")
	EditJob          = route("edit_job/{jobId}", Param{"jobId", ParamInt})
	JobApplicants    = route("job_applicants/{jobId}", Param{"jobId", ParamInt})
	ApplicantDetails = route("applicant_details/{applicationId}", Param{"applicationId", ParamInt})
	RecruiterProfile = route("recruiter_profile")
)

// All lists every route of the app.
var All = []Route{
	Splash, Login, SignupStep1, SignupStep2, SignupStep3,
	SeekerHome, JobDetails, SearchJobs, RecommendedJobs, SeekerProfile,
	RecruiterHome, CreateJob, EditJob, JobApplicants, ApplicantDetails, RecruiterProfile,
}

// Name is the leading path segment.
func (r Route) Name() string {
	name, _, _ := strings.Cut(r.Pattern, "/")
	return name
}

func (r Route) String() string { return r.Pattern }

// Build fills the placeholders in order.
func (r Route) Build(args ...any) (string, error) {
	if len(args) != len(r.Params) {
		return "", fmt.Errorf("route %s takes %d arguments, got %d", r.Name(), len(r.Params), len(args))
	}
	path := r.Pattern
	for i, p := range r.Params {
		v, err := p.format(args[i])
		if err != nil {
			return "", fmt.Errorf("route %s: %w", r.Name(), err)
		}
		path = strings.Replace(path, "{"+p.Name+"}", v, 1)
	}
	return path, nil
}

// MustBuild is Build for arguments known to be valid.
func (r Route) MustBuild(args ...any) string {
	path, err := r.Build(args...)
	if err != nil {
		panic(err)
	}
	return path
}

func (p Param) format(v any) (string, error) {
	switch p.Kind {
	case ParamInt:
		n, ok := v.(int)
		if !ok {
			return "", fmt.Errorf("%s must be an int, got %T", p.Name, v)
		}
		return strconv.Itoa(n), nil
	case ParamRole:
		s := fmt.Sprint(v)
		if _, err := onboarding.ParseRole(s); err != nil {
			return "", fmt.Errorf("%s: %w", p.Name, err)
		}
		return s, nil
	}
	s := fmt.Sprint(v)
	if s == "" || strings.Contains(s, "/") {
		return "", fmt.Errorf("%s: invalid segment %q", p.Name, s)
	}
	return s, nil
}

func (p Param) validate(raw string) error {
	switch p.Kind {
	case ParamInt:
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Errorf("%s must be an integer, got %q", p.Name, raw)
		}
	case ParamRole:
		if _, err := onboarding.ParseRole(raw); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return nil
}
