package onboarding

import (
	"errors"
	"testing"
)

func intp(v int) *int { return &v }

func TestNextStage(t *testing.T) {
	cases := []struct {
		userType string
		step     *int
		want     Stage
	}{
		{"", nil, StageLogin},
		{"", intp(3), StageLogin},
		{"admin", intp(3), StageLogin},
		{"seeker", nil, StageStep2},
		{"seeker", intp(0), StageStep2},
		{"seeker", intp(1), StageStep2},
		{"seeker", intp(2), StageHome},
		{"recruiter", intp(1), StageStep2},
		{"recruiter", intp(2), StageHome},
		{"recruiter", intp(3), StageHome},
	}
	for _, tc := range cases {
		if got := NextStage(tc.userType, tc.step); got != tc.want {
			t.Errorf("NextStage(%q, %v) = %s, want %s", tc.userType, tc.step, got, tc.want)
		}
	}
}

func TestAdvanceHappyPath(t *testing.T) {
	p := Progress{}
	steps := []struct {
		event Event
		want  State
	}{
		{Event{Kind: OpenSignup}, Step1Pending},
		{Event{Kind: Step1Succeeded, Role: RoleRecruiter}, Step2Pending},
		{Event{Kind: Step2Succeeded}, Step3Pending},
		{Event{Kind: Step3Skipped}, Complete},
	}
	for _, s := range steps {
		var err error
		p, err = Advance(p, s.event)
		if err != nil {
			t.Fatalf("advance %v: %v", s.event, err)
		}
		if p.State != s.want {
			t.Fatalf("state = %s, want %s", p.State, s.want)
		}
	}
	if p.Role != RoleRecruiter {
		t.Fatalf("role = %q", p.Role)
	}
}

func TestAdvanceRejectsIllegalEvents(t *testing.T) {
	p := Progress{State: Step2Pending, Role: RoleSeeker}
	if _, err := Advance(p, Event{Kind: Step1Succeeded, Role: RoleRecruiter}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("role change accepted: %v", err)
	}
	if _, err := Advance(Progress{}, Event{Kind: Step3Submitted}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("skip ahead accepted: %v", err)
	}
	if _, err := Advance(Progress{State: Step1Pending}, Event{Kind: Step1Succeeded, Role: "admin"}); err == nil {
		t.Fatalf("unknown role accepted")
	}
}

func TestAdvanceRejectsOtherRolesStep(t *testing.T) {
	p := Progress{State: Step2Pending, Role: RoleSeeker}
	if _, err := Advance(p, Event{Kind: Step2Succeeded, Role: RoleRecruiter}); !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("recruiter step accepted for seeker: %v", err)
	}
	if got, err := Advance(p, Event{Kind: Step2Succeeded, Role: RoleSeeker}); err != nil || got.State != Step3Pending {
		t.Fatalf("advance = %+v, %v", got, err)
	}
}

func TestResume(t *testing.T) {
	cases := []struct {
		userType string
		step     *int
		want     Progress
	}{
		{"", nil, Progress{State: NoSession}},
		{"seeker", nil, Progress{State: Step2Pending, Role: RoleSeeker}},
		{"seeker", intp(1), Progress{State: Step2Pending, Role: RoleSeeker}},
		{"seeker", intp(2), Progress{State: Step3Pending, Role: RoleSeeker}},
		{"recruiter", intp(3), Progress{State: Complete, Role: RoleRecruiter}},
	}
	for _, tc := range cases {
		if got := Resume(tc.userType, tc.step); got != tc.want {
			t.Errorf("Resume(%q, %v) = %+v, want %+v", tc.userType, tc.step, got, tc.want)
		}
	}
	if NextStage("seeker", intp(2)) != StageHome {
		t.Fatalf("an open step 3 must not block the home screen")
	}
}

func TestSubmitAndSkipAreEquivalent(t *testing.T) {
	p := Progress{State: Step3Pending, Role: RoleSeeker}
	a, err := Advance(p, Event{Kind: Step3Submitted})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Advance(p, Event{Kind: Step3Skipped})
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("submit %+v != skip %+v", a, b)
	}
}

func TestApplicationStatusTransitions(t *testing.T) {
	if !CanTransition(StatusPending, StatusAccepted) || !CanTransition(StatusPending, StatusRejected) {
		t.Fatalf("pending decisions rejected")
	}
	for _, tc := range [][2]ApplicationStatus{
		{StatusAccepted, StatusPending},
		{StatusRejected, StatusAccepted},
		{StatusPending, StatusReviewed},
		{StatusPending, StatusPending},
	} {
		if err := EnsureTransition(tc[0], tc[1]); err == nil {
			t.Errorf("%s -> %s allowed", tc[0], tc[1])
		}
	}
}
