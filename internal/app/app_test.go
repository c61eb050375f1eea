package app

import (
	"context"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"linkedout/internal/config"
	"linkedout/internal/navigation"
	"linkedout/internal/outcome"
	"linkedout/internal/viewmodel"
	linkedoutsdk "linkedout/sdk/go"
)

func startBackend(t *testing.T) string {
	t.Helper()
	conn, err := OpenDB(t.TempDir())
	if err != nil {
		t.Fatalf("open backend db: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	cfg := config.Default().Server
	cfg.Addr = ln.Addr().String()
	cfg.JWTSecret = "app-test-secret"
	backend, err := NewBackend(conn, cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	srv := &http.Server{Handler: backend.Handler}
	go srv.Serve(ln)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		conn.Close()
	})
	return PublicURL(cfg) + cfg.BasePath + "/"
}

func newClient(t *testing.T, apiURL string) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.API.BaseURL = apiURL
	c, err := Open(context.Background(), t.TempDir(), cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("open client: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func await[T any](t *testing.T, slot *viewmodel.Slot[T]) outcome.Outcome[T] {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	o, err := slot.Await(ctx)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	return o
}

func mustSucceed[T any](t *testing.T, what string, slot *viewmodel.Slot[T]) T {
	t.Helper()
	o := await(t, slot)
	if !o.IsSuccess() {
		t.Fatalf("%s: expected success, got %s", what, o)
	}
	return o.Data
}

func startRoute(t *testing.T, c *Client) string {
	t.Helper()
	route, err := c.Auth.StartRoute(context.Background())
	if err != nil {
		t.Fatalf("start route: %v", err)
	}
	return route
}

func TestHiringFlowThroughViewModels(t *testing.T) {
	apiURL := startBackend(t)
	recruiter := newClient(t, apiURL)
	seeker := newClient(t, apiURL)

	if got := startRoute(t, recruiter); got != navigation.Login.Pattern {
		t.Fatalf("fresh install should start at login, got %q", got)
	}

	recruiter.Auth.SignUpStep1("rita@example.com", "secret123", "recruiter", "Rita", "1985-05-05")
	mustSucceed(t, "recruiter signup", &recruiter.Auth.Auth)
	if got := startRoute(t, recruiter); got != "signup_step2/recruiter" {
		t.Fatalf("expected step 2 route, got %q", got)
	}
	recruiter.Auth.SignUpStep2Recruiter(linkedoutsdk.SignUpStep2RecruiterRequest{CompanyName: "Acme"})
	mustSucceed(t, "recruiter step2", &recruiter.Auth.ProfileCompletion)
	recruiter.Auth.CompleteRecruiterOnboarding(true)
	if done := mustSucceed(t, "recruiter step3", &recruiter.Auth.ProfileCompletion); done.ProfileCompletionStep != 3 {
		t.Fatalf("expected step 3, got %d", done.ProfileCompletionStep)
	}
	if got := startRoute(t, recruiter); got != navigation.RecruiterHome.Pattern {
		t.Fatalf("expected recruiter home, got %q", got)
	}

	location := "Berlin"
	recruiter.Jobs.CreateJobPosting(linkedoutsdk.CreateJobRequest{Title: "Go Engineer", Description: "Build services", Location: &location})
	job := mustSucceed(t, "create job", &recruiter.Jobs.CreateJob).Job

	seeker.Auth.SignUpStep1("sam@example.com", "secret123", "seeker", "Sam", "1995-01-01")
	mustSucceed(t, "seeker signup", &seeker.Auth.Auth)
	seeker.Auth.SignUpStep2Seeker(linkedoutsdk.SignUpStep2SeekerRequest{Location: &location})
	mustSucceed(t, "seeker step2", &seeker.Auth.ProfileCompletion)
	seeker.Auth.SignUpStep3(viewmodel.Preferences{JobTitles: []string{"go"}, Locations: []string{"berlin"}}, false)
	mustSucceed(t, "seeker step3", &seeker.Auth.ProfileCompletion)
	if got := startRoute(t, seeker); got != navigation.SeekerHome.Pattern {
		t.Fatalf("expected seeker home, got %q", got)
	}
	seeker.Auth.SignUpStep2Seeker(linkedoutsdk.SignUpStep2SeekerRequest{Location: &location})
	if again := await(t, &seeker.Auth.ProfileCompletion); again.Message != "Onboarding already completed" {
		t.Fatalf("repeated step2 = %s", again)
	}

	seeker.Jobs.LoadRecommendedJobs(1, 20)
	recs := mustSucceed(t, "recommendations", &seeker.Jobs.RecommendedJobs)
	if len(recs.Jobs) != 1 || recs.Jobs[0].ID != job.ID || recs.Jobs[0].MatchScore == nil || *recs.Jobs[0].MatchScore != 80 {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}

	seeker.Jobs.Apply(job.ID, "Hello")
	mustSucceed(t, "apply", &seeker.Jobs.ApplyJob)
	seeker.Jobs.Apply(job.ID, "Again")
	if o := await(t, &seeker.Jobs.ApplyJob); !o.IsError() || !strings.Contains(o.Message, "already applied") {
		t.Fatalf("expected duplicate apply error, got %s", o)
	}

	recruiter.Jobs.LoadApplicants(job.ID)
	applicants := mustSucceed(t, "applicants", &recruiter.Jobs.Applicants)
	if len(applicants.Applicants) != 1 {
		t.Fatalf("expected one applicant, got %d", len(applicants.Applicants))
	}
	appID := applicants.Applicants[0].ApplicationID
	recruiter.Jobs.SetApplicationStatus(appID, linkedoutsdk.StatusAccepted)
	mustSucceed(t, "status update", &recruiter.Jobs.UpdateApplicationStatus)
	details := mustSucceed(t, "applicant refresh", &recruiter.Jobs.ApplicantDetails)
	if details.Application.ApplicationStatus != linkedoutsdk.StatusAccepted {
		t.Fatalf("expected refreshed status accepted, got %q", details.Application.ApplicationStatus)
	}

	seeker.Profile.LoadApplications("", 1, 20)
	apps := mustSucceed(t, "seeker applications", &seeker.Profile.Applications)
	if len(apps.Applications) != 1 || apps.Applications[0].ApplicationStatus != linkedoutsdk.StatusAccepted {
		t.Fatalf("unexpected applications: %+v", apps.Applications)
	}

	seeker.Auth.Logout()
	seeker.Auth.Wait()
	if got := startRoute(t, seeker); got != navigation.Login.Pattern {
		t.Fatalf("expected login after logout, got %q", got)
	}
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		cfg  config.Server
		want string
	}{
		{config.Server{Addr: "127.0.0.1:8080"}, "http://127.0.0.1:8080"},
		{config.Server{Addr: ":9000"}, "http://localhost:9000"},
		{config.Server{Addr: ":9000", PublicURL: "https://files.example.com/"}, "https://files.example.com"},
	}
	for _, tc := range cases {
		if got := PublicURL(tc.cfg); got != tc.want {
			t.Fatalf("PublicURL(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}
