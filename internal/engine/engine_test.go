package engine_test

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"linkedout/internal/db"
	"linkedout/internal/engine"
	"linkedout/internal/engine/auth"
	"linkedout/internal/migrate"
	"linkedout/internal/repo"
)

type testEnv struct {
	Engine engine.Engine
	Ctx    context.Context
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: dir})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	clock := func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	eng := engine.New(conn, auth.Issuer{Secret: []byte("test-secret"), Now: clock}, "http://files.test")
	eng.Now = clock
	return testEnv{Engine: eng, Ctx: context.Background()}
}

func (env testEnv) signUp(t *testing.T, email, userType string) auth.Principal {
	t.Helper()
	res, err := env.Engine.SignUp(env.Ctx, engine.SignUpOptions{
		Email:    email,
		Password: "secret123",
		UserType: userType,
		FullName: "Test " + userType,
	})
	if err != nil {
		t.Fatalf("sign up %s: %v", email, err)
	}
	return auth.Principal{UserID: res.User.ID, UserType: res.User.UserType}
}

func (env testEnv) seeker(t *testing.T, email string) auth.Principal {
	t.Helper()
	p := env.signUp(t, email, "seeker")
	if _, err := env.Engine.CompleteSeekerProfile(env.Ctx, p, engine.SeekerProfileOptions{}); err != nil {
		t.Fatalf("seeker step 2: %v", err)
	}
	return p
}

func (env testEnv) recruiter(t *testing.T, email string) auth.Principal {
	t.Helper()
	p := env.signUp(t, email, "recruiter")
	if _, err := env.Engine.CompleteRecruiterProfile(env.Ctx, p, engine.RecruiterProfileOptions{CompanyName: "Acme"}); err != nil {
		t.Fatalf("recruiter step 2: %v", err)
	}
	return p
}

func (env testEnv) createJob(t *testing.T, p auth.Principal, title string, mutate func(*engine.JobInput)) int {
	t.Helper()
	desc := "Build things"
	in := engine.JobInput{Title: &title, Description: &desc}
	if mutate != nil {
		mutate(&in)
	}
	j, err := env.Engine.CreateJob(env.Ctx, p, in)
	if err != nil {
		t.Fatalf("create job %q: %v", title, err)
	}
	return j.ID
}

func ptr[T any](v T) *T { return &v }

func TestSignUpAndLogin(t *testing.T) {
	env := newTestEnv(t)
	res, err := env.Engine.SignUp(env.Ctx, engine.SignUpOptions{
		Email: "Ann@Example.com", Password: "secret123", UserType: "seeker", FullName: "Ann", BirthDate: "1990-04-02",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if res.CompletionStep != 1 || res.Token == "" || res.User.Email != "ann@example.com" {
		t.Fatalf("unexpected sign up result: %+v", res)
	}
	p, err := env.Engine.Auth.Authenticate(res.Token)
	if err != nil || p.UserID != res.User.ID || p.UserType != "seeker" {
		t.Fatalf("token does not authenticate: %+v %v", p, err)
	}

	if _, err := env.Engine.SignUp(env.Ctx, engine.SignUpOptions{Email: "ann@example.com", Password: "secret123", UserType: "seeker", FullName: "Ann"}); !errors.Is(err, engine.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := env.Engine.Login(env.Ctx, "ann@example.com", "wrong-pass"); !errors.Is(err, engine.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := env.Engine.Login(env.Ctx, "nobody@example.com", "secret123"); !errors.Is(err, engine.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	login, err := env.Engine.Login(env.Ctx, "ANN@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != res.User.ID || login.CompletionStep != 1 {
		t.Fatalf("unexpected login result: %+v", login)
	}
}

func TestSignUpValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []struct {
		name  string
		opts  engine.SignUpOptions
		param string
	}{
		{"email", engine.SignUpOptions{Email: "nope", Password: "secret123", UserType: "seeker", FullName: "A"}, "email"},
		{"password", engine.SignUpOptions{Email: "a@b.co", Password: "123", UserType: "seeker", FullName: "A"}, "password"},
		{"user type", engine.SignUpOptions{Email: "a@b.co", Password: "secret123", UserType: "admin", FullName: "A"}, "userType"},
		{"full name", engine.SignUpOptions{Email: "a@b.co", Password: "secret123", UserType: "seeker", FullName: " "}, "fullName"},
		{"birth date", engine.SignUpOptions{Email: "a@b.co", Password: "secret123", UserType: "seeker", FullName: "A", BirthDate: "02/04/1990"}, "birthDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.Engine.SignUp(env.Ctx, tc.opts)
			var ve engine.ValidationError
			if !errors.As(err, &ve) || ve.Param != tc.param {
				t.Fatalf("expected validation error on %s, got %v", tc.param, err)
			}
		})
	}
}

func TestOnboardingSteps(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.signUp(t, "s@example.com", "seeker")
	recruiter := env.signUp(t, "r@example.com", "recruiter")

	if _, err := env.Engine.SavePreferences(env.Ctx, seeker, engine.PreferencesOptions{Skip: true}); err == nil {
		t.Fatalf("expected step 3 before step 2 to fail")
	}
	var fe auth.ForbiddenError
	if _, err := env.Engine.CompleteSeekerProfile(env.Ctx, recruiter, engine.SeekerProfileOptions{}); !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for recruiter, got %v", err)
	}
	var ve engine.ValidationError
	if _, err := env.Engine.CompleteRecruiterProfile(env.Ctx, recruiter, engine.RecruiterProfileOptions{}); !errors.As(err, &ve) || ve.Param != "companyName" {
		t.Fatalf("expected companyName validation error, got %v", err)
	}

	step, err := env.Engine.CompleteSeekerProfile(env.Ctx, seeker, engine.SeekerProfileOptions{
		CurrentJob: ptr("Engineer"), YearsExperience: ptr(4), Location: ptr("Berlin"),
	})
	if err != nil || step != 2 {
		t.Fatalf("seeker step 2: step=%d err=%v", step, err)
	}
	acc, err := env.Engine.Account(env.Ctx, seeker.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if !acc.CanUseApp() || acc.ProfileComplete() || acc.Preferences != nil {
		t.Fatalf("unexpected account after step 2: %+v", acc)
	}

	step, err = env.Engine.SavePreferences(env.Ctx, seeker, engine.PreferencesOptions{
		JobTitles: []string{" Go ", ""}, Locations: []string{"Berlin"}, SalaryMin: ptr(50000.0), SalaryMax: ptr(90000.0),
	})
	if err != nil || step != 3 {
		t.Fatalf("seeker step 3: step=%d err=%v", step, err)
	}
	acc, err = env.Engine.Account(env.Ctx, seeker.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if !acc.ProfileComplete() || acc.Preferences == nil {
		t.Fatalf("expected complete profile with preferences: %+v", acc)
	}
	if diff := cmp.Diff([]string{"Go"}, acc.Preferences.JobTitles); diff != "" {
		t.Fatalf("titles mismatch (-want +got):\n%s", diff)
	}

	// Re-running step 2 never lowers the step.
	step, err = env.Engine.CompleteSeekerProfile(env.Ctx, seeker, engine.SeekerProfileOptions{})
	if err != nil || step != 3 {
		t.Fatalf("repeat step 2: step=%d err=%v", step, err)
	}
}

func TestJobCreateDetailsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	recruiter := env.recruiter(t, "r@example.com")
	created, err := env.Engine.CreateJob(env.Ctx, recruiter, engine.JobInput{
		Title:          ptr("Backend Engineer"),
		Description:    ptr("Go services"),
		About:          ptr("Team"),
		SalaryMin:      ptr(60000.0),
		SalaryMax:      ptr(80000.0),
		Location:       ptr("Berlin"),
		EmploymentType: ptr("full-time"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CompanyName == nil || *created.CompanyName != "Acme" || created.Status != engine.JobActive {
		t.Fatalf("unexpected created job: %+v", created)
	}
	details, err := env.Engine.JobDetails(env.Ctx, auth.Principal{}, created.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if diff := cmp.Diff(created, details); diff != "" {
		t.Fatalf("round trip mismatch (-created +details):\n%s", diff)
	}

	var ve engine.ValidationError
	if _, err := env.Engine.CreateJob(env.Ctx, recruiter, engine.JobInput{Title: ptr("x"), Description: ptr("y"), SalaryMin: ptr(10.0), SalaryMax: ptr(5.0)}); !errors.As(err, &ve) {
		t.Fatalf("expected salary validation error, got %v", err)
	}
	seeker := env.seeker(t, "s@example.com")
	var fe auth.ForbiddenError
	if _, err := env.Engine.CreateJob(env.Ctx, seeker, engine.JobInput{Title: ptr("x"), Description: ptr("y")}); !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for seeker, got %v", err)
	}
}

func TestJobOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.recruiter(t, "owner@example.com")
	other := env.recruiter(t, "other@example.com")
	id := env.createJob(t, owner, "Designer", nil)

	if _, err := env.Engine.UpdateJob(env.Ctx, other, id, engine.JobInput{Title: ptr("Hacked")}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found for foreign update, got %v", err)
	}
	if err := env.Engine.DeleteJob(env.Ctx, other, id); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}
	updated, err := env.Engine.UpdateJob(env.Ctx, owner, id, engine.JobInput{Status: ptr(engine.JobClosed)})
	if err != nil || updated.Status != engine.JobClosed || updated.Title != "Designer" {
		t.Fatalf("close job: %+v %v", updated, err)
	}
	if _, err := env.Engine.JobDetails(env.Ctx, other, id); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("closed job should be hidden from others, got %v", err)
	}
	if _, err := env.Engine.JobDetails(env.Ctx, owner, id); err != nil {
		t.Fatalf("owner should see closed job: %v", err)
	}
	if err := env.Engine.DeleteJob(env.Ctx, owner, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	jobs, err := env.Engine.RecruiterJobs(env.Ctx, owner)
	if err != nil || len(jobs) != 0 {
		t.Fatalf("expected no jobs after delete: %v %v", jobs, err)
	}
	evts, err := env.Engine.Repo.LatestEvents(env.Ctx, 10, "", "job", "")
	if err != nil {
		t.Fatal(err)
	}
	var types []string
	for _, e := range evts {
		types = append(types, e.Type)
	}
	if diff := cmp.Diff([]string{"job.delete", "job.update", "job.create"}, types); diff != "" {
		t.Fatalf("job events mismatch (-want +got):\n%s", diff)
	}
}

func TestBrowseFiltersAndPagination(t *testing.T) {
	env := newTestEnv(t)
	r := env.recruiter(t, "r@example.com")
	env.createJob(t, r, "Go Engineer", func(in *engine.JobInput) {
		in.Location = ptr("Berlin")
		in.SalaryMin, in.SalaryMax = ptr(60000.0), ptr(80000.0)
		in.EmploymentType = ptr("full-time")
	})
	env.createJob(t, r, "Rust Engineer", func(in *engine.JobInput) {
		in.Location = ptr("Paris")
		in.SalaryMin = ptr(90000.0)
	})
	closed := env.createJob(t, r, "Go Intern", func(in *engine.JobInput) { in.Location = ptr("Berlin") })
	if _, err := env.Engine.UpdateJob(env.Ctx, r, closed, engine.JobInput{Status: ptr(engine.JobClosed)}); err != nil {
		t.Fatal(err)
	}

	titles := func(opts engine.BrowseOptions) []string {
		t.Helper()
		jobs, _, err := env.Engine.BrowseJobs(env.Ctx, opts)
		if err != nil {
			t.Fatalf("browse: %v", err)
		}
		var out []string
		for _, j := range jobs {
			out = append(out, j.Title)
		}
		return out
	}
	cases := []struct {
		name string
		opts engine.BrowseOptions
		want []string
	}{
		{"all active", engine.BrowseOptions{}, []string{"Rust Engineer", "Go Engineer"}},
		{"location", engine.BrowseOptions{Location: "berlin"}, []string{"Go Engineer"}},
		{"tags", engine.BrowseOptions{Tags: "rust, kotlin"}, []string{"Rust Engineer"}},
		{"salary min", engine.BrowseOptions{SalaryMin: ptr(85000.0)}, []string{"Rust Engineer"}},
		{"salary max", engine.BrowseOptions{SalaryMax: ptr(70000.0)}, []string{"Go Engineer"}},
		{"employment type", engine.BrowseOptions{EmploymentType: "full-time"}, []string{"Go Engineer"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, titles(tc.opts)); diff != "" {
				t.Fatalf("titles mismatch (-want +got):\n%s", diff)
			}
		})
	}

	jobs, page, err := env.Engine.BrowseJobs(env.Ctx, engine.BrowseOptions{Page: 2, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(engine.Page{Page: 2, Limit: 1, Total: 2, Pages: 2}, page); diff != "" {
		t.Fatalf("page mismatch (-want +got):\n%s", diff)
	}
	if len(jobs) != 1 || jobs[0].Title != "Go Engineer" {
		t.Fatalf("unexpected second page: %+v", jobs)
	}
}

func TestRecommendations(t *testing.T) {
	env := newTestEnv(t)
	r := env.recruiter(t, "r@example.com")
	env.createJob(t, r, "Senior Go Engineer", func(in *engine.JobInput) {
		in.Location = ptr("Berlin")
		in.SalaryMin, in.SalaryMax = ptr(60000.0), ptr(80000.0)
	})
	env.createJob(t, r, "Go Developer", func(in *engine.JobInput) { in.Location = ptr("Paris") })
	env.createJob(t, r, "Chef", func(in *engine.JobInput) { in.Location = ptr("Rome") })
	seeker := env.seeker(t, "s@example.com")

	fallback, err := env.Engine.Recommend(env.Ctx, seeker, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if fallback.Message == "" || len(fallback.Jobs) != 3 {
		t.Fatalf("expected newest jobs with a message: %+v", fallback)
	}

	if _, err := env.Engine.SavePreferences(env.Ctx, seeker, engine.PreferencesOptions{
		JobTitles: []string{"go"}, Industries: []string{"software"}, Locations: []string{"Berlin"},
		SalaryMin: ptr(50000.0), SalaryMax: ptr(90000.0),
	}); err != nil {
		t.Fatal(err)
	}
	recs, err := env.Engine.Recommend(env.Ctx, seeker, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	type scored struct {
		Title string
		Score int
	}
	var got []scored
	for _, j := range recs.Jobs {
		got = append(got, scored{j.Title, j.Score})
	}
	want := []scored{{"Senior Go Engineer", 100}, {"Go Developer", 50}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("recommendations mismatch (-want +got):\n%s", diff)
	}
	if recs.Message != "" || recs.TotalPreferred != 3 || recs.Page.Total != 2 {
		t.Fatalf("unexpected recommendation metadata: %+v", recs)
	}

	var fe auth.ForbiddenError
	if _, err := env.Engine.Recommend(env.Ctx, r, 1, 10); !errors.As(err, &fe) {
		t.Fatalf("expected forbidden for recruiter, got %v", err)
	}
}

func TestApplyRules(t *testing.T) {
	env := newTestEnv(t)
	r := env.recruiter(t, "r@example.com")
	jobID := env.createJob(t, r, "Go Engineer", nil)
	fresh := env.signUp(t, "fresh@example.com", "seeker")
	seeker := env.seeker(t, "s@example.com")

	var fe auth.ForbiddenError
	if _, err := env.Engine.Apply(env.Ctx, r, jobID, ""); !errors.As(err, &fe) {
		t.Fatalf("recruiter apply: expected forbidden, got %v", err)
	}
	if _, err := env.Engine.Apply(env.Ctx, fresh, jobID, ""); !errors.As(err, &fe) {
		t.Fatalf("incomplete profile apply: expected forbidden, got %v", err)
	}
	if _, err := env.Engine.Apply(env.Ctx, seeker, 9999, ""); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("unknown job: expected not found, got %v", err)
	}
	app, err := env.Engine.Apply(env.Ctx, seeker, jobID, "  Hire me  ")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != "pending" || app.CoverLetter == nil || *app.CoverLetter != "Hire me" {
		t.Fatalf("unexpected application: %+v", app)
	}
	if _, err := env.Engine.Apply(env.Ctx, seeker, jobID, ""); !errors.Is(err, engine.ErrAlreadyApplied) {
		t.Fatalf("duplicate: expected ErrAlreadyApplied, got %v", err)
	}

	list, err := env.Engine.SeekerApplications(env.Ctx, seeker, "", 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Applications) != 1 || list.Applications[0].JobTitle != "Go Engineer" || list.Statistics["total"] != 1 || list.Statistics["pending"] != 1 {
		t.Fatalf("unexpected seeker applications: %+v", list)
	}
	if *list.Applications[0].CompanyName != "Acme" {
		t.Fatalf("expected company name, got %v", list.Applications[0].CompanyName)
	}
}

func TestApplicationStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	r := env.recruiter(t, "r@example.com")
	other := env.recruiter(t, "o@example.com")
	seeker := env.seeker(t, "s@example.com")
	jobID := env.createJob(t, r, "Go Engineer", nil)
	app, err := env.Engine.Apply(env.Ctx, seeker, jobID, "")
	if err != nil {
		t.Fatal(err)
	}

	var ve engine.ValidationError
	if _, err := env.Engine.SetApplicationStatus(env.Ctx, r, app.ID, "reviewed"); !errors.As(err, &ve) {
		t.Fatalf("expected validation error for reviewed, got %v", err)
	}
	if _, err := env.Engine.SetApplicationStatus(env.Ctx, other, app.ID, "accepted"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected not found for foreign recruiter, got %v", err)
	}
	updated, err := env.Engine.SetApplicationStatus(env.Ctx, r, app.ID, "Accepted")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Status != "accepted" || updated.UpdatedAt == nil || updated.SeekerEmail != "s@example.com" {
		t.Fatalf("unexpected applicant after accept: %+v", updated)
	}
	if _, err := env.Engine.SetApplicationStatus(env.Ctx, r, app.ID, "rejected"); !errors.As(err, &ve) {
		t.Fatalf("expected decided application to stay final, got %v", err)
	}

	listing, err := env.Engine.Applicants(env.Ctx, r, jobID)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"total": 1, "pending": 0, "reviewed": 0, "accepted": 1, "rejected": 0}
	if diff := cmp.Diff(want, listing.Statistics); diff != "" {
		t.Fatalf("statistics mismatch (-want +got):\n%s", diff)
	}
	evts, err := env.Engine.Repo.LatestEvents(env.Ctx, 10, "application.status", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(evts) != 1 || evts[0].ActorID != r.UserID || !strings.Contains(evts[0].Payload, `"to":"accepted"`) {
		t.Fatalf("unexpected status events: %+v", evts)
	}
}

func TestUploadsAndSignedURLs(t *testing.T) {
	env := newTestEnv(t)
	seeker := env.seeker(t, "s@example.com")
	recruiter := env.recruiter(t, "r@example.com")

	var ve engine.ValidationError
	if _, err := env.Engine.StoreUpload(env.Ctx, seeker, engine.Upload{Kind: engine.KindResume, Name: "cv.docx", ContentType: "application/msword", Data: []byte("x")}); !errors.As(err, &ve) {
		t.Fatalf("expected pdf validation error, got %v", err)
	}
	var fe auth.ForbiddenError
	if _, err := env.Engine.StoreUpload(env.Ctx, recruiter, engine.Upload{Kind: engine.KindResume, Name: "cv.pdf", Data: []byte("%PDF")}); !errors.As(err, &fe) {
		t.Fatalf("expected recruiter resume upload to be forbidden, got %v", err)
	}

	resumeURL, err := env.Engine.StoreUpload(env.Ctx, seeker, engine.Upload{Kind: engine.KindResume, Name: "../my-cv.pdf", Data: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("upload resume: %v", err)
	}
	wantPrefix := "http://files.test/files/resumes/" + strconv.Itoa(seeker.UserID) + "/"
	if !strings.HasPrefix(resumeURL, wantPrefix) || !strings.HasSuffix(resumeURL, "-my-cv.pdf") {
		t.Fatalf("unexpected resume url %q", resumeURL)
	}
	logoURL, err := env.Engine.StoreUpload(env.Ctx, recruiter, engine.Upload{Kind: engine.KindImage, Name: "logo.png", ContentType: "image/png", Data: []byte{0x89}})
	if err != nil {
		t.Fatalf("upload logo: %v", err)
	}
	acc, err := env.Engine.Account(env.Ctx, recruiter.UserID)
	if err != nil {
		t.Fatal(err)
	}
	if acc.Profile.CompanyLogoURL == nil || *acc.Profile.CompanyLogoURL != logoURL || acc.Profile.ProfileImageURL != nil {
		t.Fatalf("recruiter image should be the company logo: %+v", acc.Profile)
	}

	signed, ttl, err := env.Engine.SignedURL(env.Ctx, resumeURL)
	if err != nil {
		t.Fatalf("signed url: %v", err)
	}
	if ttl != time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatal(err)
	}
	filePath := strings.TrimPrefix(u.Path, "/files/")
	f, err := env.Engine.OpenFile(env.Ctx, filePath, u.Query().Get("sig"))
	if err != nil {
		t.Fatalf("open signed file: %v", err)
	}
	if string(f.Data) != "%PDF-1.4" || f.ContentType != "application/pdf" {
		t.Fatalf("unexpected file: %+v", f)
	}
	logoPath := strings.TrimPrefix(logoURL, "http://files.test/files/")
	if _, err := env.Engine.OpenFile(env.Ctx, logoPath, u.Query().Get("sig")); !errors.As(err, &fe) {
		t.Fatalf("signature must not open another file, got %v", err)
	}
	if _, _, err := env.Engine.SignedURL(env.Ctx, "https://elsewhere.test/files/x"); !errors.As(err, &ve) {
		t.Fatalf("expected foreign url to be rejected, got %v", err)
	}
	if _, _, err := env.Engine.SignedURL(env.Ctx, "http://files.test/files/resumes/1/missing.pdf"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected missing file, got %v", err)
	}
}
