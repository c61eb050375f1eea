package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"linkedout/internal/outcome"
	"linkedout/internal/repository"
	"linkedout/internal/session"
	linkedoutsdk "linkedout/sdk/go"
)

// respond emits Loading immediately and resolves fn in the background.
func respond[T any](ctx context.Context, fn func(ctx context.Context) outcome.Outcome[T]) <-chan outcome.Outcome[T] {
	ch := make(chan outcome.Outcome[T], 2)
	ch <- outcome.Loading[T]()
	go func() {
		defer close(ch)
		ch <- fn(ctx)
	}()
	return ch
}

func strp(s string) *string { return &s }

func intp(v int) *int { return &v }

type fakeRepo struct {
	mu          sync.Mutex
	statuses    map[int]string
	failSigned  map[string]bool
	// bare applications have neither picture nor resume.
	bare        map[int]bool
	signedGate  chan struct{}
	sess        session.Session
	detailCalls int
	// gates block JobDetails for a job id until closed.
	gates       map[int]chan struct{}
	step3       []linkedoutsdk.SignUpStep3Request
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		statuses:   map[int]string{5: "pending"},
		failSigned: map[string]bool{},
		bare:       map[int]bool{},
		sess:       session.Session{Token: "T", UserType: "recruiter", OnboardingStep: intp(1)},
		gates:      map[int]chan struct{}{},
	}
}

func (f *fakeRepo) CreateJob(ctx context.Context, req linkedoutsdk.CreateJobRequest) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.JobResponse] {
		return outcome.Success(linkedoutsdk.JobResponse{Job: linkedoutsdk.Job{ID: 1, Title: req.Title}})
	})
}

func (f *fakeRepo) RecruiterJobs(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.JobListResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.JobListResponse] {
		return outcome.Success(linkedoutsdk.JobListResponse{Jobs: []linkedoutsdk.Job{{ID: 1, Title: "Updated"}}})
	})
}

func (f *fakeRepo) UpdateJob(ctx context.Context, jobID int, req linkedoutsdk.UpdateJobRequest) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.JobResponse] {
		return outcome.Success(linkedoutsdk.JobResponse{Job: linkedoutsdk.Job{ID: jobID, Title: *req.Title}})
	})
}

func (f *fakeRepo) DeleteJob(ctx context.Context, jobID int) <-chan outcome.Outcome[repository.Unit] {
	return respond(ctx, func(context.Context) outcome.Outcome[repository.Unit] {
		return outcome.Failure[repository.Unit]("Failed to delete job")
	})
}

func (f *fakeRepo) JobApplicants(ctx context.Context, jobID int) <-chan outcome.Outcome[linkedoutsdk.JobApplicantsResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.JobApplicantsResponse] {
		return outcome.Success(linkedoutsdk.JobApplicantsResponse{})
	})
}

func (f *fakeRepo) ApplicantDetails(ctx context.Context, applicationID int) <-chan outcome.Outcome[linkedoutsdk.ApplicantDetailsResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.ApplicantDetailsResponse] {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.detailCalls++
		status, ok := f.statuses[applicationID]
		if !ok {
			return outcome.Failure[linkedoutsdk.ApplicantDetailsResponse]("Failed to load applicant details")
		}
		a := linkedoutsdk.Applicant{ApplicationID: applicationID, ApplicationStatus: status}
		if !f.bare[applicationID] {
			a.ProfileImageS3URL = strp("/files/images/2/1-me.png")
			a.ResumeS3URL = strp("/files/resumes/2/1-cv.pdf")
		}
		return outcome.Success(linkedoutsdk.ApplicantDetailsResponse{Application: a})
	})
}

func (f *fakeRepo) UpdateApplicationStatus(ctx context.Context, applicationID int, status string) <-chan outcome.Outcome[repository.Unit] {
	return respond(ctx, func(context.Context) outcome.Outcome[repository.Unit] {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.statuses[applicationID] = status
		return outcome.Success(repository.Unit{})
	})
}

func (f *fakeRepo) BrowseJobs(ctx context.Context, filter linkedoutsdk.JobFilter) <-chan outcome.Outcome[[]linkedoutsdk.Job] {
	return respond(ctx, func(context.Context) outcome.Outcome[[]linkedoutsdk.Job] {
		return outcome.Success([]linkedoutsdk.Job{{ID: 3, Title: "Go developer", Location: strp(filter.Location)}})
	})
}

func (f *fakeRepo) JobDetails(ctx context.Context, jobID int) <-chan outcome.Outcome[linkedoutsdk.JobResponse] {
	f.mu.Lock()
	gate := f.gates[jobID]
	f.mu.Unlock()
	return respond(ctx, func(ctx context.Context) outcome.Outcome[linkedoutsdk.JobResponse] {
		if gate != nil {
			<-gate
			if ctx.Err() != nil {
				return outcome.Failure[linkedoutsdk.JobResponse]("Network error")
			}
		}
		return outcome.Success(linkedoutsdk.JobResponse{Job: linkedoutsdk.Job{ID: jobID, Title: fmt.Sprintf("job %d", jobID)}})
	})
}

func (f *fakeRepo) RecommendedJobs(ctx context.Context, page, limit int) <-chan outcome.Outcome[linkedoutsdk.JobListResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.JobListResponse] {
		return outcome.Success(linkedoutsdk.JobListResponse{})
	})
}

func (f *fakeRepo) ApplyToJob(ctx context.Context, jobID int, coverLetter string) <-chan outcome.Outcome[repository.Unit] {
	return respond(ctx, func(context.Context) outcome.Outcome[repository.Unit] {
		return outcome.Failure[repository.Unit]("You have already applied to this job")
	})
}

func (f *fakeRepo) SignedURL(ctx context.Context, fileURL string) <-chan outcome.Outcome[string] {
	f.mu.Lock()
	gate := f.signedGate
	f.mu.Unlock()
	return respond(ctx, func(context.Context) outcome.Outcome[string] {
		if gate != nil {
			<-gate
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failSigned[fileURL] {
			return outcome.Failure[string]("Failed to get file URL")
		}
		return outcome.Success("https://files.test" + fileURL + "?sig=x")
	})
}

func (f *fakeRepo) CurrentUser(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileData] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.ProfileData] {
		return outcome.Success(linkedoutsdk.ProfileData{
			User: linkedoutsdk.User{ID: 4, UserType: "recruiter"},
			Profile: linkedoutsdk.UserProfile{
				CompanyLogoS3URL: strp("/files/images/4/17-logo.png"),
				ResumeS3URL:      strp("/files/resumes/4/1731936000000-my-cv.pdf"),
			},
		})
	})
}

func (f *fakeRepo) UploadResume(ctx context.Context, file linkedoutsdk.File) <-chan outcome.Outcome[string] {
	return respond(ctx, func(context.Context) outcome.Outcome[string] {
		return outcome.Success("/files/resumes/4/1-" + file.Name)
	})
}

func (f *fakeRepo) UploadProfileImage(ctx context.Context, file linkedoutsdk.File) <-chan outcome.Outcome[string] {
	return respond(ctx, func(context.Context) outcome.Outcome[string] {
		return outcome.Failure[string]("Failed to upload image")
	})
}

func (f *fakeRepo) SeekerApplications(ctx context.Context, status string, page, limit int) <-chan outcome.Outcome[linkedoutsdk.SeekerApplicationsResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.SeekerApplicationsResponse] {
		return outcome.Success(linkedoutsdk.SeekerApplicationsResponse{})
	})
}

func (f *fakeRepo) SignUpStep1(ctx context.Context, req linkedoutsdk.SignUpStep1Request) <-chan outcome.Outcome[linkedoutsdk.AuthResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.AuthResponse] {
		return outcome.Success(linkedoutsdk.AuthResponse{Token: "T", UserID: 1, UserType: req.UserType, ProfileCompletionStep: 1})
	})
}

func (f *fakeRepo) SignUpStep2Seeker(ctx context.Context, req linkedoutsdk.SignUpStep2SeekerRequest) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
		return outcome.Success(linkedoutsdk.ProfileCompletionData{ProfileCompletionStep: 2})
	})
}

func (f *fakeRepo) SignUpStep2Recruiter(ctx context.Context, req linkedoutsdk.SignUpStep2RecruiterRequest) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
	return f.SignUpStep2Seeker(ctx, linkedoutsdk.SignUpStep2SeekerRequest{})
}

func (f *fakeRepo) SignUpStep3(ctx context.Context, req linkedoutsdk.SignUpStep3Request) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
	f.mu.Lock()
	f.step3 = append(f.step3, req)
	f.mu.Unlock()
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
		return outcome.Success(linkedoutsdk.ProfileCompletionData{ProfileCompletionStep: 3})
	})
}

func (f *fakeRepo) Login(ctx context.Context, email, password string) <-chan outcome.Outcome[linkedoutsdk.AuthResponse] {
	return respond(ctx, func(context.Context) outcome.Outcome[linkedoutsdk.AuthResponse] {
		return outcome.Failure[linkedoutsdk.AuthResponse]("Invalid credentials")
	})
}

func (f *fakeRepo) Logout(context.Context) error { return nil }

func (f *fakeRepo) Session(context.Context) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sess, nil
}

func mustTerminal[T any](t *testing.T, s *Slot[T]) outcome.Outcome[T] {
	t.Helper()
	o := s.Get()
	if o == nil || !o.Terminal() {
		t.Fatalf("slot not terminal: %v", o)
	}
	return *o
}

func TestStatusUpdateRefreshesApplicantDetails(t *testing.T) {
	repo := newFakeRepo()
	vm := NewJobViewModel(context.Background(), repo, zaptest.NewLogger(t))
	defer vm.Close()

	vm.SetApplicationStatus(5, "accepted")
	vm.Wait()

	if got := mustTerminal(t, &vm.UpdateApplicationStatus); !got.IsSuccess() {
		t.Fatalf("status update = %v", got)
	}
	details := mustTerminal(t, &vm.ApplicantDetails)
	if !details.IsSuccess() || details.Data.Application.ApplicationStatus != "accepted" {
		t.Fatalf("details = %v", details)
	}
}

func TestInvalidStatusIsRejectedLocally(t *testing.T) {
	repo := newFakeRepo()
	vm := NewJobViewModel(context.Background(), repo, nil)
	defer vm.Close()

	vm.SetApplicationStatus(5, "pending")
	vm.Wait()
	if got := mustTerminal(t, &vm.UpdateApplicationStatus); !got.IsError() {
		t.Fatalf("status update = %v", got)
	}
	if repo.detailCalls != 0 || repo.statuses[5] != "pending" {
		t.Fatalf("repository called for invalid status")
	}
}

func TestDerivedFetchFailureKeepsPrimarySuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.failSigned["/files/images/2/1-me.png"] = true
	vm := NewJobViewModel(context.Background(), repo, nil)
	defer vm.Close()

	vm.LoadApplicantDetails(5)
	vm.Wait()

	if got := mustTerminal(t, &vm.ApplicantDetails); !got.IsSuccess() {
		t.Fatalf("details = %v", got)
	}
	if got := mustTerminal(t, &vm.ApplicantImageURL); got.Message != "Failed to get file URL" {
		t.Fatalf("image url = %v", got)
	}
	if got := mustTerminal(t, &vm.ApplicantResumeURL); got.Data != "https://files.test/files/resumes/2/1-cv.pdf?sig=x" {
		t.Fatalf("resume url = %v", got)
	}
}

func TestApplicantFilesFollowTheLoadedApplicant(t *testing.T) {
	repo := newFakeRepo()
	repo.statuses[6] = "pending"
	repo.bare[6] = true
	vm := NewJobViewModel(context.Background(), repo, nil)
	defer vm.Close()

	vm.LoadApplicantDetails(5)
	vm.Wait()
	if got := mustTerminal(t, &vm.ApplicantImageURL); !got.IsSuccess() {
		t.Fatalf("image url for 5 = %v", got)
	}

	vm.LoadApplicantDetails(6)
	vm.Wait()
	if got := mustTerminal(t, &vm.ApplicantDetails); got.Data.Application.ApplicationID != 6 {
		t.Fatalf("details = %v", got)
	}
	if o := vm.ApplicantImageURL.Get(); o != nil {
		t.Fatalf("image url after 6 = %v, want nil", o)
	}
	if o := vm.ApplicantResumeURL.Get(); o != nil {
		t.Fatalf("resume url after 6 = %v, want nil", o)
	}
}

func TestInFlightApplicantFilesAreDropped(t *testing.T) {
	repo := newFakeRepo()
	repo.statuses[6] = "pending"
	repo.bare[6] = true
	gate := make(chan struct{})
	repo.signedGate = gate
	vm := NewJobViewModel(context.Background(), repo, nil)
	defer vm.Close()

	vm.LoadApplicantDetails(5)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for o := range vm.ApplicantImageURL.Subscribe(ctx) {
		if o != nil {
			break
		}
	}
	if ctx.Err() != nil {
		t.Fatalf("image url fetch never started")
	}

	vm.LoadApplicantDetails(6)
	close(gate)
	vm.Wait()
	if o := vm.ApplicantImageURL.Get(); o != nil {
		t.Fatalf("stale image url = %v", o)
	}
	if o := vm.ApplicantResumeURL.Get(); o != nil {
		t.Fatalf("stale resume url = %v", o)
	}
}

func TestNewerInvocationWins(t *testing.T) {
	repo := newFakeRepo()
	gate := make(chan struct{})
	repo.gates[1] = gate
	vm := NewJobViewModel(context.Background(), repo, nil)
	defer vm.Close()

	vm.LoadJobDetails(1)
	if o := vm.JobDetail.Get(); o == nil || o.Kind != outcome.KindLoading {
		t.Fatalf("slot after trigger = %v, want Loading", o)
	}
	vm.LoadJobDetails(2)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := vm.JobDetail.Await(ctx)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	close(gate)
	vm.Wait()

	if got.Data.Job.ID != 2 {
		t.Fatalf("await = %v", got)
	}
	if final := mustTerminal(t, &vm.JobDetail); !final.IsSuccess() || final.Data.Job.ID != 2 {
		t.Fatalf("stale invocation overwrote slot: %v", final)
	}
}

func TestUpdateAndDeleteChains(t *testing.T) {
	repo := newFakeRepo()
	vm := NewJobViewModel(context.Background(), repo, nil)
	defer vm.Close()

	vm.DeleteJobPosting(1)
	vm.Wait()
	if vm.Jobs.Get() != nil {
		t.Fatalf("failed delete refreshed jobs")
	}
	if got := mustTerminal(t, &vm.DeleteJob); got.Message != "Failed to delete job" {
		t.Fatalf("delete = %v", got)
	}

	title := "Updated"
	vm.UpdateJobPosting(1, linkedoutsdk.UpdateJobRequest{Title: &title})
	vm.Wait()
	jobs := mustTerminal(t, &vm.Jobs)
	if len(jobs.Data) != 1 || jobs.Data[0].Title != "Updated" {
		t.Fatalf("jobs = %v", jobs)
	}

	vm.ResetDeleteJob()
	if vm.DeleteJob.Get() != nil {
		t.Fatalf("reset did not clear slot")
	}
}

func TestProfileChains(t *testing.T) {
	repo := newFakeRepo()
	vm := NewProfileViewModel(context.Background(), repo, nil)
	defer vm.Close()

	vm.LoadProfile()
	vm.Wait()
	if got := mustTerminal(t, &vm.ProfileImageURL); got.Data != "https://files.test/files/images/4/17-logo.png?sig=x" {
		t.Fatalf("logo url = %v", got)
	}
	if got := vm.ResumeFileName.Get(); got != "my-cv.pdf" {
		t.Fatalf("resume name = %q", got)
	}

	vm.UploadImageFile(linkedoutsdk.File{Name: "x.png"})
	vm.Wait()
	if got := mustTerminal(t, &vm.UploadImage); got.Message != "Failed to upload image" {
		t.Fatalf("upload image = %v", got)
	}
	if got := mustTerminal(t, &vm.Profile); !got.IsSuccess() {
		t.Fatalf("profile downgraded: %v", got)
	}
}

func TestResumeFileName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"https://bucket.s3.amazonaws.com/resumes/1/1731936000000-file.pdf", "file.pdf"},
		{"/files/resumes/1/cv.pdf", "cv.pdf"},
		{"/files/resumes/1/", "Resume.pdf"},
		{"/files/resumes/1/12-a-b.pdf", "a-b.pdf"},
		{"/files/resumes/1/12-", "Resume.pdf"},
	}
	for _, tc := range cases {
		if got := ResumeFileName(tc.in); got != tc.want {
			t.Errorf("ResumeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStepThreeSkipFlag(t *testing.T) {
	repo := newFakeRepo()
	repo.sess.OnboardingStep = intp(2)
	vm := NewAuthViewModel(context.Background(), repo, nil, nil)
	defer vm.Close()

	salaryMin := 50000.0
	vm.SignUpStep3(Preferences{JobTitles: []string{"Engineer"}, SalaryMin: &salaryMin}, false)
	vm.Wait()
	vm.SignUpStep3(Preferences{}, true)
	vm.Wait()
	vm.CompleteRecruiterOnboarding(false)
	vm.Wait()

	yes := true
	want := []linkedoutsdk.SignUpStep3Request{
		{PreferredJobTitles: []string{"Engineer"}, SalaryExpectationMin: &salaryMin},
		{Skip: &yes},
		{},
	}
	if diff := cmp.Diff(want, repo.step3); diff != "" {
		t.Fatalf("step3 requests (-want +got):\n%s", diff)
	}
	if got := mustTerminal(t, &vm.ProfileCompletion); got.Data.ProfileCompletionStep != 3 {
		t.Fatalf("profile completion = %v", got)
	}

	route, err := vm.StartRoute(context.Background())
	if err != nil || route != "recruiter_home" {
		t.Fatalf("start route = %q, %v", route, err)
	}
}

func TestOnboardingStepsFollowTheWizard(t *testing.T) {
	cases := []struct {
		name    string
		sess    session.Session
		trigger func(vm *AuthViewModel)
		want    string
	}{
		{"no session", session.Session{}, func(vm *AuthViewModel) {
			vm.SignUpStep2Seeker(linkedoutsdk.SignUpStep2SeekerRequest{})
		}, "Please sign up or log in first"},
		{"preferences before profile", session.Session{Token: "T", UserType: "seeker", OnboardingStep: intp(1)}, func(vm *AuthViewModel) {
			vm.SignUpStep3(Preferences{}, true)
		}, "Please complete your profile first"},
		{"other role", session.Session{Token: "T", UserType: "seeker", OnboardingStep: intp(1)}, func(vm *AuthViewModel) {
			vm.SignUpStep2Recruiter(linkedoutsdk.SignUpStep2RecruiterRequest{CompanyName: "Acme"})
		}, "This step is for recruiter accounts"},
		{"profile twice", session.Session{Token: "T", UserType: "seeker", OnboardingStep: intp(2)}, func(vm *AuthViewModel) {
			vm.SignUpStep2Seeker(linkedoutsdk.SignUpStep2SeekerRequest{})
		}, "Profile already completed"},
		{"finished", session.Session{Token: "T", UserType: "recruiter", OnboardingStep: intp(3)}, func(vm *AuthViewModel) {
			vm.CompleteRecruiterOnboarding(true)
		}, "Onboarding already completed"},
		{"seeker step2", session.Session{Token: "T", UserType: "seeker", OnboardingStep: intp(1)}, func(vm *AuthViewModel) {
			vm.SignUpStep2Seeker(linkedoutsdk.SignUpStep2SeekerRequest{})
		}, ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.sess = tc.sess
			vm := NewAuthViewModel(context.Background(), repo, nil, nil)
			defer vm.Close()

			tc.trigger(vm)
			if o := vm.ProfileCompletion.Get(); o == nil || o.Kind != outcome.KindLoading {
				t.Fatalf("slot after trigger = %v, want Loading", o)
			}
			vm.Wait()
			got := mustTerminal(t, &vm.ProfileCompletion)
			if tc.want == "" {
				if !got.IsSuccess() {
					t.Fatalf("step = %v", got)
				}
				return
			}
			if !got.IsError() || got.Message != tc.want {
				t.Fatalf("step = %v, want %q", got, tc.want)
			}
			if len(repo.step3) != 0 {
				t.Fatalf("rejected step reached the repository: %+v", repo.step3)
			}
		})
	}
}

func TestClosedScopeIgnoresTriggers(t *testing.T) {
	repo := newFakeRepo()
	vm := NewAuthViewModel(context.Background(), repo, nil, nil)
	vm.Close()
	vm.Login("a@b.c", "pw")
	if vm.Auth.Get() != nil {
		t.Fatalf("closed view-model published %v", vm.Auth.Get())
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := vm.Auth.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("await on cancelled ctx = %v", err)
	}
}
