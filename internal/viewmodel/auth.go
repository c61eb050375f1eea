package viewmodel

import (
	"context"

	"go.uber.org/zap"

	"linkedout/internal/navigation"
	"linkedout/internal/onboarding"
	"linkedout/internal/outcome"
	"linkedout/internal/session"
	linkedoutsdk "linkedout/sdk/go"
)

// AuthRepository is the repository surface used by AuthViewModel.
type AuthRepository interface {
	SignUpStep1(ctx context.Context, req linkedoutsdk.SignUpStep1Request) <-chan outcome.Outcome[linkedoutsdk.AuthResponse]
	SignUpStep2Seeker(ctx context.Context, req linkedoutsdk.SignUpStep2SeekerRequest) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData]
	SignUpStep2Recruiter(ctx context.Context, req linkedoutsdk.SignUpStep2RecruiterRequest) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData]
	SignUpStep3(ctx context.Context, req linkedoutsdk.SignUpStep3Request) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData]
	Login(ctx context.Context, email, password string) <-chan outcome.Outcome[linkedoutsdk.AuthResponse]
	Logout(ctx context.Context) error
	Session(ctx context.Context) (session.Session, error)
}

// SessionWatcher streams single session fields.
type SessionWatcher interface {
	WatchUserType(ctx context.Context) <-chan string
	WatchOnboardingStep(ctx context.Context) <-chan *int
}

// Preferences are the optional seeker preferences of signup step 3.
type Preferences struct {
	JobTitles  []string
	Industries []string
	Locations  []string
	SalaryMin  *float64
	SalaryMax  *float64
}

type AuthViewModel struct {
	scope *Scope
	repo  AuthRepository
	log   *zap.Logger

	Auth              Slot[linkedoutsdk.AuthResponse]
	ProfileCompletion Slot[linkedoutsdk.ProfileCompletionData]

	// UserType and OnboardingStep mirror the session store.
	UserType       Value[string]
	OnboardingStep Value[*int]
}

func NewAuthViewModel(parent context.Context, repo AuthRepository, sessions SessionWatcher, log *zap.Logger) *AuthViewModel {
	if log == nil {
		log = zap.NewNop()
	}
	vm := &AuthViewModel{scope: NewScope(parent), repo: repo, log: log}
	if sessions != nil {
		vm.scope.Observe(func(ctx context.Context) {
			for v := range sessions.WatchUserType(ctx) {
				vm.UserType.Set(v)
			}
		})
		vm.scope.Observe(func(ctx context.Context) {
			for v := range sessions.WatchOnboardingStep(ctx) {
				vm.OnboardingStep.Set(v)
			}
		})
	}
	return vm
}

func (vm *AuthViewModel) SignUpStep1(email, password, userType, fullName, birthDate string) {
	req := linkedoutsdk.SignUpStep1Request{
		Email:     email,
		Password:  password,
		UserType:  userType,
		FullName:  fullName,
		BirthDate: birthDate,
	}
	launch(vm.scope, &vm.Auth, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.AuthResponse] {
		return vm.repo.SignUpStep1(ctx, req)
	}, nil)
}

func (vm *AuthViewModel) SignUpStep2Seeker(req linkedoutsdk.SignUpStep2SeekerRequest) {
	vm.onboardingStep(onboarding.Event{Kind: onboarding.Step2Succeeded, Role: onboarding.RoleSeeker},
		func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
			return vm.repo.SignUpStep2Seeker(ctx, req)
		})
}

func (vm *AuthViewModel) SignUpStep2Recruiter(req linkedoutsdk.SignUpStep2RecruiterRequest) {
	vm.onboardingStep(onboarding.Event{Kind: onboarding.Step2Succeeded, Role: onboarding.RoleRecruiter},
		func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
			return vm.repo.SignUpStep2Recruiter(ctx, req)
		})
}

// SignUpStep3 submits preferences. skip sends the explicit skip flag; otherwise
// the flag is omitted.
func (vm *AuthViewModel) SignUpStep3(p Preferences, skip bool) {
	req := linkedoutsdk.SignUpStep3Request{
		PreferredJobTitles:   p.JobTitles,
		PreferredIndustries:  p.Industries,
		PreferredLocations:   p.Locations,
		SalaryExpectationMin: p.SalaryMin,
		SalaryExpectationMax: p.SalaryMax,
	}
	e := onboarding.Event{Kind: onboarding.Step3Submitted}
	if skip {
		t := true
		req.Skip = &t
		e.Kind = onboarding.Step3Skipped
	}
	vm.onboardingStep(e, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
		return vm.repo.SignUpStep3(ctx, req)
	})
}

// CompleteRecruiterOnboarding finishes step 3 for recruiters. There are no
// fields, so submitting and skipping hit the same endpoint with empty
// preferences.
func (vm *AuthViewModel) CompleteRecruiterOnboarding(skip bool) {
	vm.SignUpStep3(Preferences{}, skip)
}

// onboardingStep runs call only if e is legal from the wizard position stored
// in the session. An illegal step fails without reaching the API.
func (vm *AuthViewModel) onboardingStep(e onboarding.Event, call func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData]) {
	launch(vm.scope, &vm.ProfileCompletion, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
		return checked(ctx, func(ctx context.Context) string {
			sess, err := vm.repo.Session(ctx)
			if err != nil {
				vm.log.Warn("Read session failed", zap.Error(err))
				return "Unknown error"
			}
			p := onboarding.Resume(sess.UserType, sess.OnboardingStep)
			if _, err := onboarding.Advance(p, e); err != nil {
				vm.log.Debug("Onboarding step rejected", zap.Stringer("state", p.State), zap.Error(err))
				return stepCopy(p, e)
			}
			return ""
		}, call)
	}, nil)
}

func stepCopy(p onboarding.Progress, e onboarding.Event) string {
	switch {
	case p.State == onboarding.NoSession:
		return "Please sign up or log in first"
	case e.Role != "" && e.Role != p.Role:
		return "This step is for " + string(e.Role) + " accounts"
	case p.State == onboarding.Step2Pending:
		return "Please complete your profile first"
	case p.State == onboarding.Step3Pending:
		return "Profile already completed"
	}
	return "Onboarding already completed"
}

func (vm *AuthViewModel) Login(email, password string) {
	launch(vm.scope, &vm.Auth, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.AuthResponse] {
		return vm.repo.Login(ctx, email, password)
	}, nil)
}

// Logout clears the session in the background.
func (vm *AuthViewModel) Logout() {
	vm.scope.Go(func(ctx context.Context) {
		if err := vm.repo.Logout(ctx); err != nil {
			vm.log.Warn("Logout failed", zap.Error(err))
		}
	})
}

func (vm *AuthViewModel) ResetAuth()              { vm.Auth.Reset() }
func (vm *AuthViewModel) ResetProfileCompletion() { vm.ProfileCompletion.Reset() }

// StartRoute reads the session afresh and returns the entry route.
func (vm *AuthViewModel) StartRoute(ctx context.Context) (string, error) {
	sess, err := vm.repo.Session(ctx)
	if err != nil {
		return "", err
	}
	return navigation.Start(sess), nil
}

func (vm *AuthViewModel) Wait()  { vm.scope.Wait() }
func (vm *AuthViewModel) Close() { vm.scope.Close() }
