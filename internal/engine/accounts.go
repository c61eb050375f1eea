package engine

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"linkedout/internal/domain"
	"linkedout/internal/engine/auth"
	"linkedout/internal/events"
	"linkedout/internal/onboarding"
	"linkedout/internal/repo"
)

const minPasswordLength = 6

// AuthResult is a signed-in user with a fresh token.
type AuthResult struct {
	User           domain.User
	Token          string
	CompletionStep int
}

type SignUpOptions struct {
	Email     string
	Password  string
	UserType  string
	FullName  string
	BirthDate string
}

// SignUp creates the account and its step-one profile.
func (e Engine) SignUp(ctx context.Context, opts SignUpOptions) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(opts.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return AuthResult{}, invalid("email", "Valid email is required")
	}
	if len(opts.Password) < minPasswordLength {
		return AuthResult{}, invalid("password", "Password must be at least %d characters", minPasswordLength)
	}
	role, err := onboarding.ParseRole(opts.UserType)
	if err != nil {
		return AuthResult{}, invalid("userType", "User type must be seeker or recruiter")
	}
	fullName := strings.TrimSpace(opts.FullName)
	if fullName == "" {
		return AuthResult{}, invalid("fullName", "Full name is required")
	}
	var birthDate *string
	if opts.BirthDate != "" {
		if _, err := time.Parse(time.DateOnly, opts.BirthDate); err != nil {
			return AuthResult{}, invalid("birthDate", "Birth date must be YYYY-MM-DD")
		}
		birthDate = &opts.BirthDate
	}
	if _, err := e.Repo.GetUserByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return AuthResult{}, err
	}
	hash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return AuthResult{}, err
	}
	now := e.timestamp()
	u := domain.User{Email: email, PasswordHash: hash, UserType: string(role), CreatedAt: now}
	err = e.withTx(ctx, func(tx *sql.Tx) error {
		id, err := e.Repo.InsertUser(ctx, tx, u)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				return ErrEmailTaken
			}
			return err
		}
		u.ID = id
		p := domain.Profile{UserID: id, FullName: fullName, BirthDate: birthDate, CompletionStep: 1, CreatedAt: now, UpdatedAt: now}
		if err := e.Repo.InsertProfile(ctx, tx, p); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "user.signup", "user", id, id, events.EventPayload{"user_type": u.UserType})
	})
	if err != nil {
		return AuthResult{}, err
	}
	token, err := e.Auth.Issue(u.ID, u.UserType)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Token: token, CompletionStep: 1}, nil
}

// Login verifies the password and issues a token.
func (e Engine) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := e.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repo.ErrNotFound) {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return AuthResult{}, ErrInvalidCredentials
	}
	p, err := e.Repo.GetProfile(ctx, u.ID)
	if err != nil {
		return AuthResult{}, err
	}
	token, err := e.Auth.Issue(u.ID, u.UserType)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Token: token, CompletionStep: p.CompletionStep}, nil
}

type SeekerProfileOptions struct {
	CurrentJob      *string
	YearsExperience *int
	Location        *string
	Phone           *string
}

type RecruiterProfileOptions struct {
	CompanyName    string
	CompanySize    *string
	CompanyWebsite *string
	Phone          *string
}

// CompleteSeekerProfile records the seeker's step-two details and returns the new step.
func (e Engine) CompleteSeekerProfile(ctx context.Context, p auth.Principal, opts SeekerProfileOptions) (int, error) {
	if p.UserType != string(onboarding.RoleSeeker) {
		return 0, auth.ForbiddenError{Reason: "Only job seekers can complete a seeker profile"}
	}
	if opts.YearsExperience != nil && *opts.YearsExperience < 0 {
		return 0, invalid("yearsExperience", "Years of experience cannot be negative")
	}
	return e.updateProfile(ctx, p.UserID, 2, "profile.step2", func(prof *domain.Profile) {
		prof.CurrentJob = trimmed(opts.CurrentJob)
		prof.YearsExperience = opts.YearsExperience
		prof.Location = trimmed(opts.Location)
		prof.Phone = trimmed(opts.Phone)
	})
}

// CompleteRecruiterProfile records the company details and returns the new step.
func (e Engine) CompleteRecruiterProfile(ctx context.Context, p auth.Principal, opts RecruiterProfileOptions) (int, error) {
	if p.UserType != string(onboarding.RoleRecruiter) {
		return 0, auth.ForbiddenError{Reason: "Only recruiters can complete a company profile"}
	}
	company := strings.TrimSpace(opts.CompanyName)
	if company == "" {
		return 0, invalid("companyName", "Company name is required")
	}
	return e.updateProfile(ctx, p.UserID, 2, "profile.step2", func(prof *domain.Profile) {
		prof.CompanyName = &company
		prof.CompanySize = trimmed(opts.CompanySize)
		prof.CompanyWebsite = trimmed(opts.CompanyWebsite)
		prof.Phone = trimmed(opts.Phone)
	})
}

type PreferencesOptions struct {
	JobTitles  []string
	Industries []string
	Locations  []string
	SalaryMin  *float64
	SalaryMax  *float64
	Skip       bool
}

// SavePreferences stores step-three preferences, or marks them skipped, and returns the new step.
func (e Engine) SavePreferences(ctx context.Context, p auth.Principal, opts PreferencesOptions) (int, error) {
	prof, err := e.Repo.GetProfile(ctx, p.UserID)
	if err != nil {
		return 0, err
	}
	if prof.CompletionStep < onboarding.CompletionThreshold {
		return 0, invalid("profileCompletionStep", "Complete step 2 before setting preferences")
	}
	if !opts.Skip && opts.SalaryMin != nil && opts.SalaryMax != nil && *opts.SalaryMin > *opts.SalaryMax {
		return 0, invalid("salaryExpectationMax", "Maximum salary must not be below minimum salary")
	}
	now := e.timestamp()
	prefs := domain.Preferences{UserID: p.UserID, IsSkipped: opts.Skip, CreatedAt: now, UpdatedAt: now}
	if !opts.Skip {
		prefs.JobTitles = compact(opts.JobTitles)
		prefs.Industries = compact(opts.Industries)
		prefs.Locations = compact(opts.Locations)
		prefs.SalaryMin = opts.SalaryMin
		prefs.SalaryMax = opts.SalaryMax
	}
	return e.updateProfile(ctx, p.UserID, 3, "profile.step3", func(*domain.Profile) {}, func(tx *sql.Tx) error {
		return e.Repo.UpsertPreferences(ctx, tx, prefs)
	})
}

// updateProfile applies mutate to the stored profile, raises the completion
// step to at least step and records evtType.
func (e Engine) updateProfile(ctx context.Context, userID, step int, evtType string, mutate func(*domain.Profile), extra ...func(*sql.Tx) error) (int, error) {
	var newStep int
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		prof, err := e.Repo.GetProfileTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		mutate(&prof)
		prof.CompletionStep = max(prof.CompletionStep, step)
		prof.UpdatedAt = e.timestamp()
		if err := e.Repo.UpdateProfile(ctx, tx, prof); err != nil {
			return err
		}
		for _, fn := range extra {
			if err := fn(tx); err != nil {
				return err
			}
		}
		newStep = prof.CompletionStep
		return e.Events.Append(ctx, tx, evtType, "profile", prof.ID, userID, events.EventPayload{"step": newStep})
	})
	return newStep, err
}

// Account is the caller's user, profile and optional preferences.
type Account struct {
	User        domain.User
	Profile     domain.Profile
	Preferences *domain.Preferences
}

func (a Account) CanUseApp() bool {
	return a.Profile.CompletionStep >= onboarding.CompletionThreshold
}

func (a Account) ProfileComplete() bool {
	return a.Profile.CompletionStep >= 3
}

func (e Engine) Account(ctx context.Context, userID int) (Account, error) {
	u, err := e.Repo.GetUser(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	p, err := e.Repo.GetProfile(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	acc := Account{User: u, Profile: p}
	prefs, err := e.Repo.GetPreferences(ctx, userID)
	switch {
	case err == nil:
		acc.Preferences = &prefs
	case !errors.Is(err, repo.ErrNotFound):
		return Account{}, err
	}
	return acc, nil
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
