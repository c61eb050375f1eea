package repository

import (
	"context"

	"linkedout/internal/outcome"
	linkedoutsdk "linkedout/sdk/go"
)

// SignUpStep1 creates the account and stores the returned session.
func (r *Repository) SignUpStep1(ctx context.Context, req linkedoutsdk.SignUpStep1Request) <-chan outcome.Outcome[linkedoutsdk.AuthResponse] {
	return run(ctx, r, step[linkedoutsdk.AuthResponse, linkedoutsdk.AuthResponse]{
		useCase: SignUpStep1,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.AuthResponse], error) {
			return r.api.SignUpStep1(ctx, req)
		},
		extract: data[linkedoutsdk.AuthResponse],
		effect:  r.saveAuth,
	})
}

// Login authenticates and stores the returned session.
func (r *Repository) Login(ctx context.Context, email, password string) <-chan outcome.Outcome[linkedoutsdk.AuthResponse] {
	req := linkedoutsdk.LoginRequest{Email: email, Password: password}
	return run(ctx, r, step[linkedoutsdk.AuthResponse, linkedoutsdk.AuthResponse]{
		useCase: Login,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.AuthResponse], error) {
			return r.api.Login(ctx, req)
		},
		extract: data[linkedoutsdk.AuthResponse],
		effect:  r.saveAuth,
	})
}

func (r *Repository) SignUpStep2Seeker(ctx context.Context, req linkedoutsdk.SignUpStep2SeekerRequest) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
	return run(ctx, r, step[linkedoutsdk.ProfileCompletionData, linkedoutsdk.ProfileCompletionData]{
		useCase: SignUpStep2Seeker,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.ProfileCompletionData], error) {
			return r.api.SignUpStep2Seeker(ctx, req)
		},
		extract: data[linkedoutsdk.ProfileCompletionData],
		effect:  r.saveStep,
	})
}

func (r *Repository) SignUpStep2Recruiter(ctx context.Context, req linkedoutsdk.SignUpStep2RecruiterRequest) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
	return run(ctx, r, step[linkedoutsdk.ProfileCompletionData, linkedoutsdk.ProfileCompletionData]{
		useCase: SignUpStep2Recruiter,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.ProfileCompletionData], error) {
			return r.api.SignUpStep2Recruiter(ctx, req)
		},
		extract: data[linkedoutsdk.ProfileCompletionData],
		effect:  r.saveStep,
	})
}

// SignUpStep3 submits preferences. A request with Skip set records the step
// without preferences.
func (r *Repository) SignUpStep3(ctx context.Context, req linkedoutsdk.SignUpStep3Request) <-chan outcome.Outcome[linkedoutsdk.ProfileCompletionData] {
	return run(ctx, r, step[linkedoutsdk.ProfileCompletionData, linkedoutsdk.ProfileCompletionData]{
		useCase: SignUpStep3,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.ProfileCompletionData], error) {
			return r.api.SignUpStep3(ctx, req)
		},
		extract: data[linkedoutsdk.ProfileCompletionData],
		effect:  r.saveStep,
	})
}

func (r *Repository) CurrentUser(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileData] {
	return run(ctx, r, step[linkedoutsdk.ProfileData, linkedoutsdk.ProfileData]{
		useCase: CurrentUser,
		call:    r.api.CurrentUser,
		extract: data[linkedoutsdk.ProfileData],
	})
}

func (r *Repository) saveAuth(ctx context.Context, a linkedoutsdk.AuthResponse) error {
	return r.store.SaveAuth(ctx, a.Token, a.UserID, a.UserType, a.ProfileCompletionStep)
}

func (r *Repository) saveStep(ctx context.Context, d linkedoutsdk.ProfileCompletionData) error {
	return r.store.UpdateOnboardingStep(ctx, d.ProfileCompletionStep)
}
