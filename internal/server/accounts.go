package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"linkedout/internal/engine"
	"linkedout/internal/onboarding"
	linkedoutsdk "linkedout/sdk/go"
)

func registerAuth(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "signup-step1",
		Method:        http.MethodPost,
		Path:          "/auth/signup/step1",
		Summary:       "Create an account",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body linkedoutsdk.SignUpStep1Request
	}) (*envelope[linkedoutsdk.AuthResponse], error) {
		res, err := e.SignUp(ctx, engine.SignUpOptions{
			Email:     input.Body.Email,
			Password:  input.Body.Password,
			UserType:  input.Body.UserType,
			FullName:  input.Body.FullName,
			BirthDate: input.Body.BirthDate,
		})
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(authResponse(res), "Account created successfully"), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "signup-step2",
		Method:      http.MethodPost,
		Path:        "/auth/signup/step2",
		Summary:     "Complete the role specific profile",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden},
	}, func(ctx context.Context, input *struct {
		Body signUpStep2Request
	}) (*envelope[linkedoutsdk.ProfileCompletionData], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		var (
			step int
			err  error
		)
		body := input.Body
		if p.UserType == string(onboarding.RoleRecruiter) {
			opts := engine.RecruiterProfileOptions{CompanySize: body.CompanySize, CompanyWebsite: body.CompanyWebsite, Phone: body.Phone}
			if body.CompanyName != nil {
				opts.CompanyName = *body.CompanyName
			}
			step, err = e.CompleteRecruiterProfile(ctx, p, opts)
		} else {
			step, err = e.CompleteSeekerProfile(ctx, p, engine.SeekerProfileOptions{
				CurrentJob:      body.CurrentJob,
				YearsExperience: body.YearsExperience,
				Location:        body.Location,
				Phone:           body.Phone,
			})
		}
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.ProfileCompletionData{ProfileCompletionStep: step}, "Profile updated successfully"), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "signup-step3",
		Method:      http.MethodPost,
		Path:        "/auth/signup/step3",
		Summary:     "Save or skip job preferences",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body linkedoutsdk.SignUpStep3Request
	}) (*envelope[linkedoutsdk.ProfileCompletionData], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		body := input.Body
		skip := body.Skip != nil && *body.Skip
		step, err := e.SavePreferences(ctx, p, engine.PreferencesOptions{
			JobTitles:  body.PreferredJobTitles,
			Industries: body.PreferredIndustries,
			Locations:  body.PreferredLocations,
			SalaryMin:  body.SalaryExpectationMin,
			SalaryMax:  body.SalaryExpectationMax,
			Skip:       skip,
		})
		if err != nil {
			return nil, handleError(ctx, err)
		}
		msg := "Preferences saved successfully"
		if skip {
			msg = "Preferences skipped"
		}
		return reply(linkedoutsdk.ProfileCompletionData{ProfileCompletionStep: step}, msg), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Sign in",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body linkedoutsdk.LoginRequest
	}) (*envelope[linkedoutsdk.AuthResponse], error) {
		res, err := e.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(authResponse(res), "Login successful"), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current user profile",
		Tags:        []string{"auth"},
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*envelope[linkedoutsdk.ProfileData], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		acc, err := e.Account(ctx, p.UserID)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(profileData(acc), ""), nil
	})
}
