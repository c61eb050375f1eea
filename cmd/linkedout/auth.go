package main

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"linkedout/internal/app"
	"linkedout/internal/navigation"
	"linkedout/internal/onboarding"
	"linkedout/internal/viewmodel"
	linkedoutsdk "linkedout/sdk/go"
)

func signupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and walk through onboarding",
		Long:  "Onboarding has three steps: step1 creates the account, step2 fills the role profile (required before using the app), step3 stores or skips preferences.",
	}
	cmd.AddCommand(signupStep1Cmd())
	cmd.AddCommand(signupStep2Cmd())
	cmd.AddCommand(signupStep3Cmd())
	return cmd
}

func signupStep1Cmd() *cobra.Command {
	var email, password, userType, fullName, birthDate string
	cmd := &cobra.Command{
		Use:   "step1",
		Short: "Create the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Auth.SignUpStep1(email, password, userType, fullName, birthDate)
				res, err := await(ctx, &c.Auth.Auth)
				if err != nil {
					return err
				}
				return renderAuth(res)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (at least 6 characters)")
	cmd.Flags().StringVar(&userType, "type", linkedoutsdk.UserTypeSeeker, "account type: seeker or recruiter")
	cmd.Flags().StringVar(&fullName, "name", "", "full name")
	cmd.Flags().StringVar(&birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("birth-date")
	return cmd
}

func signupStep2Cmd() *cobra.Command {
	var currentJob, location, phone, company, companySize, website string
	var years int
	cmd := &cobra.Command{
		Use:   "step2",
		Short: "Complete the role profile",
		Long:  "Seekers may pass --current-job, --years, --location and --phone. Recruiters must pass --company and may pass --company-size, --company-website and --phone.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				sess, err := c.Sessions.Get(ctx)
				if err != nil {
					return err
				}
				role, err := onboarding.ParseRole(sess.UserType)
				if err != nil {
					return fmt.Errorf("no account in session; run signup step1 or login first")
				}
				if role == onboarding.RoleRecruiter {
					c.Auth.SignUpStep2Recruiter(linkedoutsdk.SignUpStep2RecruiterRequest{
						CompanyName:    company,
						CompanySize:    optionalString(companySize),
						CompanyWebsite: optionalString(website),
						Phone:          optionalString(phone),
					})
				} else {
					c.Auth.SignUpStep2Seeker(linkedoutsdk.SignUpStep2SeekerRequest{
						CurrentJob:      optionalString(currentJob),
						YearsExperience: changedInt(cmd, "years", years),
						Location:        optionalString(location),
						Phone:           optionalString(phone),
					})
				}
				res, err := await(ctx, &c.Auth.ProfileCompletion)
				if err != nil {
					return err
				}
				return renderStep(res, navigation.AfterSignupStep2(role))
			})
		},
	}
	cmd.Flags().StringVar(&currentJob, "current-job", "", "current job title")
	cmd.Flags().IntVar(&years, "years", 0, "years of experience")
	cmd.Flags().StringVar(&location, "location", "", "location")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&company, "company", "", "company name (recruiters)")
	cmd.Flags().StringVar(&companySize, "company-size", "", "company size (recruiters)")
	cmd.Flags().StringVar(&website, "company-website", "", "company website (recruiters)")
	return cmd
}

func signupStep3Cmd() *cobra.Command {
	var titles, industries, locations []string
	var salaryMin, salaryMax float64
	var skip bool
	cmd := &cobra.Command{
		Use:   "step3",
		Short: "Save or skip job preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				sess, err := c.Sessions.Get(ctx)
				if err != nil {
					return err
				}
				role, err := onboarding.ParseRole(sess.UserType)
				if err != nil {
					return fmt.Errorf("no account in session; run signup step1 or login first")
				}
				if role == onboarding.RoleRecruiter {
					c.Auth.CompleteRecruiterOnboarding(skip)
				} else {
					c.Auth.SignUpStep3(viewmodel.Preferences{
						JobTitles:  titles,
						Industries: industries,
						Locations:  locations,
						SalaryMin:  changedFloat(cmd, "salary-min", salaryMin),
						SalaryMax:  changedFloat(cmd, "salary-max", salaryMax),
					}, skip)
				}
				res, err := await(ctx, &c.Auth.ProfileCompletion)
				if err != nil {
					return err
				}
				return renderStep(res, navigation.AfterOnboarding(role))
			})
		},
	}
	cmd.Flags().StringSliceVar(&titles, "titles", nil, "preferred job titles")
	cmd.Flags().StringSliceVar(&industries, "industries", nil, "preferred industries")
	cmd.Flags().StringSliceVar(&locations, "locations", nil, "preferred locations")
	cmd.Flags().Float64Var(&salaryMin, "salary-min", 0, "minimum expected salary")
	cmd.Flags().Float64Var(&salaryMax, "salary-max", 0, "maximum expected salary")
	cmd.Flags().BoolVar(&skip, "skip", false, "skip preferences")
	return cmd
}

func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Auth.Login(email, password)
				res, err := await(ctx, &c.Auth.Auth)
				if err != nil {
					return err
				}
				return renderAuth(res)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Auth.Logout()
				c.Auth.Wait()
				sess, err := c.Sessions.Get(ctx)
				if err != nil {
					return err
				}
				if !sess.Empty() {
					return fmt.Errorf("session could not be cleared")
				}
				return renderMessage("Logged out")
			})
		},
	}
}

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Profile.LoadProfile()
				p, err := await(ctx, &c.Profile.Profile)
				if err != nil {
					return err
				}
				c.Profile.Wait()
				var image string
				if o := c.Profile.ProfileImageURL.Get(); o != nil && o.IsSuccess() {
					image = o.Data
				}
				return render(p, func(tw table.Writer) {
					pr := p.Profile
					tw.AppendHeader(table.Row{"Field", "Value"})
					tw.AppendRows([]table.Row{
						{"ID", p.User.ID},
						{"Email", p.User.Email},
						{"Type", p.User.UserType},
						{"Name", pr.FullName},
						{"Onboarding step", pr.ProfileCompletionStep},
						{"Can use app", p.CanUseApp},
						{"Profile complete", p.ProfileComplete},
					})
					if p.User.UserType == linkedoutsdk.UserTypeRecruiter {
						tw.AppendRows([]table.Row{
							{"Company", deref(pr.CompanyName)},
							{"Company size", deref(pr.CompanySize)},
							{"Company website", deref(pr.CompanyWebsite)},
						})
					} else {
						tw.AppendRows([]table.Row{
							{"Current job", deref(pr.CurrentJob)},
							{"Experience", deref(pr.YearsExperience)},
							{"Location", deref(pr.Location)},
							{"Resume", c.Profile.ResumeFileName.Get()},
						})
					}
					if image != "" {
						tw.AppendRow(table.Row{"Image link", image})
					}
				})
			})
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Show the route the app opens on for the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				route, err := c.Auth.StartRoute(ctx)
				if err != nil {
					return err
				}
				if _, err := navigation.Default().Resolve(route); err != nil {
					return err
				}
				return renderMessage("%s", route)
			})
		},
	}
}

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "session", Short: "Inspect the local session"}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				sess, err := c.Sessions.Get(ctx)
				if err != nil {
					return err
				}
				expires := tokenExpiry(sess.Token)
				view := struct {
					UserID         *int   `json:"user_id,omitempty"`
					UserType       string `json:"user_type,omitempty"`
					OnboardingStep *int   `json:"onboarding_step,omitempty"`
					HasToken       bool   `json:"has_token"`
					ExpiresAt      string `json:"expires_at,omitempty"`
				}{sess.UserID, sess.UserType, sess.OnboardingStep, sess.Token != "", expires}
				return render(view, func(tw table.Writer) {
					tw.AppendHeader(table.Row{"Key", "Value"})
					tw.AppendRows([]table.Row{
						{"user_id", deref(sess.UserID)},
						{"user_type", sess.UserType},
						{"profile_completion_step", deref(sess.OnboardingStep)},
						{"auth_token", sess.Token != ""},
						{"expires_at", expires},
					})
				})
			})
		},
	})
	return cmd
}

// tokenExpiry reads exp from the stored token without verifying it; the
// client never holds the signing key.
func tokenExpiry(token string) string {
	if token == "" {
		return ""
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return ""
	}
	return claims.ExpiresAt.Time.UTC().Format(time.RFC3339)
}

func renderAuth(res linkedoutsdk.AuthResponse) error {
	step := res.ProfileCompletionStep
	next := navigation.AfterLogin(res.UserType, &step)
	view := struct {
		linkedoutsdk.AuthResponse
		Next string `json:"next"`
	}{res, next}
	return render(view, func(tw table.Writer) {
		tw.AppendHeader(table.Row{"User", "Type", "Onboarding step", "Next"})
		tw.AppendRow(table.Row{res.UserID, res.UserType, res.ProfileCompletionStep, next})
	})
}

func renderStep(res linkedoutsdk.ProfileCompletionData, next string) error {
	view := struct {
		linkedoutsdk.ProfileCompletionData
		Next string `json:"next"`
	}{res, next}
	return render(view, func(tw table.Writer) {
		tw.AppendHeader(table.Row{"Onboarding step", "Next"})
		tw.AppendRow(table.Row{res.ProfileCompletionStep, next})
	})
}
