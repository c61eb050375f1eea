package navigation

import (
	"linkedout/internal/onboarding"
	"linkedout/internal/session"
)

// Start is the launch destination for a stored session.
func Start(s session.Session) string {
	return AfterLogin(s.UserType, s.OnboardingStep)
}

// AfterLogin dispatches on the user type and onboarding step.
func AfterLogin(userType string, step *int) string {
	switch onboarding.NextStage(userType, step) {
	case onboarding.StageStep2:
		return SignupStep2.MustBuild(userType)
	case onboarding.StageHome:
		return Home(onboarding.Role(userType))
	}
	return Login.Pattern
}

// AfterOnboarding is where a finished wizard lands.
func AfterOnboarding(role onboarding.Role) string {
	return Home(role)
}

// AfterSignupStep2 leads to the optional preferences step.
func AfterSignupStep2(role onboarding.Role) string {
	return SignupStep3.MustBuild(string(role))
}

// Home is the role's landing route.
func Home(role onboarding.Role) string {
	if role == onboarding.RoleRecruiter {
		return RecruiterHome.Pattern
	}
	if role == onboarding.RoleSeeker {
		return SeekerHome.Pattern
	}
	return Login.Pattern
}
