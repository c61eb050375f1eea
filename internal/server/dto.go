package server

import (
	"fmt"

	"linkedout/internal/domain"
	"linkedout/internal/engine"
	linkedoutsdk "linkedout/sdk/go"
)

// Request payloads. Shapes that match the client exactly reuse the SDK types.

// signUpStep2Request accepts both role variants; the caller's user type picks one.
type signUpStep2Request struct {
	CurrentJob      *string `json:"currentJob,omitempty"`
	YearsExperience *int    `json:"yearsExperience,omitempty" minimum:"0"`
	Location        *string `json:"location,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	CompanyName     *string `json:"companyName,omitempty"`
	CompanySize     *string `json:"companySize,omitempty"`
	CompanyWebsite  *string `json:"companyWebsite,omitempty"`
}

func jobInputFromCreate(req linkedoutsdk.CreateJobRequest) engine.JobInput {
	return engine.JobInput{
		Title:          &req.Title,
		About:          req.About,
		Description:    &req.Description,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Benefits:       req.Benefits,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
	}
}

func jobInputFromUpdate(req linkedoutsdk.UpdateJobRequest) engine.JobInput {
	return engine.JobInput{
		Title:          req.Title,
		About:          req.About,
		Description:    req.Description,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Benefits:       req.Benefits,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		Status:         req.Status,
	}
}

// Response mapping

func authResponse(res engine.AuthResult) linkedoutsdk.AuthResponse {
	return linkedoutsdk.AuthResponse{
		Token:                 res.Token,
		UserID:                res.User.ID,
		UserType:              res.User.UserType,
		ProfileCompletionStep: res.CompletionStep,
	}
}

func profileData(acc engine.Account) linkedoutsdk.ProfileData {
	p := acc.Profile
	out := linkedoutsdk.ProfileData{
		User: linkedoutsdk.User{
			ID:        acc.User.ID,
			Email:     acc.User.Email,
			UserType:  acc.User.UserType,
			CreatedAt: acc.User.CreatedAt,
		},
		Profile: linkedoutsdk.UserProfile{
			ID:                    p.ID,
			UserID:                p.UserID,
			FullName:              p.FullName,
			BirthDate:             p.BirthDate,
			Phone:                 p.Phone,
			Location:              p.Location,
			CurrentJob:            p.CurrentJob,
			YearsExperience:       p.YearsExperience,
			ResumeS3URL:           p.ResumeURL,
			ProfileImageS3URL:     p.ProfileImageURL,
			CompanyName:           p.CompanyName,
			CompanySize:           p.CompanySize,
			CompanyWebsite:        p.CompanyWebsite,
			CompanyLogoS3URL:      p.CompanyLogoURL,
			ProfileCompletionStep: p.CompletionStep,
			CreatedAt:             p.CreatedAt,
			UpdatedAt:             p.UpdatedAt,
		},
		CanUseApp:       acc.CanUseApp(),
		ProfileComplete: acc.ProfileComplete(),
	}
	if prefs := acc.Preferences; prefs != nil {
		out.Preferences = &linkedoutsdk.UserPreferences{
			ID:                   prefs.ID,
			UserID:               prefs.UserID,
			PreferredJobTitles:   prefs.JobTitles,
			PreferredIndustries:  prefs.Industries,
			PreferredLocations:   prefs.Locations,
			SalaryExpectationMin: prefs.SalaryMin,
			SalaryExpectationMax: prefs.SalaryMax,
			IsSkipped:            prefs.IsSkipped,
			CreatedAt:            prefs.CreatedAt,
			UpdatedAt:            prefs.UpdatedAt,
		}
	}
	return out
}

func sdkJob(j domain.Job) linkedoutsdk.Job {
	return linkedoutsdk.Job{
		ID:             j.ID,
		RecruiterID:    j.RecruiterID,
		Title:          j.Title,
		About:          j.About,
		Description:    j.Description,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		Benefits:       j.Benefits,
		Location:       j.Location,
		EmploymentType: j.EmploymentType,
		Status:         j.Status,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
		RecruiterEmail: j.RecruiterEmail,
		CompanyName:    j.CompanyName,
		CompanySize:    j.CompanySize,
		CompanyWebsite: j.CompanyWebsite,
	}
}

func sdkJobs(jobs []domain.Job) []linkedoutsdk.Job {
	out := make([]linkedoutsdk.Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, sdkJob(j))
	}
	return out
}

func scoredJob(s engine.ScoredJob) linkedoutsdk.Job {
	j := sdkJob(s.Job)
	if s.Score > 0 {
		score := s.Score
		display := fmt.Sprintf("%d%% match", score)
		j.MatchScore = &score
		j.MatchScoreDisplay = &display
	}
	return j
}

func pagination(p engine.Page) *linkedoutsdk.Pagination {
	return &linkedoutsdk.Pagination{Page: p.Page, Limit: p.Limit, Total: p.Total, Pages: p.Pages}
}

func sdkApplicant(a domain.Applicant) linkedoutsdk.Applicant {
	jobID, jobTitle, email := a.JobID, a.JobTitle, a.SeekerEmail
	return linkedoutsdk.Applicant{
		ApplicationID:        a.ID,
		ApplicationStatus:    a.Status,
		CoverLetter:          a.CoverLetter,
		AppliedAt:            a.AppliedAt,
		ApplicationUpdatedAt: a.UpdatedAt,
		SeekerID:             a.SeekerID,
		SeekerEmail:          &email,
		FullName:             a.FullName,
		CurrentJob:           a.CurrentJob,
		YearsExperience:      a.YearsExperience,
		Location:             a.Location,
		Phone:                a.Phone,
		ProfileImageS3URL:    a.ProfileImageURL,
		ResumeS3URL:          a.ResumeURL,
		JobID:                &jobID,
		JobTitle:             &jobTitle,
		Email:                &email,
	}
}

func seekerApplication(a domain.SeekerApplication) linkedoutsdk.SeekerApplication {
	return linkedoutsdk.SeekerApplication{
		ApplicationID:        a.ID,
		ApplicationStatus:    a.Status,
		CoverLetter:          a.CoverLetter,
		AppliedAt:            a.AppliedAt,
		ApplicationUpdatedAt: a.UpdatedAt,
		JobID:                a.JobID,
		JobTitle:             a.JobTitle,
		JobLocation:          a.JobLocation,
		EmploymentType:       a.EmploymentType,
		CompanyName:          a.CompanyName,
		SalaryMin:            a.SalaryMin,
		SalaryMax:            a.SalaryMax,
	}
}

func applicationStatistics(counts map[string]int) *linkedoutsdk.ApplicationStatistics {
	return &linkedoutsdk.ApplicationStatistics{
		Total:    counts["total"],
		Pending:  counts[linkedoutsdk.StatusPending],
		Reviewed: counts[linkedoutsdk.StatusReviewed],
		Accepted: counts[linkedoutsdk.StatusAccepted],
		Rejected: counts[linkedoutsdk.StatusRejected],
	}
}
