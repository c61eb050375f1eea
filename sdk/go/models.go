package linkedoutsdk

import (
	"io"
	"path/filepath"
	"strings"
)

// Envelope is the wrapper every LinkedOut endpoint answers with.
type Envelope[T any] struct {
	Success bool              `json:"success"`
	Message *string           `json:"message,omitempty"`
	Data    *T                `json:"data,omitempty"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// MessageOr returns the envelope message, or fallback when the server omitted it.
func (e Envelope[T]) MessageOr(fallback string) string {
	if e.Message != nil && *e.Message != "" {
		return *e.Message
	}
	return fallback
}

// ValidationError is a field-level complaint attached to an envelope.
type ValidationError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// User types.
const (
	UserTypeSeeker    = "seeker"
	UserTypeRecruiter = "recruiter"
)

// Application statuses.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Auth

type AuthResponse struct {
	Token                 string `json:"token"`
	UserID                int    `json:"userId"`
	UserType              string `json:"userType"`
	ProfileCompletionStep int    `json:"profileCompletionStep"`
}

type SignUpStep1Request struct {
	Email     string `json:"email" format:"email"`
	Password  string `json:"password" minLength:"6"`
	UserType  string `json:"userType" enum:"seeker,recruiter"`
	FullName  string `json:"fullName" minLength:"1"`
	BirthDate string `json:"birthDate"`
}

type SignUpStep2SeekerRequest struct {
	CurrentJob      *string `json:"currentJob,omitempty"`
	YearsExperience *int    `json:"yearsExperience,omitempty"`
	Location        *string `json:"location,omitempty"`
	Phone           *string `json:"phone,omitempty"`
}

type SignUpStep2RecruiterRequest struct {
	CompanyName    string  `json:"companyName"`
	CompanySize    *string `json:"companySize,omitempty"`
	CompanyWebsite *string `json:"companyWebsite,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

type SignUpStep3Request struct {
	PreferredJobTitles   []string `json:"preferredJobTitles,omitempty"`
	PreferredIndustries  []string `json:"preferredIndustries,omitempty"`
	PreferredLocations   []string `json:"preferredLocations,omitempty"`
	SalaryExpectationMin *float64 `json:"salaryExpectationMin,omitempty"`
	SalaryExpectationMax *float64 `json:"salaryExpectationMax,omitempty"`
	Skip                 *bool    `json:"skip,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" minLength:"1"`
	Password string `json:"password" minLength:"1"`
}

type ProfileCompletionData struct {
	ProfileCompletionStep int `json:"profileCompletionStep"`
}

// Profile

type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	UserType  string `json:"userType"`
	CreatedAt string `json:"createdAt"`
}

type UserProfile struct {
	ID                    int     `json:"id"`
	UserID                int     `json:"userId"`
	FullName              string  `json:"fullName"`
	BirthDate             *string `json:"birthDate,omitempty"`
	Phone                 *string `json:"phone,omitempty"`
	Location              *string `json:"location,omitempty"`
	CurrentJob            *string `json:"currentJob,omitempty"`
	YearsExperience       *int    `json:"yearsExperience,omitempty"`
	ResumeS3URL           *string `json:"resumeS3Url,omitempty"`
	ProfileImageS3URL     *string `json:"profileImageS3Url,omitempty"`
	CompanyName           *string `json:"companyName,omitempty"`
	CompanySize           *string `json:"companySize,omitempty"`
	CompanyWebsite        *string `json:"companyWebsite,omitempty"`
	CompanyLogoS3URL      *string `json:"companyLogoS3Url,omitempty"`
	ProfileCompletionStep int     `json:"profileCompletionStep"`
	CreatedAt             string  `json:"createdAt"`
	UpdatedAt             string  `json:"updatedAt"`
}

type UserPreferences struct {
	ID                   int      `json:"id"`
	UserID               int      `json:"userId"`
	PreferredJobTitles   []string `json:"preferredJobTitles,omitempty"`
	PreferredIndustries  []string `json:"preferredIndustries,omitempty"`
	PreferredLocations   []string `json:"preferredLocations,omitempty"`
	SalaryExpectationMin *float64 `json:"salaryExpectationMin,omitempty"`
	SalaryExpectationMax *float64 `json:"salaryExpectationMax,omitempty"`
	IsSkipped            bool     `json:"isSkipped"`
	CreatedAt            string   `json:"createdAt"`
	UpdatedAt            string   `json:"updatedAt"`
}

type ProfileData struct {
	User            User             `json:"user"`
	Profile         UserProfile      `json:"profile"`
	Preferences     *UserPreferences `json:"preferences,omitempty"`
	CanUseApp       bool             `json:"canUseApp"`
	ProfileComplete bool             `json:"profileComplete"`
}

// Jobs

type Job struct {
	ID                int      `json:"id"`
	RecruiterID       int      `json:"recruiterId"`
	Title             string   `json:"title"`
	About             *string  `json:"about,omitempty"`
	Description       string   `json:"description"`
	SalaryMin         *float64 `json:"salaryMin,omitempty"`
	SalaryMax         *float64 `json:"salaryMax,omitempty"`
	Benefits          *string  `json:"benefits,omitempty"`
	Location          *string  `json:"location,omitempty"`
	EmploymentType    *string  `json:"employmentType,omitempty"`
	Status            string   `json:"status"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
	Tags              []Tag    `json:"tags,omitempty"`
	RecruiterEmail    *string  `json:"recruiterEmail,omitempty"`
	CompanyName       *string  `json:"companyName,omitempty"`
	CompanySize       *string  `json:"companySize,omitempty"`
	CompanyWebsite    *string  `json:"companyWebsite,omitempty"`
	MatchScore        *int     `json:"matchScore,omitempty"`
	MatchScoreDisplay *string  `json:"matchScoreDisplay,omitempty"`
}

type Tag struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type CreateJobRequest struct {
	Title          string   `json:"title" minLength:"1"`
	About          *string  `json:"about,omitempty"`
	Description    string   `json:"description" minLength:"1"`
	SalaryMin      *float64 `json:"salaryMin,omitempty"`
	SalaryMax      *float64 `json:"salaryMax,omitempty"`
	Benefits       *string  `json:"benefits,omitempty"`
	Location       *string  `json:"location,omitempty"`
	EmploymentType *string  `json:"employmentType,omitempty"`
}

type UpdateJobRequest struct {
	Title          *string  `json:"title,omitempty"`
	About          *string  `json:"about,omitempty"`
	Description    *string  `json:"description,omitempty"`
	SalaryMin      *float64 `json:"salaryMin,omitempty"`
	SalaryMax      *float64 `json:"salaryMax,omitempty"`
	Benefits       *string  `json:"benefits,omitempty"`
	Location       *string  `json:"location,omitempty"`
	EmploymentType *string  `json:"employmentType,omitempty"`
	Status         *string  `json:"status,omitempty" enum:"active,closed"`
}

type JobResponse struct {
	Job  Job   `json:"job"`
	Tags []Tag `json:"tags,omitempty"`
}

type JobListResponse struct {
	Jobs               []Job       `json:"jobs"`
	Pagination         *Pagination `json:"pagination,omitempty"`
	TotalPreferredTags *int        `json:"totalPreferredTags,omitempty"`
	Message            *string     `json:"message,omitempty"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// JobFilter holds the optional browse filters. Zero values are not sent.
type JobFilter struct {
	Location       string
	SalaryMin      *float64
	SalaryMax      *float64
	EmploymentType string
	Tags           string
	Page           int
	Limit          int
}

// Applications

type Applicant struct {
	ApplicationID        int     `json:"application_id"`
	ApplicationStatus    string  `json:"application_status"`
	CoverLetter          *string `json:"cover_letter,omitempty"`
	AppliedAt            string  `json:"applied_at"`
	ApplicationUpdatedAt *string `json:"application_updated_at,omitempty"`
	SeekerID             int     `json:"seeker_id"`
	SeekerEmail          *string `json:"seeker_email,omitempty"`
	FullName             string  `json:"full_name"`
	CurrentJob           *string `json:"current_job,omitempty"`
	YearsExperience      *int    `json:"years_experience,omitempty"`
	Location             *string `json:"location,omitempty"`
	Phone                *string `json:"phone,omitempty"`
	ProfileImageS3URL    *string `json:"profile_image_s3_url,omitempty"`
	ResumeS3URL          *string `json:"resume_s3_url,omitempty"`
	JobID                *int    `json:"job_id,omitempty"`
	JobTitle             *string `json:"job_title,omitempty"`
	Email                *string `json:"email,omitempty"`
}

type JobApplicantsResponse struct {
	Applicants []Applicant    `json:"applicants"`
	Job        Job            `json:"job"`
	Statistics map[string]int `json:"statistics"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" enum:"accepted,rejected"`
}

type ApplicantDetailsResponse struct {
	Application Applicant `json:"application"`
}

type ApplyJobRequest struct {
	CoverLetter string `json:"coverLetter"`
}

type SeekerApplication struct {
	ApplicationID        int      `json:"application_id"`
	ApplicationStatus    string   `json:"application_status"`
	CoverLetter          *string  `json:"cover_letter,omitempty"`
	AppliedAt            string   `json:"applied_at"`
	ApplicationUpdatedAt *string  `json:"application_updated_at,omitempty"`
	JobID                int      `json:"job_id"`
	JobTitle             string   `json:"job_title"`
	JobLocation          *string  `json:"job_location,omitempty"`
	EmploymentType       *string  `json:"employment_type,omitempty"`
	CompanyName          *string  `json:"company_name,omitempty"`
	SalaryMin            *float64 `json:"salary_min,omitempty"`
	SalaryMax            *float64 `json:"salary_max,omitempty"`
}

type SeekerApplicationsResponse struct {
	Applications []SeekerApplication    `json:"applications"`
	Statistics   *ApplicationStatistics `json:"statistics,omitempty"`
	Pagination   *Pagination            `json:"pagination,omitempty"`
}

type ApplicationStatistics struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Reviewed int `json:"reviewed"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

// Files

type FileUploadResponse struct {
	ResumeURL *string `json:"resumeUrl,omitempty"`
	ImageURL  *string `json:"imageUrl,omitempty"`
}

type SignedURLResponse struct {
	SignedURL string `json:"signedUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

// File is a named byte stream to upload. ContentType may be left empty.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// ImageContentType guesses an image media type from the file extension.
func ImageContentType(name string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	default:
		return "image/*"
	}
}
