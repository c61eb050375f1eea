// Package domain holds the records stored by the development backend.
package domain

type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	UserType     string `json:"user_type" enum:"seeker,recruiter"`
	CreatedAt    string `json:"created_at" format:"date-time"`
}

type Profile struct {
	ID              int     `json:"id"`
	UserID          int     `json:"user_id"`
	FullName        string  `json:"full_name"`
	BirthDate       *string `json:"birth_date,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Location        *string `json:"location,omitempty"`
	CurrentJob      *string `json:"current_job,omitempty"`
	YearsExperience *int    `json:"years_experience,omitempty"`
	ResumeURL       *string `json:"resume_url,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	CompanyName     *string `json:"company_name,omitempty"`
	CompanySize     *string `json:"company_size,omitempty"`
	CompanyWebsite  *string `json:"company_website,omitempty"`
	CompanyLogoURL  *string `json:"company_logo_url,omitempty"`
	CompletionStep  int     `json:"profile_completion_step"`
	CreatedAt       string  `json:"created_at" format:"date-time"`
	UpdatedAt       string  `json:"updated_at" format:"date-time"`
}

type Preferences struct {
	ID         int      `json:"id"`
	UserID     int      `json:"user_id"`
	JobTitles  []string `json:"preferred_job_titles,omitempty"`
	Industries []string `json:"preferred_industries,omitempty"`
	Locations  []string `json:"preferred_locations,omitempty"`
	SalaryMin  *float64 `json:"salary_min,omitempty"`
	SalaryMax  *float64 `json:"salary_max,omitempty"`
	IsSkipped  bool     `json:"is_skipped"`
	CreatedAt  string   `json:"created_at" format:"date-time"`
	UpdatedAt  string   `json:"updated_at" format:"date-time"`
}

type Job struct {
	ID             int      `json:"id"`
	RecruiterID    int      `json:"recruiter_id"`
	Title          string   `json:"title"`
	About          *string  `json:"about,omitempty"`
	Description    string   `json:"description"`
	SalaryMin      *float64 `json:"salary_min,omitempty"`
	SalaryMax      *float64 `json:"salary_max,omitempty"`
	Benefits       *string  `json:"benefits,omitempty"`
	Location       *string  `json:"location,omitempty"`
	EmploymentType *string  `json:"employment_type,omitempty"`
	Status         string   `json:"status" enum:"active,closed"`
	CreatedAt      string   `json:"created_at" format:"date-time"`
	UpdatedAt      string   `json:"updated_at" format:"date-time"`

	// Joined from the recruiter's account and profile.
	RecruiterEmail *string `json:"recruiter_email,omitempty"`
	CompanyName    *string `json:"company_name,omitempty"`
	CompanySize    *string `json:"company_size,omitempty"`
	CompanyWebsite *string `json:"company_website,omitempty"`
}

type Application struct {
	ID          int     `json:"id"`
	JobID       int     `json:"job_id"`
	SeekerID    int     `json:"seeker_id"`
	CoverLetter *string `json:"cover_letter,omitempty"`
	Status      string  `json:"status" enum:"pending,reviewed,accepted,rejected"`
	AppliedAt   string  `json:"applied_at" format:"date-time"`
	UpdatedAt   *string `json:"updated_at,omitempty" format:"date-time"`
}

// Applicant is an application joined with the seeker's account and profile.
type Applicant struct {
	Application
	SeekerEmail     string  `json:"seeker_email"`
	FullName        string  `json:"full_name"`
	CurrentJob      *string `json:"current_job,omitempty"`
	YearsExperience *int    `json:"years_experience,omitempty"`
	Location        *string `json:"location,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	ResumeURL       *string `json:"resume_url,omitempty"`
	JobTitle        string  `json:"job_title"`
	RecruiterID     int     `json:"recruiter_id"`
}

// SeekerApplication is an application joined with its job and company.
type SeekerApplication struct {
	Application
	JobTitle       string   `json:"job_title"`
	JobLocation    *string  `json:"job_location,omitempty"`
	EmploymentType *string  `json:"employment_type,omitempty"`
	CompanyName    *string  `json:"company_name,omitempty"`
	SalaryMin      *float64 `json:"salary_min,omitempty"`
	SalaryMax      *float64 `json:"salary_max,omitempty"`
}

type StoredFile struct {
	Path        string `json:"path"`
	OwnerID     int    `json:"owner_id"`
	Kind        string `json:"kind" enum:"resumes,images"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

type Event struct {
	ID         int64  `json:"id"`
	TS         string `json:"ts" format:"date-time"`
	Type       string `json:"type"`
	EntityKind string `json:"entity_kind"`
	EntityID   string `json:"entity_id,omitempty"`
	ActorID    int    `json:"actor_id"`
	Payload    string `json:"payload_json"`
}
