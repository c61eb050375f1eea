package linkedoutsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// Client is a LinkedOut REST API client.
type Client struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	Timeout    time.Duration
	UserAgent  string
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:   baseURL,
		Timeout:   15 * time.Second,
		UserAgent: "linkedout-sdk-go",
	}
}

// APIError wraps non-2xx responses. Envelope is set when the body was an envelope.
type APIError struct {
	StatusCode int
	Body       string
	Envelope   *Envelope[json.RawMessage]
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Message returns the server supplied envelope message, if any.
func (e *APIError) Message() string {
	if e.Envelope == nil {
		return ""
	}
	return e.Envelope.MessageOr("")
}

// ValidationErrors returns the envelope field errors, if any.
func (e *APIError) ValidationErrors() []ValidationError {
	if e.Envelope == nil {
		return nil
	}
	return e.Envelope.Errors
}

// Auth

func (c *Client) SignUpStep1(ctx context.Context, req SignUpStep1Request) (Envelope[AuthResponse], error) {
	return call[AuthResponse](ctx, c, http.MethodPost, "auth/signup/step1", req)
}

func (c *Client) SignUpStep2Seeker(ctx context.Context, req SignUpStep2SeekerRequest) (Envelope[ProfileCompletionData], error) {
	return call[ProfileCompletionData](ctx, c, http.MethodPost, "auth/signup/step2", req)
}

func (c *Client) SignUpStep2Recruiter(ctx context.Context, req SignUpStep2RecruiterRequest) (Envelope[ProfileCompletionData], error) {
	return call[ProfileCompletionData](ctx, c, http.MethodPost, "auth/signup/step2", req)
}

func (c *Client) SignUpStep3(ctx context.Context, req SignUpStep3Request) (Envelope[ProfileCompletionData], error) {
	return call[ProfileCompletionData](ctx, c, http.MethodPost, "auth/signup/step3", req)
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (Envelope[AuthResponse], error) {
	return call[AuthResponse](ctx, c, http.MethodPost, "auth/login", req)
}

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (Envelope[ProfileData], error) {
	return call[ProfileData](ctx, c, http.MethodGet, "auth/me", nil)
}

// Recruiter jobs

func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (Envelope[JobResponse], error) {
	return call[JobResponse](ctx, c, http.MethodPost, "recruiter/jobs", req)
}

func (c *Client) RecruiterJobs(ctx context.Context) (Envelope[JobListResponse], error) {
	return call[JobListResponse](ctx, c, http.MethodGet, "recruiter/jobs", nil)
}

func (c *Client) UpdateJob(ctx context.Context, jobID int, req UpdateJobRequest) (Envelope[JobResponse], error) {
	return call[JobResponse](ctx, c, http.MethodPut, fmt.Sprintf("recruiter/jobs/%d", jobID), req)
}

func (c *Client) DeleteJob(ctx context.Context, jobID int) (Envelope[json.RawMessage], error) {
	return call[json.RawMessage](ctx, c, http.MethodDelete, fmt.Sprintf("recruiter/jobs/%d", jobID), nil)
}

func (c *Client) JobApplicants(ctx context.Context, jobID int) (Envelope[JobApplicantsResponse], error) {
	return call[JobApplicantsResponse](ctx, c, http.MethodGet, fmt.Sprintf("recruiter/jobs/%d/applicants", jobID), nil)
}

func (c *Client) ApplicantDetails(ctx context.Context, applicationID int) (Envelope[ApplicantDetailsResponse], error) {
	return call[ApplicantDetailsResponse](ctx, c, http.MethodGet, fmt.Sprintf("recruiter/applications/%d", applicationID), nil)
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, applicationID int, status string) (Envelope[json.RawMessage], error) {
	endpoint := fmt.Sprintf("recruiter/applications/%d/status", applicationID)
	return call[json.RawMessage](ctx, c, http.MethodPut, endpoint, UpdateApplicationStatusRequest{Status: status})
}

// Seeker jobs

// BrowseJobs lists active jobs matching the filter.
func (c *Client) BrowseJobs(ctx context.Context, f JobFilter) (Envelope[JobListResponse], error) {
	q := url.Values{}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.SalaryMin != nil {
		q.Set("salary_min", strconv.FormatFloat(*f.SalaryMin, 'f', -1, 64))
	}
	if f.SalaryMax != nil {
		q.Set("salary_max", strconv.FormatFloat(*f.SalaryMax, 'f', -1, 64))
	}
	if f.EmploymentType != "" {
		q.Set("employment_type", f.EmploymentType)
	}
	if f.Tags != "" {
		q.Set("tags", f.Tags)
	}
	setPage(q, f.Page, f.Limit)
	return call[JobListResponse](ctx, c, http.MethodGet, withQuery("jobs", q), nil)
}

func (c *Client) JobDetails(ctx context.Context, jobID int) (Envelope[JobResponse], error) {
	return call[JobResponse](ctx, c, http.MethodGet, fmt.Sprintf("jobs/%d", jobID), nil)
}

func (c *Client) RecommendedJobs(ctx context.Context, page, limit int) (Envelope[JobListResponse], error) {
	q := url.Values{}
	setPage(q, page, limit)
	return call[JobListResponse](ctx, c, http.MethodGet, withQuery("jobs/recommended", q), nil)
}

func (c *Client) ApplyToJob(ctx context.Context, jobID int, coverLetter string) (Envelope[json.RawMessage], error) {
	endpoint := fmt.Sprintf("jobs/%d/apply", jobID)
	return call[json.RawMessage](ctx, c, http.MethodPost, endpoint, ApplyJobRequest{CoverLetter: coverLetter})
}

// SeekerApplications lists the caller's applications; an empty status lists all.
func (c *Client) SeekerApplications(ctx context.Context, status string, page, limit int) (Envelope[SeekerApplicationsResponse], error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	setPage(q, page, limit)
	return call[SeekerApplicationsResponse](ctx, c, http.MethodGet, withQuery("seeker/applications", q), nil)
}

// Files

func (c *Client) UploadResume(ctx context.Context, f File) (Envelope[FileUploadResponse], error) {
	if f.ContentType == "" {
		f.ContentType = "application/pdf"
	}
	return upload[FileUploadResponse](ctx, c, "upload/resume", "resume", f)
}

func (c *Client) UploadProfileImage(ctx context.Context, f File) (Envelope[FileUploadResponse], error) {
	if f.ContentType == "" {
		f.ContentType = ImageContentType(f.Name)
	}
	return upload[FileUploadResponse](ctx, c, "upload/profile-image", "image", f)
}

// SignedURL exchanges a stored file URL for a time-limited one.
func (c *Client) SignedURL(ctx context.Context, fileURL string) (Envelope[SignedURLResponse], error) {
	q := url.Values{}
	q.Set("fileUrl", fileURL)
	return call[SignedURLResponse](ctx, c, http.MethodGet, withQuery("upload/file-url", q), nil)
}

func call[T any](ctx context.Context, c *Client, method, endpoint string, body any) (Envelope[T], error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return Envelope[T]{}, err
		}
	}
	var out Envelope[T]
	err := c.do(ctx, method, endpoint, &buf, "application/json", &out)
	return out, err
}

func upload[T any](ctx context.Context, c *Client, endpoint, field string, f File) (Envelope[T], error) {
	if f.Body == nil {
		return Envelope[T]{}, fmt.Errorf("upload %s: file body required", field)
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	h.Set("Content-Type", f.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return Envelope[T]{}, err
	}
	if _, err := io.Copy(part, f.Body); err != nil {
		return Envelope[T]{}, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if err := mw.Close(); err != nil {
		return Envelope[T]{}, err
	}
	var out Envelope[T]
	err = c.do(ctx, http.MethodPost, endpoint, &buf, mw.FormDataContentType(), &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body *bytes.Buffer, contentType string, out any) error {
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Tokens != nil {
		token, err := c.Tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(b)}
		var env Envelope[json.RawMessage]
		if json.Unmarshal(b, &env) == nil && (env.Message != nil || len(env.Errors) > 0) {
			apiErr.Envelope = &env
		}
		return apiErr
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// httpClient never writes to c, so one Client can serve concurrent calls.
func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: c.Timeout}
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func setPage(q url.Values, page, limit int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
}

func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}
