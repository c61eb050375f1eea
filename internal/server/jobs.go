package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"linkedout/internal/engine"
	linkedoutsdk "linkedout/sdk/go"
)

type JobPath struct {
	ID int `path:"id" minimum:"1"`
}

func registerRecruiterJobs(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-job",
		Method:        http.MethodPost,
		Path:          "/recruiter/jobs",
		Summary:       "Create a job posting",
		Tags:          []string{"recruiter"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden},
	}, func(ctx context.Context, input *struct {
		Body linkedoutsdk.CreateJobRequest
	}) (*envelope[linkedoutsdk.JobResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.CreateJob(ctx, p, jobInputFromCreate(input.Body))
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.JobResponse{Job: sdkJob(j)}, "Job created successfully"), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-recruiter-jobs",
		Method:      http.MethodGet,
		Path:        "/recruiter/jobs",
		Summary:     "List the recruiter's job postings",
		Tags:        []string{"recruiter"},
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden},
	}, func(ctx context.Context, _ *struct{}) (*envelope[linkedoutsdk.JobListResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		jobs, err := e.RecruiterJobs(ctx, p)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.JobListResponse{Jobs: sdkJobs(jobs)}, ""), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-job",
		Method:      http.MethodPut,
		Path:        "/recruiter/jobs/{id}",
		Summary:     "Update a job posting",
		Tags:        []string{"recruiter"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobPath
		Body linkedoutsdk.UpdateJobRequest
	}) (*envelope[linkedoutsdk.JobResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.UpdateJob(ctx, p, input.ID, jobInputFromUpdate(input.Body))
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.JobResponse{Job: sdkJob(j)}, "Job updated successfully"), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-job",
		Method:      http.MethodDelete,
		Path:        "/recruiter/jobs/{id}",
		Summary:     "Delete a job posting",
		Tags:        []string{"recruiter"},
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *JobPath) (*envelope[json.RawMessage], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteJob(ctx, p, input.ID); err != nil {
			return nil, handleError(ctx, err)
		}
		return done("Job deleted successfully"), nil
	})
}

type browseQuery struct {
	Location       string  `query:"location"`
	SalaryMin      float64 `query:"salary_min" minimum:"0" doc:"0 means no lower bound"`
	SalaryMax      float64 `query:"salary_max" minimum:"0" doc:"0 means no upper bound"`
	EmploymentType string  `query:"employment_type"`
	Tags           string  `query:"tags" doc:"Comma separated keywords"`
	Page           int     `query:"page" minimum:"1" default:"1"`
	Limit          int     `query:"limit" minimum:"1" maximum:"100" default:"20"`
}

func optionalAmount(v float64) *float64 {
	if v <= 0 {
		return nil
	}
	return &v
}

func registerSeekerJobs(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "browse-jobs",
		Method:      http.MethodGet,
		Path:        "/jobs",
		Summary:     "Browse active jobs",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *browseQuery) (*envelope[linkedoutsdk.JobListResponse], error) {
		jobs, page, err := e.BrowseJobs(ctx, engine.BrowseOptions{
			Location:       input.Location,
			SalaryMin:      optionalAmount(input.SalaryMin),
			SalaryMax:      optionalAmount(input.SalaryMax),
			EmploymentType: input.EmploymentType,
			Tags:           input.Tags,
			Page:           input.Page,
			Limit:          input.Limit,
		})
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.JobListResponse{Jobs: sdkJobs(jobs), Pagination: pagination(page)}, ""), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "recommended-jobs",
		Method:      http.MethodGet,
		Path:        "/jobs/recommended",
		Summary:     "Jobs ranked against the seeker's preferences",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden},
	}, func(ctx context.Context, input *struct {
		Page  int `query:"page" minimum:"1" default:"1"`
		Limit int `query:"limit" minimum:"1" maximum:"100" default:"20"`
	}) (*envelope[linkedoutsdk.JobListResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		recs, err := e.Recommend(ctx, p, input.Page, input.Limit)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		out := linkedoutsdk.JobListResponse{Jobs: make([]linkedoutsdk.Job, 0, len(recs.Jobs)), Pagination: pagination(recs.Page)}
		for _, j := range recs.Jobs {
			out.Jobs = append(out.Jobs, scoredJob(j))
		}
		if recs.Message != "" {
			out.Message = &recs.Message
		} else {
			out.TotalPreferredTags = &recs.TotalPreferred
		}
		return reply(out, ""), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "job-details",
		Method:      http.MethodGet,
		Path:        "/jobs/{id}",
		Summary:     "Job details",
		Tags:        []string{"jobs"},
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *JobPath) (*envelope[linkedoutsdk.JobResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.JobDetails(ctx, p, input.ID)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.JobResponse{Job: sdkJob(j)}, ""), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "apply-job",
		Method:        http.MethodPost,
		Path:          "/jobs/{id}/apply",
		Summary:       "Apply to a job",
		Tags:          []string{"jobs"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobPath
		Body linkedoutsdk.ApplyJobRequest
	}) (*envelope[json.RawMessage], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if _, err := e.Apply(ctx, p, input.ID, input.Body.CoverLetter); err != nil {
			return nil, handleError(ctx, err)
		}
		return done("Application submitted successfully"), nil
	})
}
