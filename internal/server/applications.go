package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"linkedout/internal/engine"
	linkedoutsdk "linkedout/sdk/go"
)

type ApplicationPath struct {
	ID int `path:"id" minimum:"1"`
}

func registerApplications(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "job-applicants",
		Method:      http.MethodGet,
		Path:        "/recruiter/jobs/{id}/applicants",
		Summary:     "Applicants of a job with per-status counts",
		Tags:        []string{"recruiter"},
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *JobPath) (*envelope[linkedoutsdk.JobApplicantsResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		res, err := e.Applicants(ctx, p, input.ID)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		out := linkedoutsdk.JobApplicantsResponse{
			Applicants: make([]linkedoutsdk.Applicant, 0, len(res.Applicants)),
			Job:        sdkJob(res.Job),
			Statistics: res.Statistics,
		}
		for _, a := range res.Applicants {
			out.Applicants = append(out.Applicants, sdkApplicant(a))
		}
		return reply(out, ""), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "applicant-details",
		Method:      http.MethodGet,
		Path:        "/recruiter/applications/{id}",
		Summary:     "One application with the applicant's profile",
		Tags:        []string{"recruiter"},
		Errors:      []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *ApplicationPath) (*envelope[linkedoutsdk.ApplicantDetailsResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		a, err := e.Applicant(ctx, p, input.ID)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.ApplicantDetailsResponse{Application: sdkApplicant(a)}, ""), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-application-status",
		Method:      http.MethodPut,
		Path:        "/recruiter/applications/{id}/status",
		Summary:     "Accept or reject a pending application",
		Tags:        []string{"recruiter"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ApplicationPath
		Body linkedoutsdk.UpdateApplicationStatusRequest
	}) (*envelope[json.RawMessage], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		a, err := e.SetApplicationStatus(ctx, p, input.ID, input.Body.Status)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return done("Application " + a.Status), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "seeker-applications",
		Method:      http.MethodGet,
		Path:        "/seeker/applications",
		Summary:     "The seeker's applications",
		Tags:        []string{"seeker"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden},
	}, func(ctx context.Context, input *struct {
		Status string `query:"status" enum:"pending,reviewed,accepted,rejected"`
		Page   int    `query:"page" minimum:"1" default:"1"`
		Limit  int    `query:"limit" minimum:"1" maximum:"100" default:"20"`
	}) (*envelope[linkedoutsdk.SeekerApplicationsResponse], error) {
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		res, err := e.SeekerApplications(ctx, p, input.Status, input.Page, input.Limit)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		out := linkedoutsdk.SeekerApplicationsResponse{
			Applications: make([]linkedoutsdk.SeekerApplication, 0, len(res.Applications)),
			Statistics:   applicationStatistics(res.Statistics),
			Pagination:   pagination(res.Page),
		}
		for _, a := range res.Applications {
			out.Applications = append(out.Applications, seekerApplication(a))
		}
		return reply(out, ""), nil
	})
}
