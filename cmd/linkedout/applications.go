package main

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"linkedout/internal/app"
	"linkedout/internal/outcome"
	linkedoutsdk "linkedout/sdk/go"
)

func applicationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "applications",
		Aliases: []string{"apps"},
		Short:   "Track applications",
		Long:    "Seekers list their own applications; recruiters show an applicant and accept or reject them.",
	}
	cmd.AddCommand(applicationsListCmd())
	cmd.AddCommand(applicationsShowCmd())
	cmd.AddCommand(applicationsStatusCmd())
	return cmd
}

func applicationsListCmd() *cobra.Command {
	var status string
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your applications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Profile.LoadApplications(status, page, limit)
				res, err := await(ctx, &c.Profile.Applications)
				if err != nil {
					return err
				}
				return render(res, func(tw table.Writer) {
					if s := res.Statistics; s != nil {
						tw.SetTitle(fmt.Sprintf("%d applications (pending %d, reviewed %d, accepted %d, rejected %d)",
							s.Total, s.Pending, s.Reviewed, s.Accepted, s.Rejected))
					}
					tw.AppendHeader(table.Row{"Application", "Job", "Company", "Location", "Status", "Applied"})
					for _, a := range res.Applications {
						tw.AppendRow(table.Row{a.ApplicationID, a.JobTitle, deref(a.CompanyName), deref(a.JobLocation), a.ApplicationStatus, a.AppliedAt})
					}
					if p := res.Pagination; p != nil {
						tw.AppendFooter(table.Row{"", "", "", "", "page", fmt.Sprintf("%d/%d", p.Page, p.Pages)})
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status: pending, reviewed, accepted or rejected")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	return cmd
}

func applicationsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <application-id>",
		Short: "Show an applicant with links to their picture and resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.LoadApplicantDetails(id)
				res, err := await(ctx, &c.Jobs.ApplicantDetails)
				if err != nil {
					return err
				}
				c.Jobs.Wait()
				return renderApplicant(res.Application, c.Jobs.ApplicantImageURL.Get(), c.Jobs.ApplicantResumeURL.Get())
			})
		},
	}
}

func applicationsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "status <application-id> <accepted|rejected>",
		Short:     "Accept or reject a pending application",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{linkedoutsdk.StatusAccepted, linkedoutsdk.StatusRejected},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.SetApplicationStatus(id, args[1])
				if _, err := await(ctx, &c.Jobs.UpdateApplicationStatus); err != nil {
					return err
				}
				c.Jobs.Wait()
				o := c.Jobs.ApplicantDetails.Get()
				if o == nil {
					return renderMessage("Application %d %s", id, args[1])
				}
				res, err := result(*o)
				if err != nil {
					return fmt.Errorf("status saved but refresh failed: %w", err)
				}
				return renderApplicant(res.Application, c.Jobs.ApplicantImageURL.Get(), c.Jobs.ApplicantResumeURL.Get())
			})
		},
	}
}

func renderApplicant(a linkedoutsdk.Applicant, image, resume *outcome.Outcome[string]) error {
	view := struct {
		Application linkedoutsdk.Applicant `json:"application"`
		ImageURL    string                 `json:"imageUrl,omitempty"`
		ResumeURL   string                 `json:"resumeUrl,omitempty"`
	}{a, signed(image), signed(resume)}
	return render(view, func(tw table.Writer) {
		tw.AppendHeader(table.Row{"Field", "Value"})
		tw.AppendRows([]table.Row{
			{"Application", a.ApplicationID},
			{"Status", a.ApplicationStatus},
			{"Applied", a.AppliedAt},
			{"Job", deref(a.JobTitle)},
			{"Name", a.FullName},
			{"Email", deref(a.Email)},
			{"Phone", deref(a.Phone)},
			{"Current job", deref(a.CurrentJob)},
			{"Experience", deref(a.YearsExperience)},
			{"Location", deref(a.Location)},
			{"Cover letter", deref(a.CoverLetter)},
			{"Image link", view.ImageURL},
			{"Resume link", view.ResumeURL},
		})
	})
}

// signed renders a derived signed-URL slot; failures show their message.
func signed(o *outcome.Outcome[string]) string {
	if o == nil {
		return ""
	}
	return outcome.Match(*o,
		func() string { return "" },
		func(u string) string { return u },
		func(msg string, _ []outcome.FieldError) string { return "(" + msg + ")" },
	)
}
