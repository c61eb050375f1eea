package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"linkedout/internal/app"
	linkedoutsdk "linkedout/sdk/go"
)

func jobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse, post and apply to jobs",
		Long:  "Seekers use browse, recommended, show and apply. Recruiters use mine, create, update, delete and applicants.",
	}
	cmd.AddCommand(jobsBrowseCmd())
	cmd.AddCommand(jobsRecommendedCmd())
	cmd.AddCommand(jobsShowCmd())
	cmd.AddCommand(jobsApplyCmd())
	cmd.AddCommand(jobsMineCmd())
	cmd.AddCommand(jobsCreateCmd())
	cmd.AddCommand(jobsUpdateCmd())
	cmd.AddCommand(jobsDeleteCmd())
	cmd.AddCommand(jobsApplicantsCmd())
	return cmd
}

func jobsBrowseCmd() *cobra.Command {
	var location, employmentType, tags string
	var salaryMin, salaryMax float64
	var page, limit int
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List active jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.BrowseJobs(linkedoutsdk.JobFilter{
					Location:       location,
					SalaryMin:      changedFloat(cmd, "salary-min", salaryMin),
					SalaryMax:      changedFloat(cmd, "salary-max", salaryMax),
					EmploymentType: employmentType,
					Tags:           tags,
					Page:           page,
					Limit:          limit,
				})
				jobs, err := await(ctx, &c.Jobs.Jobs)
				if err != nil {
					return err
				}
				return renderJobs(jobs)
			})
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "location contains")
	cmd.Flags().Float64Var(&salaryMin, "salary-min", 0, "minimum salary")
	cmd.Flags().Float64Var(&salaryMax, "salary-max", 0, "maximum salary")
	cmd.Flags().StringVar(&employmentType, "type", "", "employment type")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated keywords")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	return cmd
}

func jobsRecommendedCmd() *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "recommended",
		Short: "List jobs matching your preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.LoadRecommendedJobs(page, limit)
				res, err := await(ctx, &c.Jobs.RecommendedJobs)
				if err != nil {
					return err
				}
				if res.Message != nil && !jsonOutput() {
					fmt.Println(*res.Message)
				}
				return render(res, func(tw table.Writer) { fillJobs(tw, res.Jobs) })
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	return cmd
}

func jobsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.LoadJobDetails(id)
				res, err := await(ctx, &c.Jobs.JobDetail)
				if err != nil {
					return err
				}
				return renderJob(res.Job)
			})
		},
	}
}

func jobsApplyCmd() *cobra.Command {
	var coverLetter string
	cmd := &cobra.Command{
		Use:   "apply <job-id>",
		Short: "Apply to a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.Apply(id, coverLetter)
				if _, err := await(ctx, &c.Jobs.ApplyJob); err != nil {
					return err
				}
				return renderMessage("Applied to job %d", id)
			})
		},
	}
	cmd.Flags().StringVar(&coverLetter, "cover-letter", "", "cover letter")
	return cmd
}

func jobsMineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List the jobs you posted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.LoadRecruiterJobs()
				jobs, err := await(ctx, &c.Jobs.Jobs)
				if err != nil {
					return err
				}
				return renderJobs(jobs)
			})
		},
	}
}

// jobFlags are the editable job fields shared by create and update.
type jobFlags struct {
	title, about, description, benefits, location, employmentType, status string
	salaryMin, salaryMax                                                    float64
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "job title")
	cmd.Flags().StringVar(&f.about, "about", "", "short summary")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.benefits, "benefits", "", "benefits")
	cmd.Flags().StringVar(&f.location, "location", "", "location")
	cmd.Flags().StringVar(&f.employmentType, "type", "", "employment type")
	cmd.Flags().Float64Var(&f.salaryMin, "salary-min", 0, "minimum salary")
	cmd.Flags().Float64Var(&f.salaryMax, "salary-max", 0, "maximum salary")
}

func jobsCreateCmd() *cobra.Command {
	var f jobFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.CreateJobPosting(linkedoutsdk.CreateJobRequest{
					Title:          f.title,
					About:          optionalString(f.about),
					Description:    f.description,
					SalaryMin:      changedFloat(cmd, "salary-min", f.salaryMin),
					SalaryMax:      changedFloat(cmd, "salary-max", f.salaryMax),
					Benefits:       optionalString(f.benefits),
					Location:       optionalString(f.location),
					EmploymentType: optionalString(f.employmentType),
				})
				res, err := await(ctx, &c.Jobs.CreateJob)
				if err != nil {
					return err
				}
				return renderJob(res.Job)
			})
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func jobsUpdateCmd() *cobra.Command {
	var f jobFlags
	cmd := &cobra.Command{
		Use:   "update <job-id>",
		Short: "Edit one of your jobs; only the flags you pass change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.UpdateJobPosting(id, linkedoutsdk.UpdateJobRequest{
					Title:          changedString(cmd, "title", f.title),
					About:          changedString(cmd, "about", f.about),
					Description:    changedString(cmd, "description", f.description),
					SalaryMin:      changedFloat(cmd, "salary-min", f.salaryMin),
					SalaryMax:      changedFloat(cmd, "salary-max", f.salaryMax),
					Benefits:       changedString(cmd, "benefits", f.benefits),
					Location:       changedString(cmd, "location", f.location),
					EmploymentType: changedString(cmd, "type", f.employmentType),
					Status:         changedString(cmd, "status", f.status),
				})
				res, err := await(ctx, &c.Jobs.UpdateJob)
				if err != nil {
					return err
				}
				c.Jobs.Wait()
				return renderJob(res.Job)
			})
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.status, "status", "", "active or closed")
	return cmd
}

func jobsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job-id>",
		Short: "Delete one of your jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.DeleteJobPosting(id)
				if _, err := await(ctx, &c.Jobs.DeleteJob); err != nil {
					return err
				}
				c.Jobs.Wait()
				if o := c.Jobs.Jobs.Get(); o != nil && o.IsSuccess() && !jsonOutput() {
					fmt.Printf("Job %d deleted; %d jobs remain\n", id, len(o.Data))
					return nil
				}
				return renderMessage("Job %d deleted", id)
			})
		},
	}
}

func jobsApplicantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "applicants <job-id>",
		Short: "List applicants of one of your jobs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				c.Jobs.LoadApplicants(id)
				res, err := await(ctx, &c.Jobs.Applicants)
				if err != nil {
					return err
				}
				return render(res, func(tw table.Writer) {
					tw.SetTitle(fmt.Sprintf("%s: %d applicants (pending %d, accepted %d, rejected %d)",
						res.Job.Title, res.Statistics["total"], res.Statistics[linkedoutsdk.StatusPending],
						res.Statistics[linkedoutsdk.StatusAccepted], res.Statistics[linkedoutsdk.StatusRejected]))
					tw.AppendHeader(table.Row{"Application", "Name", "Email", "Status", "Applied"})
					for _, a := range res.Applicants {
						tw.AppendRow(table.Row{a.ApplicationID, a.FullName, deref(a.SeekerEmail), a.ApplicationStatus, a.AppliedAt})
					}
				})
			})
		},
	}
}

func renderJobs(jobs []linkedoutsdk.Job) error {
	return render(jobs, func(tw table.Writer) { fillJobs(tw, jobs) })
}

func fillJobs(tw table.Writer, jobs []linkedoutsdk.Job) {
	tw.AppendHeader(table.Row{"ID", "Title", "Company", "Location", "Salary", "Status", "Match"})
	for _, j := range jobs {
		tw.AppendRow(table.Row{j.ID, j.Title, deref(j.CompanyName), deref(j.Location), salary(j), j.Status, deref(j.MatchScoreDisplay)})
	}
}

func renderJob(j linkedoutsdk.Job) error {
	return render(j, func(tw table.Writer) {
		tw.AppendHeader(table.Row{"Field", "Value"})
		tw.AppendRows([]table.Row{
			{"ID", j.ID},
			{"Title", j.Title},
			{"About", deref(j.About)},
			{"Description", j.Description},
			{"Company", deref(j.CompanyName)},
			{"Location", deref(j.Location)},
			{"Employment type", deref(j.EmploymentType)},
			{"Salary", salary(j)},
			{"Benefits", deref(j.Benefits)},
			{"Status", j.Status},
			{"Posted", j.CreatedAt},
		})
	})
}

func salary(j linkedoutsdk.Job) string {
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return fmt.Sprintf("%.0f - %.0f", *j.SalaryMin, *j.SalaryMax)
	case j.SalaryMin != nil:
		return fmt.Sprintf("from %.0f", *j.SalaryMin)
	case j.SalaryMax != nil:
		return fmt.Sprintf("up to %.0f", *j.SalaryMax)
	}
	return ""
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
