package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"linkedout/internal/app"
	"linkedout/internal/outcome"
	linkedoutsdk "linkedout/sdk/go"
)

func uploadCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "upload", Short: "Upload a resume or profile image"}
	cmd.AddCommand(&cobra.Command{
		Use:   "resume <file.pdf>",
		Short: "Upload your resume (PDF)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return uploadFile(cmd.Context(), args[0], "application/pdf", true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "image <file>",
		Short: "Upload a profile image (company logo for recruiters)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return uploadFile(cmd.Context(), args[0], linkedoutsdk.ImageContentType(args[0]), false)
		},
	})
	return cmd
}

func uploadFile(ctx context.Context, path, contentType string, resume bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	file := linkedoutsdk.File{Name: filepath.Base(path), ContentType: contentType, Body: f}
	return withClient(ctx, func(ctx context.Context, c *app.Client) error {
		var (
			fileURL string
			err     error
		)
		if resume {
			c.Profile.UploadResumeFile(file)
			fileURL, err = await(ctx, &c.Profile.UploadResume)
		} else {
			c.Profile.UploadImageFile(file)
			fileURL, err = await(ctx, &c.Profile.UploadImage)
		}
		if err != nil {
			return err
		}
		c.Profile.Wait()
		if name := c.Profile.ResumeFileName.Get(); resume && name != "" {
			return renderMessage("Uploaded %s: %s", name, fileURL)
		}
		return renderMessage("Uploaded: %s", fileURL)
	})
}

func fileURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "file-url <url>",
		Short: "Exchange a stored file URL for a time limited link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), func(ctx context.Context, c *app.Client) error {
				last, ok := outcome.Last(c.Repository.SignedURL(ctx, args[0]))
				if !ok {
					return fmt.Errorf("no response")
				}
				u, err := result(last)
				if err != nil {
					return err
				}
				return renderMessage("%s", u)
			})
		},
	}
}
