package repository

import (
	"context"

	"linkedout/internal/outcome"
	linkedoutsdk "linkedout/sdk/go"
)

// UploadResume yields the stored resume URL.
func (r *Repository) UploadResume(ctx context.Context, f linkedoutsdk.File) <-chan outcome.Outcome[string] {
	return run(ctx, r, step[linkedoutsdk.FileUploadResponse, string]{
		useCase: UploadResume,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.FileUploadResponse], error) {
			return r.api.UploadResume(ctx, f)
		},
		extract: func(env linkedoutsdk.Envelope[linkedoutsdk.FileUploadResponse]) (string, bool) {
			if env.Data == nil || env.Data.ResumeURL == nil {
				return "", false
			}
			return *env.Data.ResumeURL, true
		},
	})
}

// UploadProfileImage yields the stored image URL.
func (r *Repository) UploadProfileImage(ctx context.Context, f linkedoutsdk.File) <-chan outcome.Outcome[string] {
	return run(ctx, r, step[linkedoutsdk.FileUploadResponse, string]{
		useCase: UploadProfileImage,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.FileUploadResponse], error) {
			return r.api.UploadProfileImage(ctx, f)
		},
		extract: func(env linkedoutsdk.Envelope[linkedoutsdk.FileUploadResponse]) (string, bool) {
			if env.Data == nil || env.Data.ImageURL == nil {
				return "", false
			}
			return *env.Data.ImageURL, true
		},
	})
}

// SignedURL yields a time-limited URL for a stored file.
func (r *Repository) SignedURL(ctx context.Context, fileURL string) <-chan outcome.Outcome[string] {
	return run(ctx, r, step[linkedoutsdk.SignedURLResponse, string]{
		useCase: SignedURL,
		call: func(ctx context.Context) (linkedoutsdk.Envelope[linkedoutsdk.SignedURLResponse], error) {
			return r.api.SignedURL(ctx, fileURL)
		},
		extract: func(env linkedoutsdk.Envelope[linkedoutsdk.SignedURLResponse]) (string, bool) {
			if env.Data == nil || env.Data.SignedURL == "" {
				return "", false
			}
			return env.Data.SignedURL, true
		},
	})
}
