package viewmodel

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"linkedout/internal/outcome"
	linkedoutsdk "linkedout/sdk/go"
)

const defaultResumeName = "Resume.pdf"

// ProfileRepository is the repository surface used by ProfileViewModel.
type ProfileRepository interface {
	CurrentUser(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.ProfileData]
	UploadResume(ctx context.Context, f linkedoutsdk.File) <-chan outcome.Outcome[string]
	UploadProfileImage(ctx context.Context, f linkedoutsdk.File) <-chan outcome.Outcome[string]
	SignedURL(ctx context.Context, fileURL string) <-chan outcome.Outcome[string]
	SeekerApplications(ctx context.Context, status string, page, limit int) <-chan outcome.Outcome[linkedoutsdk.SeekerApplicationsResponse]
}

type ProfileViewModel struct {
	scope *Scope
	repo  ProfileRepository
	log   *zap.Logger

	Profile         Slot[linkedoutsdk.ProfileData]
	UploadResume    Slot[string]
	UploadImage     Slot[string]
	ProfileImageURL Slot[string]
	Applications    Slot[linkedoutsdk.SeekerApplicationsResponse]

	// ResumeFileName is the display name of the stored resume, empty if none.
	ResumeFileName Value[string]
}

func NewProfileViewModel(parent context.Context, repo ProfileRepository, log *zap.Logger) *ProfileViewModel {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileViewModel{scope: NewScope(parent), repo: repo, log: log}
}

// LoadProfile fetches the current user. On success it fetches a signed URL for
// the profile image or company logo and derives the resume file name.
func (vm *ProfileViewModel) LoadProfile() {
	launch(vm.scope, &vm.Profile, vm.repo.CurrentUser, func(p linkedoutsdk.ProfileData) {
		if u := imageURL(p.Profile); u != "" {
			vm.fetchImageURL(u)
		}
		if u := p.Profile.ResumeS3URL; u != nil && *u != "" {
			vm.ResumeFileName.Set(ResumeFileName(*u))
		}
	})
}

// UploadResumeFile uploads f and reloads the profile on success.
func (vm *ProfileViewModel) UploadResumeFile(f linkedoutsdk.File) {
	launch(vm.scope, &vm.UploadResume, func(ctx context.Context) <-chan outcome.Outcome[string] {
		return vm.repo.UploadResume(ctx, f)
	}, func(string) {
		vm.ResumeFileName.Set(f.Name)
		vm.LoadProfile()
	})
}

// UploadImageFile uploads f, fetches its signed URL and reloads the profile.
func (vm *ProfileViewModel) UploadImageFile(f linkedoutsdk.File) {
	launch(vm.scope, &vm.UploadImage, func(ctx context.Context) <-chan outcome.Outcome[string] {
		return vm.repo.UploadProfileImage(ctx, f)
	}, func(url string) {
		vm.fetchImageURL(url)
		vm.LoadProfile()
	})
}

// LoadApplications lists the seeker's applications; an empty status lists all.
func (vm *ProfileViewModel) LoadApplications(status string, page, limit int) {
	launch(vm.scope, &vm.Applications, func(ctx context.Context) <-chan outcome.Outcome[linkedoutsdk.SeekerApplicationsResponse] {
		return vm.repo.SeekerApplications(ctx, status, page, limit)
	}, nil)
}

func (vm *ProfileViewModel) ResetUploads() {
	vm.UploadResume.Reset()
	vm.UploadImage.Reset()
}

func (vm *ProfileViewModel) Wait()  { vm.scope.Wait() }
func (vm *ProfileViewModel) Close() { vm.scope.Close() }

func (vm *ProfileViewModel) fetchImageURL(fileURL string) {
	launch(vm.scope, &vm.ProfileImageURL, func(ctx context.Context) <-chan outcome.Outcome[string] {
		return vm.repo.SignedURL(ctx, fileURL)
	}, nil)
}

// imageURL picks the seeker picture or, for recruiters, the company logo.
func imageURL(p linkedoutsdk.UserProfile) string {
	if p.ProfileImageS3URL != nil && *p.ProfileImageS3URL != "" {
		return *p.ProfileImageS3URL
	}
	if p.CompanyLogoS3URL != nil {
		return *p.CompanyLogoS3URL
	}
	return ""
}

// ResumeFileName strips the directory and the upload timestamp prefix from a
// stored resume URL, e.g. .../resumes/1/1731936000000-cv.pdf becomes cv.pdf.
func ResumeFileName(fileURL string) string {
	name := fileURL[strings.LastIndex(fileURL, "/")+1:]
	if _, after, ok := strings.Cut(name, "-"); ok {
		name = after
	}
	if name == "" {
		return defaultResumeName
	}
	return name
}
