package engine

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"linkedout/internal/domain"
	"linkedout/internal/engine/auth"
	"linkedout/internal/events"
	"linkedout/internal/onboarding"
)

// MaxUploadBytes caps a single uploaded file.
const MaxUploadBytes = 5 << 20

const (
	KindResume = "resumes"
	KindImage  = "images"
)

// Upload is a received file.
type Upload struct {
	Kind        string
	Name        string
	ContentType string
	Data        []byte
}

// StoreUpload saves the file, points the caller's profile at it and returns its URL.
// Recruiter images become the company logo.
func (e Engine) StoreUpload(ctx context.Context, p auth.Principal, up Upload) (string, error) {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(up.Name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "", invalid("file", "File name is required")
	}
	if len(up.Data) == 0 {
		return "", invalid("file", "File is empty")
	}
	if len(up.Data) > MaxUploadBytes {
		return "", invalid("file", "File must be at most %d MB", MaxUploadBytes>>20)
	}
	switch up.Kind {
	case KindResume:
		if err := requireSeeker(p, "Only job seekers can upload a resume"); err != nil {
			return "", err
		}
		if up.ContentType != "application/pdf" && !strings.EqualFold(path.Ext(name), ".pdf") {
			return "", invalid("resume", "Resume must be a PDF")
		}
		up.ContentType = "application/pdf"
	case KindImage:
		if !strings.HasPrefix(up.ContentType, "image/") {
			return "", invalid("image", "Only image files are allowed")
		}
	default:
		return "", fmt.Errorf("unknown upload kind %q", up.Kind)
	}
	now := e.now().UTC()
	f := domain.StoredFile{
		Path:        fmt.Sprintf("%s/%d/%d-%s", up.Kind, p.UserID, now.UnixMilli(), name),
		OwnerID:     p.UserID,
		Kind:        up.Kind,
		Name:        name,
		ContentType: up.ContentType,
		Data:        up.Data,
		CreatedAt:   now.Format(time.RFC3339),
	}
	fileURL := e.fileURL(f.Path)
	err := e.withTx(ctx, func(tx *sql.Tx) error {
		prof, err := e.Repo.GetProfileTx(ctx, tx, p.UserID)
		if err != nil {
			return err
		}
		if err := e.Repo.PutFile(ctx, tx, f); err != nil {
			return fmt.Errorf("store file: %w", err)
		}
		switch {
		case up.Kind == KindResume:
			prof.ResumeURL = &fileURL
		case p.UserType == string(onboarding.RoleRecruiter):
			prof.CompanyLogoURL = &fileURL
		default:
			prof.ProfileImageURL = &fileURL
		}
		prof.UpdatedAt = f.CreatedAt
		if err := e.Repo.UpdateProfile(ctx, tx, prof); err != nil {
			return err
		}
		return e.Events.Append(ctx, tx, "file.upload", "profile", prof.ID, p.UserID, events.EventPayload{"path": f.Path, "size": len(f.Data)})
	})
	if err != nil {
		return "", err
	}
	return fileURL, nil
}

// SignedURL exchanges a stored file URL for a link valid for SignedURLTTL.
func (e Engine) SignedURL(ctx context.Context, fileURL string) (string, time.Duration, error) {
	filePath, ok := e.filePath(fileURL)
	if !ok {
		return "", 0, invalid("fileUrl", "File URL is not served by this backend")
	}
	if _, err := e.Repo.GetFile(ctx, filePath); err != nil {
		return "", 0, err
	}
	ttl := e.SignedURLTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	sig, _, err := e.Auth.SignFile(filePath, ttl)
	if err != nil {
		return "", 0, err
	}
	return e.fileURL(filePath) + "?sig=" + url.QueryEscape(sig), ttl, nil
}

// OpenFile returns the stored file when sig grants access to it.
func (e Engine) OpenFile(ctx context.Context, filePath, sig string) (domain.StoredFile, error) {
	if err := e.Auth.VerifyFile(filePath, sig); err != nil {
		return domain.StoredFile{}, auth.ForbiddenError{Reason: "Invalid or expired file link"}
	}
	return e.Repo.GetFile(ctx, filePath)
}

func (e Engine) fileURL(filePath string) string {
	return e.PublicURL + "/files/" + filePath
}

func (e Engine) filePath(fileURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(fileURL))
	if err != nil {
		return "", false
	}
	prefix := "/files/"
	if e.PublicURL != "" {
		base, err := url.Parse(e.PublicURL)
		if err != nil {
			return "", false
		}
		if u.Host != "" && !strings.EqualFold(u.Host, base.Host) {
			return "", false
		}
		prefix = strings.TrimRight(base.Path, "/") + prefix
	}
	rest, ok := strings.CutPrefix(u.Path, prefix)
	if !ok || rest == "" {
		return "", false
	}
	return rest, true
}
