package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"linkedout/internal/engine"
	linkedoutsdk "linkedout/sdk/go"
)

func registerFiles(r chi.Router, api huma.API, basePath string, e engine.Engine) {
	r.Post(path.Join(basePath, "upload/resume"), uploadHandler(e, engine.KindResume, "resume"))
	r.Post(path.Join(basePath, "upload/profile-image"), uploadHandler(e, engine.KindImage, "image"))
	r.Get("/files/*", serveFile(e))

	huma.Register(api, huma.Operation{
		OperationID: "signed-file-url",
		Method:      http.MethodGet,
		Path:        "/upload/file-url",
		Summary:     "Exchange a stored file URL for a time limited link",
		Tags:        []string{"files"},
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		FileURL string `query:"fileUrl" required:"true" minLength:"1"`
	}) (*envelope[linkedoutsdk.SignedURLResponse], error) {
		if _, authErr := principalFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		signed, ttl, err := e.SignedURL(ctx, input.FileURL)
		if err != nil {
			return nil, handleError(ctx, err)
		}
		return reply(linkedoutsdk.SignedURLResponse{SignedURL: signed, ExpiresIn: int(ttl.Seconds())}, ""), nil
	})
}

// uploadHandler accepts a multipart form with one file in field.
func uploadHandler(e engine.Engine, kind, field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		p, authErr := principalFromContext(ctx)
		if authErr != nil {
			respondStatusError(w, authErr)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, engine.MaxUploadBytes+1<<20)
		if err := r.ParseMultipartForm(engine.MaxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondStatusError(w, newAPIError(http.StatusRequestEntityTooLarge, "File is too large", nil))
				return
			}
			respondStatusError(w, newAPIError(http.StatusBadRequest, "Expected a multipart form", nil))
			return
		}
		defer r.MultipartForm.RemoveAll()
		file, header, err := r.FormFile(field)
		if err != nil {
			msg := fmt.Sprintf("No %s file provided", field)
			respondStatusError(w, newAPIError(http.StatusBadRequest, msg, []linkedoutsdk.ValidationError{{Msg: msg, Param: field, Location: "body"}}))
			return
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			respondStatusError(w, handleError(ctx, err))
			return
		}
		fileURL, err := e.StoreUpload(ctx, p, engine.Upload{
			Kind:        kind,
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
		if err != nil {
			respondStatusError(w, handleError(ctx, err))
			return
		}
		var res linkedoutsdk.FileUploadResponse
		msg := "Resume uploaded successfully"
		if kind == engine.KindResume {
			res.ResumeURL = &fileURL
		} else {
			res.ImageURL = &fileURL
			msg = "Image uploaded successfully"
		}
		respondJSON(w, http.StatusOK, linkedoutsdk.Envelope[linkedoutsdk.FileUploadResponse]{Success: true, Message: &msg, Data: &res})
	}
}

// serveFile streams a stored file when the sig query parameter grants access.
func serveFile(e engine.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := e.OpenFile(r.Context(), chi.URLParam(r, "*"), r.URL.Query().Get("sig"))
		if err != nil {
			respondStatusError(w, handleError(r.Context(), err))
			return
		}
		w.Header().Set("Content-Type", f.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": f.Name}))
		w.Header().Set("Cache-Control", "private, max-age=60")
		w.WriteHeader(http.StatusOK)
		w.Write(f.Data)
	}
}
