package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sushihentaime/inkwell/internal/common"
	"github.com/sushihentaime/inkwell/internal/uploadservice"
)

// uploadImageHandler stores the multipart field "image" and returns its URL.
func (app *application) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	// leave room for the multipart envelope around the file itself
	r.Body = http.MaxBytesReader(w, r.Body, uploadservice.MaxImageSize+1<<20)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			app.failedValidationErrorResponse(w, r, map[string]string{"image": fmt.Sprintf("must not be larger than %d bytes", uploadservice.MaxImageSize)})
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			app.failedValidationErrorResponse(w, r, map[string]string{"image": "must be provided"})
		default:
			app.badRequestErrorResponse(w, r, err)
		}
		return
	}
	defer file.Close()

	url, err := app.uploadService.UploadImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		var vErr common.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.failedValidationErrorResponse(w, r, vErr.Errors)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"url": url}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
}
