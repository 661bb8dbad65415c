package ui

import (
	"errors"
	"net/http"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/upload"
)

// maxUploadSize bounds the multipart form kept in memory.
const maxUploadSize = 32 << 20

// HandleUpload renders the CSV upload form.
func (ui *UI) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ui.render(w, "upload", map[string]any{
		"Title":   "Upload - Hero Records",
		"Session": SessionFromContext(r.Context()),
	})
}

// HandleUploadPost checks the file locally and forwards it to the API.
func (ui *UI) HandleUploadPost(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title":   "Upload - Hero Records",
		"Session": SessionFromContext(r.Context()),
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		data["Error"] = "Choose a CSV file to upload"
		w.WriteHeader(http.StatusBadRequest)
		ui.render(w, "upload", data)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		data["Error"] = "Choose a CSV file to upload"
		w.WriteHeader(http.StatusBadRequest)
		ui.render(w, "upload", data)
		return
	}
	defer file.Close()

	if err := upload.CheckCSV(header.Filename, file); err != nil {
		ui.logger.Warn("upload rejected", "file", header.Filename, "error", err)
		if errors.Is(err, upload.ErrEmpty) {
			data["Error"] = "The file is empty"
		} else {
			data["Error"] = "Only CSV files can be uploaded"
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		ui.render(w, "upload", data)
		return
	}

	res, err := ui.api(r).UploadCSV(r.Context(), header.Filename, file)
	if err != nil {
		ui.logAPIError("upload failed", err, "file", header.Filename)
		data["Error"] = apiclient.ErrorMessage(err, "Upload failed")
		ui.render(w, "upload", data)
		return
	}

	ui.logger.Info("csv uploaded", "file", header.Filename, "imported", res.Imported)
	data["Imported"] = res.Imported
	data["File"] = header.Filename
	ui.render(w, "upload", data)
}
