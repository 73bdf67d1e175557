package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/helpers"
	"github.com/Learnathon-By-Geeky-Solutions/momentum/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const maxMultipartMemory = 32 << 20

type UploadHandler struct {
	render  *render.Render
	uploads *services.UploadService
	log     *zap.Logger
}

func NewUploadHandler(rnd *render.Render, uploads *services.UploadService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{render: rnd, uploads: uploads, log: log}
}

type uploadResponse struct {
	Message string   `json:"message"`
	URLs    []string `json:"urls"`
}

// Upload stores every part of the "files" field; the same handler serves
// replacement uploads on PATCH.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.render.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "expected multipart form with files"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			h.render.JSON(w, http.StatusUnprocessableEntity, errorBody{Detail: "unreadable file " + fh.Filename})
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)

		files = append(files, services.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
	}

	urls, err := h.uploads.Upload(r.Context(), user, mux.Vars(r)["type"], files)
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}

	msg := "Files uploaded successfully"
	if r.Method == http.MethodPatch {
		msg = "Files updated successfully"
	}
	h.render.JSON(w, http.StatusOK, uploadResponse{Message: msg, URLs: urls})
}

func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := helpers.UserFromRequest(r)
	vars := mux.Vars(r)

	removed, err := h.uploads.DeleteProductFile(r.Context(), user, vars["type"], vars["file_name"])
	if err != nil {
		WriteError(w, r, h.render, h.log, err)
		return
	}
	h.render.JSON(w, http.StatusOK, Message{Message: "File '" + removed + "' deleted successfully"})
}
