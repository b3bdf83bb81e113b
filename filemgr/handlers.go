package filemgr

import (
	"errors"
	"net/http"

	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	mgr *Manager
}

func NewHandlers(mgr *Manager) *Handlers {
	return &Handlers{mgr: mgr}
}

func uploadStatus(err error) int {
	if errors.Is(err, ErrInvalidExtension) || errors.Is(err, ErrFileTooLarge) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func kindFromParams(ps httprouter.Params) string {
	switch ps.ByName("kind") {
	case "cover":
		return "cover"
	default:
		return "photo"
	}
}

// Upload stores a single image from the "file" form field.
func (h *Handlers) Upload(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}
	name, err := h.mgr.Save(file, header, kindFromParams(ps))
	if err != nil {
		utils.RespondWithError(w, uploadStatus(err), err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"fileName": name})
}

// UploadMultiple stores every image in the "files" form field; a bad file
// fails the whole request so the client never gets a partial list silently.
func (h *Handlers) UploadMultiple(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "files field is required")
		return
	}

	kind := kindFromParams(ps)
	names := []string{}
	for _, header := range headers {
		if !utils.ValidateImageFileType(w, header) {
			return
		}
		file, err := header.Open()
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "unreadable file "+header.Filename)
			return
		}
		name, err := h.mgr.Save(file, header, kind)
		file.Close()
		if err != nil {
			utils.RespondWithError(w, uploadStatus(err), err.Error())
			return
		}
		names = append(names, name)
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"fileNames": names})
}
