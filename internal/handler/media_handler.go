package handler

import (
	"net/http"

	"lms-platform/internal/model/requestresponse"
	"lms-platform/internal/ports"
	"lms-platform/internal/security"
	"lms-platform/internal/util"
)

type MediaHandler struct {
	mediaService ports.MediaService
}

func NewMediaHandler(mediaService ports.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// CreateUploadURL : POST /media/upload-url, файл клиент загружает сам по выданной ссылке
func (h *MediaHandler) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	identity, _ := security.IdentityFromContext(r.Context())

	var req requestresponse.UploadURLRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.HandleError(w, r, err)
		return
	}

	ticket, err := h.mediaService.CreateUploadURL(r.Context(), identity, req.Filename, req.ContentType, req.CourseID)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	util.WriteJSON(w, r, http.StatusCreated, "CREATED", "upload url issued", requestresponse.UploadURLData{
		MediaID:   ticket.Media.UUID,
		UploadURL: ticket.UploadURL,
		Method:    ticket.Method,
		ExpiresAt: ticket.ExpiresAt,
	})
}

func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	identity, _ := security.IdentityFromContext(r.Context())
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	media, downloadURL, err := h.mediaService.GetMedia(r.Context(), identity, id)
	if err != nil {
		util.HandleError(w, r, err)
		return
	}

	util.WriteJSON(w, r, http.StatusOK, "OK", "", requestresponse.MediaData{
		ID:          media.UUID,
		Filename:    media.Filename,
		ContentType: media.ContentType,
		CourseID:    media.CourseUUID,
		DownloadURL: downloadURL,
		CreatedAt:   media.CreatedAt,
	})
}

// DeleteMedia : DELETE /media/{id}, объект в хранилище удаляется вместе с метаданными
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	identity, _ := security.IdentityFromContext(r.Context())
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := h.mediaService.DeleteMedia(r.Context(), identity, id); err != nil {
		util.HandleError(w, r, err)
		return
	}
	util.WriteJSON(w, r, http.StatusOK, "OK", "media deleted", nil)
}
