package requestresponse

import "time"

// UploadURLRequest : запрос pre-signed URL для загрузки файла
type UploadURLRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=127"`
	CourseID    string `json:"course_id,omitempty" validate:"omitempty,uuid"`
}

type UploadURLData struct {
	MediaID   string    `json:"media_id"`
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MediaData struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	CourseID    *string   `json:"course_id,omitempty"`
	DownloadURL string    `json:"download_url"`
	CreatedAt   time.Time `json:"created_at"`
}
