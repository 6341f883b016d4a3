package model

import "time"

type Media struct {
	UUID        string    `db:"uuid" json:"id"`
	OwnerUUID   string    `db:"owner_uuid" json:"owner_id"`
	CourseUUID  *string   `db:"course_uuid" json:"course_id,omitempty"`
	Filename    string    `db:"filename" json:"filename"`
	ContentType string    `db:"content_type" json:"content_type"`
	StorageKey  string    `db:"storage_key" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// UploadTicket : результат запроса на загрузку
type UploadTicket struct {
	Media     *Media
	UploadURL string
	Method    string
	ExpiresAt time.Time
}
