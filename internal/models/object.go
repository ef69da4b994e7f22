package models

import "time"

type StoredObject struct {
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type UploadPhotoResponse struct {
	PhotoRef string    `json:"photo_ref"`
	Sync     SyncState `json:"sync"`
}
