// model/document.go
package model

import "time"

// Document is an ingested upload. Filename is content-addressed
// (<md5-hex>.<ext>), so identical bytes share one stored file while each
// upload event still gets its own record. TranslatedContent equals
// Content when no translation was applied. Immutable after creation.
type Document struct {
	ID                int64     `json:"id"`
	Filename          string    `json:"filename"`
	FilePath          string    `json:"file_path"`
	FileType          string    `json:"file_type"`
	Content           string    `json:"content"`
	TranslatedContent string    `json:"translated_content"`
	UploaderID        int64     `json:"uploader_id"`
	UploadTime        time.Time `json:"upload_time"`
}
