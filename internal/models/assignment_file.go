package models

// File categories.
const (
	FileCategoryAttachment = "ATTACHMENT"
	FileCategoryTemplate   = "TEMPLATE"
	FileCategoryReference  = "REFERENCE"
)

// AssignmentFile records an uploaded file. AssignmentID is nil for files not yet attached.
type AssignmentFile struct {
	BaseModel

	AssignmentID     *string `gorm:"type:uuid;index" json:"assignment_id,omitempty"`
	FileName         string  `gorm:"not null;size:255" json:"file_name"`
	OriginalFileName string  `gorm:"size:255" json:"original_file_name"`
	FilePath         string  `gorm:"not null" json:"file_path"`
	FileSize         int64   `json:"file_size"`
	MimeType         string  `gorm:"size:100" json:"mime_type"`
	FileCategory     string  `gorm:"size:20;default:'ATTACHMENT'" json:"file_category"`
	UploadedBy       string  `gorm:"type:uuid;index" json:"uploaded_by"`
}
