package types

import (
	"time"

	"gorm.io/datatypes"
)

// Paper is the catalog row for one ingested document. The graph store keeps
// its own Paper node keyed by the same paper_id; the catalog is the flat
// listing used for enumeration.
type Paper struct {
	PaperID    string         `gorm:"column:paper_id;type:uuid;primaryKey" json:"paper_id"`
	Filename   string         `gorm:"column:filename;not null" json:"filename"`
	Title      string         `gorm:"column:title;not null" json:"title"`
	Authors    string         `gorm:"column:authors" json:"authors,omitempty"`
	Year       string         `gorm:"column:year" json:"year,omitempty"`
	Journal    string         `gorm:"column:journal" json:"journal,omitempty"`
	UploadDate time.Time      `gorm:"column:upload_date;not null" json:"upload_date"`
	TextLength int            `gorm:"column:text_length" json:"text_length"`
	Extra      datatypes.JSON `gorm:"column:extra" json:"extra,omitempty"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (Paper) TableName() string { return "paper" }

// PaperResult is one ranked hit from paper search.
type PaperResult struct {
	PaperID     string `json:"paper_id"`
	Title       string `json:"title"`
	Authors     string `json:"authors,omitempty"`
	Year        string `json:"year,omitempty"`
	Journal     string `json:"journal,omitempty"`
	Filename    string `json:"filename,omitempty"`
	UploadDate  string `json:"upload_date,omitempty"`
	TextSnippet string `json:"text_snippet"`
}

// FileOutcome reports one file's result from directory processing. Outcomes
// are independent; a failed file never aborts the batch.
type FileOutcome struct {
	Filename string `json:"filename"`
	PaperID  string `json:"paper_id,omitempty"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
}
