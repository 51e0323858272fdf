package models

import (
	"time"
)

// BlobRecord stores one named JSON blob per owner, mirroring the
// key-value layout used by the embedded stores.
type BlobRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Owner     string    `gorm:"not null;uniqueIndex:idx_blob_owner_name" json:"owner"`
	Name      string    `gorm:"not null;uniqueIndex:idx_blob_owner_name" json:"name"`
	Data      []byte    `gorm:"type:bytea;not null" json:"-"`
}

// TableName pins the table name independent of gorm's pluralizer.
func (BlobRecord) TableName() string {
	return "score_blobs"
}
