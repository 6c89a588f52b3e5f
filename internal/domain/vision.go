package domain

import "time"

// VisionItem is one tile on the vision board. The actual image resides in
// object storage under ImageKey; the record carries only metadata.
type VisionItem struct {
	ID          string    `bson:"id" json:"id"`
	Caption     string    `bson:"caption" json:"caption"`
	ImageKey    string    `bson:"imageKey,omitempty" json:"-"` // storage object key, internal use
	ContentType string    `bson:"contentType,omitempty" json:"contentType,omitempty"`
	Position    int       `bson:"position" json:"position"`
	UploadedAt  time.Time `bson:"uploadedAt,omitempty" json:"uploadedAt,omitempty"`
}

// VisionBoard is the vision-board record for one user.
type VisionBoard struct {
	Items       []VisionItem `bson:"items" json:"items"`
	LastUpdated time.Time    `bson:"lastUpdated" json:"lastUpdated"`
}

// Normalize fills nil collections on a loaded record.
func (b *VisionBoard) Normalize() *VisionBoard {
	if b.Items == nil {
		b.Items = []VisionItem{}
	}
	return b
}

// FindItem returns a pointer into the board's item list, or nil.
func (b *VisionBoard) FindItem(id string) *VisionItem {
	for i := range b.Items {
		if b.Items[i].ID == id {
			return &b.Items[i]
		}
	}
	return nil
}
