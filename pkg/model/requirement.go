package model

// Requirement is a single requirement extracted from the SRS.
// ElementID is map-scoped ("REQ-001"); ReferenceID is the identifier the
// document itself uses, when one exists (e.g. "F-REQ-12"), and is what keeps
// an element stable across incremental updates.
type Requirement struct {
	BaselineMapID string `gorm:"column:baseline_map_id;primaryKey" json:"-"`
	ElementID     string `gorm:"column:element_id;primaryKey" json:"id"`
	ReferenceID   string `gorm:"column:reference_id" json:"reference_id,omitempty"`
	Title         string `gorm:"column:title;not null" json:"title"`
	Description   string `gorm:"column:description" json:"description"`
	Type          string `gorm:"column:type" json:"type"`
	Priority      string `gorm:"column:priority" json:"priority"`
	Section       string `gorm:"column:section" json:"section"`
}

func (Requirement) TableName() string {
	return "requirements"
}
