package model

import "time"

// BaselineMap is the root record of a traceability map for one
// repository+branch pair. Child artifacts and links are loaded and saved
// through the store, not through gorm associations.
type BaselineMap struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	Repository string    `gorm:"column:repository;not null" json:"repository"`
	Branch     string    `gorm:"column:branch;not null" json:"branch"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Requirements   []Requirement      `gorm:"-" json:"requirements"`
	DesignElements []DesignElement    `gorm:"-" json:"design_elements"`
	CodeComponents []CodeComponent    `gorm:"-" json:"code_components"`
	Links          []TraceabilityLink `gorm:"-" json:"traceability_links"`
}

func (BaselineMap) TableName() string {
	return "baseline_maps"
}
