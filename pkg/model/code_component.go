package model

// CodeComponent is a source-level artifact, identified by its repository path.
type CodeComponent struct {
	BaselineMapID string `gorm:"column:baseline_map_id;primaryKey" json:"-"`
	ElementID     string `gorm:"column:element_id;primaryKey" json:"id"`
	Path          string `gorm:"column:path;not null" json:"path"`
	Name          string `gorm:"column:name" json:"name"`
	Type          string `gorm:"column:type" json:"type"`
}

func (CodeComponent) TableName() string {
	return "code_components"
}
