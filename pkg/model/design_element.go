package model

// DesignElement is a design artifact extracted from the SDD: a class,
// component, module, interface, UI element, or similar.
type DesignElement struct {
	BaselineMapID string `gorm:"column:baseline_map_id;primaryKey" json:"-"`
	ElementID     string `gorm:"column:element_id;primaryKey" json:"id"`
	ReferenceID   string `gorm:"column:reference_id" json:"reference_id,omitempty"`
	Name          string `gorm:"column:name;not null" json:"name"`
	Description   string `gorm:"column:description" json:"description"`
	Type          string `gorm:"column:type" json:"type"`
	Section       string `gorm:"column:section" json:"section"`
}

func (DesignElement) TableName() string {
	return "design_elements"
}
