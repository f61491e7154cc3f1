package model

// TraceabilityLink is a typed, directed relationship between two artifacts of
// the same baseline map. Source and target are element ids qualified by an
// artifact type.
type TraceabilityLink struct {
	BaselineMapID    string `gorm:"column:baseline_map_id;primaryKey" json:"-"`
	LinkID           string `gorm:"column:link_id;primaryKey" json:"id"`
	SourceType       string `gorm:"column:source_type;not null" json:"source_type"`
	SourceID         string `gorm:"column:source_id;not null" json:"source_id"`
	TargetType       string `gorm:"column:target_type;not null" json:"target_type"`
	TargetID         string `gorm:"column:target_id;not null" json:"target_id"`
	RelationshipType string `gorm:"column:relationship_type;not null" json:"relationship_type"`
}

func (TraceabilityLink) TableName() string {
	return "traceability_links"
}
