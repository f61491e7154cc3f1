package model

import "time"

// Recommendation is a 4W documentation-update suggestion produced for a pull
// request: what to update, where, why, and how.
type Recommendation struct {
	ID                  string    `gorm:"column:id;primaryKey" json:"id"`
	Repository          string    `gorm:"column:repository;not null" json:"repository"`
	PRNumber            int       `gorm:"column:pr_number;not null" json:"pr_number"`
	TargetDocument      string    `gorm:"column:target_document;not null" json:"target_document"`
	Section             string    `gorm:"column:section" json:"section"`
	RecommendationType  string    `gorm:"column:recommendation_type" json:"recommendation_type"`
	Priority            string    `gorm:"column:priority" json:"priority"`
	WhatToUpdate        string    `gorm:"column:what_to_update" json:"what_to_update"`
	WhereToUpdate       string    `gorm:"column:where_to_update" json:"where_to_update"`
	WhyUpdateNeeded     string    `gorm:"column:why_update_needed" json:"why_update_needed"`
	HowToUpdate         string    `gorm:"column:how_to_update" json:"how_to_update"`
	SuggestedContent    string    `gorm:"column:suggested_content" json:"suggested_content,omitempty"`
	AffectedElementID   string    `gorm:"column:affected_element_id" json:"affected_element_id,omitempty"`
	AffectedElementType string    `gorm:"column:affected_element_type" json:"affected_element_type,omitempty"`
	Confidence          float64   `gorm:"column:confidence" json:"confidence"`
	Status              string    `gorm:"column:status;not null" json:"status"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}
