package model

import "time"

// WorkflowRun records one execution of a workflow for status reporting.
type WorkflowRun struct {
	ID          string     `gorm:"column:id;primaryKey" json:"id"`
	Workflow    string     `gorm:"column:workflow;not null" json:"workflow"`
	Repository  string     `gorm:"column:repository;not null" json:"repository"`
	Branch      string     `gorm:"column:branch" json:"branch,omitempty"`
	PRNumber    *int       `gorm:"column:pr_number" json:"pr_number,omitempty"`
	Status      string     `gorm:"column:status;not null" json:"status"`
	CurrentStep string     `gorm:"column:current_step" json:"current_step,omitempty"`
	Error       string     `gorm:"column:error" json:"error,omitempty"`
	StartedAt   time.Time  `gorm:"column:started_at;autoCreateTime" json:"started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (WorkflowRun) TableName() string {
	return "workflow_runs"
}
