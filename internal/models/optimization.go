package models

type OptimizeRequest struct {
	CVText         string `json:"cv_text"`
	JobDescription string `json:"job_description"`
}

type OptimizationResult struct {
	OptimizedText  string   `json:"optimized_text"`
	ChangesSummary []string `json:"changes_summary"`
}
