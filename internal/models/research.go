package models

type ResearchRequest struct {
	Company string `json:"company"`
	Role    string `json:"role,omitempty"`
}

type ResearchResult struct {
	Company            string   `json:"company"`
	Overview           string   `json:"overview"`
	Culture            string   `json:"culture"`
	RecentDevelopments []string `json:"recent_developments"`
	InterviewTips      []string `json:"interview_tips"`
}
