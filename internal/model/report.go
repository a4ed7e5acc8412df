package model

import "time"

// Report is one PDF document listed by the analyzer view.
type Report struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags"`
}

// KPISummary is the headline resource strip shown on the overview.
type KPISummary struct {
	CPU    float64 `json:"cpu"`
	RAM    float64 `json:"ram"`
	Disk   float64 `json:"disk"`
	Alerts int     `json:"alerts"`
}
