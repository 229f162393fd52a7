package models

import "math"

// Report is the per-campaign delivery summary. It is derived from recipient
// rows on read; the reports table is only a worker-maintained cache.
type Report struct {
	CampaignID   string         `json:"campaign_id" db:"campaign_id"`
	CampaignName string         `json:"campaign_name" db:"campaign_name"`
	Status       CampaignStatus `json:"status" db:"status"`
	Total        int            `json:"total" db:"total"`
	Delivered    int            `json:"delivered" db:"delivered"`
	Failed       int            `json:"failed" db:"failed"`
	Pending      int            `json:"pending" db:"pending"`
	SuccessRate  float64        `json:"success_rate" db:"success_rate"`
}

// ReportSummary is the rolled-up total across all of an owner's campaigns.
type ReportSummary struct {
	Campaigns   int     `json:"campaigns"`
	Total       int     `json:"total"`
	Delivered   int     `json:"delivered"`
	Failed      int     `json:"failed"`
	Pending     int     `json:"pending"`
	SuccessRate float64 `json:"success_rate"`
}

// SuccessRate returns delivered/total as a percentage rounded to two
// decimals. A zero total yields 0, never NaN.
func SuccessRate(delivered, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(delivered)/float64(total)*100*100) / 100
}
