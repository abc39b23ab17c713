package models

import "time"

// Politician is the canonical politician record campaigns link against.
type Politician struct {
	ID               string     `db:"id" json:"id"`
	PoliticianID     string     `db:"politician_id" json:"politician_id"`
	Name             string     `db:"name" json:"name"`
	StateCode        string     `db:"state_code" json:"state_code"`
	LinkedCampaignID *string    `db:"linked_campaign_id" json:"linked_campaign_id"`
	PhotoURLLarge    string     `db:"photo_url_large" json:"photo_url_large"`
	PhotoURLMedium   string     `db:"photo_url_medium" json:"photo_url_medium"`
	PhotoURLTiny     string     `db:"photo_url_tiny" json:"photo_url_tiny"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// VolunteerTaskKindDuplicateCampaignAnalysis credits dedup review work.
const VolunteerTaskKindDuplicateCampaignAnalysis = "duplicate_campaign_analysis"

// VolunteerTask is an audit credit for admin work. Writes are best-effort.
type VolunteerTask struct {
	ID         string    `db:"id" json:"id"`
	VoterID    string    `db:"voter_id" json:"voter_id"`
	ActionKind string    `db:"action_kind" json:"action_kind"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
