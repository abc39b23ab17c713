package models

import "time"

// Campaign is the merge subject. CampaignID is the permanent identifier
// assigned by the identity allocator; dependent rows reference it, never the
// row id.
type Campaign struct {
	ID         string `db:"id" json:"id"`
	CampaignID string `db:"campaign_id" json:"campaign_id"`

	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`

	// YYYYMMDD integers, 0 when unset
	StartDate int `db:"start_date" json:"start_date"`
	EndDate   int `db:"end_date" json:"end_date"`

	InDraftMode       bool   `db:"in_draft_mode" json:"in_draft_mode"`
	IsActive          bool   `db:"is_active" json:"is_active"`
	IsBlocked         bool   `db:"is_blocked" json:"is_blocked"`
	BlockedReason     string `db:"blocked_reason" json:"blocked_reason"`
	InReviewMode      bool   `db:"in_review_mode" json:"in_review_mode"`
	IsNotPromoted     bool   `db:"is_not_promoted" json:"is_not_promoted"`
	NotPromotedReason string `db:"not_promoted_reason" json:"not_promoted_reason"`
	OkToPromote       bool   `db:"ok_to_promote" json:"ok_to_promote"`
	IsVictorious      bool   `db:"is_victorious" json:"is_victorious"`

	PoliticianID          *string `db:"politician_id" json:"politician_id"`
	PoliticianStarterList string  `db:"politician_starter_list" json:"politician_starter_list"`

	StateCode        string `db:"state_code" json:"state_code"`
	StartedByVoterID string `db:"started_by_voter_id" json:"started_by_voter_id"`

	// Globally unique among live campaigns. Must be cleared on the loser
	// before the survivor adopts it.
	SEOFriendlyPath *string `db:"seo_friendly_path" json:"seo_friendly_path"`

	PhotoOriginalURL      string `db:"photo_original_url" json:"photo_original_url"`
	PhotoLargeURL         string `db:"photo_large_url" json:"photo_large_url"`
	PhotoMediumURL        string `db:"photo_medium_url" json:"photo_medium_url"`
	PhotoSmallURL         string `db:"photo_small_url" json:"photo_small_url"`
	ProfileImageLargeURL  string `db:"profile_image_large_url" json:"profile_image_large_url"`
	ProfileImageMediumURL string `db:"profile_image_medium_url" json:"profile_image_medium_url"`
	ProfileImageTinyURL   string `db:"profile_image_tiny_url" json:"profile_image_tiny_url"`

	ParticipantsCount       int  `db:"participants_count" json:"participants_count"`
	OpposersCount           int  `db:"opposers_count" json:"opposers_count"`
	ParticipantsVictoryGoal int  `db:"participants_victory_goal" json:"participants_victory_goal"`
	CountMinimumIgnored     bool `db:"count_minimum_ignored" json:"count_minimum_ignored"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// HasPolitician reports whether the campaign is hard-linked to a politician.
func (c *Campaign) HasPolitician() bool {
	return c.PoliticianID != nil && *c.PoliticianID != ""
}
