package models

import "time"

// CampaignOwner links an organization or voter that manages a campaign. A
// row duplicates another under the same campaign when either its
// organization_id or its voter_id already appears there.
type CampaignOwner struct {
	ID               string    `db:"id" json:"id"`
	CampaignID       string    `db:"campaign_id" json:"campaign_id"`
	OrganizationID   string    `db:"organization_id" json:"organization_id"`
	OrganizationName string    `db:"organization_name" json:"organization_name"`
	VoterID          string    `db:"voter_id" json:"voter_id"`
	FeatureProfile   bool      `db:"feature_profile" json:"feature_profile"`
	VisibleToPublic  bool      `db:"visible_to_public" json:"visible_to_public"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// CampaignParticipant records a voter, or an organization acting as one,
// who joined a campaign. Duplicate under one campaign when either identity
// already participates.
type CampaignParticipant struct {
	ID              string    `db:"id" json:"id"`
	CampaignID      string    `db:"campaign_id" json:"campaign_id"`
	VoterID         string    `db:"voter_id" json:"voter_id"`
	OrganizationID  string    `db:"organization_id" json:"organization_id"`
	ParticipantName string    `db:"participant_name" json:"participant_name"`
	InvitesSent     int       `db:"invites_sent" json:"invites_sent"`
	VisibleToPublic bool      `db:"visible_to_public" json:"visible_to_public"`
	JoinedAt        time.Time `db:"joined_at" json:"joined_at"`
}

// CampaignPolitician links a campaign to the politician it supports.
// Natural key: politician_id. Rows with an empty politician_id carry no
// information and are always dropped during a merge.
type CampaignPolitician struct {
	ID             string    `db:"id" json:"id"`
	CampaignID     string    `db:"campaign_id" json:"campaign_id"`
	PoliticianID   string    `db:"politician_id" json:"politician_id"`
	PoliticianName string    `db:"politician_name" json:"politician_name"`
	StateCode      string    `db:"state_code" json:"state_code"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CampaignNewsItem is an update posted to a campaign feed. No natural key;
// rows move wholesale on merge.
type CampaignNewsItem struct {
	ID              string    `db:"id" json:"id"`
	CampaignID      string    `db:"campaign_id" json:"campaign_id"`
	Subject         string    `db:"subject" json:"subject"`
	Body            string    `db:"body" json:"body"`
	InDraftMode     bool      `db:"in_draft_mode" json:"in_draft_mode"`
	VisibleToPublic bool      `db:"visible_to_public" json:"visible_to_public"`
	VoterID         string    `db:"voter_id" json:"voter_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CampaignSEOFriendlyPath is a historical vanity path. Paths are globally
// unique so loser rows move wholesale without collision checks.
type CampaignSEOFriendlyPath struct {
	ID               string    `db:"id" json:"id"`
	CampaignID       string    `db:"campaign_id" json:"campaign_id"`
	FinalPathname    string    `db:"final_pathname" json:"final_pathname"`
	BasePathname     string    `db:"base_pathname" json:"base_pathname"`
	PathnameModifier string    `db:"pathname_modifier" json:"pathname_modifier"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// CampaignOrganizationListing records a site-owner organization that lists
// the campaign. Natural key: site_owner_organization_id.
type CampaignOrganizationListing struct {
	ID                      string    `db:"id" json:"id"`
	CampaignID              string    `db:"campaign_id" json:"campaign_id"`
	SiteOwnerOrganizationID string    `db:"site_owner_organization_id" json:"site_owner_organization_id"`
	VisibleToPublic         bool      `db:"visible_to_public" json:"visible_to_public"`
	CreatedAt               time.Time `db:"created_at" json:"created_at"`
}
