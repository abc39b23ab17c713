package models

// Attribute names a mergeable campaign column. The analyzer, resolver and
// executor all operate on this set; anything not listed here is never copied
// between campaigns.
type Attribute string

const (
	AttrTitle                   Attribute = "title"
	AttrDescription             Attribute = "description"
	AttrStartDate               Attribute = "start_date"
	AttrEndDate                 Attribute = "end_date"
	AttrInDraftMode             Attribute = "in_draft_mode"
	AttrIsActive                Attribute = "is_active"
	AttrIsBlocked               Attribute = "is_blocked"
	AttrBlockedReason           Attribute = "blocked_reason"
	AttrInReviewMode            Attribute = "in_review_mode"
	AttrIsNotPromoted           Attribute = "is_not_promoted"
	AttrNotPromotedReason       Attribute = "not_promoted_reason"
	AttrOkToPromote             Attribute = "ok_to_promote"
	AttrIsVictorious            Attribute = "is_victorious"
	AttrPoliticianID            Attribute = "politician_id"
	AttrPoliticianStarterList   Attribute = "politician_starter_list"
	AttrStateCode               Attribute = "state_code"
	AttrStartedByVoterID        Attribute = "started_by_voter_id"
	AttrSEOFriendlyPath         Attribute = "seo_friendly_path"
	AttrPhotoOriginalURL        Attribute = "photo_original_url"
	AttrPhotoLargeURL           Attribute = "photo_large_url"
	AttrPhotoMediumURL          Attribute = "photo_medium_url"
	AttrPhotoSmallURL           Attribute = "photo_small_url"
	AttrProfileImageLargeURL    Attribute = "profile_image_large_url"
	AttrProfileImageMediumURL   Attribute = "profile_image_medium_url"
	AttrProfileImageTinyURL     Attribute = "profile_image_tiny_url"
	AttrParticipantsCount       Attribute = "participants_count"
	AttrOpposersCount           Attribute = "opposers_count"
	AttrParticipantsVictoryGoal Attribute = "participants_victory_goal"
	AttrCountMinimumIgnored     Attribute = "count_minimum_ignored"
)

// MergeableAttributes is the full merge attribute set, in comparison order.
var MergeableAttributes = []Attribute{
	AttrTitle,
	AttrDescription,
	AttrStartDate,
	AttrEndDate,
	AttrInDraftMode,
	AttrIsActive,
	AttrIsBlocked,
	AttrBlockedReason,
	AttrInReviewMode,
	AttrIsNotPromoted,
	AttrNotPromotedReason,
	AttrOkToPromote,
	AttrIsVictorious,
	AttrPoliticianID,
	AttrPoliticianStarterList,
	AttrStateCode,
	AttrStartedByVoterID,
	AttrSEOFriendlyPath,
	AttrPhotoOriginalURL,
	AttrPhotoLargeURL,
	AttrPhotoMediumURL,
	AttrPhotoSmallURL,
	AttrProfileImageLargeURL,
	AttrProfileImageMediumURL,
	AttrProfileImageTinyURL,
	AttrParticipantsCount,
	AttrOpposersCount,
	AttrParticipantsVictoryGoal,
	AttrCountMinimumIgnored,
}

// IsMergeableAttribute reports whether the attribute participates in merges
func IsMergeableAttribute(attr Attribute) bool {
	for _, known := range MergeableAttributes {
		if attr == known {
			return true
		}
	}
	return false
}

// ImageURLAttributes never block an auto-merge; the resolver keeps the
// survivor's value when present and otherwise adopts the loser's.
var ImageURLAttributes = map[Attribute]bool{
	AttrPhotoOriginalURL:      true,
	AttrPhotoLargeURL:         true,
	AttrPhotoMediumURL:        true,
	AttrPhotoSmallURL:         true,
	AttrProfileImageLargeURL:  true,
	AttrProfileImageMediumURL: true,
	AttrProfileImageTinyURL:   true,
}

// UniqueAttributesToClear lists attributes under a uniqueness constraint.
// When the survivor adopts one of these from the loser, the loser's copy is
// cleared and saved before the survivor is saved.
var UniqueAttributesToClear = []Attribute{
	AttrSEOFriendlyPath,
}

// AttributeValue returns the attribute as a plain string, int or bool.
// Nullable columns are flattened (nil reads as the empty string).
func (c *Campaign) AttributeValue(attr Attribute) (any, bool) {
	switch attr {
	case AttrTitle:
		return c.Title, true
	case AttrDescription:
		return c.Description, true
	case AttrStartDate:
		return c.StartDate, true
	case AttrEndDate:
		return c.EndDate, true
	case AttrInDraftMode:
		return c.InDraftMode, true
	case AttrIsActive:
		return c.IsActive, true
	case AttrIsBlocked:
		return c.IsBlocked, true
	case AttrBlockedReason:
		return c.BlockedReason, true
	case AttrInReviewMode:
		return c.InReviewMode, true
	case AttrIsNotPromoted:
		return c.IsNotPromoted, true
	case AttrNotPromotedReason:
		return c.NotPromotedReason, true
	case AttrOkToPromote:
		return c.OkToPromote, true
	case AttrIsVictorious:
		return c.IsVictorious, true
	case AttrPoliticianID:
		return stringValue(c.PoliticianID), true
	case AttrPoliticianStarterList:
		return c.PoliticianStarterList, true
	case AttrStateCode:
		return c.StateCode, true
	case AttrStartedByVoterID:
		return c.StartedByVoterID, true
	case AttrSEOFriendlyPath:
		return stringValue(c.SEOFriendlyPath), true
	case AttrPhotoOriginalURL:
		return c.PhotoOriginalURL, true
	case AttrPhotoLargeURL:
		return c.PhotoLargeURL, true
	case AttrPhotoMediumURL:
		return c.PhotoMediumURL, true
	case AttrPhotoSmallURL:
		return c.PhotoSmallURL, true
	case AttrProfileImageLargeURL:
		return c.ProfileImageLargeURL, true
	case AttrProfileImageMediumURL:
		return c.ProfileImageMediumURL, true
	case AttrProfileImageTinyURL:
		return c.ProfileImageTinyURL, true
	case AttrParticipantsCount:
		return c.ParticipantsCount, true
	case AttrOpposersCount:
		return c.OpposersCount, true
	case AttrParticipantsVictoryGoal:
		return c.ParticipantsVictoryGoal, true
	case AttrCountMinimumIgnored:
		return c.CountMinimumIgnored, true
	}
	return nil, false
}

// SetAttributeValue writes an attribute. Empty strings on nullable columns
// store NULL. Returns false for an unknown attribute or mismatched type.
func (c *Campaign) SetAttributeValue(attr Attribute, value any) bool {
	switch attr {
	case AttrTitle:
		return setString(&c.Title, value)
	case AttrDescription:
		return setString(&c.Description, value)
	case AttrStartDate:
		return setInt(&c.StartDate, value)
	case AttrEndDate:
		return setInt(&c.EndDate, value)
	case AttrInDraftMode:
		return setBool(&c.InDraftMode, value)
	case AttrIsActive:
		return setBool(&c.IsActive, value)
	case AttrIsBlocked:
		return setBool(&c.IsBlocked, value)
	case AttrBlockedReason:
		return setString(&c.BlockedReason, value)
	case AttrInReviewMode:
		return setBool(&c.InReviewMode, value)
	case AttrIsNotPromoted:
		return setBool(&c.IsNotPromoted, value)
	case AttrNotPromotedReason:
		return setString(&c.NotPromotedReason, value)
	case AttrOkToPromote:
		return setBool(&c.OkToPromote, value)
	case AttrIsVictorious:
		return setBool(&c.IsVictorious, value)
	case AttrPoliticianID:
		return setNullableString(&c.PoliticianID, value)
	case AttrPoliticianStarterList:
		return setString(&c.PoliticianStarterList, value)
	case AttrStateCode:
		return setString(&c.StateCode, value)
	case AttrStartedByVoterID:
		return setString(&c.StartedByVoterID, value)
	case AttrSEOFriendlyPath:
		return setNullableString(&c.SEOFriendlyPath, value)
	case AttrPhotoOriginalURL:
		return setString(&c.PhotoOriginalURL, value)
	case AttrPhotoLargeURL:
		return setString(&c.PhotoLargeURL, value)
	case AttrPhotoMediumURL:
		return setString(&c.PhotoMediumURL, value)
	case AttrPhotoSmallURL:
		return setString(&c.PhotoSmallURL, value)
	case AttrProfileImageLargeURL:
		return setString(&c.ProfileImageLargeURL, value)
	case AttrProfileImageMediumURL:
		return setString(&c.ProfileImageMediumURL, value)
	case AttrProfileImageTinyURL:
		return setString(&c.ProfileImageTinyURL, value)
	case AttrParticipantsCount:
		return setInt(&c.ParticipantsCount, value)
	case AttrOpposersCount:
		return setInt(&c.OpposersCount, value)
	case AttrParticipantsVictoryGoal:
		return setInt(&c.ParticipantsVictoryGoal, value)
	case AttrCountMinimumIgnored:
		return setBool(&c.CountMinimumIgnored, value)
	}
	return false
}

// ClearAttribute resets an attribute to its empty value.
func (c *Campaign) ClearAttribute(attr Attribute) bool {
	if current, ok := c.AttributeValue(attr); ok {
		switch current.(type) {
		case string:
			return c.SetAttributeValue(attr, "")
		case int:
			return c.SetAttributeValue(attr, 0)
		case bool:
			return c.SetAttributeValue(attr, false)
		}
	}
	return false
}

// DateAttributes have no null column and store 0 when no date was picked.
var DateAttributes = map[Attribute]bool{
	AttrStartDate: true,
	AttrEndDate:   true,
}

// AttributeIsEmpty reports whether a value counts as unset. Only nil and the
// empty string are unset; a false flag and a zero counter are real values
// that can disagree with the other side. Dates are the exception: their
// columns cannot be null, so 0 means no date was ever picked.
func AttributeIsEmpty(attr Attribute, value any) bool {
	switch v := value.(type) {
	case string:
		return v == ""
	case int:
		return v == 0 && DateAttributes[attr]
	case nil:
		return true
	}
	return false
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func setString(dst *string, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	*dst = s
	return true
}

func setNullableString(dst **string, value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	if s == "" {
		*dst = nil
	} else {
		*dst = &s
	}
	return true
}

func setInt(dst *int, value any) bool {
	switch v := value.(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case float64:
		// JSON request bodies decode numbers as float64
		*dst = int(v)
	default:
		return false
	}
	return true
}

func setBool(dst *bool, value any) bool {
	b, ok := value.(bool)
	if !ok {
		return false
	}
	*dst = b
	return true
}
