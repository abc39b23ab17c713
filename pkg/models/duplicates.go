package models

import "time"

// NotDuplicatePair is a confirmed not-a-duplicate verdict between two
// campaigns. Order is insignificant; lookups must match either orientation.
// A row with a NULL Campaign2ID marks a campaign as swept with nothing
// found, which keeps it out of future sweep chunks.
type NotDuplicatePair struct {
	ID          string    `db:"id" json:"id"`
	Campaign1ID string    `db:"campaign1_id" json:"campaign1_id"`
	Campaign2ID *string   `db:"campaign2_id" json:"campaign2_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PossibleDuplicatePair is a pair queued for human review.
type PossibleDuplicatePair struct {
	ID          string    `db:"id" json:"id"`
	Campaign1ID string    `db:"campaign1_id" json:"campaign1_id"`
	Campaign2ID string    `db:"campaign2_id" json:"campaign2_id"`
	StateCode   string    `db:"state_code" json:"state_code"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
