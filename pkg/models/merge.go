package models

// Verdict is the per-attribute outcome of comparing two campaigns
type Verdict string

const (
	// VerdictMatching means the values agree (or both are unset)
	VerdictMatching Verdict = "matching"
	// VerdictConflict means both values are set and disagree; a human must choose
	VerdictConflict Verdict = "conflict"
	// VerdictCampaignOne means campaign one's value should be kept
	VerdictCampaignOne Verdict = "campaign1"
	// VerdictCampaignTwo means campaign two's value should be kept
	VerdictCampaignTwo Verdict = "campaign2"
)

// Diagnostic is a structured status entry. Code is machine-readable; Detail
// is free text for the admin screens.
type Diagnostic struct {
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Diagnostics accumulates in call order and is carried on results instead of
// being raised.
type Diagnostics []Diagnostic

func (d *Diagnostics) Add(code string, detail string) {
	*d = append(*d, Diagnostic{Code: code, Detail: detail})
}

func (d *Diagnostics) Extend(other Diagnostics) {
	*d = append(*d, other...)
}

// HasCode reports whether a diagnostic with the given code was recorded.
func (d Diagnostics) HasCode(code string) bool {
	for _, diag := range d {
		if diag.Code == code {
			return true
		}
	}
	return false
}

// ConflictReport maps each mergeable attribute to its verdict
type ConflictReport map[Attribute]Verdict

// ConflictAttributes returns the attributes still in conflict, in canonical
// attribute order.
func (r ConflictReport) ConflictAttributes() []Attribute {
	var attrs []Attribute
	for _, attr := range MergeableAttributes {
		if r[attr] == VerdictConflict {
			attrs = append(attrs, attr)
		}
	}
	return attrs
}

// MergeOptions drives a single merge execution
type MergeOptions struct {
	// ChosenValues are attribute values applied to the survivor before
	// anything else happens (admin choices or resolver adoptions)
	ChosenValues map[Attribute]any `json:"chosen_values"`
	// ClearAttributes are cleared on the loser, and the loser saved, before
	// the survivor is saved. Protects unique constraints.
	ClearAttributes []Attribute `json:"clear_attributes"`
	// RegenerateTitle rebuilds the survivor title from its linked politician
	RegenerateTitle bool `json:"regenerate_title"`
}

// MergeResult reports what a merge execution did
type MergeResult struct {
	SurvivorID  string         `json:"survivor_id"`
	LoserID     string         `json:"loser_id"`
	Survivor    *Campaign      `json:"survivor,omitempty"`
	Moved       map[string]int `json:"moved"`
	Deleted     map[string]int `json:"deleted"`
	Diagnostics Diagnostics    `json:"diagnostics,omitempty"`
}

// MergeOutcome is the resolver's answer for a candidate pair
type MergeOutcome struct {
	Merged             bool         `json:"merged"`
	DecisionsRequired  bool         `json:"decisions_required"`
	ConflictAttributes []Attribute  `json:"conflict_attributes,omitempty"`
	Result             *MergeResult `json:"result,omitempty"`
	Diagnostics        Diagnostics  `json:"diagnostics,omitempty"`
}
