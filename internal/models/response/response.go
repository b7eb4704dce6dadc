package response

import "encoding/json"

// BriefResponse is the stored record as the data API returns it. The
// essentialRequirements booleans are evaluated upstream, one per declared
// essential requirement, in declaration order.
type BriefResponse struct {
	Id                     int      `json:"id,omitempty"`
	BriefId                int      `json:"briefId"`
	SupplierCode           int      `json:"supplierCode"`
	RespondToEmailAddress  string   `json:"respondToEmailAddress,omitempty"`
	EssentialRequirements  []bool   `json:"essentialRequirements"`
	NiceToHaveRequirements []string `json:"niceToHaveRequirements,omitempty"`
}

// MetAllEssentials reports whether every essential requirement was met.
func (r BriefResponse) MetAllEssentials() bool {
	for _, met := range r.EssentialRequirements {
		if !met {
			return false
		}
	}
	return true
}

// Submission is a validated brief response ready to send upstream. The
// essential list is ordered and complete (one entry per declared requirement,
// true means answered); the nice-to-have answers keep declaration order but
// may be fewer. Answers holds the brief-specific scalar questions
// (availability, dayRate, ...).
type Submission struct {
	EssentialRequirements  []bool
	NiceToHaveRequirements []string
	Answers                map[string]string
}

// MarshalJSON flattens the scalar answers next to the requirement lists, the
// shape the data API expects.
func (s Submission) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(s.Answers)+2)
	for k, v := range s.Answers {
		payload[k] = v
	}
	payload["essentialRequirements"] = s.EssentialRequirements
	payload["niceToHaveRequirements"] = s.NiceToHaveRequirements
	return json.Marshal(payload)
}
