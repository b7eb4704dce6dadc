package supplier

type Supplier struct {
	Code                    int                   `json:"supplierCode"`
	Name                    string                `json:"name,omitempty"`
	Frameworks              []FrameworkMembership `json:"frameworks"`
	AgreedToMasterAgreement bool                  `json:"agreed_to_master_agreement"`
	Domains                 Domains               `json:"domains"`
}

type FrameworkMembership struct {
	FrameworkId int   `json:"framework_id"`
	OnFramework *bool `json:"on_framework"`
}

// Domains groups the supplier's skill categories by assessment state. Legacy
// entries come from the pre-existing panel and mark the supplier as an
// established seller.
type Domains struct {
	Assessed   []string `json:"assessed"`
	Unassessed []string `json:"unassessed"`
	Legacy     []string `json:"legacy"`
}

func (s Supplier) HoldsFramework(frameworkId int) bool {
	for _, f := range s.Frameworks {
		if f.FrameworkId == frameworkId {
			return true
		}
	}
	return false
}

func (s Supplier) IsExistingSeller() bool {
	return len(s.Domains.Legacy) > 0
}

func (d Domains) IsAssessed(domain string) bool {
	return contains(d.Assessed, domain)
}

func (d Domains) IsUnassessed(domain string) bool {
	return contains(d.Unassessed, domain)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Application is the supplier's signup/assessment record, distinct from a
// brief response. Status transitions happen upstream; this core only reads it.
type Application struct {
	Id     int    `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// IsAssessmentPending reports whether the application is a signup in flight,
// meaning the supplier has asked for assessment but is not approved yet.
func (a Application) IsAssessmentPending() bool {
	return (a.Type == "new" || a.Type == "upgrade") && a.Status == "submitted"
}
