package brief

// Seller selection modes. Exactly one is active per brief; the companion
// fields (SellerEmail, SellerEmailList, Sellers) are populated only for the
// matching mode.
const (
	SelectorAllSellers  = "allSellers"
	SelectorSomeSellers = "someSellers"
	SelectorOneSeller   = "oneSeller"
)

// LotRFX briefs invite sellers by code rather than by email.
const LotRFX = "rfx"

type Brief struct {
	Id                                int                 `json:"id"`
	Title                             string              `json:"title"`
	Status                            string              `json:"status"`
	Lot                               string              `json:"lotSlug"`
	FrameworkSlug                     string              `json:"frameworkSlug"`
	FrameworkName                     string              `json:"frameworkName"`
	FrameworkFramework                string              `json:"frameworkFramework"`
	AreaOfExpertise                   string              `json:"areaOfExpertise,omitempty"`
	SellerSelector                    string              `json:"sellerSelector,omitempty"`
	SellerEmail                       string              `json:"sellerEmail,omitempty"`
	SellerEmailList                   []string            `json:"sellerEmailList,omitempty"`
	Sellers                           map[string]Seller   `json:"sellers,omitempty"`
	EssentialRequirements             []string            `json:"essentialRequirements"`
	NiceToHaveRequirements            []string            `json:"niceToHaveRequirements"`
	EvaluationType                    []string            `json:"evaluationType,omitempty"`
	ClarificationQuestionsClosed      bool                `json:"clarificationQuestionsAreClosed"`
	ClarificationQuestionsPublishedBy string              `json:"clarificationQuestionsPublishedBy,omitempty"`
	QuestionAndAnswerSessionDetails   string              `json:"questionAndAnswerSessionDetails,omitempty"`
	Dates                             Dates               `json:"dates"`
	Users                             []User              `json:"users,omitempty"`
}

type Dates struct {
	ClosingDate string `json:"closing_date,omitempty"`
	ClosingTime string `json:"closing_time,omitempty"`
}

// Seller is an invited seller on an rfx brief, keyed by seller code in
// Brief.Sellers.
type Seller struct {
	Name string `json:"name,omitempty"`
}

// User is a buyer-side account attached to the brief, the recipients of
// clarification questions.
type User struct {
	EmailAddress string `json:"emailAddress"`
	Active       bool   `json:"active"`
}

// ActiveUserEmails returns the addresses clarification questions go to.
func (b Brief) ActiveUserEmails() []string {
	emails := make([]string, 0, len(b.Users))
	for _, u := range b.Users {
		if u.Active {
			emails = append(emails, u.EmailAddress)
		}
	}
	return emails
}

func (b Brief) IsLive() bool {
	return b.Status == "live"
}

type Framework struct {
	Id     int    `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (f Framework) IsLive() bool {
	return f.Status == "live"
}
