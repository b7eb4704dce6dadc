// Package eligibility holds the pure decision rules that say whether a
// supplier may view or respond to a brief. Nothing in here performs I/O; the
// caller fetches the records and executes any escalation command returned.
package eligibility

import (
	"strconv"
	"strings"

	"supplier_frontend/internal/lib/email"
	"supplier_frontend/internal/models/brief"
	"supplier_frontend/internal/models/supplier"
	"supplier_frontend/internal/models/user"
)

// Reason explains why a supplier cannot respond to a brief.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonOldPanelNewSeller Reason = "old-panel-new-seller"
	ReasonNewPanelOldSeller Reason = "new-panel-old-seller"
	ReasonPendingAssessment Reason = "pending-initial-assessment"
	ReasonSupplierNotFound  Reason = "supplier-not-found"
)

// OldPanelFramework marks briefs published on the legacy DSP panel.
const OldPanelFramework = "dsp"

// Escalation asks the orchestrator to bump the supplier's approval task with
// the ticketing integration. It is advice, not an obligation: the call is
// best-effort and its failure never surfaces to the user.
type Escalation struct {
	ApplicationId string
	ClosingDate   string
}

// SelectedForBrief reports whether the caller is among the brief's invited
// sellers. Email comparison is case-insensitive throughout; domain-level
// matching never applies to callers on a generic consumer domain.
func SelectedForBrief(u user.User, b brief.Brief, generic email.GenericDomains) bool {
	if b.Lot == brief.LotRFX {
		s, ok := u.(user.Supplier)
		if !ok {
			return false
		}
		_, invited := b.Sellers[s.Code]
		return invited
	}

	switch b.SellerSelector {
	case brief.SelectorAllSellers:
		return true
	case brief.SelectorSomeSellers:
		return matchesSellerEmailList(u.EmailAddress(), b.SellerEmailList, generic)
	case brief.SelectorOneSeller:
		return matchesSellerEmailList(u.EmailAddress(), []string{b.SellerEmail}, generic)
	}
	return false
}

func matchesSellerEmailList(userEmail string, sellerEmails []string, generic email.GenericDomains) bool {
	addr, err := email.Parse(userEmail)
	if err != nil {
		return false
	}

	for _, invited := range sellerEmails {
		if strings.EqualFold(strings.TrimSpace(invited), addr.String()) {
			return true
		}
	}

	if generic.Contains(addr.Domain()) {
		// Consumer-domain users must match by exact email only.
		return false
	}
	for _, invited := range sellerEmails {
		invitedAddr, err := email.Parse(invited)
		if err != nil {
			continue
		}
		if invitedAddr.SameDomain(addr) {
			return true
		}
	}
	return false
}

// NotEligibleReason decides whether a supplier, though selected, is barred
// from responding: wrong panel generation, or an assessment still in flight.
// sup is nil when the supplier record is missing upstream; app is nil when
// the user has no linked signup application. marketplaceFrameworkId is the id
// of the "digital-marketplace" framework.
func NotEligibleReason(sup *supplier.Supplier, app *supplier.Application, b brief.Brief, marketplaceFrameworkId int) (Reason, *Escalation) {
	oldPanel := b.FrameworkFramework == OldPanelFramework

	if sup != nil {
		if oldPanel && !sup.IsExistingSeller() {
			return ReasonOldPanelNewSeller, nil
		}
		if !oldPanel && !sup.HoldsFramework(marketplaceFrameworkId) {
			return ReasonNewPanelOldSeller, nil
		}
	}

	// Membership rows exist for mid-assessment sellers too, so passing the
	// checks above does not mean the assessment is finished.
	if app != nil && app.IsAssessmentPending() {
		return ReasonPendingAssessment, &Escalation{
			ApplicationId: strconv.Itoa(app.Id),
			ClosingDate:   b.Dates.ClosingDate,
		}
	}

	if sup == nil {
		return ReasonSupplierNotFound, nil
	}
	return ReasonNone, nil
}
