package briefs

import (
	serrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"supplier_frontend/internal/eligibility"
	"supplier_frontend/internal/lib/email"
	"supplier_frontend/internal/lib/errors"
	"supplier_frontend/internal/models/brief"
	"supplier_frontend/internal/models/response"
	"supplier_frontend/internal/models/supplier"
	"supplier_frontend/internal/models/user"
	"supplier_frontend/internal/notify"
	briefresponse "supplier_frontend/internal/response"
	"supplier_frontend/internal/storage/dmapi"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

// MarketplaceFrameworkSlug is the current panel; suppliers must hold it to
// respond to briefs published on it.
const MarketplaceFrameworkSlug = "digital-marketplace"

// SpecialistLot is the lot whose briefs carry an areaOfExpertise gate.
const SpecialistLot = "digital-specialists"

const AuditTypeSendClarificationQuestion = "send_clarification_question"

type BriefGetter interface {
	GetBrief(briefId int) (brief.Brief, error)
}

type FrameworkGetter interface {
	GetFramework(slug string) (brief.Framework, error)
}

type SupplierGetter interface {
	GetSupplier(code string) (supplier.Supplier, error)
}

type ApplicationGetter interface {
	GetApplication(applicationId string) (supplier.Application, error)
}

type ResponseFinder interface {
	FindBriefResponses(briefId int, supplierCode string) ([]response.BriefResponse, error)
}

type ResponseCreator interface {
	CreateBriefResponse(briefId int, supplierCode string, sub response.Submission, respondTo string) (response.BriefResponse, error)
}

type AuditRecorder interface {
	CreateAuditEvent(auditType, usr, objectType string, objectId int, data map[string]any) error
}

type ApplicationPrioritiser interface {
	PrioritiseApplication(applicationId, closingDate string) error
}

// ResponseStore is everything the brief-response eligibility chain reads.
type ResponseStore interface {
	BriefGetter
	FrameworkGetter
	SupplierGetter
	ApplicationGetter
	ResponseFinder
	ApplicationPrioritiser
}

// ResponseCreateStore additionally persists the submission.
type ResponseCreateStore interface {
	ResponseStore
	ResponseCreator
}

// ResultStore is what the result view reads.
type ResultStore interface {
	BriefGetter
	ResponseFinder
}

// FormView is the response form, pre-populated with the brief's declared
// requirement texts.
type FormView struct {
	BriefId                int                      `json:"briefId"`
	Title                  string                   `json:"title"`
	EssentialRequirements  []string                 `json:"essentialRequirements"`
	NiceToHaveRequirements []string                 `json:"niceToHaveRequirements"`
	Questions              []briefresponse.Question `json:"questions"`
}

// SessionView is the question-and-answer session details page.
type SessionView struct {
	BriefId        int    `json:"briefId"`
	Title          string `json:"title"`
	SessionDetails string `json:"questionAndAnswerSessionDetails"`
}

func newFormView(b brief.Brief) FormView {
	return FormView{
		BriefId:                b.Id,
		Title:                  b.Title,
		EssentialRequirements:  b.EssentialRequirements,
		NiceToHaveRequirements: b.NiceToHaveRequirements,
		Questions:              briefresponse.QuestionsFor(b),
	}
}

// NewGetQuestionAndAnswerSession renders the brief's question-and-answer
// session details to selected suppliers while clarification questions are
// still open.
func NewGetQuestionAndAnswerSession(log *slog.Logger, briefGetter BriefGetter, generic email.GenericDomains) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.briefs.NewGetQuestionAndAnswerSession"
		log := log.With(slog.String("op", op))

		briefId, ok := briefIdParam(w, r)
		if !ok {
			return
		}

		b, ok := fetchLiveBrief(log, w, r, briefGetter, briefId)
		if !ok {
			return
		}

		u, ok := user.FromRequest(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		su, ok := u.(user.Supplier)
		if !ok {
			redirectToLoginWithFlash(w, r, "supplier-role-required")
			return
		}

		if !eligibility.SelectedForBrief(su, b, generic) {
			render.Status(r, 400)
			render.JSON(w, r, errors.NewHttpError("You have not been invited to this opportunity"))
			return
		}

		if b.ClarificationQuestionsClosed {
			render.Status(r, 400)
			render.JSON(w, r, errors.NewHttpError("Questions for this opportunity have closed"))
			return
		}

		render.JSON(w, r, SessionView{
			BriefId:        b.Id,
			Title:          b.Title,
			SessionDetails: b.QuestionAndAnswerSessionDetails,
		})
	}
}

// NewGetBriefResponse walks the eligibility chain and renders the response
// form.
func NewGetBriefResponse(log *slog.Logger, store ResponseStore, generic email.GenericDomains) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.briefs.NewGetBriefResponse"
		log := log.With(slog.String("op", op))

		briefId, ok := briefIdParam(w, r)
		if !ok {
			return
		}

		b, _, ok := gateBriefResponse(log, w, r, store, briefId, generic)
		if !ok {
			return
		}

		render.JSON(w, r, newFormView(b))
	}
}

// NewCreateBriefResponse validates and submits a brief response. The response
// is persisted before the confirmation email is attempted, so a dispatcher
// failure can only lose the email, never the submission.
func NewCreateBriefResponse(log *slog.Logger, store ResponseCreateStore, dispatcher notify.Dispatcher, cfg notify.Config, generic email.GenericDomains) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.briefs.NewCreateBriefResponse"
		log := log.With(slog.String("op", op))

		briefId, ok := briefIdParam(w, r)
		if !ok {
			return
		}

		b, su, ok := gateBriefResponse(log, w, r, store, briefId, generic)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			render.Status(r, 400)
			render.JSON(w, r, errors.NewHttpError("The request body could not be parsed"))
			return
		}

		sub, fieldErrors := briefresponse.Validate(r.PostForm, b, briefresponse.QuestionsFor(b))
		if fieldErrors != nil {
			render.Status(r, 400)
			render.JSON(w, r, ValidationFailure{
				Heading: "There was a problem with your answer to:",
				Errors:  fieldErrors,
				Form:    newFormView(b),
			})
			return
		}

		created, err := store.CreateBriefResponse(b.Id, su.Code, sub, su.Email)
		if err != nil {
			log.Error("failed to create brief response", slog.String("error", err.Error()))
			switch {
			case serrors.Is(err, dmapi.ErrBadRequest):
				render.Status(r, 400)
			default:
				render.Status(r, 500)
			}
			render.JSON(w, r, errors.NewHttpError("Your application could not be submitted"))
			return
		}

		confirmation := notify.ResponseReceived{Brief: b, Asker: su}
		if m, err := confirmation.Email(cfg); err != nil {
			log.Error("failed to render confirmation email", slog.String("error", err.Error()))
		} else if err := dispatcher.Send(r.Context(), m); err != nil {
			// Missed confirmation only; the submission is already stored.
			log.Error("failed to send confirmation email",
				slog.String("error", err.Error()),
				slog.Int("briefId", created.BriefId))
		}

		http.Redirect(w, r, resultURL(b.Id)+"?result=success", http.StatusFound)
	}
}

// NewGetResponseResult renders the pass/fail summary for an existing
// response, or sends the supplier back to the submission form.
func NewGetResponseResult(log *slog.Logger, store ResultStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.briefs.NewGetResponseResult"
		log := log.With(slog.String("op", op))

		briefId, ok := briefIdParam(w, r)
		if !ok {
			return
		}

		u, ok := user.FromRequest(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		su, ok := u.(user.Supplier)
		if !ok {
			redirectToLogin(w, r)
			return
		}

		b, err := store.GetBrief(briefId)
		if err != nil {
			renderStoreError(log, w, r, err, "The opportunity does not exist")
			return
		}

		responses, err := store.FindBriefResponses(b.Id, su.Code)
		if err != nil {
			renderStoreError(log, w, r, err, "Your application could not be found")
			return
		}
		if len(responses) == 0 {
			http.Redirect(w, r, createURL(b.Id), http.StatusFound)
			return
		}

		render.JSON(w, r, briefresponse.BuildResultView(b, responses[0]))
	}
}

// ClarificationQuestionRequest is the posted question form.
type ClarificationQuestionRequest struct {
	Question string `json:"question" validate:"required,max=5000"`
}

// ValidationFailure is the 400 body for field-level errors; each entry
// carries an in-page anchor to the offending field.
type ValidationFailure struct {
	Heading string                        `json:"heading"`
	Errors  briefresponse.ValidationErrors `json:"errors"`
	Form    FormView                      `json:"form,omitempty"`
}

// NewPostClarificationQuestion emails a supplier's question to the brief's
// owners and a confirmation copy to the asker. Only the owner-facing send is
// fatal; the audit write and the copy are best-effort.
func NewPostClarificationQuestion(log *slog.Logger, briefGetter BriefGetter, audit AuditRecorder, dispatcher notify.Dispatcher, cfg notify.Config, generic email.GenericDomains) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.api.briefs.NewPostClarificationQuestion"
		log := log.With(slog.String("op", op))

		briefId, ok := briefIdParam(w, r)
		if !ok {
			return
		}

		b, ok := fetchLiveBrief(log, w, r, briefGetter, briefId)
		if !ok {
			return
		}

		u, ok := user.FromRequest(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}
		su, ok := u.(user.Supplier)
		if !ok {
			redirectToLoginWithFlash(w, r, "supplier-role-required")
			return
		}

		if b.ClarificationQuestionsClosed {
			render.Status(r, 400)
			render.JSON(w, r, errors.NewHttpError("Questions for this opportunity have closed"))
			return
		}

		if !eligibility.SelectedForBrief(su, b, generic) {
			render.Status(r, 400)
			render.JSON(w, r, errors.NewHttpError("You have not been invited to this opportunity"))
			return
		}

		var req ClarificationQuestionRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			render.Status(r, 400)
			render.JSON(w, r, errors.NewHttpError("The request body could not be parsed"))
			return
		}
		if err := validate.Struct(req); err != nil {
			render.Status(r, 400)
			render.JSON(w, r, ValidationFailure{
				Heading: "There was a problem with your question",
				Errors: briefresponse.ValidationErrors{{
					Field:   "question",
					Anchor:  "#question",
					Code:    briefresponse.CodeAnswerRequired,
					Message: "You need to ask a question.",
				}},
			})
			return
		}

		question := notify.ClarificationQuestion{Brief: b, Question: req.Question, Asker: su}

		ownerEmail, err := question.OwnerEmail(cfg)
		if err != nil {
			log.Error("failed to render question email", slog.String("error", err.Error()))
			render.Status(r, 500)
			render.JSON(w, r, errors.NewHttpError("Your question could not be sent"))
			return
		}
		if err := dispatcher.Send(r.Context(), ownerEmail); err != nil {
			log.Error("brief question email failed to send",
				slog.String("error", err.Error()),
				slog.String("supplierCode", su.Code),
				slog.Int("briefId", b.Id))
			render.Status(r, 503)
			render.JSON(w, r, errors.NewHttpError("Clarification question email failed to send"))
			return
		}

		auditData := map[string]any{"question": req.Question, "briefId": b.Id}
		if err := audit.CreateAuditEvent(AuditTypeSendClarificationQuestion, su.Email, "briefs", b.Id, auditData); err != nil {
			log.Error("failed to record question audit event", slog.String("error", err.Error()))
		}

		if m, err := question.ConfirmationEmail(cfg); err != nil {
			log.Error("failed to render question confirmation email", slog.String("error", err.Error()))
		} else if err := dispatcher.Send(r.Context(), m); err != nil {
			log.Error("brief question supplier email failed to send",
				slog.String("error", err.Error()),
				slog.String("supplierCode", su.Code),
				slog.Int("briefId", b.Id))
		}

		render.JSON(w, r, map[string]any{"briefId": b.Id, "question": req.Question})
	}
}

// gateBriefResponse runs the shared eligibility chain for the response form
// and the submission: brief live, framework live, supplier role, invited,
// area of expertise, no prior response. It writes the terminal status or
// redirect itself and returns ok=false when the chain stops.
func gateBriefResponse(log *slog.Logger, w http.ResponseWriter, r *http.Request, store ResponseStore, briefId int, generic email.GenericDomains) (brief.Brief, user.Supplier, bool) {
	b, err := store.GetBrief(briefId)
	if err != nil {
		renderStoreError(log, w, r, err, "The opportunity does not exist")
		return brief.Brief{}, user.Supplier{}, false
	}

	if !b.IsLive() {
		render.Status(r, 400)
		render.JSON(w, r, errors.NewHttpError("This opportunity is not open for applications"))
		return b, user.Supplier{}, false
	}

	fw, err := store.GetFramework(b.FrameworkSlug)
	if err != nil {
		renderStoreError(log, w, r, err, "The framework does not exist")
		return b, user.Supplier{}, false
	}
	if !fw.IsLive() {
		render.Status(r, 404)
		render.JSON(w, r, errors.NewHttpError("The framework is not live"))
		return b, user.Supplier{}, false
	}

	u, ok := user.FromRequest(r)
	if !ok {
		redirectToLogin(w, r)
		return b, user.Supplier{}, false
	}
	su, ok := u.(user.Supplier)
	if !ok {
		redirectToLoginWithFlash(w, r, "supplier-role-required")
		return b, user.Supplier{}, false
	}

	if !eligibility.SelectedForBrief(su, b, generic) {
		render.Status(r, 400)
		render.JSON(w, r, errors.NewHttpError("You have not been invited to this opportunity"))
		return b, su, false
	}

	sup, ok := fetchSupplierRecord(log, w, r, store, su)
	if !ok {
		return b, su, false
	}

	if !checkPanelEligibility(log, w, r, store, sup, su, b) {
		return b, su, false
	}

	if !checkAreaOfExpertise(w, r, sup, b) {
		return b, su, false
	}

	responses, err := store.FindBriefResponses(b.Id, su.Code)
	if err != nil {
		renderStoreError(log, w, r, err, "Your application could not be checked")
		return b, su, false
	}
	if len(responses) != 0 {
		http.Redirect(w, r, resultURL(b.Id)+"?error=already_applied", http.StatusFound)
		return b, su, false
	}

	return b, su, true
}

// fetchSupplierRecord loads the caller's seller profile once for the whole
// gate chain. A missing record is a decision input for the eligibility rules,
// not a failure.
func fetchSupplierRecord(log *slog.Logger, w http.ResponseWriter, r *http.Request, store SupplierGetter, su user.Supplier) (*supplier.Supplier, bool) {
	fetched, err := store.GetSupplier(su.Code)
	switch {
	case err == nil:
		return &fetched, true
	case serrors.Is(err, dmapi.ErrNotFound):
		return nil, true
	default:
		renderStoreError(log, w, r, err, "Your seller profile could not be checked")
		return nil, false
	}
}

// checkPanelEligibility fetches the marketplace framework and any linked
// signup application, then applies the pure panel rules. A pending assessment
// fires a best-effort escalation whose failure is swallowed.
func checkPanelEligibility(log *slog.Logger, w http.ResponseWriter, r *http.Request, store ResponseStore, sup *supplier.Supplier, su user.Supplier, b brief.Brief) bool {
	marketplace, err := store.GetFramework(MarketplaceFrameworkSlug)
	if err != nil {
		renderStoreError(log, w, r, err, "Your seller profile could not be checked")
		return false
	}

	var app *supplier.Application
	if su.ApplicationId != "" {
		fetchedApp, err := store.GetApplication(su.ApplicationId)
		switch {
		case err == nil:
			app = &fetchedApp
		case serrors.Is(err, dmapi.ErrNotFound):
			// A dangling application link is non-fatal.
		default:
			renderStoreError(log, w, r, err, "Your application could not be checked")
			return false
		}
	}

	reason, escalation := eligibility.NotEligibleReason(sup, app, b, marketplace.Id)
	if escalation != nil {
		if err := store.PrioritiseApplication(escalation.ApplicationId, escalation.ClosingDate); err != nil {
			log.Warn("failed to prioritise assessment",
				slog.String("applicationId", escalation.ApplicationId),
				slog.String("error", err.Error()))
		}
	}
	if reason != eligibility.ReasonNone {
		render.Status(r, 400)
		render.JSON(w, r, errors.NewHttpError(notEligibleMessage(reason)))
		return false
	}
	return true
}

// checkAreaOfExpertise gates specialist briefs on the supplier's assessed
// domains. An unassessed domain is remediable and redirects into the
// assessment flow; a mismatched lot redirects into domain selection.
func checkAreaOfExpertise(w http.ResponseWriter, r *http.Request, sup *supplier.Supplier, b brief.Brief) bool {
	if b.FrameworkSlug != MarketplaceFrameworkSlug || b.AreaOfExpertise == "" {
		return true
	}

	var domains supplier.Domains
	if sup != nil {
		domains = sup.Domains
	}

	switch {
	case domains.IsAssessed(b.AreaOfExpertise):
		return true
	case domains.IsUnassessed(b.AreaOfExpertise):
		location := fmt.Sprintf("/sellers/assessment/request/%s?briefId=%d", url.PathEscape(b.AreaOfExpertise), b.Id)
		http.Redirect(w, r, location, http.StatusFound)
		return false
	case b.Lot != SpecialistLot:
		location := fmt.Sprintf("/sellers/domains/choose?briefId=%d", b.Id)
		http.Redirect(w, r, location, http.StatusFound)
		return false
	default:
		render.Status(r, 400)
		render.JSON(w, r, errors.NewHttpError(
			"You can't apply for this opportunity because you didn't say you could provide this specialist role"))
		return false
	}
}

func notEligibleMessage(reason eligibility.Reason) string {
	switch reason {
	case eligibility.ReasonOldPanelNewSeller:
		return "You can't apply for opportunities on the previous panel"
	case eligibility.ReasonNewPanelOldSeller:
		return "You can't apply for this opportunity because you're not a Digital Marketplace seller"
	case eligibility.ReasonPendingAssessment:
		return "Your seller assessment is still being reviewed"
	case eligibility.ReasonSupplierNotFound:
		return "Your seller profile could not be found"
	}
	return "You can't apply for this opportunity"
}

// fetchLiveBrief fetches the brief and treats a non-live status as 404, the
// behavior of the read-only brief views.
func fetchLiveBrief(log *slog.Logger, w http.ResponseWriter, r *http.Request, briefGetter BriefGetter, briefId int) (brief.Brief, bool) {
	b, err := briefGetter.GetBrief(briefId)
	if err != nil {
		renderStoreError(log, w, r, err, "The opportunity does not exist")
		return brief.Brief{}, false
	}
	if !b.IsLive() {
		render.Status(r, 404)
		render.JSON(w, r, errors.NewHttpError("The opportunity does not exist"))
		return b, false
	}
	return b, true
}

func renderStoreError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	switch {
	case serrors.Is(err, dmapi.ErrNotFound):
		render.Status(r, 404)
		render.JSON(w, r, errors.NewHttpError(notFoundMessage))
	default:
		log.Error("data api request failed", slog.String("error", err.Error()))
		render.Status(r, 500)
		render.JSON(w, r, errors.NewHttpError("Something went wrong"))
	}
}

func briefIdParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	briefId, err := strconv.Atoi(chi.URLParam(r, "briefId"))
	if err != nil {
		render.Status(r, 400)
		render.JSON(w, r, errors.NewHttpError("The brief id is invalid"))
		return 0, false
	}
	return briefId, true
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

func redirectToLoginWithFlash(w http.ResponseWriter, r *http.Request, flash string) {
	location := fmt.Sprintf("/login?error=%s&next=%s", url.QueryEscape(flash), url.QueryEscape(r.URL.RequestURI()))
	http.Redirect(w, r, location, http.StatusFound)
}

func resultURL(briefId int) string {
	return fmt.Sprintf("/api/briefs/%d/responses/result", briefId)
}

func createURL(briefId int) string {
	return fmt.Sprintf("/api/briefs/%d/responses/create", briefId)
}
