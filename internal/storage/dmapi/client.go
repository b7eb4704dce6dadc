package dmapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"supplier_frontend/internal/models/brief"
	"supplier_frontend/internal/models/response"
	"supplier_frontend/internal/models/supplier"

	"github.com/google/uuid"
)

// Sentinel errors mapped from the data API's status codes. Handlers switch on
// these to pick their own response status.
var (
	ErrBadRequest   = errors.New("data api rejected the request")
	ErrUnauthorized = errors.New("data api authorization failed")
	ErrForbidden    = errors.New("data api forbade the request")
	ErrNotFound     = errors.New("resource not found")
	ErrServer       = errors.New("data api server error")
)

// Client talks to the upstream data API, the sole owner of brief, supplier,
// application and response records.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWithHTTPClient is used by tests to point the client at a stub server.
func NewWithHTTPClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

func (c *Client) GetBrief(briefId int) (brief.Brief, error) {
	const op = "storage.dmapi.GetBrief"

	var envelope struct {
		Briefs brief.Brief `json:"briefs"`
	}
	if err := c.do(http.MethodGet, fmt.Sprintf("/briefs/%d", briefId), nil, &envelope); err != nil {
		return brief.Brief{}, fmt.Errorf("%s: %w", op, err)
	}
	return envelope.Briefs, nil
}

func (c *Client) GetFramework(slug string) (brief.Framework, error) {
	const op = "storage.dmapi.GetFramework"

	var envelope struct {
		Frameworks brief.Framework `json:"frameworks"`
	}
	if err := c.do(http.MethodGet, "/frameworks/"+slug, nil, &envelope); err != nil {
		return brief.Framework{}, fmt.Errorf("%s: %w", op, err)
	}
	return envelope.Frameworks, nil
}

func (c *Client) GetSupplier(code string) (supplier.Supplier, error) {
	const op = "storage.dmapi.GetSupplier"

	var envelope struct {
		Supplier supplier.Supplier `json:"supplier"`
	}
	if err := c.do(http.MethodGet, "/suppliers/"+code, nil, &envelope); err != nil {
		return supplier.Supplier{}, fmt.Errorf("%s: %w", op, err)
	}
	return envelope.Supplier, nil
}

func (c *Client) GetApplication(applicationId string) (supplier.Application, error) {
	const op = "storage.dmapi.GetApplication"

	var envelope struct {
		Application supplier.Application `json:"application"`
	}
	if err := c.do(http.MethodGet, "/applications/"+applicationId, nil, &envelope); err != nil {
		return supplier.Application{}, fmt.Errorf("%s: %w", op, err)
	}
	return envelope.Application, nil
}

func (c *Client) FindBriefResponses(briefId int, supplierCode string) ([]response.BriefResponse, error) {
	const op = "storage.dmapi.FindBriefResponses"

	var envelope struct {
		BriefResponses []response.BriefResponse `json:"briefResponses"`
	}
	path := fmt.Sprintf("/brief-responses?brief_id=%d&supplier_code=%s", briefId, supplierCode)
	if err := c.do(http.MethodGet, path, nil, &envelope); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return envelope.BriefResponses, nil
}

func (c *Client) CreateBriefResponse(briefId int, supplierCode string, sub response.Submission, respondTo string) (response.BriefResponse, error) {
	const op = "storage.dmapi.CreateBriefResponse"

	record := map[string]any{
		"briefId":                briefId,
		"supplierCode":           supplierCode,
		"respondToEmailAddress":  respondTo,
		"essentialRequirements":  sub.EssentialRequirements,
		"niceToHaveRequirements": sub.NiceToHaveRequirements,
	}
	for k, v := range sub.Answers {
		record[k] = v
	}
	body := map[string]any{
		"briefResponses": record,
		"updated_by":     respondTo,
	}

	var envelope struct {
		BriefResponses response.BriefResponse `json:"briefResponses"`
	}
	if err := c.do(http.MethodPost, "/brief-responses", body, &envelope); err != nil {
		return response.BriefResponse{}, fmt.Errorf("%s: %w", op, err)
	}
	return envelope.BriefResponses, nil
}

func (c *Client) CreateAuditEvent(auditType, usr, objectType string, objectId int, data map[string]any) error {
	const op = "storage.dmapi.CreateAuditEvent"

	body := map[string]any{
		"auditEvents": map[string]any{
			"id":         uuid.NewString(),
			"type":       auditType,
			"user":       usr,
			"objectType": objectType,
			"objectId":   objectId,
			"data":       data,
		},
	}
	if err := c.do(http.MethodPost, "/audit-events", body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PrioritiseApplication asks the ticketing integration to bump the approval
// task for a submitted application ahead of the brief's closing date.
func (c *Client) PrioritiseApplication(applicationId, closingDate string) error {
	const op = "storage.dmapi.PrioritiseApplication"

	body := map[string]any{"closing_date": closingDate}
	if err := c.do(http.MethodPost, "/applications/"+applicationId+"/prioritise", body, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) do(method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
