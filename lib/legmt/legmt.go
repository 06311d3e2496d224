// Package legmt is a thin client for the Montana legislature's public
// API (api.legmt.gov). Responses are returned as raw JSON so the
// fetcher can write them to disk byte-for-byte; parsing happens
// downstream in the reconciliation pipeline.
package legmt

import (
	"context"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

const DefaultBaseUrl = "https://api.legmt.gov"

type Client struct {
	http *resty.Client
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// identifies the scraper to the API operators, e.g.
	// "MTLeg-Scraper/1.0 (+https://example.org/contact/)"
	UserAgent string
}

func NewClient(opts ClientOptions) Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(time.Second * 30)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("Accept", "application/json, text/plain, */*")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	instrument(client)

	return Client{http: client}
}

func (c Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: status %d", path, res.StatusCode())
	}
	return res.Body(), nil
}

// SearchBills posts a session-scoped search and returns the full bills
// payload (`{"content": [...]}`). The 2025 API wants the session id
// wrapped in a list.
func (c Client) SearchBills(ctx context.Context, sessionId int) ([]byte, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("includeCounts", "true").
		SetQueryParam("limit", "9999").
		SetQueryParam("offset", "0").
		SetBody(map[string]any{"sessionIds": []int{sessionId}}).
		Post("/bills/v1/bills/search")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("POST /bills/v1/bills/search: status %d", res.StatusCode())
	}
	return res.Body(), nil
}

func (c Client) VotesByBill(ctx context.Context, billId int64) ([]byte, error) {
	return c.get(ctx, "/bills/v1/votes/findByBillId", map[string]string{
		"billId": fmt.Sprint(billId),
	})
}

func (c Client) ExecutiveActionsByBill(ctx context.Context, billId int64) ([]byte, error) {
	return c.get(ctx, "/committees/v1/executiveActions/findByBillId", map[string]string{
		"billId": fmt.Sprint(billId),
	})
}

func (c Client) HearingsByBill(ctx context.Context, billId int64) ([]byte, error) {
	return c.get(ctx, "/committees/v1/standingCommitteeMeetingBillHearings/findByBillId", map[string]string{
		"billId": fmt.Sprint(billId),
	})
}

func (c Client) Legislators(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/legislators/v1/legislators", nil)
}

func (c Client) StandingCommittees(ctx context.Context, sessionId int) ([]byte, error) {
	return c.get(ctx, "/committees/v1/standingCommittees/findBySessionId", map[string]string{
		"sessionId": fmt.Sprint(sessionId),
	})
}
