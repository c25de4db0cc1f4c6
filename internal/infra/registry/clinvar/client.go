package clinvar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bryanwahyu/myblueprint/internal/domain/report"
)

const (
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20

	anonymousRate = 3
	keyedRate     = 10
)

// DefaultRate is the E-utilities request allowance in requests per second:
// 3 without an API key and 10 with one.
func DefaultRate(apiKey string) float64 {
	if apiKey != "" {
		return keyedRate
	}
	return anonymousRate
}

// Options configures the E-utilities client.
type Options struct {
	BaseURL string
	APIKey  string
	Tool    string
	Email   string
	Timeout time.Duration
	// RequestsPerSecond is shared by every caller of the client; <= 0 disables limiting.
	RequestsPerSecond float64
}

// Client talks to NCBI ClinVar through esearch/esummary.
type Client struct {
	baseURL string
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL: base,
		opts:    opts,
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Close drops idle keep-alive connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

type infoResponse struct {
	Result struct {
		DBInfo []struct {
			DBName string `json:"dbname"`
		} `json:"dbinfo"`
	} `json:"einforesult"`
	Error string `json:"error"`
}

// Ping asks einfo for the clinvar database record. It shares the request
// allowance with Search and Summary.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("db", "clinvar")
	q.Set("retmode", "json")

	var resp infoResponse
	if err := c.get(ctx, "einfo.fcgi", q, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("clinvar einfo: %s", resp.Error)
	}
	if len(resp.Result.DBInfo) == 0 {
		return fmt.Errorf("clinvar einfo: no database info")
	}
	return nil
}

type searchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
		Error  string   `json:"ERROR"`
	} `json:"esearchresult"`
	Error string `json:"error"`
}

type summaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
	Error  string                     `json:"error"`
}

type classification struct {
	Description   string `json:"description"`
	LastEvaluated string `json:"last_evaluated"`
}

type summaryDoc struct {
	Title                  string         `json:"title"`
	ClinicalSignificance   classification `json:"clinical_significance"`
	GermlineClassification classification `json:"germline_classification"`
	GeneSort               string         `json:"gene_sort"`
	LastUpdated            string         `json:"last_updated"`
}

// Search implements report.Registry.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	q := url.Values{}
	q.Set("db", "clinvar")
	q.Set("term", term)
	q.Set("retmode", "json")

	var resp searchResponse
	if err := c.get(ctx, "esearch.fcgi", q, &resp); err != nil {
		return nil, err
	}
	if msg := firstNonEmpty(resp.Error, resp.Result.Error); msg != "" {
		return nil, fmt.Errorf("clinvar esearch: %s", msg)
	}
	return resp.Result.IDList, nil
}

// Summary implements report.Registry. A response without an entry for id
// yields (nil, nil).
func (c *Client) Summary(ctx context.Context, id string) (*report.VariantSummary, error) {
	q := url.Values{}
	q.Set("db", "clinvar")
	q.Set("id", id)
	q.Set("retmode", "json")

	var resp summaryResponse
	if err := c.get(ctx, "esummary.fcgi", q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("clinvar esummary: %s", resp.Error)
	}
	raw, ok := resp.Result[id]
	if !ok {
		return nil, nil
	}
	var doc summaryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("clinvar esummary %s: %w", id, err)
	}

	// newer records moved clinical_significance to germline_classification
	significance := firstNonEmpty(doc.ClinicalSignificance.Description, doc.GermlineClassification.Description)
	updated := firstNonEmpty(doc.LastUpdated, doc.ClinicalSignificance.LastEvaluated, doc.GermlineClassification.LastEvaluated)

	return &report.VariantSummary{
		Title:        firstNonEmpty(doc.Title, "Unknown Title"),
		Significance: report.NormalizeSignificance(significance),
		Gene:         firstNonEmpty(doc.GeneSort, "Unknown"),
		LastUpdated:  firstNonEmpty(updated, "Unknown"),
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	if c.opts.APIKey != "" {
		q.Set("api_key", c.opts.APIKey)
	}
	if c.opts.Tool != "" {
		q.Set("tool", c.opts.Tool)
	}
	if c.opts.Email != "" {
		q.Set("email", c.opts.Email)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + "/" + endpoint + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("clinvar %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("clinvar %s: reading body: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("clinvar %s: status %d: %s", endpoint, resp.StatusCode, truncate(string(body), 200))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("clinvar %s: decoding: %w", endpoint, err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
