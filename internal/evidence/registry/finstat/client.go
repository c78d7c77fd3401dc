// Package finstat fetches company profiles from the FinStat detail API.
package finstat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kyc/internal/evidence/providers"
	"kyc/internal/kyc/models"
)

const (
	providerID      = "finstat"
	defaultTimeout  = 10 * time.Second
	maxResponseSize = 1 << 20
)

// Config holds the endpoint and the API key pair issued by FinStat.
type Config struct {
	URL        string
	APIKey     string
	PrivateKey string
	Timeout    time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}
}

// Hash computes the request signature FinStat expects for idNumber.
func Hash(apiKey, privateKey, idNumber string) string {
	sum := sha256.Sum256([]byte("SomeSalt+" + apiKey + "+" + privateKey + "++" + idNumber + "+ended"))
	return hex.EncodeToString(sum[:])
}

// detail mirrors the subset of the API response we map. Every field can be null.
type detail struct {
	Ico           *string  `json:"Ico"`
	Dic           *string  `json:"Dic"`
	IcDPH         *string  `json:"IcDPH"`
	Name          *string  `json:"Name"`
	Street        *string  `json:"Street"`
	StreetNumber  *string  `json:"StreetNumber"`
	ZipCode       *string  `json:"ZipCode"`
	City          *string  `json:"City"`
	District      *string  `json:"District"`
	Region        *string  `json:"Region"`
	Country       *string  `json:"Country"`
	Activity      *string  `json:"Activity"`
	Created       *string  `json:"Created"`
	Cancelled     *string  `json:"Cancelled"`
	URL           *string  `json:"Url"`
	Revenue       *float64 `json:"Revenue"`
	RevenueActual *float64 `json:"RevenueActual"`
}

// Lookup returns the profile registered for idNumber.
func (c *Client) Lookup(ctx context.Context, idNumber string) (*models.CompanyProfile, error) {
	if c.cfg.APIKey == "" || c.cfg.PrivateKey == "" {
		return nil, providers.NewProviderError(providers.ErrorAuthentication, providerID, "api keys not configured", nil)
	}

	form := url.Values{
		"Ico":    {idNumber},
		"apiKey": {c.cfg.APIKey},
		"Hash":   {Hash(c.cfg.APIKey, c.cfg.PrivateKey, idNumber)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "build request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.FromTransport(providerID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, providers.FromStatus(providerID, resp.StatusCode)
	}

	var d detail
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&d); err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "decode response", err)
	}
	if d.Ico == nil && d.Name == nil {
		return nil, providers.NewProviderError(providers.ErrorNotFound, providerID, fmt.Sprintf("no profile for %s", idNumber), nil)
	}
	return d.profile(), nil
}

func (d detail) profile() *models.CompanyProfile {
	return &models.CompanyProfile{
		IDNumber:      str(d.Ico),
		DIC:           str(d.Dic),
		VATID:         str(d.IcDPH),
		Name:          str(d.Name),
		Street:        str(d.Street),
		StreetNumber:  str(d.StreetNumber),
		Zip:           str(d.ZipCode),
		City:          str(d.City),
		District:      str(d.District),
		Region:        str(d.Region),
		Country:       str(d.Country),
		Activity:      str(d.Activity),
		Created:       str(d.Created),
		Cancelled:     str(d.Cancelled),
		URL:           str(d.URL),
		Revenue:       num(d.Revenue),
		RevenueActual: num(d.RevenueActual),
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
