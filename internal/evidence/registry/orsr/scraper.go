// Package orsr looks up the statutory body of a company in the Slovak
// business register (orsr.sk) by scraping its HTML pages.
package orsr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"kyc/internal/evidence/providers"
	"kyc/internal/kyc/ports"
	pstrings "kyc/pkg/platform/strings"
)

const (
	providerID       = "orsr"
	statutoryLabel   = "Štatutárny orgán"
	maxPageBytes     = 4 << 20
	defaultTimeout   = 10 * time.Second
	searchResultsCls = "bmk"
)

// Client scrapes the register. The register serves windows-1250 pages;
// bodies are decoded according to their Content-Type.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse registry url: %w", err)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{baseURL: u, httpClient: &http.Client{Timeout: timeout}}, nil
}

// LookupPersons finds the company by id number, follows the first search
// hit and returns the natural persons of its statutory body in page order.
// A company the register does not know yields a not_found ProviderError.
func (c *Client) LookupPersons(ctx context.Context, idNumber string) ([]ports.RegistryPerson, error) {
	search := c.baseURL.ResolveReference(&url.URL{
		Path:     "hladaj_ico.asp",
		RawQuery: url.Values{"ICO": {idNumber}, "SID": {"0"}}.Encode(),
	})
	doc, err := c.fetch(ctx, search)
	if err != nil {
		return nil, err
	}
	href := firstResultLink(doc)
	if href == "" {
		return nil, providers.NewProviderError(providers.ErrorNotFound, providerID, "company not listed", nil)
	}
	detail, err := search.Parse(href)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "invalid result link", err)
	}
	page, err := c.fetch(ctx, detail)
	if err != nil {
		return nil, err
	}

	names := pstrings.DedupeAndTrim(StatutoryNames(page))
	out := make([]ports.RegistryPerson, 0, len(names))
	for _, full := range names {
		name, surname := pstrings.SplitFullName(full)
		out = append(out, ports.RegistryPerson{Name: name, Surname: surname})
	}
	return out, nil
}

func (c *Client) fetch(ctx context.Context, u *url.URL) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, providerID, "build request", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.FromTransport(providerID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, providers.FromStatus(providerID, resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "unsupported charset", err)
	}
	doc, err := html.Parse(body)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorBadData, providerID, "parse page", err)
	}
	return doc, nil
}

// firstResultLink returns the href of the first link inside the search
// results block.
func firstResultLink(doc *html.Node) string {
	block := find(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, searchResultsCls)
	})
	if block == nil {
		return ""
	}
	link := find(block, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" && attr(n, "href") != ""
	})
	if link == nil {
		return ""
	}
	return attr(link, "href")
}

// StatutoryNames extracts the member names listed under the statutory-body
// row of a register extract. Each member sits in its own table whose first
// cell holds the name before the first <br> and the address after it; cells
// without a <br> are role captions. Legal-entity members are skipped.
func StatutoryNames(doc *html.Node) []string {
	label := find(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "span" && strings.Contains(text(n), statutoryLabel)
	})
	if label == nil {
		return nil
	}
	row := ancestor(label, "tr")
	if row == nil {
		return nil
	}

	var names []string
	cells := children(row, "td")
	if len(cells) < 2 {
		return nil
	}
	for _, member := range descendants(cells[1], "table") {
		first := find(member, func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == "td" })
		if first == nil {
			continue
		}
		name, ok := nameBeforeBreak(first)
		if !ok || name == "" || isLegalEntity(name) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func nameBeforeBreak(cell *html.Node) (string, bool) {
	var parts []string
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "br" {
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), true
		}
		parts = append(parts, text(c))
	}
	return "", false
}

func isLegalEntity(name string) bool {
	return strings.Contains(name, "s. r. o.") || strings.Contains(name, "a. s.") || strings.Contains(name, "s.r.o.")
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

// descendants returns the elements named tag below n, not descending into
// matches.
func descendants(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
			continue
		}
		out = append(out, descendants(c, tag)...)
	}
	return out
}

func children(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			out = append(out, c)
		}
	}
	return out
}

func ancestor(n *html.Node, tag string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
		b.WriteString(" ")
	}
	return b.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
