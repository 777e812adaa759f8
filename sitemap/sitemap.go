// Package sitemap discovers and parses XML sitemaps. Sitemap locations are
// taken from the site's robots.txt when available, falling back to common
// well-known paths; sitemap index files are followed recursively.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/marklab/marklab/fetch"
)

// URL is one entry from a sitemap
type URL struct {
	Loc        string
	LastMod    string
	ChangeFreq string

	// Priority is the sitemap priority (0.0-1.0), or -1 when the entry
	// does not declare one
	Priority float64
}

// HasPriority reports whether the entry declared a priority
func (u URL) HasPriority() bool {
	return u.Priority >= 0
}

// fallbackPaths are tried when robots.txt names no sitemaps
var fallbackPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap/sitemap.xml",
	"/sitemaps/sitemap.xml",
}

// Parser discovers and parses a site's sitemaps
type Parser struct {
	client *fetch.Client

	// RespectRobotsTxt checks robots.txt for sitemap locations before
	// trying the well-known paths
	RespectRobotsTxt bool

	processed map[string]bool
}

// NewParser creates a sitemap parser that fetches through client
func NewParser(client *fetch.Client) *Parser {
	return &Parser{
		client:           client,
		RespectRobotsTxt: true,
	}
}

// Discover finds and parses the site's sitemaps, returning every URL entry.
// Candidate sitemap locations are tried in order; the first one that yields
// URLs wins.
func (p *Parser) Discover(ctx context.Context, baseURL string) ([]URL, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	origin := parsed.Scheme + "://" + parsed.Host

	p.processed = make(map[string]bool)

	var locations []string
	if p.RespectRobotsTxt {
		locations = p.sitemapsFromRobots(ctx, origin)
	}
	if len(locations) == 0 {
		for _, path := range fallbackPaths {
			locations = append(locations, origin+path)
		}
	}

	for _, loc := range locations {
		urls := p.processSitemap(ctx, loc)
		if len(urls) > 0 {
			return urls, nil
		}
	}

	return nil, fmt.Errorf("no sitemap found for %s", origin)
}

// sitemapsFromRobots extracts Sitemap: directives from robots.txt
func (p *Parser) sitemapsFromRobots(ctx context.Context, origin string) []string {
	body, err := p.client.Get(ctx, origin+"/robots.txt")
	if err != nil {
		return nil
	}

	var sitemaps []string
	for _, line := range strings.Split(body, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if loc := strings.TrimSpace(value); loc != "" {
			sitemaps = append(sitemaps, loc)
		}
	}
	return sitemaps
}

// processSitemap fetches and parses one sitemap, following index entries
// recursively. Already-processed locations are skipped so cyclic indices
// cannot loop.
func (p *Parser) processSitemap(ctx context.Context, loc string) []URL {
	if p.processed[loc] {
		return nil
	}
	p.processed[loc] = true

	body, err := p.client.Get(ctx, loc)
	if err != nil {
		return nil
	}

	urls, children := parseSitemapXML(body)
	for _, child := range children {
		urls = append(urls, p.processSitemap(ctx, child)...)
	}
	return urls
}

type xmlURLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc        string `xml:"loc"`
		LastMod    string `xml:"lastmod"`
		ChangeFreq string `xml:"changefreq"`
		Priority   string `xml:"priority"`
	} `xml:"url"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

// parseSitemapXML parses sitemap content, returning URL entries and any
// child sitemap locations from an index document
func parseSitemapXML(content string) ([]URL, []string) {
	var index xmlSitemapIndex
	if err := xml.Unmarshal([]byte(content), &index); err == nil && len(index.Sitemaps) > 0 {
		children := make([]string, 0, len(index.Sitemaps))
		for _, sm := range index.Sitemaps {
			if loc := strings.TrimSpace(sm.Loc); loc != "" {
				children = append(children, loc)
			}
		}
		return nil, children
	}

	var set xmlURLSet
	if err := xml.Unmarshal([]byte(content), &set); err != nil {
		return nil, nil
	}

	urls := make([]URL, 0, len(set.URLs))
	for _, u := range set.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		entry := URL{
			Loc:        loc,
			LastMod:    strings.TrimSpace(u.LastMod),
			ChangeFreq: strings.TrimSpace(u.ChangeFreq),
			Priority:   -1,
		}
		if pr, err := strconv.ParseFloat(strings.TrimSpace(u.Priority), 64); err == nil {
			entry.Priority = pr
		}
		urls = append(urls, entry)
	}
	return urls, nil
}

// Filter narrows a URL list
type Filter struct {
	// MinPriority drops entries with a declared priority below this
	// value; entries without a priority always pass
	MinPriority float64

	// Include keeps only locations matching at least one pattern when
	// non-empty
	Include []*regexp.Regexp

	// Exclude drops locations matching any pattern
	Exclude []*regexp.Regexp

	// Limit caps the result length; zero means unlimited
	Limit int
}

// CompileFilter builds a filter from pattern strings
func CompileFilter(minPriority float64, include, exclude []string, limit int) (*Filter, error) {
	f := &Filter{MinPriority: minPriority, Limit: limit}

	for _, pattern := range include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling include pattern %q: %w", pattern, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, pattern := range exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling exclude pattern %q: %w", pattern, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Apply returns the entries passing every criterion, preserving order
func (f *Filter) Apply(urls []URL) []URL {
	var out []URL

	for _, u := range urls {
		if u.HasPriority() && u.Priority < f.MinPriority {
			continue
		}
		if len(f.Include) > 0 && !anyMatch(f.Include, u.Loc) {
			continue
		}
		if anyMatch(f.Exclude, u.Loc) {
			continue
		}
		out = append(out, u)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
