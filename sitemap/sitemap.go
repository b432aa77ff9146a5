// Package sitemap renders sitemap.xml from a YAML page policy and the
// published blog posts.
package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nusadigital/agency-site/models"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

var validChangeFreq = map[string]bool{
	"always": true, "hourly": true, "daily": true, "weekly": true,
	"monthly": true, "yearly": true, "never": true,
}

// Page is one static route of the site
type Page struct {
	Path       string  `yaml:"path"`
	ChangeFreq string  `yaml:"changefreq"`
	Priority   float64 `yaml:"priority"`
}

// Policy decides which URLs the sitemap lists
type Policy struct {
	Defaults Page     `yaml:"defaults"`
	Pages    []Page   `yaml:"pages"`
	Exclude  []string `yaml:"exclude"`
	Blog     struct {
		Prefix     string  `yaml:"prefix"`
		ChangeFreq string  `yaml:"changefreq"`
		Priority   float64 `yaml:"priority"`
	} `yaml:"blog"`
}

// DefaultPolicy is used when no policy file exists
func DefaultPolicy() *Policy {
	p := &Policy{
		Defaults: Page{ChangeFreq: "weekly", Priority: 0.5},
		Pages:    []Page{{Path: "/", ChangeFreq: "weekly", Priority: 1.0}},
		Exclude:  []string{"/api", "/admin", "/checkout", "/promo"},
	}
	p.applyDefaults()
	return p
}

// LoadPolicy reads a policy file, falling back to DefaultPolicy when the
// file does not exist.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultPolicy(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sitemap policy: %w", err)
	}
	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse sitemap policy: %w", err)
	}
	p.applyDefaults()
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Policy) applyDefaults() {
	if p.Defaults.ChangeFreq == "" {
		p.Defaults.ChangeFreq = "weekly"
	}
	if p.Defaults.Priority == 0 {
		p.Defaults.Priority = 0.5
	}
	for i := range p.Pages {
		if p.Pages[i].ChangeFreq == "" {
			p.Pages[i].ChangeFreq = p.Defaults.ChangeFreq
		}
		if p.Pages[i].Priority == 0 {
			p.Pages[i].Priority = p.Defaults.Priority
		}
	}
	if p.Blog.Prefix == "" {
		p.Blog.Prefix = "/blog"
	}
	if p.Blog.ChangeFreq == "" {
		p.Blog.ChangeFreq = p.Defaults.ChangeFreq
	}
	if p.Blog.Priority == 0 {
		p.Blog.Priority = p.Defaults.Priority
	}
}

func (p *Policy) validate() error {
	for _, page := range append(p.Pages, p.Defaults) {
		if !validChangeFreq[page.ChangeFreq] {
			return fmt.Errorf("invalid changefreq %q", page.ChangeFreq)
		}
		if page.Priority < 0 || page.Priority > 1 {
			return fmt.Errorf("priority %v for %q out of range", page.Priority, page.Path)
		}
	}
	for _, page := range p.Pages {
		if !strings.HasPrefix(page.Path, "/") {
			return fmt.Errorf("page path %q must start with /", page.Path)
		}
	}
	if !validChangeFreq[p.Blog.ChangeFreq] {
		return fmt.Errorf("invalid blog changefreq %q", p.Blog.ChangeFreq)
	}
	return nil
}

// Excluded reports whether path falls under an excluded prefix
func (p *Policy) Excluded(path string) bool {
	for _, prefix := range p.Exclude {
		prefix = strings.TrimSuffix(prefix, "/")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// Build lists the policy pages followed by every published post
func Build(siteURL string, policy *Policy, posts []models.BlogPost) *URLSet {
	siteURL = strings.TrimSuffix(siteURL, "/")
	set := &URLSet{Xmlns: xmlns}

	for _, page := range policy.Pages {
		if policy.Excluded(page.Path) {
			continue
		}
		set.URLs = append(set.URLs, URL{
			Loc:        siteURL + page.Path,
			ChangeFreq: page.ChangeFreq,
			Priority:   formatPriority(page.Priority),
		})
	}

	for _, post := range posts {
		if !post.Published || post.Slug == "" {
			continue
		}
		path := strings.TrimSuffix(policy.Blog.Prefix, "/") + "/" + post.Slug
		if policy.Excluded(path) {
			continue
		}
		u := URL{
			Loc:        siteURL + path,
			ChangeFreq: policy.Blog.ChangeFreq,
			Priority:   formatPriority(policy.Blog.Priority),
		}
		if modified := lastModified(post); !modified.IsZero() {
			u.LastMod = modified.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, u)
	}
	return set
}

// Write encodes the url set with the XML declaration
func Write(w io.Writer, set *URLSet) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	return enc.Flush()
}

func lastModified(post models.BlogPost) time.Time {
	if !post.UpdatedAt.IsZero() {
		return post.UpdatedAt
	}
	if post.PublishedAt != nil {
		return *post.PublishedAt
	}
	return time.Time{}
}

func formatPriority(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}
