// Package links checks the reference URLs of skill documents. Only the
// References section of a document is considered; inline links elsewhere are
// illustrative and often deliberately fake.
package links

import (
	"context"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/SkillDoAI/skilldo/pkg/logger"
	"github.com/SkillDoAI/skilldo/pkg/skill"
)

// Result is the outcome of checking one reference URL.
type Result struct {
	Skill      string `json:"skill"`
	URL        string `json:"url"`
	StatusCode int    `json:"status_code,omitempty"`
	OK         bool   `json:"ok"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Checker verifies reference URLs with bounded concurrency and retries.
type Checker struct {
	client      *http.Client
	filter      *DomainFilter
	concurrency int
	attempts    uint
	delay       time.Duration
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) CheckerOption {
	return func(c *Checker) {
		c.client = client
	}
}

// WithDomainFilter restricts checking to allowed domains; filtered URLs are
// reported as skipped.
func WithDomainFilter(filter *DomainFilter) CheckerOption {
	return func(c *Checker) {
		c.filter = filter
	}
}

// WithConcurrency bounds the number of in-flight requests.
func WithConcurrency(n int) CheckerOption {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithRetry sets the retry attempts and fixed delay between them.
func WithRetry(attempts uint, delay time.Duration) CheckerOption {
	return func(c *Checker) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewChecker creates a checker with sane defaults.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		client:      &http.Client{Timeout: 15 * time.Second},
		concurrency: 4,
		attempts:    3,
		delay:       time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var urlPattern = regexp.MustCompile(`https?://[^\s)<>"']+`)

// ReferenceURLs extracts http(s) URLs from the References section of a
// document. Returns nil when the document has no References section.
func ReferenceURLs(s *skill.Skill) []string {
	if _, ok := s.Section("References"); !ok {
		return nil
	}

	inReferences := false
	seen := map[string]bool{}
	var urls []string

	for _, line := range strings.Split(s.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			inReferences = strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")) == "References"
			continue
		}
		if !inReferences {
			continue
		}
		for _, match := range urlPattern.FindAllString(line, -1) {
			url := strings.TrimRight(match, ".,;")
			if !seen[url] {
				seen[url] = true
				urls = append(urls, url)
			}
		}
	}
	return urls
}

// Check verifies the reference URLs of all given skills.
func (c *Checker) Check(ctx context.Context, skills map[string]*skill.Skill) []Result {
	type job struct {
		skillName string
		url       string
	}

	var jobs []job
	for _, s := range sortedSkills(skills) {
		for _, url := range ReferenceURLs(s) {
			jobs = append(jobs, job{skillName: s.Name, url: url})
		}
	}

	results := make([]Result, len(jobs))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, j := range jobs {
		wg.Add(1)
		go func(i int, j job) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = c.checkOne(ctx, j.skillName, j.url)
		}(i, j)
	}
	wg.Wait()

	return results
}

func (c *Checker) checkOne(ctx context.Context, skillName, url string) Result {
	result := Result{Skill: skillName, URL: url}

	if c.filter != nil && !c.filter.IsAllowed(url) {
		result.Skipped = true
		return result
	}

	err := retry.Do(
		func() error {
			status, err := c.request(ctx, url)
			result.StatusCode = status
			if err != nil {
				return err
			}
			if status >= 400 {
				return errors.Errorf("unexpected status %d", status)
			}
			return nil
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("url", url).WithField("attempt", n+1).Debug("retrying reference check")
		}),
	)

	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.OK = true
	return result
}

// request issues a HEAD request, falling back to GET when the server rejects
// HEAD outright.
func (c *Checker) request(ctx context.Context, url string) (int, error) {
	status, err := c.do(ctx, http.MethodHead, url)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		return c.do(ctx, http.MethodGet, url)
	}
	return status, err
}

func (c *Checker) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

func sortedSkills(skills map[string]*skill.Skill) []*skill.Skill {
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]*skill.Skill, 0, len(names))
	for _, name := range names {
		result = append(result, skills[name])
	}
	return result
}
