package fetcher

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

const (
	maxTitleLen       = 512
	maxDescriptionLen = 10000
	maxCompanyLen     = 255
)

// Result is what could be extracted from a job posting page. A failed fetch
// is not an error: FetchError carries a user-facing explanation and the
// caller proceeds with whatever fields are present.
type Result struct {
	Title        string
	Company      string
	Description  string
	SourceDomain string
	FetchError   string
}

type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) Result
}

// Fetcher pulls a posting page over plain HTTP and reads title, company and
// description out of Open Graph, Twitter card and standard meta tags, with
// <title> and <h1> as fallbacks. When the plain fetch yields no title and
// headless mode is on, it retries through a browser for script-rendered pages.
type Fetcher struct {
	timeout  time.Duration
	headless bool
	logger   *log.Logger
}

func New(timeout time.Duration, headless bool, logger *log.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{timeout: timeout, headless: headless, logger: logger}
}

func httpHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	}
}

func (f *Fetcher) Fetch(ctx context.Context, pageURL string) Result {
	result := Result{SourceDomain: extractDomain(pageURL)}

	c := colly.NewCollector()
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var parsed bool
	c.OnHTML("html", func(e *colly.HTMLElement) {
		parsed = true
		extractInto(&result, e.DOM)
	})

	var reqErr error
	var statusCode int
	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
		if r != nil {
			statusCode = r.StatusCode
		}
	})

	if ctx.Err() != nil {
		result.FetchError = fetchErrUnreachable
		return result
	}

	visitErr := c.Visit(pageURL)
	c.Wait()
	if visitErr != nil && reqErr == nil {
		reqErr = visitErr
	}

	if reqErr != nil && !parsed {
		f.logger.Printf("fetch=page url=%s status=error code=%d err=%v", pageURL, statusCode, reqErr)
		result.FetchError = classifyFetchError(reqErr, statusCode)
		return result
	}

	if result.Title == "" && f.headless {
		f.fetchHeadless(ctx, pageURL, &result)
	}

	deriveCompany(&result)
	return result
}

// extractInto fills only the fields still empty, in the same precedence as a
// single pass: og tags first, twitter card, standard meta, then document
// fallbacks. The first matching tag in document order wins.
func extractInto(result *Result, doc *goquery.Selection) {
	if result.Title == "" {
		result.Title = truncate(metaContent(doc, "meta[property='og:title']"), maxTitleLen)
	}
	if result.Description == "" {
		result.Description = truncate(metaContent(doc, "meta[property='og:description']"), maxDescriptionLen)
	}
	if result.Title == "" {
		result.Title = truncate(metaContent(doc, "meta[name='twitter:title']"), maxTitleLen)
	}
	if result.Title == "" {
		result.Title = truncate(metaContentMatching(doc, titleNameRe), maxTitleLen)
	}
	if result.Title == "" {
		result.Title = truncate(strings.TrimSpace(doc.Find("title").First().Text()), maxTitleLen)
	}
	if result.Description == "" {
		result.Description = truncate(metaContentMatching(doc, descriptionNameRe), maxDescriptionLen)
	}
	if result.Title == "" {
		result.Title = truncate(strings.TrimSpace(doc.Find("h1").First().Text()), maxTitleLen)
	}
}

// deriveCompany guesses the company from a "Senior Engineer at Acme" style
// title, falling back to the domain stem (careers.acme.com -> careers).
func deriveCompany(result *Result) {
	if result.Company == "" && result.Title != "" {
		if m := companyAtRe.FindStringSubmatch(result.Title); m != nil {
			result.Company = truncate(strings.TrimSpace(m[1]), maxCompanyLen)
		}
	}
	if result.Company == "" && result.SourceDomain != "" {
		stem := strings.ReplaceAll(result.SourceDomain, "www.", "")
		if i := strings.Index(stem, "."); i >= 0 {
			stem = stem[:i]
		}
		result.Company = truncate(stem, maxCompanyLen)
	}
}

var (
	titleNameRe       = regexp.MustCompile(`(?i)title`)
	descriptionNameRe = regexp.MustCompile(`(?i)description`)
	companyAtRe       = regexp.MustCompile(`\s+at\s+([A-Za-z0-9&\s]+?)(?:\s*[-|]|$)`)
)

const (
	fetchErrUnreachable = "Could not reach the URL (timeout or connection error). You can still add the application and edit details manually."
	fetchErrGeneric     = "Could not fetch the page. You can still add the application and edit details manually."
)

func classifyFetchError(err error, statusCode int) string {
	if statusCode >= 400 {
		return fmt.Sprintf("Site returned %d. You can still add the application and edit details manually.", statusCode)
	}
	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline") ||
		strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") {
		return fetchErrUnreachable
	}
	return fetchErrGeneric
}

func metaContent(doc *goquery.Selection, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// metaContentMatching returns the content of the first meta tag whose name
// attribute matches re, in document order.
func metaContentMatching(doc *goquery.Selection, re *regexp.Regexp) string {
	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := s.Attr("name")
		if !re.MatchString(name) {
			return true
		}
		c, _ := s.Attr("content")
		c = strings.TrimSpace(c)
		if c == "" {
			return true
		}
		content = c
		return false
	})
	return content
}

func extractDomain(pageURL string) string {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil {
		return ""
	}
	return u.Host
}

// truncate caps s at max bytes without cutting a rune in half.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

var _ PageFetcher = (*Fetcher)(nil)
