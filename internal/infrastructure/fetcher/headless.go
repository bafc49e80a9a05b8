package fetcher

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// fetchHeadless renders the page in a headless browser and re-runs the
// extraction on the rendered DOM. Used when a plain fetch finds no title,
// which usually means the posting is drawn client-side. Best effort only;
// whatever the plain fetch already produced stays in place on failure.
func (f *Fetcher) fetchHeadless(ctx context.Context, pageURL string, result *Result) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(httpHeaders()["User-Agent"]),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, f.timeout)
	defer reqCancel()

	var html string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		f.logger.Printf("fetch=headless url=%s status=error err=%v", pageURL, err)
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		f.logger.Printf("fetch=headless url=%s status=error err=%v", pageURL, err)
		return
	}

	extractInto(result, doc.Selection)
	if result.Title != "" {
		// The rendered page succeeded where the plain fetch failed.
		result.FetchError = ""
	}
	f.logger.Printf("fetch=headless url=%s status=ok title_found=%t", pageURL, result.Title != "")
}
