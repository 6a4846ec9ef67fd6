package ingest

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// ListingFetcher scrapes tender listing pages from portal sites using the
// CSS selectors named in the source registry. Rows come back in raw
// upstream shape and flow through FromRaw like API records.
type ListingFetcher struct {
	UserAgent      string
	RequestTimeout time.Duration
	DomainDelay    time.Duration
	MaxBodySize    int
}

func NewListingFetcher() *ListingFetcher {
	return &ListingFetcher{
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		RequestTimeout: 30 * time.Second,
		DomainDelay:    1 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
	}
}

// FetchListings walks a source's seed URLs, following next-page links up to
// MaxPages, and returns every listing row found.
func (f *ListingFetcher) FetchListings(src SourceConfig) ([]ListingRow, error) {
	if src.Selectors.Container == "" {
		return nil, fmt.Errorf("source %s: html_listing strategy needs a container selector", src.ID)
	}

	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.MaxBodySize(f.MaxBodySize),
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(f.RequestTimeout)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       f.DomainDelay,
	})

	maxPages := src.MaxPages
	if maxPages == 0 {
		maxPages = 1
	}

	var rows []ListingRow
	pagesVisited := 0

	c.OnHTML(src.Selectors.Container, func(e *colly.HTMLElement) {
		row := ListingRow{
			"_id":             strings.TrimSpace(e.ChildText(src.Selectors.ID)),
			"description":     strings.TrimSpace(e.ChildText(src.Selectors.Description)),
			"organization":    strings.TrimSpace(e.ChildText(src.Selectors.Organization)),
			"location":        strings.TrimSpace(e.ChildText(src.Selectors.Location)),
			"estimated cost":  strings.TrimSpace(e.ChildText(src.Selectors.Amount)),
			"submission date": strings.TrimSpace(e.ChildText(src.Selectors.Date)),
		}
		if src.Selectors.NoticeLink != "" {
			if href := e.ChildAttr(src.Selectors.NoticeLink, "href"); href != "" {
				row["noticeUrl"] = e.Request.AbsoluteURL(href)
			}
		}
		rows = append(rows, row)
	})

	if src.Selectors.NextPage != "" {
		c.OnHTML(src.Selectors.NextPage, func(e *colly.HTMLElement) {
			if pagesVisited >= maxPages {
				return
			}
			next := e.Request.AbsoluteURL(e.Attr("href"))
			if next != "" {
				e.Request.Visit(next)
			}
		})
	}

	c.OnRequest(func(r *colly.Request) {
		pagesVisited++
		log.Printf("[%s] Fetching listing page %d: %s", src.ID, pagesVisited, r.URL)
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("[%s] Listing fetch error for %s: %v", src.ID, r.Request.URL, err)
	})

	for _, seed := range src.Seeds {
		if err := c.Visit(seed); err != nil {
			return nil, fmt.Errorf("visiting seed %s: %w", seed, err)
		}
	}
	c.Wait()

	log.Printf("[%s] Listing fetch complete: %d rows from %d pages", src.ID, len(rows), pagesVisited)
	return rows, nil
}
