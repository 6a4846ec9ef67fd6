package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	rpdf "rsc.io/pdf"

	"github.com/rohan/tender-scout/internal/models"
)

// Notice PDFs carry submission deadlines in a handful of layouts; these
// regexes pull the date tokens out of the extracted text.
var noticeDateRegexes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}-\d{1,2}-20\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/20\d{2}\b`),
	regexp.MustCompile(`\b20\d{2}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+20\d{2}\b`),
}

func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, fragment := range page.Content().Text {
			builder.WriteString(fragment.S)
			builder.WriteString(" ")
		}
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// parseNoticeDates extracts every parseable date token from notice text,
// deduplicated and in ascending order.
func parseNoticeDates(text string) []models.Date {
	seen := make(map[models.Date]bool)
	var dates []models.Date

	for _, expr := range noticeDateRegexes {
		for _, token := range expr.FindAllString(text, -1) {
			d, err := ParseSubmissionDate(token)
			if err != nil || seen[d] {
				continue
			}
			seen[d] = true
			dates = append(dates, d)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// ExtractNoticeDeadlines downloads a tender notice PDF and returns the date
// candidates found in it, soonest first.
func ExtractNoticeDeadlines(ctx context.Context, fetcher Fetcher, pdfURL string) ([]models.Date, error) {
	doc, err := fetcher.Fetch(ctx, pdfURL)
	if err != nil {
		return nil, err
	}
	defer doc.Body.Close()

	content, err := io.ReadAll(doc.Body)
	if err != nil {
		return nil, fmt.Errorf("pdf read failed: %w", err)
	}

	text, err := extractPDFText(content)
	if err != nil {
		return nil, fmt.Errorf("pdf text extraction failed: %w", err)
	}

	return parseNoticeDates(text), nil
}
