package socialstats

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ChannelStats is what we could scrape off a creator's public channel page.
type ChannelStats struct {
	URL       string    `json:"url"`
	Followers *int      `json:"followers,omitempty"`
	AvgViews  *int      `json:"avg_views,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Fetcher struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewFetcher(timeoutMS, maxRetries int, log *zap.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

// Fetch downloads the channel page and parses follower and view counts out
// of it. Transient HTTP failures are retried with a linear backoff.
func (f *Fetcher) Fetch(ctx context.Context, channelURL string) (*ChannelStats, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, channelURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, channelURL)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}
	if lastErr != nil {
		return nil, lastErr
	}

	stats := parseDocument(doc)
	stats.URL = channelURL
	stats.FetchedAt = time.Now()
	return stats, nil
}

var followerPhraseRE = regexp.MustCompile(`(?i)([\d,.]+\s*[KkMm]?)\s*(followers|subscribers|members)`)

func parseDocument(doc *goquery.Document) *ChannelStats {
	stats := &ChannelStats{}

	// Structured counters first
	doc.Find("[data-followers]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("data-followers"); ok {
			if n := parseCount(v); n > 0 {
				stats.Followers = &n
				return false
			}
		}
		return true
	})
	for _, sel := range []string{".followers-count", ".subscriber-count", ".counter_value"} {
		if stats.Followers != nil {
			break
		}
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if n := parseCount(strings.TrimSpace(s.Text())); n > 0 {
				stats.Followers = &n
				return false
			}
			return true
		})
	}

	// Fallback: "1.2M followers" in the og:description meta
	if stats.Followers == nil {
		doc.Find(`meta[property="og:description"], meta[name="description"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			content, _ := s.Attr("content")
			if m := followerPhraseRE.FindStringSubmatch(content); m != nil {
				if n := parseCount(m[1]); n > 0 {
					stats.Followers = &n
					return false
				}
			}
			return true
		})
	}

	// Average the per-post view counters on the page
	total, count := 0, 0
	doc.Find("[data-views], .view-count, .post-views").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if v, ok := s.Attr("data-views"); ok {
			text = v
		}
		if n := parseCount(text); n > 0 {
			total += n
			count++
		}
	})
	if count > 0 {
		avg := total / count
		stats.AvgViews = &avg
	}
	return stats
}

var countRE = regexp.MustCompile(`[\d,.]+[KkMm]?`)

// parseCount reads counters like "12,345", "1.2K" or "3M".
func parseCount(text string) int {
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, ",", "")

	match := countRE.FindString(text)
	if match == "" {
		return 0
	}

	multiplier := 1
	if strings.HasSuffix(match, "K") || strings.HasSuffix(match, "k") {
		multiplier = 1000
		match = match[:len(match)-1]
	} else if strings.HasSuffix(match, "M") || strings.HasSuffix(match, "m") {
		multiplier = 1000000
		match = match[:len(match)-1]
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return int(f * float64(multiplier))
}
