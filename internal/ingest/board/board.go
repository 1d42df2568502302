package board

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/ingest/types"
	"roomscout-engine/internal/ingest/util"
)

// Fetcher scrapes configured HTML listing boards. Board markup varies, so
// the card selectors are deliberately permissive and every field is
// best-effort.
type Fetcher struct {
	boards  []config.Board
	hc      *http.Client
	limiter *util.HostLimiter
	log     *logrus.Logger
}

func New(boards []config.Board, limiter *util.HostLimiter, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		boards:  boards,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
		log:     log,
	}
}

func (f *Fetcher) Name() string { return "board" }

func (f *Fetcher) Fetch(ctx context.Context) (types.Result, error) {
	res := types.Result{Source: f.Name()}
	for _, b := range f.boards {
		listings, err := f.fetchBoard(ctx, b)
		if err != nil {
			// one board being down must not fail the whole run
			f.log.WithField("board", b.Name).WithError(err).Warn("board fetch failed")
			continue
		}
		res.Listings = append(res.Listings, listings...)
	}
	return res, nil
}

const cardSelector = ".listing, .listing-card, .property-card, article[class*='listing'], li[class*='listing']"

func (f *Fetcher) fetchBoard(ctx context.Context, b config.Board) ([]domain.RawListing, error) {
	if f.limiter != nil {
		if err := f.limiter.WaitURL(ctx, b.URL); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "RoomScout/1.0 (+local)")

	resp, err := f.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("board get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("board status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("board parse html: %w", err)
	}

	var out []domain.RawListing
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		l := parseCard(card, b)
		if l.Name == "" {
			return
		}
		out = append(out, l)
	})
	return out, nil
}

func parseCard(card *goquery.Selection, b config.Board) domain.RawListing {
	l := domain.RawListing{Source: "board"}

	l.Name = firstText(card, "h1, h2, h3, .title, .name, a")
	l.Location = firstText(card, ".location, [class*='location'], .area")
	l.Address = firstText(card, ".address, [class*='address']")
	l.RoomType = firstText(card, ".room-type, [class*='room-type'], .type")
	l.Description = firstText(card, ".description, [class*='description'], p")

	card.Find(".amenities li, [class*='amenit'] li").Each(func(_ int, li *goquery.Selection) {
		if s := clean(li.Text()); s != "" {
			l.Amenities = append(l.Amenities, s)
		}
	})

	if priceText := firstText(card, ".price, [class*='price']"); priceText != "" {
		rec := map[string]any{"price": priceText}
		if p := domain.FromRecord(rec); p.Price != nil {
			l.Price = p.Price
			l.PriceUnit = inferUnit(priceText)
		}
	}

	card.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
			l.Images = append(l.Images, strings.TrimSpace(src))
		}
	})

	if href, ok := card.Find("a[href]").First().Attr("href"); ok {
		l.SourceID = "board:" + absoluteURL(b.URL, href)
	} else {
		l.SourceID = "board:" + b.Name + ":" + l.Name
	}
	return l
}

func inferUnit(priceText string) domain.PriceUnit {
	t := strings.ToLower(priceText)
	switch {
	case strings.Contains(t, "night"):
		return domain.UnitNight
	case strings.Contains(t, "day"):
		return domain.UnitDay
	case strings.Contains(t, "semester"):
		return domain.UnitSemester
	case strings.Contains(t, "year"), strings.Contains(t, "yr"):
		return domain.UnitYear
	case strings.Contains(t, "month"), strings.Contains(t, "mo"):
		return domain.UnitMonth
	default:
		return domain.UnitUnknown
	}
}

func firstText(s *goquery.Selection, selector string) string {
	return clean(s.Find(selector).First().Text())
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func absoluteURL(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}
