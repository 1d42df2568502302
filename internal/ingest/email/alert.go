package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/emersion/go-imap/v2"
	"github.com/sirupsen/logrus"

	"roomscout-engine/internal/config"
	"roomscout-engine/internal/domain"
	"roomscout-engine/internal/ingest/types"
)

// Fetcher ingests listing-alert emails: property sites send "new rooms
// matching your alert" digests whose HTML carries one anchor per listing.
// Matched emails are marked \Seen only after their listings were processed.
type Fetcher struct {
	Cfg      config.Config
	Password string
	Log      *logrus.Logger
}

func (f *Fetcher) Name() string { return "email" }

func (f *Fetcher) Fetch(ctx context.Context) (types.Result, error) {
	const maxEmails = 500

	res := types.Result{Source: f.Name()}
	cfg := f.Cfg

	if !cfg.Email.Enabled {
		return res, nil
	}
	if cfg.Email.IMAPHost == "" || cfg.Email.Username == "" {
		return res, fmt.Errorf("email enabled but missing imap_host/username")
	}
	if f.Password == "" {
		return res, fmt.Errorf("missing IMAP password (store it via the secrets endpoint)")
	}

	addr := cfg.Email.IMAPHost
	if !strings.Contains(addr, ":") {
		if cfg.Email.IMAPPort != 0 {
			addr = fmt.Sprintf("%s:%d", addr, cfg.Email.IMAPPort)
		} else {
			addr += ":993"
		}
	}
	mailbox := cfg.Email.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}

	c, err := DialAndLogin(ctx, addr, cfg.Email.Username, f.Password,
		&tls.Config{MinVersion: tls.VersionTLS12, ServerName: cfg.Email.IMAPHost})
	if err != nil {
		return res, err
	}

	if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		LogoutAndClose(c)
		return res, fmt.Errorf("imap select %q: %w", mailbox, err)
	}

	msgs, err := FetchUnseen(ctx, c, maxEmails)
	if err != nil {
		LogoutAndClose(c)
		return res, err
	}

	processed := make([]imap.UID, 0, len(msgs))
	for _, m := range msgs {
		subj := decodeRFC2047(m.Subject)
		if len(cfg.Email.SearchSubjectAny) > 0 && !containsAnyCI(subj, cfg.Email.SearchSubjectAny) {
			continue
		}

		htmlBody := htmlPart(m.Raw)
		if htmlBody == "" {
			processed = append(processed, m.UID)
			continue
		}

		listings, perr := ParseAlertHTML(htmlBody)
		if perr != nil {
			f.Log.WithError(perr).Warn("alert parse failed")
			continue
		}
		res.Listings = append(res.Listings, listings...)
		processed = append(processed, m.UID)
	}

	res.Finalize = func(context.Context) error {
		defer LogoutAndClose(c)
		return MarkSeen(c, processed)
	}
	return res, nil
}

// ParseAlertHTML pulls listings out of an alert digest. Anchors that point
// at a listing page become one raw listing each; the surrounding card text
// supplies price and location when present.
func ParseAlertHTML(htmlBody string) ([]domain.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []domain.RawListing

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !looksLikeListingURL(href) || seen[href] {
			return
		}
		name := clean(a.Text())
		if name == "" || len(name) < 4 {
			return
		}
		seen[href] = true

		l := domain.RawListing{
			Name:     name,
			Source:   "email",
			SourceID: "email:" + href,
		}

		// nearest container often carries "GHS 900/month · East Legon"
		card := a.Closest("td, div, li")
		if card.Length() > 0 {
			blob := clean(card.Text())
			rec := map[string]any{"price": blob}
			if p := domain.FromRecord(rec); p.Price != nil {
				l.Price = p.Price
			}
		}
		out = append(out, l)
	})

	return out, nil
}

func looksLikeListingURL(href string) bool {
	h := strings.ToLower(href)
	if !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
		return false
	}
	for _, marker := range []string{"listing", "property", "room", "hostel", "apartment"} {
		if strings.Contains(h, marker) {
			return true
		}
	}
	return false
}

// htmlPart extracts the text/html body from a raw RFC822 message,
// decoding quoted-printable and base64 transfer encodings. Best effort;
// returns "" when there is no HTML part.
func htmlPart(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	body, _ := io.ReadAll(io.LimitReader(msg.Body, 8<<20))
	return findHTML(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), body)
}

func findHTML(contentType, cte string, body []byte) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	mediaType = strings.ToLower(mediaType)

	switch {
	case mediaType == "text/html":
		return string(decodeTransfer(body, cte))
	case strings.HasPrefix(mediaType, "multipart/"):
		boundary := params["boundary"]
		if boundary == "" {
			return ""
		}
		mr := multipart.NewReader(bytes.NewReader(body), boundary)
		for {
			part, err := mr.NextPart()
			if err != nil {
				return ""
			}
			pb, _ := io.ReadAll(io.LimitReader(part, 8<<20))
			if s := findHTML(part.Header.Get("Content-Type"),
				part.Header.Get("Content-Transfer-Encoding"), pb); s != "" {
				return s
			}
		}
	default:
		return ""
	}
}

func decodeTransfer(body []byte, cte string) []byte {
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "quoted-printable":
		out, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(body)))
		if err == nil {
			return out
		}
	case "base64":
		out, err := io.ReadAll(base64.NewDecoder(base64.StdEncoding, bytes.NewReader(body)))
		if err == nil {
			return out
		}
	}
	return body
}

func decodeRFC2047(s string) string {
	dec := new(mime.WordDecoder)
	out, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

func containsAnyCI(s string, needles []string) bool {
	ls := strings.ToLower(s)
	for _, n := range needles {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" && strings.Contains(ls, n) {
			return true
		}
	}
	return false
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
