package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a cleaned copy of cfg plus everything a
// reviewer of the config should know. Warnings never block startup.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Search.SuggestionTemplates = trimList(out.Search.SuggestionTemplates)
	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.IngestSeconds <= 0 {
		res.addErr("polling.ingest_seconds must be > 0")
	} else if out.Polling.IngestSeconds < 30 {
		res.addWarn("polling.ingest_seconds is very low (%d) and may hammer sources.", out.Polling.IngestSeconds)
	}
	if out.Polling.EmailSeconds <= 0 {
		res.addErr("polling.email_seconds must be > 0")
	}

	if out.Search.DebounceMS < 0 {
		res.addErr("search.debounce_ms must be >= 0")
	} else if out.Search.DebounceMS > 1000 {
		res.addWarn("search.debounce_ms of %d will feel sluggish.", out.Search.DebounceMS)
	}

	for key, phrases := range out.Search.Amenities {
		if strings.TrimSpace(key) == "" {
			res.addErr("search.amenities has an empty key")
		}
		if len(phrases) == 0 {
			res.addWarn("search.amenities[%q] has no synonyms; the key itself will be used.", key)
		}
	}

	if out.Sources.Boards.Enabled && len(out.Sources.Boards.Boards) == 0 {
		res.addWarn("sources.boards.enabled is true but no boards are configured.")
	}
	for i, b := range out.Sources.Boards.Boards {
		if strings.TrimSpace(b.URL) == "" {
			res.addErr("sources.boards.boards[%d].url is required", i)
		}
	}
	if out.Sources.Feeds.Enabled && len(out.Sources.Feeds.Feeds) == 0 {
		res.addWarn("sources.feeds.enabled is true but no feeds are configured.")
	}
	for i, f := range out.Sources.Feeds.Feeds {
		if strings.TrimSpace(f.URL) == "" {
			res.addErr("sources.feeds.feeds[%d].url is required", i)
		}
	}

	// password lives in the keychain, not here
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Mailbox) == "" {
			res.addErr("email.mailbox is required when email.enabled=true")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; alert scanning may find nothing.")
		}
	}

	return out, res
}
