package model

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
)

// RawRecord is one entry of the history-fetch collaborator's log:
// duplicate URLs are allowed, titles may be missing, and URLs may be
// malformed.
type RawRecord struct {
	URL           string  `json:"url"`
	Title         string  `json:"title"`
	LastVisitTime float64 `json:"lastVisitTime"` // milliseconds since epoch
}

// DecodeRecords reads a JSON array of raw history records.
func DecodeRecords(r io.Reader) ([]RawRecord, error) {
	var recs []RawRecord
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode history records: %w", err)
	}
	return recs, nil
}

// ExtractDomain derives the canonical domain for a URL: lowercased
// hostname with a leading "www." stripped. Non-parseable URLs fall back
// to the raw string so the event is still usable as a graph node.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// NewVisitEvent builds an immutable VisitEvent from a raw record.
func NewVisitEvent(rec RawRecord) VisitEvent {
	return VisitEvent{
		URL:       rec.URL,
		Domain:    ExtractDomain(rec.URL),
		Title:     rec.Title,
		Timestamp: int64(rec.LastVisitTime),
	}
}

// domainFiltered reports whether a domain matches an entry of the
// filter list, either exactly or as a subdomain of it.
func domainFiltered(domain string, filtered []string) bool {
	for _, f := range filtered {
		if domain == f || strings.HasSuffix(domain, "."+f) {
			return true
		}
	}
	return false
}

// PrepareEvents converts raw records into the chronologically sorted
// event log the pipeline operates on. Records with an empty URL are
// dropped, as are visits on filtered domains (search result pages carry
// no topical signal of their own). The sort is stable so equal
// timestamps keep their input order.
func PrepareEvents(recs []RawRecord, filteredDomains []string) []VisitEvent {
	events := make([]VisitEvent, 0, len(recs))
	for _, rec := range recs {
		if rec.URL == "" {
			continue
		}
		ev := NewVisitEvent(rec)
		if domainFiltered(ev.Domain, filteredDomains) {
			continue
		}
		events = append(events, ev)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return events
}
