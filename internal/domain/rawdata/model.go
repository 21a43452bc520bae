package rawdata

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Payload is a provider response kept verbatim for audit and replay.
type Payload struct {
	Source     string
	Endpoint   string
	SeasonID   string
	PageOffset *int
	Paginated  bool
	URL        string
	Body       []byte
	FetchedAt  time.Time
}

// Key names the payload: {endpoint}_{season}, {endpoint}_{season}_{offset}
// for a single page, or {endpoint}_{season}_paginated for a merged crawl.
func (p Payload) Key() string {
	switch {
	case p.Paginated:
		return fmt.Sprintf("%s_%s_paginated", p.Endpoint, p.SeasonID)
	case p.PageOffset != nil:
		return fmt.Sprintf("%s_%s_%d", p.Endpoint, p.SeasonID, *p.PageOffset)
	default:
		return fmt.Sprintf("%s_%s", p.Endpoint, p.SeasonID)
	}
}

func (p Payload) Hash() string {
	sum := sha256.Sum256(p.Body)
	return hex.EncodeToString(sum[:])
}

func (p Payload) Validate() error {
	if p.Endpoint == "" || p.SeasonID == "" {
		return fmt.Errorf("payload endpoint and season id are required")
	}
	if len(p.Body) == 0 {
		return fmt.Errorf("payload %s has an empty body", p.Key())
	}
	return nil
}

func Offset(v int) *int {
	return &v
}
