// Package explorer queries the PDP explorer API for the proof health of
// stored data roots.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/LesnyRumcajs/pdp-hackathon/internal/common"
	"github.com/LesnyRumcajs/pdp-hackathon/internal/logging"
)

// Health is the explorer's verdict on a root.
type Health int

const (
	// HealthUnknown means the root has no proving history yet (or was not
	// found in the proof set at all). It triggers no transition.
	HealthUnknown Health = iota
	HealthProven
	HealthFaulty
)

func (h Health) String() string {
	switch h {
	case HealthProven:
		return "proven"
	case HealthFaulty:
		return "faulty"
	default:
		return "unknown"
	}
}

// Root is one entry of a proof set's roots listing. The full API schema is
// decoded even where the relay only needs the epochs.
type Root struct {
	RootID               uint64  `json:"rootId"`
	CID                  string  `json:"cid"`
	Size                 uint64  `json:"size"`
	Removed              bool    `json:"removed"`
	TotalPeriodsFaulted  uint64  `json:"totalPeriodsFaulted"`
	TotalProofsSubmitted uint64  `json:"totalProofsSubmitted"`
	LastProvenEpoch      uint64  `json:"lastProvenEpoch"`
	LastProvenAt         *string `json:"lastProvenAt"`
	LastFaultedEpoch     uint64  `json:"lastFaultedEpoch"`
	LastFaultedAt        *string `json:"lastFaultedAt"`
	CreatedAt            string  `json:"createdAt"`
}

// Metadata is the paging envelope of a roots listing.
type Metadata struct {
	Total  uint64 `json:"total"`
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// RootsListing is the explorer's response for one proof set.
type RootsListing struct {
	Data     []Root   `json:"data"`
	Metadata Metadata `json:"metadata"`
}

// Client talks to a PDP explorer instance over HTTP.
type Client struct {
	baseURL    string
	rootsLimit int
	httpClient *http.Client
	logger     logging.Logger
}

func NewClient(baseURL string, rootsLimit int, timeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		rootsLimit: rootsLimit,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CheckHealth fetches the roots of proofSetID and derives the health of
// rootCID. Transport failures, non-2xx responses and undecodable bodies wrap
// common.ErrQuery; the caller treats them as soft failures.
func (c *Client) CheckHealth(ctx context.Context, proofSetID, rootCID string) (Health, error) {
	listing, err := c.Roots(ctx, proofSetID)
	if err != nil {
		return HealthUnknown, err
	}

	health, found := RootsHealth(listing.Data, rootCID)
	if !found {
		c.logger.Warn(ctx, "root not listed in proof set", "proofset_id", proofSetID, "root_cid", rootCID)
	}
	return health, nil
}

// Roots fetches one page of a proof set's roots listing.
func (c *Client) Roots(ctx context.Context, proofSetID string) (*RootsListing, error) {
	endpoint := fmt.Sprintf("%s/api/proofsets/%s/roots?orderBy=root_id&limit=%d",
		c.baseURL, url.PathEscape(proofSetID), c.rootsLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", common.ErrQuery, err)
	}

	c.logger.Debug(ctx, "querying explorer", "url", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrQuery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %s", common.ErrQuery, resp.Status)
	}

	var listing RootsListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", common.ErrQuery, err)
	}
	return &listing, nil
}

// RootsHealth derives the health of rootCID from a roots listing. Among the
// matching roots that have proving history, any root whose last proof is
// older than its last fault makes the whole file faulty; otherwise a single
// proven epoch is enough. Matching roots with no history yet, or no match at
// all, yield HealthUnknown. The second return value reports whether any root
// matched the CID.
func RootsHealth(roots []Root, rootCID string) (Health, bool) {
	var found, proven, faulty bool
	for _, root := range roots {
		if root.CID != rootCID {
			continue
		}
		found = true
		if root.LastProvenEpoch == 0 && root.LastFaultedEpoch == 0 {
			continue
		}
		if root.LastProvenEpoch > 0 && root.LastProvenEpoch < root.LastFaultedEpoch {
			faulty = true
		} else if root.LastProvenEpoch > 0 {
			proven = true
		}
	}
	switch {
	case faulty:
		return HealthFaulty, found
	case proven:
		return HealthProven, found
	default:
		return HealthUnknown, found
	}
}
