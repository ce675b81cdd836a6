package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultViaggiaTrenoBase is the national feed's REST root.
	DefaultViaggiaTrenoBase = "http://www.viaggiatreno.it/infomobilita/resteasy/viaggiatreno"
	// DefaultItaloBase is Italo's passenger info API root.
	DefaultItaloBase = "https://italoinviaggio.italotreno.it/api"
)

// Client fetches raw provider documents over HTTP. It does no
// normalization; callers hand the documents to package journey.
type Client struct {
	httpClient       *http.Client
	viaggiaTrenoBase string
	italoBase        string
}

// NewClient creates a provider client. Empty base URLs fall back to the
// public endpoints.
func NewClient(httpClient *http.Client, viaggiaTrenoBase, italoBase string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if viaggiaTrenoBase == "" {
		viaggiaTrenoBase = DefaultViaggiaTrenoBase
	}
	if italoBase == "" {
		italoBase = DefaultItaloBase
	}
	return &Client{httpClient: httpClient, viaggiaTrenoBase: viaggiaTrenoBase, italoBase: italoBase}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("provider: build request %s: %w", url, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider: HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// SearchTrainNumber queries the ViaggiaTreno autocomplete for a train
// number and returns the matching services departing on or after sameDay's
// midnight. A number with no matches returns an empty slice, not an
// error; "try again later" is the expected user-facing behavior.
func (c *Client) SearchTrainNumber(ctx context.Context, number string, sameDay time.Time) ([]TrainMatch, error) {
	body, err := c.get(ctx, c.viaggiaTrenoBase+"/cercaNumeroTrenoTrenoAutocomplete/"+number)
	if err != nil {
		return nil, err
	}
	return ParseTrainMatches(string(body), number, sameDay), nil
}

// ParseTrainMatches parses the autocomplete payload: one line per match,
// "LABEL|number-stationCode-dateMillis". Lines that do not decompose are
// skipped; services departing before sameDay's midnight are filtered out.
func ParseTrainMatches(body, number string, sameDay time.Time) []TrainMatch {
	y, m, d := sameDay.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, sameDay.Location()).UnixMilli()

	var matches []TrainMatch
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			continue
		}
		parts := strings.Split(fields[1], "-")
		if len(parts) < 3 {
			continue
		}
		ms, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil || ms < dayStart {
			continue
		}
		matches = append(matches, TrainMatch{
			Number:      number,
			StationCode: parts[1],
			DateMillis:  ms,
		})
	}
	return matches
}

// FetchTrainStatus fetches the ViaggiaTreno status document for an opaque
// "station/number/dateMillis" identifier.
func (c *Client) FetchTrainStatus(ctx context.Context, identifier string) (*TrainStatus, error) {
	body, err := c.get(ctx, c.viaggiaTrenoBase+"/andamentoTreno/"+identifier)
	if err != nil {
		return nil, err
	}
	var doc TrainStatus
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("provider: decode andamentoTreno: %w", err)
	}
	return &doc, nil
}

// FetchItaloStatus fetches Italo's status document for a train number.
func (c *Client) FetchItaloStatus(ctx context.Context, number string) (*ItaloStatus, error) {
	body, err := c.get(ctx, c.italoBase+"/RicercaTrenoService?number="+number)
	if err != nil {
		return nil, err
	}
	var doc ItaloStatus
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("provider: decode RicercaTrenoService: %w", err)
	}
	return &doc, nil
}
