package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/config"
)

// ErrNotFound is returned when the API reports an error instead of a movie
var ErrNotFound = errors.New("movie not found")

// MovieInfo is the normalized record returned by a successful lookup.
// Rating stays a raw string, the store decides how to ingest it.
type MovieInfo struct {
	Title    string
	Director string
	Year     string
	Poster   string
	IMDBID   string
	Plot     string
	Rating   string
}

// response is the raw OMDb JSON payload
type response struct {
	Title      string `json:"Title"`
	Director   string `json:"Director"`
	Year       string `json:"Year"`
	Poster     string `json:"Poster"`
	IMDBID     string `json:"imdbID"`
	Plot       string `json:"Plot"`
	IMDBRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Client wraps direct OMDb API HTTP calls
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *cache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new OMDb client with direct HTTP calls
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.OMDbAPIKey == "" {
		return nil, fmt.Errorf("OMDb API key is required")
	}

	ttl := time.Duration(cfg.LookupCacheTTL) * time.Minute

	return &Client{
		baseURL: cfg.OMDbURL,
		apiKey:  cfg.OMDbAPIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.LookupTimeout) * time.Second,
		},
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}, nil
}

// LookupByTitle resolves a title to a normalized movie record
func (c *Client) LookupByTitle(ctx context.Context, title string) (*MovieInfo, error) {
	return c.lookup(ctx, "t", title)
}

// LookupByID resolves an external identifier to a normalized movie record
func (c *Client) LookupByID(ctx context.Context, imdbID string) (*MovieInfo, error) {
	return c.lookup(ctx, "i", imdbID)
}

// lookup performs one OMDb API call, parameterized by either title ("t") or
// external id ("i"), never both. Results are cached per key.
func (c *Client) lookup(ctx context.Context, param, value string) (*MovieInfo, error) {
	cacheKey := param + ":" + value
	if cached, ok := c.cache.Get(cacheKey); ok {
		info := cached.(MovieInfo)
		return &info, nil
	}

	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid OMDb URL: %w", err)
	}

	params := url.Values{}
	params.Add("apikey", c.apiKey)
	params.Add(param, value)
	params.Add("plot", "full")
	apiURL.RawQuery = params.Encode()

	c.logger.WithFields(logrus.Fields{
		"param": param,
		"value": value,
	}).Debug("Performing OMDb lookup")

	raw, err := c.get(ctx, apiURL.String())
	if err != nil {
		return nil, err
	}

	var omdbResp response
	if err := json.Unmarshal(raw, &omdbResp); err != nil {
		return nil, fmt.Errorf("failed to parse OMDb response: %w", err)
	}

	// The API signals failure in-band with Response=False plus an Error field
	if omdbResp.Error != "" || omdbResp.Response == "False" {
		c.logger.WithField("error", omdbResp.Error).Debug("OMDb reported no match")
		return nil, ErrNotFound
	}

	info := MovieInfo{
		Title:    omdbResp.Title,
		Director: omdbResp.Director,
		Year:     omdbResp.Year,
		Poster:   omdbResp.Poster,
		IMDBID:   omdbResp.IMDBID,
		Plot:     omdbResp.Plot,
		Rating:   omdbResp.IMDBRating,
	}

	// A payload missing any core descriptive field counts as a failed lookup
	if info.Title == "" || info.Director == "" || info.Year == "" ||
		info.Poster == "" || info.IMDBID == "" || info.Plot == "" {
		c.logger.WithField("imdb_id", info.IMDBID).Warn("OMDb response missing core fields")
		return nil, ErrNotFound
	}

	c.cache.Set(cacheKey, info, cache.DefaultExpiration)

	return &info, nil
}

// get fetches a URL with bounded exponential retry on transient failures
func (c *Client) get(ctx context.Context, finalURL string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", "movielib/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("OMDb API request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("OMDb API returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("OMDb API returned status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read OMDb response: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return body, nil
}
