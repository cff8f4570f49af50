package passage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"sort"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// DefaultGutendexURL is the public Gutendex API.
const DefaultGutendexURL = "https://gutendex.com"

const (
	listTimeout = 10 * time.Second
	textTimeout = 15 * time.Second
	maxPage     = 5
)

// ErrNoText is returned when a book offers neither plain text nor HTML.
var ErrNoText = errors.New("book has no text format")

// Book is a Gutendex search result.
type Book struct {
	ID      int               `json:"id"`
	Title   string            `json:"title"`
	Formats map[string]string `json:"formats"`
}

type bookList struct {
	Results []Book `json:"results"`
}

// Client fetches children's books from a Gutendex server.
type Client struct {
	baseURL string
	client  *http.Client
	rng     *rand.Rand
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// WithRand sets the random source used to pick pages and books.
func WithRand(rng *rand.Rand) ClientOption {
	return func(c *Client) { c.rng = rng }
}

// NewClient creates a Gutendex client. An empty baseURL uses
// DefaultGutendexURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultGutendexURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchRandom picks a random English children's book from one of the
// first result pages and returns its cleaned text with the book title.
func (c *Client) FetchRandom(ctx context.Context) (text, title string, err error) {
	page := c.rng.IntN(maxPage) + 1
	url := fmt.Sprintf("%s/books/?topic=children&languages=en&page=%d", c.baseURL, page)

	listCtx, cancel := context.WithTimeout(ctx, listTimeout)
	data, err := c.get(listCtx, url)
	cancel()
	if err != nil {
		return "", "", fmt.Errorf("list books: %w", err)
	}
	var list bookList
	if err := json.Unmarshal(data, &list); err != nil {
		return "", "", fmt.Errorf("decode book list: %w", err)
	}
	if len(list.Results) == 0 {
		return "", "", fmt.Errorf("list books: no results on page %d", page)
	}
	book := list.Results[c.rng.IntN(len(list.Results))]

	textURL, isHTML := pickFormat(book.Formats)
	if textURL == "" {
		return "", book.Title, fmt.Errorf("%s: %w", book.Title, ErrNoText)
	}

	textCtx, cancel := context.WithTimeout(ctx, textTimeout)
	defer cancel()
	body, err := c.get(textCtx, textURL)
	if err != nil {
		return "", book.Title, fmt.Errorf("download %s: %w", book.Title, err)
	}

	raw := string(body)
	if isHTML {
		converter := md.NewConverter("", true, nil)
		if raw, err = converter.ConvertString(raw); err != nil {
			return "", book.Title, fmt.Errorf("convert %s: %w", book.Title, err)
		}
	}
	return CleanText(raw), book.Title, nil
}

// pickFormat prefers the first text/plain format and falls back to
// text/html. Keys are visited in sorted order so the choice is stable.
func pickFormat(formats map[string]string) (string, bool) {
	keys := make([]string, 0, len(formats))
	for k := range formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.HasPrefix(k, "text/plain") {
			return formats[k], false
		}
	}
	for _, k := range keys {
		if strings.HasPrefix(k, "text/html") {
			return formats[k], true
		}
	}
	return "", false
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
