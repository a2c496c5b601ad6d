package infra

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"acrate-badge/badge/domain"
)

const (
	DefaultProfileBaseURL = "https://atcoder.jp/users/"
	defaultFetchTimeout   = 10 * time.Second
	maxProfileBytes       = 4 << 20
)

// ProfileFetcher baixa a página de perfil de um usuário. Uma única tentativa
// por chamada; retry é decisão do chamador.
type ProfileFetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

type FetcherOption func(*ProfileFetcher)

func WithFetchClient(c *http.Client) FetcherOption {
	return func(f *ProfileFetcher) { f.client = c }
}

func WithBaseURL(u string) FetcherOption {
	return func(f *ProfileFetcher) { f.baseURL = u }
}

func WithUserAgent(ua string) FetcherOption {
	return func(f *ProfileFetcher) { f.userAgent = ua }
}

func NewProfileFetcher(opts ...FetcherOption) *ProfileFetcher {
	f := &ProfileFetcher{
		client:    &http.Client{Timeout: defaultFetchTimeout},
		baseURL:   DefaultProfileBaseURL,
		userAgent: "acrate-badge",
	}
	for _, opt := range opts {
		opt(f)
	}
	if !strings.HasSuffix(f.baseURL, "/") {
		f.baseURL += "/"
	}
	return f
}

// ProfileURL monta `{base}{handle}?contestType=...&lang=en`.
func (f *ProfileFetcher) ProfileURL(h domain.Handle, c domain.Category) string {
	q := url.Values{}
	q.Set("lang", "en")
	q.Set("contestType", c.UpstreamToken())
	return f.baseURL + url.PathEscape(h.String()) + "?" + q.Encode()
}

// Fetch faz o GET. Status não-2xx ou falha de transporte viram
// *domain.FetchError; o corpo é devolvido sem interpretação.
func (f *ProfileFetcher) Fetch(ctx context.Context, h domain.Handle, c domain.Category) (domain.Document, error) {
	u := f.ProfileURL(h, c)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return "", &domain.FetchError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "text/html")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &domain.FetchError{URL: u, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return "", &domain.FetchError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return "", &domain.FetchError{URL: u, Err: err}
	}
	return domain.Document(body), nil
}
