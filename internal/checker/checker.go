package checker

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	DefaultSetFlagTimeout = 20 * time.Second
	DefaultGetFlagTimeout = 25 * time.Second
)

// DefaultUserAgent is sent when neither WithUserAgent nor a User-Agent header is set.
const DefaultUserAgent = "pizzacheck/0.1.0"

var (
	defaultHeaders = map[string]string{
		"User-Agent": DefaultUserAgent,
	}

	targetValidator = validator.New(validator.WithRequiredStructEnabled())
)

// Target is the address of the pizza service under test.
type Target struct {
	Host string `validate:"required"`
	Port int    `validate:"min=1,max=65535"`
}

func (t Target) Validate() error {
	if err := targetValidator.Struct(t); err != nil {
		return fmt.Errorf("invalid target %s: %w", t, err)
	}
	return nil
}

func (t Target) String() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

type Config struct {
	Target         Target
	Headers        map[string]string
	SetFlagTimeout time.Duration
	GetFlagTimeout time.Duration
}

type Checker struct {
	baseURL        *url.URL
	httpClient     *http.Client
	headers        map[string]string
	setFlagTimeout time.Duration
	getFlagTimeout time.Duration
	userAgent      string
	logger         *zap.Logger
}

type Option func(*Checker)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Checker) {
		c.httpClient = httpClient
	}
}

// WithUserAgent replaces the default User-Agent. A User-Agent set through
// Config.Headers still takes precedence.
func WithUserAgent(userAgent string) Option {
	return func(c *Checker) {
		c.userAgent = userAgent
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

func NewChecker(cfg Config, opts ...Option) (*Checker, error) {
	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}

	baseURL := &url.URL{Scheme: "http", Host: cfg.Target.String()}

	c := &Checker{
		baseURL:        baseURL,
		setFlagTimeout: cfg.SetFlagTimeout,
		getFlagTimeout: cfg.GetFlagTimeout,
	}

	if c.setFlagTimeout == 0 {
		c.setFlagTimeout = DefaultSetFlagTimeout
	}
	if c.getFlagTimeout == 0 {
		c.getFlagTimeout = DefaultGetFlagTimeout
	}

	for _, opt := range opts {
		opt(c)
	}

	var userAgent map[string]string
	if c.userAgent != "" {
		userAgent = map[string]string{"User-Agent": c.userAgent}
	}
	c.headers = lo.Assign(defaultHeaders, userAgent, cfg.Headers)

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
		}
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.With(zap.String("target", baseURL.Host))

	return c, nil
}

func (c *Checker) BaseURL() *url.URL {
	return c.baseURL
}

func (c *Checker) endpoint(path string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends req once with the configured default headers and fails with a
// *StatusError for any non-2xx response. On success the caller owns resp.Body.
func (c *Checker) do(req *http.Request) (*http.Response, error) {
	for k, v := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, newStatusError(resp)
	}

	return resp, nil
}
