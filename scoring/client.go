package scoring

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/cleaner/am"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/internal/httpclient"
	"github.com/teranos/cleaner/logger"
)

// Service endpoints, relative to the configured base URL.
const (
	ScorePath = "/calc_max_misclass_prob"
	RiskyPath = "/is_var_risky_for_precision"
)

// maxErrorBody caps how much of a failed response is kept in the error detail.
const maxErrorBody = 512

// Client implements Scorer over the scoring service's query-string API.
type Client struct {
	base    *url.URL
	http    *httpclient.Client
	limiter *rate.Limiter
	logger  *zap.SugaredLogger
}

// ClientOption configures NewClient.
type ClientOption func(*Client)

// WithHTTPClient replaces the transport, typically with httpclient.Wrap in tests.
func WithHTTPClient(c *httpclient.Client) ClientOption {
	return func(cl *Client) { cl.http = c }
}

// WithLogger overrides the component logger.
func WithLogger(l *zap.SugaredLogger) ClientOption {
	return func(cl *Client) { cl.logger = l }
}

// NewClient builds a rate-limited client for cfg.BaseURL.
func NewClient(cfg am.ScoringConfig, opts ...ClientOption) (*Client, error) {
	c := &Client{
		http:    httpclient.New(cfg.Timeout(), httpclient.Options{AllowPrivate: cfg.AllowPrivate}),
		limiter: rate.NewLimiter(rate.Inf, 0),
		logger:  logger.ComponentLogger("scoring"),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}

	base, err := c.http.ParseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "scoring.base_url %q", cfg.BaseURL),
			"set scoring.base_url in am.toml or CLEANER_SCORING_URL")
	}
	c.base = base
	return c, nil
}

type scoreResponse struct {
	MaxProb *float64 `json:"max_prob"`
}

type riskyResponse struct {
	IsRisky *bool `json:"is_risky"`
}

// UncertaintyScore implements Scorer. When every relevant probability is zero the
// score is zero and no request is made.
func (c *Client) UncertaintyScore(ctx context.Context, p formula.Provenance, a formula.Valuation, probs Probabilities) (float64, error) {
	vars := formula.ExtractVariables(p)
	relevant := probs.Restrict(vars)
	if relevant.AllZero() {
		logger.ScoreDebugw("all probabilities zero, skipping request", logger.FieldProvenance, p.String())
		return 0, nil
	}

	query, err := encodeQuery(p, a, relevant, vars)
	if err != nil {
		return 0, err
	}

	var resp scoreResponse
	if err := c.get(ctx, ScorePath, query, &resp); err != nil {
		return 0, err
	}
	if resp.MaxProb == nil {
		return 0, errors.Newf("%s: response missing max_prob", ScorePath)
	}

	logger.ScoreDebugw("score received",
		logger.FieldProvenance, p.String(),
		logger.FieldScore, *resp.MaxProb)
	return *resp.MaxProb, nil
}

// IsVariableRisky implements Scorer.
func (c *Client) IsVariableRisky(ctx context.Context, p formula.Provenance, a formula.Valuation, probs Probabilities, v formula.Variable) (bool, error) {
	if !p.Contains(v) {
		return false, errors.Wrapf(errors.ErrUnknownVariable, "%q not in %s", v, p)
	}
	vars := formula.ExtractVariables(p)

	query, err := encodeQuery(p, a, probs.Restrict(vars), vars)
	if err != nil {
		return false, err
	}
	query.Set("variable", string(v))

	var resp riskyResponse
	if err := c.get(ctx, RiskyPath, query, &resp); err != nil {
		return false, err
	}
	if resp.IsRisky == nil {
		return false, errors.Newf("%s: response missing is_risky", RiskyPath)
	}
	return *resp.IsRisky, nil
}

// encodeQuery builds the formula, assignment and probs parameters.
// Unresolved variables are left out of the assignment.
func encodeQuery(p formula.Provenance, a formula.Valuation, probs Probabilities, vars []formula.Variable) (url.Values, error) {
	assignment := make(map[formula.Variable]bool, len(vars))
	for _, v := range vars {
		if value, known := a.Value(v).Bool(); known {
			assignment[v] = value
		}
	}

	formulaJSON, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err, "encode formula")
	}
	assignmentJSON, err := json.Marshal(assignment)
	if err != nil {
		return nil, errors.Wrap(err, "encode assignment")
	}
	probsJSON, err := json.Marshal(probs)
	if err != nil {
		return nil, errors.Wrap(err, "encode probabilities")
	}

	q := url.Values{}
	q.Set("formula", string(formulaJSON))
	q.Set("assignment", string(assignmentJSON))
	q.Set("probs", string(probsJSON))
	return q, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "rate limit wait")
	}

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "request %s", path), errors.ErrServiceUnavailable)
	}
	defer resp.Body.Close()

	c.logger.Debugw("scoring request",
		logger.FieldURL, path,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDurationMS, time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := errors.Wrapf(errors.ErrServiceUnavailable, "%s returned status %d", path, resp.StatusCode)
		if len(body) > 0 {
			err = errors.WithDetail(err, string(body))
		}
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode %s response", path)
	}
	return nil
}
