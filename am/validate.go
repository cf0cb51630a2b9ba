package am

import "github.com/teranos/cleaner/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Scoring.BaseURL == "" {
		return errors.New("scoring.base_url cannot be empty")
	}
	if c.Scoring.TimeoutSeconds <= 0 {
		return errors.Newf("scoring.timeout_seconds must be > 0, got %d", c.Scoring.TimeoutSeconds)
	}
	// 0 = no rate limit, negative = invalid
	if c.Scoring.RequestsPerSecond < 0 {
		return errors.Newf("scoring.requests_per_second must be >= 0, got %f", c.Scoring.RequestsPerSecond)
	}
	if c.Scoring.RequestsPerSecond > 0 && c.Scoring.Burst < 1 {
		return errors.Newf("scoring.burst must be >= 1 when rate limited, got %d", c.Scoring.Burst)
	}

	return c.Session.Validate()
}

// Validate checks the probability bounds are ordered and inside (0, 0.5)
func (s SessionConfig) Validate() error {
	if s.MinMaxProb <= 0 || s.MinMaxProb >= 0.5 {
		return errors.Newf("session.min_max_prob must be in (0, 0.5), got %f", s.MinMaxProb)
	}
	if s.MaxMaxProb <= 0 || s.MaxMaxProb >= 0.5 {
		return errors.Newf("session.max_max_prob must be in (0, 0.5), got %f", s.MaxMaxProb)
	}
	if s.MinMaxProb > s.MaxMaxProb {
		return errors.Newf("session.min_max_prob (%f) exceeds session.max_max_prob (%f)", s.MinMaxProb, s.MaxMaxProb)
	}
	if s.DefaultMaxProb < s.MinMaxProb || s.DefaultMaxProb > s.MaxMaxProb {
		return errors.Newf("session.default_max_prob must be within [%f, %f], got %f",
			s.MinMaxProb, s.MaxMaxProb, s.DefaultMaxProb)
	}
	if s.ProbStep <= 0 {
		return errors.Newf("session.prob_step must be > 0, got %f", s.ProbStep)
	}
	return nil
}
