package scoring

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/teranos/cleaner/am"
	"github.com/teranos/cleaner/errors"
	"github.com/teranos/cleaner/formula"
	"github.com/teranos/cleaner/internal/httpclient"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg am.ScoringConfig) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 5
	}
	c, err := NewClient(cfg, WithHTTPClient(httpclient.Wrap(server.Client())))
	require.NoError(t, err)
	return c
}

func TestUncertaintyScore_Request(t *testing.T) {
	p := formula.MustProvenance([]string{"a_0", "r_0"}, []string{"a_0", "r_1"})
	a := formula.Assignment{"a_0": formula.True, "r_0": formula.False}
	probs := Probabilities{"a_0": 0.25, "r_0": 0.1, "r_1": 0.25, "unrelated": 0.4}

	var got struct {
		path       string
		formula    string
		assignment map[string]bool
		probs      map[string]float64
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.formula = r.URL.Query().Get("formula")
		assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("assignment")), &got.assignment))
		assert.NoError(t, json.Unmarshal([]byte(r.URL.Query().Get("probs")), &got.probs))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"max_prob": 0.0625}`))
	}, am.ScoringConfig{})

	score, err := c.UncertaintyScore(context.Background(), p, a, probs)
	require.NoError(t, err)

	assert.Equal(t, 0.0625, score)
	assert.Equal(t, ScorePath, got.path)
	assert.Equal(t, `[["a_0","r_0"],["a_0","r_1"]]`, got.formula)
	assert.Equal(t, map[string]bool{"a_0": true, "r_0": false}, got.assignment)
	assert.Equal(t, map[string]float64{"a_0": 0.25, "r_0": 0.1, "r_1": 0.25}, got.probs)
}

func TestUncertaintyScore_AllZeroSkipsRequest(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}, am.ScoringConfig{})

	p := formula.MustProvenance([]string{"a", "b"})
	score, err := c.UncertaintyScore(context.Background(), p, formula.Assignment{}, Probabilities{"a": 0, "c": 0.3})
	require.NoError(t, err)

	assert.Zero(t, score)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestUncertaintyScore_Errors(t *testing.T) {
	p := formula.MustProvenance([]string{"a"})
	probs := Probabilities{"a": 0.25}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "sympy exploded", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				assert.True(t, errors.IsServiceUnavailableError(err))
				assert.Contains(t, errors.FlattenDetails(err), "sympy exploded")
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"max_prob":`))
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "decode")
				assert.False(t, errors.IsServiceUnavailableError(err))
			},
		},
		{
			name: "missing field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "max_prob")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler, am.ScoringConfig{})
			_, err := c.UncertaintyScore(context.Background(), p, formula.Assignment{}, probs)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestIsVariableRisky(t *testing.T) {
	var variable string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, RiskyPath, r.URL.Path)
		variable = r.URL.Query().Get("variable")
		w.Write([]byte(`{"is_risky": true}`))
	}, am.ScoringConfig{})

	p := formula.MustProvenance([]string{"a", "b"})
	a := formula.Assignment{"a": formula.True}

	risky, err := c.IsVariableRisky(context.Background(), p, a, Probabilities{"a": 0.2, "b": 0.2}, "a")
	require.NoError(t, err)
	assert.True(t, risky)
	assert.Equal(t, "a", variable)

	_, err = c.IsVariableRisky(context.Background(), p, a, Probabilities{"a": 0.2}, "zz")
	assert.True(t, errors.Is(err, errors.ErrUnknownVariable))
}

func TestClient_RateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"max_prob": 0.1}`))
	}, am.ScoringConfig{RequestsPerSecond: 0.001, Burst: 1})

	p := formula.MustProvenance([]string{"a"})
	probs := Probabilities{"a": 0.25}

	_, err := c.UncertaintyScore(context.Background(), p, formula.Assignment{}, probs)
	require.NoError(t, err)

	// The single token is spent; the next call must give up with the context.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.UncertaintyScore(ctx, p, formula.Assignment{}, probs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	_, err := NewClient(am.ScoringConfig{BaseURL: "ftp://scoring", TimeoutSeconds: 1})
	require.Error(t, err)
	assert.NotEmpty(t, errors.FlattenHints(err))
}

func TestProbabilities(t *testing.T) {
	p := Uniform([]formula.Variable{"a", "b"}, 0.25)
	assert.Equal(t, Probabilities{"a": 0.25, "b": 0.25}, p)
	assert.False(t, p.AllZero())
	assert.True(t, Probabilities{"a": 0}.AllZero())
	assert.True(t, Probabilities(nil).AllZero())

	clone := p.Clone()
	clone["a"] = 0.1
	assert.Equal(t, 0.25, p["a"])

	assert.Equal(t, Probabilities{"b": 0.25}, p.Restrict([]formula.Variable{"b", "missing"}))
}
