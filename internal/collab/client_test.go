package collab

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func TestHTTPClient_Get_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "agrobot-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"temp": 21.50}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "agrobot-test"
	obs := &recordingObserver{}
	resp, err := NewHTTPClient(cfg, obs).Get(context.Background(), CallWeather, srv.URL+"/weather")
	require.NoError(t, err)
	assert.True(t, resp.OK())

	var body struct {
		Temp json.Number `json:"temp"`
	}
	require.NoError(t, resp.DecodeJSON(&body))
	assert.Equal(t, json.Number("21.50"), body.Temp)

	require.Len(t, obs.events, 1)
	assert.Equal(t, CallWeather, obs.events[0].Kind)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, http.StatusOK, obs.events[0].StatusCode)
}

func TestHTTPClient_Get_ErrorStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	resp, err := NewHTTPClient(DefaultConfig(), obs).Get(context.Background(), CallWeather, srv.URL)
	require.NoError(t, err)
	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "STATUS", obs.events[0].ErrorCode)
}

func TestHTTPClient_Get_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := DefaultConfig()
	cfg.Timeouts[CallForecast] = 50 * time.Millisecond
	obs := &recordingObserver{}

	_, err := NewHTTPClient(cfg, obs).Get(context.Background(), CallForecast, srv.URL)
	assert.ErrorIs(t, err, ErrTimeout)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "TIMEOUT", obs.events[0].ErrorCode)
}

func TestHTTPClient_Get_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPClient(DefaultConfig(), nil).Get(context.Background(), CallGeo, url)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Get_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 4
	resp, err := NewHTTPClient(cfg, nil).Get(context.Background(), CallPest, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(resp.Body))
}

func TestResponse_DecodeJSON_Bad(t *testing.T) {
	r := &Response{StatusCode: 200, Body: []byte("<html>")}
	var v map[string]any
	assert.ErrorIs(t, r.DecodeJSON(&v), ErrBadResponse)
}

func TestConfig_CallTimeout(t *testing.T) {
	cfg := Config{Timeout: 2 * time.Second, Timeouts: map[CallKind]time.Duration{CallPest: 9 * time.Second}}
	assert.Equal(t, 9*time.Second, cfg.CallTimeout(CallPest))
	assert.Equal(t, 2*time.Second, cfg.CallTimeout(CallGeo))
	assert.Equal(t, 5*time.Second, Config{}.CallTimeout(CallGeo))
}

func TestZapObserver(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	obs := NewZapObserver(zap.New(core))

	obs.OnCallComplete(CallEvent{Kind: CallGeo, Host: "ipinfo.io", StatusCode: 200, Success: true})
	obs.OnCallComplete(CallEvent{Kind: CallPest, Host: "sites.google.com", ErrorCode: "TIMEOUT"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "ipinfo.io", entries[0].ContextMap()["host"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "TIMEOUT", entries[1].ContextMap()["error_code"])
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "", errorCode(nil))
	assert.Equal(t, "UNKNOWN", errorCode(errors.New("boom")))
	assert.Equal(t, "BAD_RESPONSE", errorCode(ErrBadResponse))
}
