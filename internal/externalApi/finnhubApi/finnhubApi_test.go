package finnhubApi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/internal/externalApi"
	"github.com/shopspring/decimal"
)

func newTestApi(url string, timeout time.Duration) *FinnhubApi {
	cfg := &config.Config{}
	cfg.API.Timeout = timeout
	cfg.API.FinnhubApi.Url = url
	cfg.API.FinnhubApi.Token = "test-token"
	cfg.API.FinnhubApi.MaxConcurrency = 2
	return New(cfg)
}

func TestFinnhubApi_GetQuotes(t *testing.T) {
	prices := map[string]string{
		"AAPL": `{"c":150.12,"d":1.1,"dp":0.7,"h":151,"l":149,"o":149.5,"pc":149.02,"t":1700000000}`,
		"MSFT": `{"c":320,"d":0,"dp":0,"h":0,"l":0,"o":0,"pc":0,"t":1700000000}`,
		"NOPE": `{"c":0,"d":null,"dp":null,"h":0,"l":0,"o":0,"pc":0,"t":0}`,
	}
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get(tokenHeader); got != "test-token" {
			t.Errorf("token header = %q", got)
		}
		body, ok := prices[r.URL.Query().Get("symbol")]
		if !ok {
			t.Errorf("unexpected symbol %q", r.URL.Query().Get("symbol"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	api := newTestApi(srv.URL, time.Second)

	got, err := api.GetQuotes(context.Background(), []string{"AAPL", "MSFT", "NOPE"})
	if err != nil {
		t.Fatalf("GetQuotes() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("GetQuotes() = %v, want AAPL and MSFT only", got)
	}
	if !got["AAPL"].Equal(decimal.RequireFromString("150.12")) {
		t.Errorf("AAPL = %s, want 150.12", got["AAPL"])
	}
	if !got["MSFT"].Equal(decimal.NewFromInt(320)) {
		t.Errorf("MSFT = %s, want 320", got["MSFT"])
	}
	if calls.Load() != 3 {
		t.Errorf("provider calls = %d, want 3", calls.Load())
	}
}

func TestFinnhubApi_GetQuotes_FailsAsUnit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "MSFT" {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":"API limit reached"}`)
			return
		}
		fmt.Fprint(w, `{"c":150,"t":1}`)
	}))
	defer srv.Close()

	api := newTestApi(srv.URL, time.Second)

	got, err := api.GetQuotes(context.Background(), []string{"AAPL", "MSFT"})
	if !errors.Is(err, externalApi.ErrBadResponse) {
		t.Fatalf("GetQuotes() error = %v, want ErrBadResponse", err)
	}
	if got != nil {
		t.Errorf("GetQuotes() = %v, want nil on failure", got)
	}
}

func TestFinnhubApi_GetQuotes_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	api := newTestApi(srv.URL, 50*time.Millisecond)

	if _, err := api.GetQuotes(context.Background(), []string{"AAPL"}); err == nil {
		t.Fatal("GetQuotes() error = nil, want timeout")
	}
}

func TestFinnhubApi_GetQuotes_Empty(t *testing.T) {
	api := newTestApi("http://127.0.0.1:0", time.Second)

	got, err := api.GetQuotes(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetQuotes() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetQuotes() = %v, want empty", got)
	}
}

func TestFinnhubApi_GetQuotes_ManySymbolsOutlastRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
		fmt.Fprint(w, `{"c":10,"t":1}`)
	}))
	defer srv.Close()

	// 12 symbols two at a time take about 180ms, the timeout applies per request
	api := newTestApi(srv.URL, 100*time.Millisecond)

	symbols := make([]string, 12)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("S%02d", i)
	}

	got, err := api.GetQuotes(context.Background(), symbols)
	if err != nil {
		t.Fatalf("GetQuotes() error = %v", err)
	}
	if len(got) != len(symbols) {
		t.Errorf("GetQuotes() returned %d quotes, want %d", len(got), len(symbols))
	}
}

func TestFinnhubApi_GetQuotes_SharedRequestSurvivesCallerCancel(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	var once sync.Once

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		once.Do(func() { close(started) })
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"c":150,"t":1}`)
	}))
	defer srv.Close()

	api := newTestApi(srv.URL, time.Second)

	shortCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	shortErr := make(chan error, 1)
	go func() {
		_, err := api.GetQuotes(shortCtx, []string{"AAPL"})
		shortErr <- err
	}()

	<-started
	got, err := api.GetQuotes(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("GetQuotes() error = %v, want the shared quote", err)
	}
	if !got["AAPL"].Equal(decimal.NewFromInt(150)) {
		t.Errorf("AAPL = %s, want 150", got["AAPL"])
	}

	if err := <-shortErr; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("short caller error = %v, want context.DeadlineExceeded", err)
	}
	if calls.Load() != 1 {
		t.Errorf("provider calls = %d, want 1", calls.Load())
	}
}
