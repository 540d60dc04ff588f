package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"GERadar/pkg/config"
	"GERadar/pkg/model"
)

func newTestClient(serverURL string) *WikiClient {
	cfg := config.Default()
	cfg.DataSources.WikiPrices.BaseURL = serverURL
	cfg.DataSources.WikiPrices.Identities = []config.APIIdentity{
		{UserAgent: "test-agent", Contact: "test@test", APIKey: "secret"},
	}
	return NewWikiClient(cfg)
}

func TestFetchLatestParsesStringKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"4151":{"high":1200000,"low":1190000,"highTime":1,"lowTime":2},"bogus":{"high":1}}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	latest, err := client.FetchLatest(context.Background())
	if err != nil {
		t.Fatalf("fetch latest failed: %v", err)
	}

	// 合法ID解析，异常键跳过
	if len(latest) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(latest))
	}
	price, ok := latest[4151]
	if !ok {
		t.Fatal("item 4151 missing")
	}
	if price.High != 1200000 || price.Low != 1190000 {
		t.Errorf("unexpected price: %+v", price)
	}
}

func TestFetchVolumes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"timestamp":1700000000,"data":{"2":42000.5,"not-a-number":7}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	volumes, err := client.FetchVolumes(context.Background())
	if err != nil {
		t.Fatalf("fetch volumes failed: %v", err)
	}
	if len(volumes) != 1 || volumes[2] != 42000.5 {
		t.Errorf("unexpected volumes: %v", volumes)
	}
}

func TestFetchTimeseriesQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("timestep") != "6h" || q.Get("id") != "4151" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":[{"timestamp":100,"avgHighPrice":1200,"avgLowPrice":1150,"highPriceVolume":10,"lowPriceVolume":5},{"timestamp":21700,"avgHighPrice":null,"avgLowPrice":null,"highPriceVolume":0,"lowPriceVolume":0}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	bars, err := client.FetchTimeseries(context.Background(), 4151, model.Timeframe6h)
	if err != nil {
		t.Fatalf("fetch timeseries failed: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Valid() || bars[0].Mid() != 1175 || bars[0].Volume() != 15 {
		t.Errorf("unexpected first bar: %+v", bars[0])
	}
	if bars[1].Valid() {
		t.Errorf("bar with null prices should be invalid: %+v", bars[1])
	}
}

func TestRequestCarriesIdentityHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("user agent = %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("From") != "test@test" {
			t.Errorf("from = %q", r.Header.Get("From"))
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.FetchMapping(context.Background()); err != nil {
		t.Fatalf("fetch mapping failed: %v", err)
	}
}

func TestNon200StatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.FetchLatest(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestRequestCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := client.FetchMapping(ctx); err == nil {
		t.Fatal("expected error for cancelled request")
	}
}
