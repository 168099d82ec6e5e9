package bmlt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/fam-mcp/internal/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "fam/1.2.3", 5*time.Second, common.NewSilentLogger()), srv
}

func TestQueryValues_DefaultLimit(t *testing.T) {
	v := Query{Location: "Missoula", Weekday: 3}.Values()
	if v.Get("SearchString") != "Missoula" {
		t.Errorf("SearchString = %q", v.Get("SearchString"))
	}
	if v.Get("weekdays[]") != "3" {
		t.Errorf("weekdays[] = %q", v.Get("weekdays[]"))
	}
	if v.Get("limit") != "50" {
		t.Errorf("limit = %q, want 50", v.Get("limit"))
	}
	if v.Has("formats[]") {
		t.Error("formats[] should be omitted when unset")
	}
	if v.Get("switcher") != "GetSearchResults" {
		t.Errorf("switcher = %q", v.Get("switcher"))
	}
	if v.Get("data_field_key") != DataFieldKey {
		t.Errorf("data_field_key = %q", v.Get("data_field_key"))
	}
}

func TestClient_SearchURL(t *testing.T) {
	c := NewClient("https://bmlt.example.org/main_server/", "", time.Second, nil)
	got := c.SearchURL(Query{Location: "Missoula", Weekday: 3})
	if !strings.HasPrefix(got, "https://bmlt.example.org/main_server/client_interface/jsonp/?") {
		t.Errorf("unexpected URL prefix: %s", got)
	}
	for _, part := range []string{"SearchString=Missoula", "weekdays%5B%5D=3", "limit=50"} {
		if !strings.Contains(got, part) {
			t.Errorf("expected URL to contain %q, got %s", part, got)
		}
	}
}

func TestClient_Search_SendsHeadersAndQuery(t *testing.T) {
	var gotReq *http.Request
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/javascript")
		w.Write([]byte(`/**/cb([{"id_bigint":"7","meeting_name":"Serenity"}]);`))
	})

	meetings, err := c.Search(context.Background(), Query{Location: "Missoula", Weekday: 3, Format: "17", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meetings) != 1 || meetings[0].Name != "Serenity" {
		t.Fatalf("unexpected meetings: %+v", meetings)
	}

	if gotReq.URL.Path != SearchPath {
		t.Errorf("path = %q, want %q", gotReq.URL.Path, SearchPath)
	}
	if gotReq.Header.Get("Accept") != "application/javascript" {
		t.Errorf("Accept = %q", gotReq.Header.Get("Accept"))
	}
	if gotReq.Header.Get("User-Agent") != "fam/1.2.3" {
		t.Errorf("User-Agent = %q", gotReq.Header.Get("User-Agent"))
	}
	q := gotReq.URL.Query()
	if q.Get("SearchString") != "Missoula" || q.Get("weekdays[]") != "3" || q.Get("formats[]") != "17" || q.Get("limit") != "10" {
		t.Errorf("unexpected query: %s", gotReq.URL.RawQuery)
	}
}

func TestClient_Search_NonOKStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), Query{})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T (%v)", err, err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d", statusErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status code in error text, got %q", err.Error())
	}
}

func TestClient_Search_APIError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`cb({"error":"bad request"})`))
	})

	_, err := c.Search(context.Background(), Query{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "bad request" {
		t.Fatalf("expected APIError(bad request), got %v", err)
	}
}

func TestClient_Search_StructuredCommentsStillRender(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`cb([{"meeting_name":"A","comments":{"x":1}}])`))
	})

	meetings, err := c.Search(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(meetings) != 1 || meetings[0].Name != "A" {
		t.Fatalf("unexpected meetings %+v", meetings)
	}
	if !strings.Contains(FormatMeetings(meetings), `- Comments: {"x":1}`) {
		t.Errorf("unexpected rendering %q", FormatMeetings(meetings))
	}
}

func TestClient_Search_UnrecognisedEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	})

	_, err := c.Search(context.Background(), Query{})
	var perr *PayloadError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *PayloadError, got %T (%v)", err, err)
	}
	if !strings.Contains(err.Error(), "unrecognised JSONP envelope") {
		t.Errorf("expected envelope diagnostic, got %q", err.Error())
	}
}

func TestClient_Search_TransportError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := c.Search(context.Background(), Query{})
	if err == nil {
		t.Fatal("expected error from closed server")
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.Error("transport failure should not be a StatusError")
	}
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Search(ctx, Query{}); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
