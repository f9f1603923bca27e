package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	applogger "MarketBrief/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordReportGenerated(string)    {}
func (nopMetrics) RecordDelivery(string, string)   {}
func (nopMetrics) RecordFetchError(string)         {}
func (nopMetrics) RecordLastPrice(string, float64) {}
func (nopMetrics) RecordScanDay(string)            {}
func (nopMetrics) RecordLatency(string, float64)   {}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("TOKEN", "42", nopMetrics{}, testLogger(t), WithBaseURL(srv.URL))
	return c, srv
}

func TestSendMessage(t *testing.T) {
	var gotPath, gotChat, gotText, gotMode string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotChat = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		gotMode = r.FormValue("parse_mode")
		w.Write([]byte(`{"ok":true}`))
	})

	if err := client.SendMessage(context.Background(), "<b>hello</b>"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/botTOKEN/sendMessage" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotChat != "42" || gotText != "<b>hello</b>" || gotMode != "HTML" {
		t.Fatalf("form = %s / %q / %s", gotChat, gotText, gotMode)
	}
}

func TestSendMessageTruncates(t *testing.T) {
	var gotText string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		gotText = r.FormValue("text")
		w.Write([]byte(`{"ok":true}`))
	})

	long := strings.Repeat("x", maxMessageLen+500)
	if err := client.SendMessage(context.Background(), long); err != nil {
		t.Fatalf("send: %v", err)
	}
	if n := len([]rune(gotText)); n > maxMessageLen {
		t.Fatalf("sent %d runes, limit %d", n, maxMessageLen)
	}
}

func TestSendMessageEmpty(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"ok":true}`))
	})

	if err := client.SendMessage(context.Background(), ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if called {
		t.Fatalf("empty message should not hit the API")
	}
}

func TestSendMessageAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})

	err := client.SendMessage(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestSendDocument(t *testing.T) {
	var gotFilename, gotCaption string
	var gotBytes int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotCaption = r.FormValue("caption")
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			gotFilename = header.Filename
			buf := make([]byte, 1024)
			n, _ := file.Read(buf)
			gotBytes = n
		}
		w.Write([]byte(`{"ok":true}`))
	})

	payload := []byte("%PDF-1.4 fake")
	if err := client.SendDocument(context.Background(), "weekly.pdf", payload, "Weekly report"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotFilename != "weekly.pdf" {
		t.Fatalf("filename = %s", gotFilename)
	}
	if gotCaption != "Weekly report" {
		t.Fatalf("caption = %s", gotCaption)
	}
	if gotBytes != len(payload) {
		t.Fatalf("bytes = %d, want %d", gotBytes, len(payload))
	}
}

func TestSendDocumentEmptyPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})

	if err := client.SendDocument(context.Background(), "x.pdf", nil, ""); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}
