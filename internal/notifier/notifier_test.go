package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockAnalyzer/internal/model"
)

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier("TOKEN", "42", "", nil)
	n.APIBase = srv.URL
	n.backoff = time.Millisecond
	return n
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv).Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "<b>hi</b>", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, `{"ok":false}`, http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv).SendWithRetry(context.Background(), "x", 3))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestNotifier(srv).SendWithRetry(context.Background(), "x", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 attempts failed")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestStartPolling(t *testing.T) {
	var mu sync.Mutex
	var sent, handled []string
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&polls, 1) == 1 {
				assert.Equal(t, "0", r.URL.Query().Get("offset"))
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":" /help ","chat":{"id":42}}},
					{"update_id":8,"message":{"text":"/analyze AAPL","chat":{"id":99}}},
					{"update_id":9}
				]}`))
				return
			}
			assert.Equal(t, "10", r.URL.Query().Get("offset"))
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			mu.Lock()
			sent = append(sent, body["text"])
			mu.Unlock()
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		newTestNotifier(srv).StartPolling(ctx, func(_ context.Context, cmd string) string {
			mu.Lock()
			handled = append(handled, cmd)
			mu.Unlock()
			if cmd == "/help" {
				return FormatHelp()
			}
			return ""
		})
	}()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&polls) >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/help"}, handled)
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "/analyze SYMBOL")
}

func TestFormatMovers(t *testing.T) {
	gainers := []model.MoverRecord{{Symbol: "AAA", DisplayName: "A & Co", Price: decimal.RequireFromString("12.3"), ChangePercent: decimal.RequireFromString("15.456")}}
	losers := []model.MoverRecord{{Symbol: "ZZZ", DisplayName: "N/A", Price: decimal.RequireFromString("4"), ChangePercent: decimal.RequireFromString("-9.1")}}

	msg := FormatMovers(gainers, losers)
	assert.Contains(t, msg, "<b>AAA</b> A &amp; Co: 12.30 (+15.46%)")
	assert.Contains(t, msg, "<b>ZZZ</b> N/A: 4.00 (-9.10%)")

	empty := FormatMovers(nil, nil)
	assert.Equal(t, 2, strings.Count(empty, "(none)"))
}

func TestFormatCandidates(t *testing.T) {
	assert.Contains(t, FormatCandidates("zzz", nil), "No tickers found")
	msg := FormatCandidates("tata", []model.TickerCandidate{{Symbol: "TCS.NS", DisplayName: "TATA CONSULTANCY"}})
	assert.Contains(t, msg, "<code>TCS.NS</code> TATA CONSULTANCY")
}

func TestFormatInsight(t *testing.T) {
	r := &model.InsightReport{Ticker: "AAPL", Text: "Support < 180", Model: "gemini/gemini-1.5-pro"}
	msg := FormatInsight(r, "$", "189.12")
	assert.Contains(t, msg, "Latest close: $189.12")
	assert.Contains(t, msg, "Support &lt; 180")
	assert.Contains(t, msg, "<i>gemini/gemini-1.5-pro</i>")
}
