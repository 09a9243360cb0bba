package feed

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ivlev/scrolly/internal/config"
	"github.com/ivlev/scrolly/internal/geometry"
	"github.com/ivlev/scrolly/internal/media"
	"github.com/ivlev/scrolly/internal/scope"
)

func TestNumberJSON(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{1.5, "1.5"},
		{0, "0"},
		{-720, "-720"},
		{math.NaN(), "null"},
		{math.Inf(1), "null"},
		{math.Inf(-1), "null"},
	}
	for _, tt := range tests {
		b, err := json.Marshal(Number(tt.n))
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", tt.n, err)
		}
		if string(b) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.n, b, tt.want)
		}
	}
}

func TestSnapshotBeforeFirstBlock(t *testing.T) {
	g := geometry.Build([]float64{100, 200})
	s := scope.Compute(g, scope.Sample{ScrollPosition: -50, WindowHeight: 100})

	b, err := json.Marshal(newSnapshot(s, s.Progress().Value()))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	got := string(b)
	for _, want := range []string{
		`"slide_index":-1`,
		`"slide_count":2`,
		`"from_prev_slide":null`,
		`"to_next_slide":50`,
		`"progress":0`,
		`"checkpoints":[0,100,300]`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Snapshot %s is missing %s", got, want)
		}
	}
}

func TestQRCode(t *testing.T) {
	qr, err := QRCode("http://192.168.1.10:8080/")
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}
	if strings.Count(qr, "\n") < 10 {
		t.Errorf("QR code looks too small:\n%s", qr)
	}
}

func TestHandlerPage(t *testing.T) {
	srv := httptest.NewServer(NewServer(config.Default(), []float64{720}, nil, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "scrolly feed") {
		t.Error("Expected client page")
	}

	for _, path := range []string{"/missing", "/video.mp4"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s: expected 404, got %d", path, resp.StatusCode)
		}
	}
}

func TestSessionRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.ViewportHeight = 720
	server := NewServer(cfg, []float64{720, 720}, nil, nil)
	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer c.CloseNow()

	var hello Frame
	if err := wsjson.Read(ctx, c, &hello); err != nil {
		t.Fatalf("Read hello failed: %v", err)
	}
	if hello.Type != "hello" || hello.Session == "" {
		t.Fatalf("Expected hello with session, got %+v", hello)
	}

	state := media.State{Ready: true, Duration: 2, Paused: true}
	if err := wsjson.Write(ctx, c, ClientMessage{Type: "media", Media: &state}); err != nil {
		t.Fatalf("Write media failed: %v", err)
	}
	if err := wsjson.Write(ctx, c, ClientMessage{Type: "scroll", Position: 720}); err != nil {
		t.Fatalf("Write scroll failed: %v", err)
	}

	// halfway through two blocks: target frame 60, video at 0, so it plays at max speed
	var sawScope, sawPlay bool
	for !(sawScope && sawPlay) {
		var f Frame
		if err := wsjson.Read(ctx, c, &f); err != nil {
			t.Fatalf("Read failed (scope %v, play %v): %v", sawScope, sawPlay, err)
		}
		switch f.Type {
		case "scope":
			if f.Scope.SlideIndex == 1 {
				sawScope = true
			}
		case "commands":
			for _, cmd := range f.Commands {
				if cmd.Op == "play" {
					sawPlay = true
				}
			}
		}
	}

	if server.Sessions() != 1 {
		t.Errorf("Expected 1 open session, got %d", server.Sessions())
	}
	c.Close(websocket.StatusNormalClosure, "")
}
