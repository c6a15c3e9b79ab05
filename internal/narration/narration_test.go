package narration

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"testing"

	cfg "github.com/caratcompare/caratreel/internal/config"
	"github.com/caratcompare/caratreel/internal/diamond"
)

func TestScript(t *testing.T) {
	c := diamond.NewComparison(1, "round", 2.25, "heart")
	got := Script(c, "caratcompare.co")
	for _, want := range []string{
		"Let's compare the size of a 1.0 carat round diamond to the size of a 2.25 carat heart shaped diamond.",
		"We'll use a US dime for the size comparison.",
		"visit caratcompare.co,",
		"high-quality diamond outlets.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("script %q misses %q", got, want)
		}
	}
}

func TestNewProviders(t *testing.T) {
	c := cfg.DefaultConfig().Narration

	t.Setenv(cfg.EnvElevenLabsKey, "")
	if _, err := New(c, t.TempDir()); !errors.Is(err, ErrMissingKey) {
		t.Errorf("missing key: got %v, want ErrMissingKey", err)
	}

	t.Setenv(cfg.EnvElevenLabsKey, "secret")
	n, err := New(c, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if el, ok := n.(*ElevenLabs); !ok || el.APIKey != "secret" || el.VoiceID != cfg.DefaultVoiceID {
		t.Errorf("unexpected narrator %#v", n)
	}

	c.Provider = cfg.NarratorNone
	n, err = New(c, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if path, err := n.Synthesize(context.Background(), "hi"); path != "" || err != nil {
		t.Errorf("silent narrator returned %q, %v", path, err)
	}

	c.Provider = "robot"
	if _, err := New(c, t.TempDir()); err == nil {
		t.Errorf("expected error for unknown provider")
	}
}

func TestElevenLabsSynthesize(t *testing.T) {
	var got speechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/voice1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("output_format") != "mp3_44100_128" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		if r.Header.Get("xi-api-key") != "k" {
			t.Errorf("api key header = %q", r.Header.Get("xi-api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		w.Write([]byte("ID3audio"))
	}))
	defer srv.Close()

	e := &ElevenLabs{
		BaseURL:    srv.URL,
		APIKey:     "k",
		VoiceID:    "voice1",
		Model:      cfg.DefaultTTSModel,
		Stability:  0.6,
		Similarity: 0.8,
		Dir:        t.TempDir(),
		Client:     srv.Client(),
	}
	path, err := e.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ID3audio" {
		t.Errorf("audio = %q", data)
	}

	want := speechRequest{
		Text:    "hello",
		ModelID: cfg.DefaultTTSModel,
		VoiceSettings: voiceSettings{
			Stability:       0.6,
			SimilarityBoost: 0.8,
			UseSpeakerBoost: true,
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("request = %+v, want %+v", got, want)
	}
}

func TestElevenLabsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := &ElevenLabs{BaseURL: srv.URL, VoiceID: "v", Dir: t.TempDir(), Client: srv.Client()}
	_, err := e.Synthesize(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error, got %v", err)
	}
}

// emptyDir fails the test when a narration file was left in dir
func emptyDir(t *testing.T, dir string) {
	t.Helper()
	left, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("%d files left in %s", len(left), dir)
	}
}

func TestElevenLabsTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		w.Write([]byte("ID3"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	e := &ElevenLabs{BaseURL: srv.URL, VoiceID: "v", Dir: dir, Client: srv.Client()}
	path, err := e.Synthesize(context.Background(), "hello")
	if err == nil || path != "" {
		t.Errorf("got %q, %v, want an error", path, err)
	}
	emptyDir(t, dir)
}

func TestGTTSCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	g := NewGTTS("", dir, srv.Client())
	g.BaseURL = srv.URL
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path, err := g.Synthesize(ctx, "hello there")
	if !errors.Is(err, context.Canceled) || path != "" {
		t.Errorf("got %q, %v, want context.Canceled", path, err)
	}
	emptyDir(t, dir)
}

func TestGTTSSynthesize(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_tts" || r.URL.Query().Get("tl") != "en" {
			t.Errorf("unexpected request %s", r.URL)
		}
		texts = append(texts, r.URL.Query().Get("q"))
		w.Write([]byte("[" + r.URL.Query().Get("idx") + "]"))
	}))
	defer srv.Close()

	g := NewGTTS("", t.TempDir(), srv.Client())
	g.BaseURL = srv.URL
	text := strings.Repeat("sparkle ", 40)
	path, err := g.Synthesize(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[0][1]" {
		t.Errorf("audio = %q", data)
	}
	if strings.Join(texts, " ") != strings.TrimSpace(text) {
		t.Errorf("chunks lost text: %v", texts)
	}
}

func TestChunks(t *testing.T) {
	testCases := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{"empty", "  ", 10, nil},
		{"fits", "a b c", 10, []string{"a b c"}},
		{"splits on words", "aaa bbb ccc", 7, []string{"aaa bbb", "ccc"}},
		{"long word cut", "abcdefgh ij", 4, []string{"abcd", "efgh", "ij"}},
		{"exact multiple", "x abcdefgh", 4, []string{"x", "abcd", "efgh"}},
		{"runes", "ééé ééé", 3, []string{"ééé", "ééé"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Chunks(tc.text, tc.max)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Chunks(%q, %d) = %q, want %q", tc.text, tc.max, got, tc.want)
			}
		})
	}
}
