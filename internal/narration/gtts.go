package narration

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/caratcompare/caratreel/internal/logger"
	"golang.org/x/time/rate"
)

const (
	gttsURL      = "https://translate.google.com"
	gttsMaxChunk = 200
)

// GTTS uses the free Google Translate speech endpoint. It only takes short
// texts, so the script is sent in chunks and the mp3 parts are joined.
type GTTS struct {
	BaseURL  string
	Language string
	Dir      string
	Client   *http.Client
	limiter  *rate.Limiter
}

func NewGTTS(lang, dir string, client *http.Client) *GTTS {
	if lang == "" {
		lang = "en"
	}
	return &GTTS{
		BaseURL:  gttsURL,
		Language: lang,
		Dir:      dir,
		Client:   client,
		limiter:  rate.NewLimiter(rate.Every(time.Second/4), 1),
	}
}

func (g *GTTS) Synthesize(ctx context.Context, text string) (string, error) {
	log := logger.Scope("gtts")
	chunks := Chunks(text, gttsMaxChunk)
	if len(chunks) == 0 {
		return "", fmt.Errorf("nothing to narrate")
	}

	path, err := writeAudio(g.Dir, func(w io.Writer) error {
		for i, chunk := range chunks {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
			log.Debugf("chunk %d/%d: %q", i+1, len(chunks), chunk)
			if err := g.fetch(ctx, chunk, i, len(chunks), w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Infof("narration saved to %s", path)
	return path, nil
}

func (g *GTTS) fetch(ctx context.Context, chunk string, idx, total int, w io.Writer) error {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.Language)
	q.Set("q", chunk)
	q.Set("idx", fmt.Sprint(idx))
	q.Set("total", fmt.Sprint(total))
	q.Set("textlen", fmt.Sprint(utf8.RuneCountInString(chunk)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gtts returned %d for chunk %d", resp.StatusCode, idx)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// Chunks splits text on word boundaries into pieces of at most max runes.
// A word longer than max is cut.
func Chunks(text string, max int) []string {
	var chunks []string
	current := ""
	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > max {
			if current != "" {
				chunks = append(chunks, current)
				current = ""
			}
			r := []rune(word)
			chunks = append(chunks, string(r[:max]))
			word = string(r[max:])
		}
		if word == "" {
			continue
		}
		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= max:
			current += " " + word
		default:
			chunks = append(chunks, current)
			current = word
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
