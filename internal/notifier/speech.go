package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"stockbot/internal/model"
)

// SpeechScript is the short spoken summary of a snapshot.
func SpeechScript(snap *model.PortfolioSnapshot) string {
	var b strings.Builder

	direction := "up"
	if snap.TotalPL.IsNegative() {
		direction = "down"
	}
	fmt.Fprintf(&b, "Hello %s. As of today's market, your portfolio is %s by %s rupees. ",
		snap.Holder, direction, snap.TotalPL.Abs().StringFixed(2))

	if len(snap.Results) > 0 {
		top := snap.Results[0]
		for _, r := range snap.Results[1:] {
			if r.ProfitLoss.GreaterThan(top.ProfitLoss) {
				top = r
			}
		}
		switch {
		case top.ProfitLoss.IsPositive():
			fmt.Fprintf(&b, "%s leads today with a profit of %s rupees. ", top.Ticker, top.ProfitLoss.StringFixed(2))
		case top.ProfitLoss.IsNegative():
			fmt.Fprintf(&b, "All your holdings are in loss today. %s has the smallest loss. ", top.Ticker)
		default:
			fmt.Fprintf(&b, "%s is unchanged today. ", top.Ticker)
		}
	}

	switch {
	case snap.Sentiment.Status == model.StatusOK && snap.Sentiment.Class == model.SentimentExtremeFear:
		b.WriteString("Many investors are fearful right now, so this can be a good buying opportunity. ")
	case snap.Sentiment.Status == model.StatusOK && snap.Sentiment.Class == model.SentimentExtremeGreed:
		b.WriteString("The market is near its peak, so be careful. ")
	default:
		b.WriteString("The market is calm right now. ")
	}

	b.WriteString("Keep investing. Thank you!")
	return b.String()
}

// maxTTSChars is the longest text the translate endpoint accepts per request.
const maxTTSChars = 200

// Synthesizer turns text into MP3 audio through the Google Translate TTS endpoint.
type Synthesizer struct {
	BaseURL  string
	Language string
	Client   *http.Client
}

// NewSynthesizer creates a TTS client.
func NewSynthesizer(baseURL, language string) *Synthesizer {
	return &Synthesizer{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Language: language,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize returns the concatenated MP3 frames for text.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := splitSpeech(text, maxTTSChars)
	var audio bytes.Buffer
	for i, chunk := range chunks {
		q := url.Values{}
		q.Set("ie", "UTF-8")
		q.Set("client", "tw-ob")
		q.Set("tl", s.Language)
		q.Set("q", chunk)
		q.Set("total", fmt.Sprint(len(chunks)))
		q.Set("idx", fmt.Sprint(i))
		q.Set("textlen", fmt.Sprint(utf8.RuneCountInString(chunk)))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/translate_tts?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		resp, err := s.Client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("tts request: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("tts read: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("tts: status %d", resp.StatusCode)
		}
		audio.Write(body)
	}
	if audio.Len() == 0 {
		return nil, fmt.Errorf("tts: empty audio")
	}
	return audio.Bytes(), nil
}

// splitSpeech breaks text at sentence ends, then at spaces, so no chunk exceeds limit runes.
func splitSpeech(text string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
	}

	for _, word := range strings.Fields(text) {
		for utf8.RuneCountInString(word) > limit {
			flush()
			r := []rune(word)
			chunks = append(chunks, string(r[:limit]))
			word = string(r[limit:])
		}
		if cur.Len() > 0 && utf8.RuneCountInString(cur.String())+1+utf8.RuneCountInString(word) > limit {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
		if strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?") {
			flush()
		}
	}
	flush()
	return chunks
}
