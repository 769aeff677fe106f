package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf16"
)

const telegramAPI = "https://api.telegram.org"

// telegramMessageLimit is the sendMessage cap, counted in UTF-16 code units.
const telegramMessageLimit = 4096

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	BotToken string
	BaseURL  string
	Client   *http.Client
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken: botToken,
		BaseURL:  telegramAPI,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) method(name string) string {
	return fmt.Sprintf("%s/bot%s/%s", t.BaseURL, t.BotToken, name)
}

// Send sends a Markdown message to chatID, split into several messages when it exceeds the API limit.
func (t *TelegramNotifier) Send(ctx context.Context, chatID, text string) error {
	parts := splitMessage(text, telegramMessageLimit)
	for i, part := range parts {
		if err := t.sendMessage(ctx, chatID, part); err != nil {
			return fmt.Errorf("part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

func (t *TelegramNotifier) sendMessage(ctx context.Context, chatID, text string) error {
	payload := map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.method("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return t.do(req)
}

func messageLen(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// splitMessage cuts text into chunks of at most limit units. Cuts fall on section rules first,
// then on line ends, and only split a single line when it alone exceeds the limit.
func splitMessage(text string, limit int) []string {
	if messageLen(text) <= limit {
		return []string{text}
	}

	var pieces []string
	for _, section := range strings.SplitAfter(text, rule) {
		if messageLen(section) <= limit {
			pieces = append(pieces, section)
			continue
		}
		for _, line := range strings.SplitAfter(section, "\n") {
			pieces = append(pieces, splitLine(line, limit)...)
		}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if chunk := strings.TrimRight(cur.String(), "\n"); chunk != "" {
			chunks = append(chunks, chunk)
		}
		cur.Reset()
		curLen = 0
	}
	for _, p := range pieces {
		n := messageLen(p)
		if curLen+n > limit {
			flush()
		}
		cur.WriteString(p)
		curLen += n
	}
	flush()
	return chunks
}

func splitLine(line string, limit int) []string {
	if messageLen(line) <= limit {
		return []string{line}
	}
	var (
		out []string
		cur []rune
		n   int
	)
	for _, r := range line {
		w := utf16.RuneLen(r)
		if n+w > limit {
			out = append(out, string(cur))
			cur, n = nil, 0
		}
		cur = append(cur, r)
		n += w
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

// SendAudio uploads an MP3 to chatID.
func (t *TelegramNotifier) SendAudio(ctx context.Context, chatID, fileName string, audio []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", chatID); err != nil {
		return err
	}
	part, err := w.CreateFormFile("audio", fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(audio); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.method("sendAudio"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return t.do(req)
}

func (t *TelegramNotifier) do(req *http.Request) error {
	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
