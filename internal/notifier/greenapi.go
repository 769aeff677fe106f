package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// GreenAPINotifier sends WhatsApp messages through the Green API gateway.
type GreenAPINotifier struct {
	BaseURL    string
	MediaURL   string
	IDInstance string
	APIToken   string
	Client     *http.Client
}

// NewGreenAPINotifier creates a WhatsApp notifier.
func NewGreenAPINotifier(baseURL, mediaURL, idInstance, apiToken string) *GreenAPINotifier {
	return &GreenAPINotifier{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		MediaURL:   strings.TrimRight(mediaURL, "/"),
		IDInstance: idInstance,
		APIToken:   apiToken,
		Client:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GreenAPINotifier) Name() string { return "greenapi" }

// WhatsAppChatID turns a phone number into a Green API chat id.
func WhatsAppChatID(phone string) string {
	if strings.Contains(phone, "@") {
		return phone
	}
	return strings.TrimPrefix(phone, "+") + "@c.us"
}

func (g *GreenAPINotifier) endpoint(base, method string) string {
	return fmt.Sprintf("%s/waInstance%s/%s/%s", base, g.IDInstance, method, g.APIToken)
}

// Send posts a text message to the phone number in chatID.
func (g *GreenAPINotifier) Send(ctx context.Context, chatID, text string) error {
	body, err := json.Marshal(map[string]string{
		"chatId":  WhatsAppChatID(chatID),
		"message": text,
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(g.BaseURL, "sendMessage"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req)
}

// SendAudio uploads the file to the media host.
func (g *GreenAPINotifier) SendAudio(ctx context.Context, chatID, fileName string, audio []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chatId", WhatsAppChatID(chatID)); err != nil {
		return err
	}
	if err := w.WriteField("fileName", fileName); err != nil {
		return err
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(audio); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(g.MediaURL, "sendFileByUpload"), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return g.do(req)
}

func (g *GreenAPINotifier) do(req *http.Request) error {
	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("green api request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("green api error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
