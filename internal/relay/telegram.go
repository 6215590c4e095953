// Package relay forwards newly arrived notifications to a Telegram chat.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fr4nk3nst1ner/jobboard/internal/models"
	"github.com/pterm/pterm"
)

const (
	defaultAPIURL = "https://api.telegram.org"
	batchSize     = 10
)

// telegramMessage is the sendMessage request body
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Telegram sends notification digests through the Bot API
type Telegram struct {
	token  string
	chatID string
	apiURL string
	http   *http.Client
	logger *pterm.Logger
	now    func() time.Time

	// Pause is the wait between batches, to stay under Telegram's rate limit
	Pause time.Duration
}

// Options configures a Telegram relay
type Options struct {
	BotToken   string
	ChatID     string
	APIURL     string
	HTTPClient *http.Client
	Logger     *pterm.Logger
}

// NewTelegram creates a relay; BotToken and ChatID are required
func NewTelegram(opts Options) (*Telegram, error) {
	if opts.BotToken == "" || opts.ChatID == "" {
		return nil, fmt.Errorf("telegram bot token and chat id are required")
	}
	t := &Telegram{
		token:  opts.BotToken,
		chatID: opts.ChatID,
		apiURL: strings.TrimRight(opts.APIURL, "/"),
		http:   opts.HTTPClient,
		logger: opts.Logger,
		now:    time.Now,
		Pause:  2 * time.Second,
	}
	if t.apiURL == "" {
		t.apiURL = defaultAPIURL
	}
	if t.http == nil {
		t.http = &http.Client{Timeout: 15 * time.Second}
	}
	if t.logger == nil {
		t.logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return t, nil
}

// Forward returns a callback suitable for the notification syncer. Send
// failures are logged, never returned.
func (t *Telegram) Forward(ctx context.Context) func([]models.Notification) {
	return func(items []models.Notification) {
		if err := t.Send(ctx, items); err != nil {
			t.logger.Warn("telegram relay failed", t.logger.Args("error", err, "count", len(items)))
		}
	}
}

// Send posts items in batches of ten
func (t *Telegram) Send(ctx context.Context, items []models.Notification) error {
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		text := t.format(items[i:end], i, len(items), end == len(items))
		if err := t.sendMessage(ctx, text); err != nil {
			return err
		}
		if end < len(items) && t.Pause > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(t.Pause):
			}
		}
	}
	return nil
}

// Test sends a message confirming the relay is configured
func (t *Telegram) Test(ctx context.Context) error {
	return t.sendMessage(ctx, "🧪 *Jobboard Test*\n\nTelegram relay is working\\!")
}

func (t *Telegram) format(batch []models.Notification, offset, total int, last bool) string {
	var sb strings.Builder
	if offset == 0 {
		sb.WriteString("🔔 *Jobboard*\n\n")
		fmt.Fprintf(&sb, "%s new notification\\(s\\)\n\n", escapeMarkdown(humanize.Comma(int64(total))))
	}
	for j, n := range batch {
		fmt.Fprintf(&sb, "*%d\\.* %s\n", offset+j+1, escapeMarkdown(n.Title))
		if n.Message != "" {
			fmt.Fprintf(&sb, "   %s\n", escapeMarkdown(n.Message))
		}
		if !n.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "   🕒 %s\n", escapeMarkdown(humanize.RelTime(n.CreatedAt, t.now(), "ago", "from now")))
		}
		sb.WriteString("\n")
	}
	if last {
		fmt.Fprintf(&sb, "📅 %s", escapeMarkdown(t.now().Format("Jan 2, 2006 3:04 PM")))
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

func escapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

var markdownStripper = strings.NewReplacer(
	"\\", "",
	"*", "",
	"_", "",
	"`", "",
)

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	msg := telegramMessage{ChatID: t.chatID, Text: text, ParseMode: "MarkdownV2"}
	status, err := t.post(ctx, msg)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}

	// Try again with plain text if Markdown fails
	msg.ParseMode = ""
	msg.Text = markdownStripper.Replace(text)
	status, err = t.post(ctx, msg)
	if err != nil {
		return fmt.Errorf("retrying as plain text: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("telegram API returned status: %d", status)
	}
	return nil
}

func (t *Telegram) post(ctx context.Context, msg telegramMessage) (int, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return 0, fmt.Errorf("marshalling message: %w", err)
	}
	target := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("sending telegram message: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
