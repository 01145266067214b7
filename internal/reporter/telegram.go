package reporter

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-linkedin-scraper/internal/config"
	"go-linkedin-scraper/internal/scraper"
)

// descriptionPreview caps how much of a description goes into a message.
const descriptionPreview = 280

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramReporter forwards result pages and failures to one chat.
type TelegramReporter struct {
	bot    sender
	chatID int64
}

func NewTelegramReporter(cfg config.TelegramConfig) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: cfg.ChatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// NotifyResults sends one summary message followed by one message per posting.
func (t *TelegramReporter) NotifyResults(q scraper.SearchQuery, page *scraper.ResultPage) error {
	if page == nil {
		return nil
	}
	if err := t.SendMessage(summary(q, page)); err != nil {
		return fmt.Errorf("send summary: %w", err)
	}
	for _, p := range page.Postings {
		if err := t.SendMessage(formatPosting(p)); err != nil {
			return fmt.Errorf("send posting %q: %w", p.Title, err)
		}
	}
	return nil
}

// NotifyError reports a failed invocation together with the search it ran.
func (t *TelegramReporter) NotifyError(q scraper.SearchQuery, err error) error {
	text := fmt.Sprintf("⚠️ <b>LinkedIn scraper error</b> (%s in %s):\n%s",
		html.EscapeString(q.Keyword), html.EscapeString(q.Location), html.EscapeString(err.Error()))
	return t.SendMessage(text)
}

func summary(q scraper.SearchQuery, page *scraper.ResultPage) string {
	header := fmt.Sprintf("🔎 <b>%s</b> in %s", html.EscapeString(q.Keyword), html.EscapeString(q.Location))
	if page.Empty {
		return header + "\n📭 " + html.EscapeString(page.Message)
	}
	return fmt.Sprintf("%s\n📄 %d posting(s)", header, len(page.Postings))
}

func formatPosting(p scraper.JobPosting) string {
	desc := strings.Join(strings.Fields(p.Description), " ")
	if r := []rune(desc); len(r) > descriptionPreview {
		desc = string(r[:descriptionPreview]) + "…"
	}
	return fmt.Sprintf(
		"🔥 <b>%s</b>\n"+
			"🏢 %s\n"+
			"📝 %s\n"+
			"🔗 <a href=\"%s\">View Job</a>",
		html.EscapeString(p.Title),
		html.EscapeString(p.Company),
		html.EscapeString(desc),
		html.EscapeString(p.URL),
	)
}
