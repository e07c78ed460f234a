package telegramNotifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/internal/converter/telebotConverter"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"
)

// TelegramNotifier posts triggered alerts to the operator chat. The bot only sends,
// it never polls for updates.
type TelegramNotifier struct {
	bot    *tele.Bot
	chatID tele.ChatID
}

func New(cfg *config.Config) (*TelegramNotifier, error) {
	return newWithURL(cfg, "")
}

// empty url selects the public Bot API
func newWithURL(cfg *config.Config, url string) (*TelegramNotifier, error) {
	b, err := tele.NewBot(tele.Settings{
		URL:     url,
		Token:   cfg.Telegram.Token,
		Offline: true,
		Client:  &http.Client{Timeout: cfg.API.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("tele.NewBot: %w", err)
	}

	return &TelegramNotifier{bot: b, chatID: tele.ChatID(cfg.Telegram.ChatID)}, nil
}

func (n *TelegramNotifier) NotifyAlertTriggered(ctx context.Context, alert model.Alert, price decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "TelegramNotifier.NotifyAlertTriggered"

	slog.Debug("NotifyAlertTriggered start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("alertID", alert.ID))

	_, err := n.bot.Send(n.chatID, telebotConverter.AlertTriggeredMessage(alert, price), tele.ModeMarkdown)
	if err != nil {
		slog.Error("failed to send telegram message", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return err
	}

	return nil
}
