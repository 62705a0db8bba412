package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/merdocx/veilbot/internal/shared/config"
	apperrors "github.com/merdocx/veilbot/internal/shared/errors"
	"github.com/merdocx/veilbot/internal/shared/logger"
)

// TelegramNotifier delivers notifications through the Telegram Bot API.
type TelegramNotifier struct {
	botToken   string
	httpClient *http.Client
	logger     logger.Interface
}

func NewTelegramNotifier(cfg config.TelegramConfig, log logger.Interface) Notifier {
	return &TelegramNotifier{
		botToken:   cfg.BotToken,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log.Named("telegram"),
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, msg Message) error {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.botToken)

	form := url.Values{}
	form.Set("chat_id", strconv.FormatUint(msg.UserID, 10))
	form.Set("text", msg.Text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return apperrors.NewBackendUnavailableError("telegram request failed").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.Warnw("telegram rejected notification",
			"status", resp.StatusCode, "user_id", msg.UserID, "event", string(msg.Event))
		return apperrors.NewBackendRejectedError(
			fmt.Sprintf("telegram returned status %d", resp.StatusCode))
	}

	return nil
}
