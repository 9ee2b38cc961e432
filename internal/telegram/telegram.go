package telegram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HAAN6892/real-estate-monitor/internal/engine"
	"github.com/HAAN6892/real-estate-monitor/internal/finance"
	"github.com/HAAN6892/real-estate-monitor/internal/models"
	"github.com/HAAN6892/real-estate-monitor/internal/pipeline"
)

// Telegram caps messages at 4096 characters; chunk below that.
const maxMessageLen = 4000

type Service struct {
	logger *logrus.Logger
	client *http.Client
	config *models.TelegramConfig

	mu       sync.Mutex
	wishlist []string
	alerted  map[string]bool
}

func NewService(logger *logrus.Logger) *Service {
	return &Service{
		logger:  logger,
		client:  &http.Client{Timeout: 10 * time.Second},
		alerted: make(map[string]bool),
	}
}

func (s *Service) UpdateConfig(config *models.TelegramConfig) {
	s.config = config
}

// SetWishlist replaces the complex names watched for affordability alerts.
func (s *Service) SetWishlist(names []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wishlist = names
}

// SendMessage sends a message to the configured Telegram chat
func (s *Service) SendMessage(message string) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	if s.config.BotToken == "" {
		return errors.New("Telegram bot token is not configured")
	}

	if s.config.ChatID == "" {
		return errors.New("Telegram chat ID is not configured")
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.config.BotToken)
	payload := map[string]interface{}{
		"chat_id":    s.config.ChatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %v", err)
	}

	resp, err := s.client.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send message to Telegram API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return errors.New("invalid bot token - please check your token from @BotFather")
		case http.StatusBadRequest:
			return fmt.Errorf("invalid chat ID or message format: %s", string(body))
		case http.StatusForbidden:
			return errors.New("bot was blocked by the user or chat")
		case http.StatusNotFound:
			return errors.New("bot not found - please check your token from @BotFather")
		default:
			return fmt.Errorf("Telegram API error (status %d): %s", resp.StatusCode, string(body))
		}
	}

	return nil
}

// SendLongMessage splits a message into chunks that fit the Telegram limit
// and sends them in order.
func (s *Service) SendLongMessage(message string) error {
	for _, chunk := range splitMessage(message, maxMessageLen) {
		if err := s.SendMessage(chunk); err != nil {
			return err
		}
	}
	return nil
}

func splitMessage(message string, limit int) []string {
	if len(message) <= limit {
		return []string{message}
	}

	var chunks []string
	var chunk strings.Builder
	for _, line := range strings.Split(message, "\n") {
		if chunk.Len()+len(line)+1 > limit && chunk.Len() > 0 {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
		}
		chunk.WriteString(line)
		chunk.WriteString("\n")
	}
	if strings.TrimSpace(chunk.String()) != "" {
		chunks = append(chunks, chunk.String())
	}
	return chunks
}

// NotifySnapshot reports a rebuilt dataset: entity counts plus the
// enrichment results.
func (s *Service) NotifySnapshot(snap *engine.Snapshot) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	message := fmt.Sprintf(
		"🏠 *실거래 데이터 갱신*\n"+
			"⏰ %s\n\n"+
			"매매 단지: %d개\n"+
			"전월세 단지: %d개\n"+
			"이상 저가 의심: %d건\n"+
			"전세가율 산출: %d개",
		snap.BuiltAt.Format("2006-01-02 15:04"),
		len(snap.Sales),
		len(snap.Leases),
		snap.AnomalyCount,
		snap.JeonseMatched,
	)
	return s.SendMessage(message)
}

// NotifyAffordable alerts once per complex when a wishlist entry becomes
// affordable under the given financing. Re-sending on every rebuild would
// drown the chat, so verdict transitions are tracked per complex.
func (s *Service) NotifyAffordable(snap *engine.Snapshot, financing models.PurchaseFinancing) error {
	if s.config == nil || !s.config.IsEnabled {
		return nil
	}

	s.mu.Lock()
	wishlist := s.wishlist
	s.mu.Unlock()
	if len(wishlist) == 0 {
		return nil
	}

	result := snap.EvaluatePurchase(financing, pipeline.Query{PageSize: len(snap.Sales) + 1})

	var hits []string
	for _, p := range result.Properties.Items {
		if !onWishlist(wishlist, p.Name) {
			continue
		}
		if p.Verdict != finance.VerdictAffordable {
			continue
		}

		key := fmt.Sprintf("%s|%s|%.1f", p.Region, p.Name, p.AreaPy)
		s.mu.Lock()
		seen := s.alerted[key]
		if !seen {
			s.alerted[key] = true
		}
		s.mu.Unlock()
		if seen {
			continue
		}

		hits = append(hits, fmt.Sprintf(
			"  • %s %s %.1f평\n    평균 %s | 대출 %s | 필요 자금 %s",
			p.Region, p.Name, p.AreaPy,
			FormatPrice(p.Price), FormatPrice(p.Loan), FormatPrice(p.EquityNeeded),
		))
	}

	if len(hits) == 0 {
		return nil
	}

	message := "✅ *매수 가능 관심 단지*\n\n" + strings.Join(hits, "\n")
	s.logger.WithField("complexes", len(hits)).Info("Sending affordability alert")
	return s.SendLongMessage(message)
}

func onWishlist(wishlist []string, name string) bool {
	for _, w := range wishlist {
		if w != "" && strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// FormatPrice renders an amount in 만원 in the 억/만 convention,
// e.g. 54000 → "5억 4,000".
func FormatPrice(priceMan int) string {
	if priceMan >= 10000 {
		eok := priceMan / 10000
		rest := priceMan % 10000
		if rest > 0 {
			return fmt.Sprintf("%d억 %s", eok, groupDigits(rest))
		}
		return fmt.Sprintf("%d억", eok)
	}
	return fmt.Sprintf("%s만", groupDigits(priceMan))
}

func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
