package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	client "github.com/mamadbah2/herdbook/pkg/clients/whatsapp"
)

const replyTimeout = 10 * time.Second

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
}

// CommandHandler answers one parsed command.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Translator rewrites free text as a command line.
type Translator interface {
	TranslateToCommand(ctx context.Context, input string) (string, error)
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher CommandHandler
	translator Translator
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. translator may be nil,
// in which case unrecognised text gets the help reply.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher CommandHandler, translator Translator, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		translator: translator,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook answers every text message of the payload. A failing message
// does not stop the others; the first error is returned.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if n := len(change.Value.Statuses); n > 0 {
				s.logger.Debug("delivery receipts received", zap.Int("count", n))
			}

			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := msg.Body()
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	cmd := models.ParseCommand(text)
	if cmd.Type == models.CommandUnknown && s.translator != nil {
		cmd = s.translate(ctx, text, cmd)
	}
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		reply = "Sorry, the herd records are not available right now."
		s.logger.Error("command failed", zap.String("command", string(cmd.Type)), zap.Error(err))
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	if _, sendErr := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   msg.From,
		Body: reply,
	}); sendErr != nil {
		return fmt.Errorf("reply to %s: %w", msg.From, sendErr)
	}
	return nil
}

// translate asks the model for a command. Failures keep the unknown command.
func (s *MetaWhatsAppService) translate(ctx context.Context, text string, fallback models.Command) models.Command {
	line, err := s.translator.TranslateToCommand(ctx, text)
	if err != nil {
		s.logger.Warn("free text translation failed", zap.Error(err))
		return fallback
	}

	cmd := models.ParseCommand(line)
	cmd.Raw = text
	s.logger.Debug("free text translated", zap.String("command", line))
	return cmd
}
