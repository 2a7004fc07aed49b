package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/app/repositories"
	"github.com/yigit/mindcare/internal/app/risk"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/helpers"
	"github.com/yigit/mindcare/internal/pkg/metrics"
)

// ChatService answers support chat messages and triages their risk
type ChatService struct {
	classifier risk.Classifier
	responder  Responder
	chatRepo   *repositories.ChatRepository
	risk       RiskRecorder
	crisis     Intervener
	activity   ActivityRecorder
	metrics    *metrics.Collector
	source     string
	logger     zerolog.Logger
	now        Clock
}

// ChatDeps groups the collaborators of ChatService
type ChatDeps struct {
	Classifier   risk.Classifier
	Responder    Responder
	ChatRepo     *repositories.ChatRepository
	Risk         RiskRecorder
	Crisis       Intervener
	Activity     ActivityRecorder
	Metrics      *metrics.Collector
	CrisisSource string
}

// NewChatService creates a new ChatService
func NewChatService(deps ChatDeps, logger zerolog.Logger) *ChatService {
	responder := deps.Responder
	if responder == nil {
		responder = StaticResponder{}
	}
	source := deps.CrisisSource
	if source == "" {
		source = "AI chat"
	}
	return &ChatService{
		classifier: deps.Classifier,
		responder:  responder,
		chatRepo:   deps.ChatRepo,
		risk:       deps.Risk,
		crisis:     deps.Crisis,
		activity:   deps.Activity,
		metrics:    deps.Metrics,
		source:     source,
		logger:     logger,
		now:        utcNow,
	}
}

// HandleMessage classifies the message, stores the exchange and runs the
// crisis workflow when needed.
func (s *ChatService) HandleMessage(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Message) == "" {
		return nil, apperrors.NewValidationError(msgMissingFields)
	}

	level, err := s.classifier.Classify(ctx, req.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to classify message: %w", err)
	}
	s.metrics.ObserveRisk("chat", string(level))

	reply, err := s.responder.Reply(ctx, Prompt{UserID: req.UserID, Message: req.Message, RiskLevel: level})
	if err != nil {
		s.logger.Warn().Err(err).Str("userID", req.UserID).Msg("Responder failed, using static reply")
		reply = StaticReply
	}

	now := s.now()
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session_%d", now.UnixMilli())
	}

	entry := models.ChatLogEntry{
		UserID:            req.UserID,
		SessionID:         sessionID,
		Message:           req.Message,
		Response:          reply,
		RiskLevel:         level,
		Timestamp:         now,
		NeedsIntervention: level == models.RiskCrisis,
	}
	if err := s.chatRepo.Append(ctx, helpers.DayKey(now), entry); err != nil {
		s.logger.Error().Err(err).Str("userID", req.UserID).Msg("Failed to store chat log")
		return nil, fmt.Errorf("failed to store chat log: %w", err)
	}

	if err := s.risk.RecordRisk(ctx, req.UserID, level); err != nil {
		s.logger.Warn().Err(err).Str("userID", req.UserID).Msg("Risk analytics not updated")
	}

	resp := &dto.ChatResponse{
		Response:  reply,
		SessionID: sessionID,
		RiskLevel: level,
	}

	if level == models.RiskCrisis {
		intervention := s.crisis.Intervene(ctx, req.UserID, s.source)
		resp.Crisis = true
		resp.Intervention = &intervention
		return resp, nil
	}

	recordBestEffort(ctx, s.activity, s.logger, req.UserID, models.ActivityAIChatInteraction, map[string]interface{}{
		"sessionId": sessionID,
		"riskLevel": level,
	})
	return resp, nil
}

// ChatHistory returns the chat log of a user for day (YYYY-MM-DD, today when empty)
func (s *ChatService) ChatHistory(ctx context.Context, userID, day string) ([]models.ChatLogEntry, error) {
	if day == "" {
		day = helpers.DayKey(s.now())
	} else if _, err := helpers.ParseDay(day); err != nil {
		return nil, apperrors.NewValidationError("date must be formatted as YYYY-MM-DD")
	}
	return s.chatRepo.ListByDay(ctx, userID, day)
}
