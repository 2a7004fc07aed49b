package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mindcare/internal/app/models"
	"github.com/yigit/mindcare/internal/app/models/dto"
	"github.com/yigit/mindcare/internal/pkg/apperrors"
	"github.com/yigit/mindcare/internal/pkg/helpers"
)

type failingResponder struct{}

func (failingResponder) Reply(context.Context, Prompt) (string, error) {
	return "", errors.New("quota exceeded")
}

func TestHandleMessageLowRisk(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.chat.HandleMessage(ctx, dto.ChatRequest{UserID: "u1", Message: "Hello there"})
	require.NoError(t, err)

	assert.Equal(t, StaticReply, resp.Response)
	assert.Equal(t, models.RiskLow, resp.RiskLevel)
	assert.Equal(t, "session_1741608000000", resp.SessionID)
	assert.False(t, resp.Crisis)
	assert.Nil(t, resp.Intervention)

	log, err := env.repos.ChatRepository.ListByDay(ctx, "u1", helpers.DayKey(testNow))
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "Hello there", log[0].Message)
	assert.False(t, log[0].NeedsIntervention)

	assert.Equal(t, 1, env.todayRisk(t).Low)
	assert.Equal(t, []string{models.ActivityAIChatInteraction}, activityNames(env.activities(t, "u1")))
}

func TestHandleMessageKeepsSessionID(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.chat.HandleMessage(context.Background(), dto.ChatRequest{UserID: "u1", Message: "I feel anxious", SessionID: "s-42"})
	require.NoError(t, err)
	assert.Equal(t, "s-42", resp.SessionID)
	assert.Equal(t, models.RiskModerate, resp.RiskLevel)
}

func TestHandleMessageHighRiskIsNotCrisis(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.chat.HandleMessage(context.Background(), dto.ChatRequest{UserID: "u1", Message: "I feel HOPELESS"})
	require.NoError(t, err)
	assert.Equal(t, models.RiskHigh, resp.RiskLevel)
	assert.False(t, resp.Crisis)
	assert.Equal(t, 1, env.todayRisk(t).High)
}

func TestHandleMessageCrisisBooksEmergencySession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.chat.HandleMessage(ctx, dto.ChatRequest{UserID: "u1", Message: "I just want to end it all"})
	require.NoError(t, err)

	assert.Equal(t, models.RiskCrisis, resp.RiskLevel)
	assert.True(t, resp.Crisis)
	require.NotNil(t, resp.Intervention)
	assert.True(t, resp.Intervention.AutoBooking)
	assert.Equal(t, MsgEmergencyBooked, resp.Intervention.Message)

	booking := resp.Intervention.Appointment
	require.NotNil(t, booking)
	assert.Equal(t, resp.Intervention.AppointmentID, booking.ID)
	assert.Equal(t, "1", booking.CounselorID)
	assert.Equal(t, "2025-03-11", booking.Date)
	assert.Equal(t, "09:00", booking.Time)
	assert.Equal(t, "Auto-booked due to crisis detection in AI chat", booking.Notes)
	assert.Equal(t, models.BookingStatusEmergencyScheduled, booking.Status)
	assert.Equal(t, models.BookingPriorityUrgent, booking.Priority)

	bookings, err := env.bookings.ListBookings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)

	log, err := env.repos.ChatRepository.ListByDay(ctx, "u1", helpers.DayKey(testNow))
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.True(t, log[0].NeedsIntervention)

	assert.Equal(t, 1, env.todayRisk(t).Crisis)
	assert.Equal(t, []string{models.ActivityCrisisIntervention}, activityNames(env.activities(t, "u1")))
	require.Len(t, env.notifier.alerts, 1)
	assert.Equal(t, "Dr. Sarah Johnson", env.notifier.alerts[0].CounselorName)
}

func TestHandleMessageRequiresFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.chat.HandleMessage(context.Background(), dto.ChatRequest{UserID: "u1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Missing required fields", err.Error())
	assert.Equal(t, 0, env.todayRisk(t).Total())
}

func TestHandleMessageFallsBackWhenResponderFails(t *testing.T) {
	env := newTestEnv(t)
	env.chat.responder = failingResponder{}

	resp, err := env.chat.HandleMessage(context.Background(), dto.ChatRequest{UserID: "u1", Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, StaticReply, resp.Response)
}

func TestChatHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.chat.HandleMessage(ctx, dto.ChatRequest{UserID: "u1", Message: "one"})
	require.NoError(t, err)
	_, err = env.chat.HandleMessage(ctx, dto.ChatRequest{UserID: "u2", Message: "two"})
	require.NoError(t, err)

	history, err := env.chat.ChatHistory(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "one", history[0].Message)

	history, err = env.chat.ChatHistory(ctx, "u1", "2025-03-09")
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = env.chat.ChatHistory(ctx, "u1", "03/10/2025")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}
