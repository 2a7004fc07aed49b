package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/mindcare/internal/app/models"
)

func TestInterveneBooksConsecutiveSlots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.crisis.Intervene(ctx, "u1", "AI chat")
	second := env.crisis.Intervene(ctx, "u2", "AI chat")

	require.True(t, first.AutoBooking)
	require.True(t, second.AutoBooking)
	assert.Equal(t, "09:00", first.Appointment.Time)
	assert.Equal(t, "10:00", second.Appointment.Time)
	assert.NotEqual(t, first.AppointmentID, second.AppointmentID)
	assert.Equal(t, models.SessionTypeCrisisIntervention, first.Appointment.SessionType)
	assert.Equal(t, models.SessionModeVideoCall, first.Appointment.Mode)

	entries := env.activities(t, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActivityCrisisIntervention, entries[0].Activity)
	assert.Equal(t, true, entries[0].Metadata["autoBooking"])
	assert.Equal(t, first.AppointmentID, entries[0].Metadata["appointmentId"])
	assert.Equal(t, "AI chat", entries[0].Metadata["source"])
}

func TestInterveneWithoutFreeSlot(t *testing.T) {
	env := newTestEnv(t)
	env.crisis.slots = fakeSlots{}

	result := env.crisis.Intervene(context.Background(), "u1", "AI chat")
	assert.False(t, result.AutoBooking)
	assert.Empty(t, result.AppointmentID)
	assert.Equal(t, MsgNoSlot, result.Message)

	entries := env.activities(t, "u1")
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].Metadata["autoBooking"])
	_, hasAppointment := entries[0].Metadata["appointmentId"]
	assert.False(t, hasAppointment)
}

func TestInterveneExhaustsSearchWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// two days of fifteen slots each
	for i := 0; i < 30; i++ {
		require.True(t, env.crisis.Intervene(ctx, "u1", "AI chat").AutoBooking)
	}
	result := env.crisis.Intervene(ctx, "u1", "AI chat")
	assert.False(t, result.AutoBooking)
	assert.Equal(t, MsgNoSlot, result.Message)
}

func TestInterveneDegradesOnFailure(t *testing.T) {
	env := newTestEnv(t)

	env.crisis.slots = fakeSlots{err: errors.New("store unavailable")}
	result := env.crisis.Intervene(context.Background(), "u1", "AI chat")
	assert.False(t, result.AutoBooking)
	assert.Equal(t, MsgCrisisFallback, result.Message)

	env.crisis.slots = panickingSlots{}
	result = env.crisis.Intervene(context.Background(), "u2", "AI chat")
	assert.False(t, result.AutoBooking)
	assert.Equal(t, MsgCrisisFallback, result.Message)

	// still recorded
	assert.Len(t, env.activities(t, "u1"), 1)
	assert.Len(t, env.activities(t, "u2"), 1)
}

func TestInterveneIgnoresNotificationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.err = errors.New("smtp down")

	result := env.crisis.Intervene(context.Background(), "u1", "AI chat")
	assert.True(t, result.AutoBooking)
	assert.Equal(t, MsgEmergencyBooked, result.Message)
	assert.Len(t, env.notifier.alerts, 1)
}
