package email

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyWithoutCredentialsDoesNotSend(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "smtp.uni.edu"}, zerolog.Nop())
	n.send = func([]string, []byte) error {
		t.Fatal("send must not be called without credentials")
		return nil
	}

	err := n.NotifyCrisisBooking(context.Background(), CrisisAlert{CounselorEmail: "c@uni.edu"})
	assert.NoError(t, err)
}

func TestNotifySendsToCounselorAndDesk(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{
		Host: "smtp.uni.edu", Username: "u", Password: "p",
		FromName: "Care", FromEmail: "care@uni.edu", AlertEmail: "desk@uni.edu",
	}, zerolog.Nop())

	var gotTo []string
	var gotMsg string
	n.send = func(to []string, message []byte) error {
		gotTo = to
		gotMsg = string(message)
		return nil
	}

	err := n.NotifyCrisisBooking(context.Background(), CrisisAlert{
		CounselorEmail: "c@uni.edu",
		CounselorName:  "Dr. <Sarah>",
		AppointmentID:  "emergency_1",
		Date:           "2025-03-02",
		Time:           "09:00",
		Source:         "AI chat",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c@uni.edu", "desk@uni.edu"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Urgent: emergency session on 2025-03-02 at 09:00\r\n")
	assert.Contains(t, gotMsg, "Dr. &lt;Sarah&gt;")
	assert.Contains(t, gotMsg, "emergency_1")
}

func TestNotifyPropagatesSendFailure(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Username: "u", Password: "p"}, zerolog.Nop())
	n.send = func([]string, []byte) error { return errors.New("connection refused") }

	err := n.NotifyCrisisBooking(context.Background(), CrisisAlert{CounselorEmail: "c@uni.edu"})
	assert.EqualError(t, err, "connection refused")
}
