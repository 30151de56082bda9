package sender_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/creatorshield/creatorshield/internal/lib/smtp"
	"github.com/creatorshield/creatorshield/internal/models"
	services "github.com/creatorshield/creatorshield/internal/services/sender"
)

type ClientMock struct {
	mock.Mock
	data bytes.Buffer
}

func (m *ClientMock) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *ClientMock) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *ClientMock) Quit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *ClientMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type writeCloserMock struct {
	buf *bytes.Buffer
}

func (w *writeCloserMock) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *writeCloserMock) Close() error                { return nil }

type transportStub struct {
	client smtp.Client
	err    error
}

func (t *transportStub) Connect() (smtp.Client, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.client, nil
}

func (t *transportStub) GetSMTPUser() string { return "noreply@creatorshield.io" }

func newTransportMock(client *ClientMock, err error) *transportStub {
	return &transportStub{client: client, err: err}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSenderService_SendAccountNotification(t *testing.T) {
	tests := []struct {
		name        string
		kind        string
		wantSubject string
		wantInBody  string
	}{
		{
			name:        "suspended",
			kind:        models.NotificationSuspended,
			wantSubject: "Subject: Your CreatorShield account has been suspended",
			wantInBody:  "temporarily suspended",
		},
		{
			name:        "suspension lifted",
			kind:        models.NotificationSuspensionLifted,
			wantSubject: "Subject: Your CreatorShield account suspension has been lifted",
			wantInBody:  "has been lifted",
		},
		{
			name:        "deactivated",
			kind:        models.NotificationDeactivated,
			wantSubject: "Subject: Your CreatorShield account has been deactivated",
			wantInBody:  "submit a reactivation request",
		},
		{
			name:        "reactivation received",
			kind:        models.NotificationReactivationReceived,
			wantSubject: "Subject: We received your reactivation request",
			wantInBody:  "awaiting review",
		},
		{
			name:        "reactivation approved",
			kind:        models.NotificationReactivationApproved,
			wantSubject: "Subject: Your reactivation request has been approved",
			wantInBody:  "after the waiting period",
		},
		{
			name:        "reactivation rejected",
			kind:        models.NotificationReactivationRejected,
			wantSubject: "Subject: Your reactivation request has been rejected",
			wantInBody:  "has been rejected",
		},
		{
			name:        "suspension expired",
			kind:        models.NotificationReactivated,
			wantSubject: "Subject: Your CreatorShield account is active again",
			wantInBody:  "suspension period has ended",
		},
		{
			name:        "reactivation completed",
			kind:        models.NotificationActivated,
			wantSubject: "Subject: Your CreatorShield account has been reactivated",
			wantInBody:  "Your account is active again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(ClientMock)
			transport := newTransportMock(client, nil)
			svc := services.NewSenderService(transport, discardLogger())

			writer := &writeCloserMock{buf: &client.data}
			client.On("Mail", "noreply@creatorshield.io").Return(nil).Once()
			client.On("Rcpt", "creator@example.com").Return(nil).Once()
			client.On("Data").Return(writer, nil).Once()
			client.On("Quit").Return(nil).Once()
			client.On("Close").Return(nil).Once()

			body, _ := json.Marshal(models.Notification{
				Kind:     tt.kind,
				Email:    "creator@example.com",
				Username: "creator",
			})
			err := svc.SendAccountNotification(body)
			assert.NoError(t, err)

			sent := client.data.String()
			assert.Contains(t, sent, tt.wantSubject)
			assert.Contains(t, sent, "Hello, creator!")
			assert.Contains(t, sent, tt.wantInBody)
			client.AssertExpectations(t)
		})
	}
}

func TestSenderService_SendAccountNotification_UnknownKindSkipped(t *testing.T) {
	client := new(ClientMock)
	transport := newTransportMock(client, nil)
	svc := services.NewSenderService(transport, discardLogger())

	body, _ := json.Marshal(models.Notification{Kind: "something_else", Email: "creator@example.com"})
	err := svc.SendAccountNotification(body)
	assert.NoError(t, err)
	client.AssertNotCalled(t, "Mail", mock.Anything)
}

func TestSenderService_SendAccountNotification_BadPayload(t *testing.T) {
	svc := services.NewSenderService(newTransportMock(new(ClientMock), nil), discardLogger())
	err := svc.SendAccountNotification([]byte("{not json"))
	assert.Error(t, err)
}

func TestSenderService_SendDeviceNotification(t *testing.T) {
	client := new(ClientMock)
	transport := newTransportMock(client, nil)
	svc := services.NewSenderService(transport, discardLogger())

	writer := &writeCloserMock{buf: &client.data}
	client.On("Mail", "noreply@creatorshield.io").Return(nil).Once()
	client.On("Rcpt", "creator@example.com").Return(nil).Once()
	client.On("Data").Return(writer, nil).Once()
	client.On("Quit").Return(nil).Once()
	client.On("Close").Return(nil).Once()

	body, _ := json.Marshal(models.Notification{
		Kind:     models.NotificationNewDevice,
		Email:    "creator@example.com",
		Username: "creator",
		Device: &models.DeviceInfo{
			DeviceName:     "MacBook Pro",
			Browser:        "Chrome",
			BrowserVersion: "121.0",
			OS:             "macOS",
			OSVersion:      "14.3",
			IPAddress:      "203.0.113.7",
			Location:       "Berlin, DE",
			Timestamp:      time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		},
	})
	err := svc.SendDeviceNotification(body)
	assert.NoError(t, err)

	sent := client.data.String()
	assert.Contains(t, sent, "Subject: New device sign-in to your CreatorShield account")
	assert.Contains(t, sent, "Device: MacBook Pro")
	assert.Contains(t, sent, "IP address: 203.0.113.7")
	assert.Contains(t, sent, "change your password immediately")
	client.AssertExpectations(t)
}

func TestSenderService_SendAccountNotification_ConnectError(t *testing.T) {
	transport := newTransportMock(nil, errors.New("connection refused"))
	svc := services.NewSenderService(transport, discardLogger())

	body, _ := json.Marshal(models.Notification{
		Kind:  models.NotificationSuspended,
		Email: "creator@example.com",
	})
	err := svc.SendAccountNotification(body)
	assert.Error(t, err)
}
