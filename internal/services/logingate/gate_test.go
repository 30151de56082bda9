package logingate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/creatorshield/creatorshield/internal/models"
	"github.com/creatorshield/creatorshield/internal/services/logingate"
)

func TestGate_Evaluate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	delay := 24 * time.Hour
	gate := logingate.New(delay)

	twoHoursAgo := now.Add(-2 * time.Hour)
	thirtyHoursAgo := now.Add(-30 * time.Hour)

	tests := []struct {
		name    string
		account *models.Account
		want    logingate.Decision
	}{
		{
			name:    "active account is allowed",
			account: &models.Account{Status: models.StatusActive},
			want:    logingate.Decision{Allowed: true},
		},
		{
			name: "suspended account gets countdown",
			account: &models.Account{
				Status:              models.StatusSuspended,
				SuspensionTimestamp: &twoHoursAgo,
			},
			want: logingate.Decision{
				Allowed:      false,
				Reason:       logingate.ReasonSuspended,
				Message:      "Your account is temporarily suspended. Access is restored automatically after the suspension period.",
				Remaining:    22 * time.Hour,
				HasCountdown: true,
			},
		},
		{
			name: "expired suspension clamps countdown to zero",
			account: &models.Account{
				Status:              models.StatusSuspended,
				SuspensionTimestamp: &thirtyHoursAgo,
			},
			want: logingate.Decision{
				Allowed:      false,
				Reason:       logingate.ReasonSuspended,
				Message:      "Your account is temporarily suspended. Access is restored automatically after the suspension period.",
				Remaining:    0,
				HasCountdown: true,
			},
		},
		{
			name: "deactivated with approved reactivation gets countdown",
			account: &models.Account{
				Status:                 models.StatusDeactivated,
				ReactivationStatus:     models.ReactivationApproved,
				ReactivationApprovedAt: &twoHoursAgo,
			},
			want: logingate.Decision{
				Allowed:      false,
				Reason:       logingate.ReasonReactivationPending,
				Message:      "Your reactivation request was approved. The account becomes active after the waiting period.",
				IsApproved:   true,
				Remaining:    22 * time.Hour,
				HasCountdown: true,
			},
		},
		{
			name: "deactivated with pending reactivation has no countdown",
			account: &models.Account{
				Status:             models.StatusDeactivated,
				ReactivationStatus: models.ReactivationPending,
			},
			want: logingate.Decision{
				Allowed: false,
				Reason:  logingate.ReasonReactivationPending,
				Message: "Your reactivation request is awaiting review.",
			},
		},
		{
			name: "deactivated without request invites reactivation",
			account: &models.Account{
				Status:             models.StatusDeactivated,
				ReactivationStatus: models.ReactivationNone,
			},
			want: logingate.Decision{
				Allowed: false,
				Reason:  logingate.ReasonDeactivated,
				Message: "Your account is deactivated. Submit a reactivation request to restore access.",
			},
		},
		{
			name: "rejected reactivation behaves like plain deactivated",
			account: &models.Account{
				Status:             models.StatusDeactivated,
				ReactivationStatus: models.ReactivationRejected,
			},
			want: logingate.Decision{
				Allowed: false,
				Reason:  logingate.ReasonDeactivated,
				Message: "Your account is deactivated. Submit a reactivation request to restore access.",
			},
		},
		{
			name: "suspended without timestamp clamps to zero",
			account: &models.Account{
				Status: models.StatusSuspended,
			},
			want: logingate.Decision{
				Allowed:      false,
				Reason:       logingate.ReasonSuspended,
				Message:      "Your account is temporarily suspended. Access is restored automatically after the suspension period.",
				Remaining:    0,
				HasCountdown: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gate.Evaluate(tt.account, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecision_Countdown(t *testing.T) {
	tests := []struct {
		name                           string
		remaining                      time.Duration
		wantHours, wantMinutes, wantSeconds int
	}{
		{"two hours left of 24h window", 22 * time.Hour, 22, 0, 0},
		{"mixed components", 3*time.Hour + 25*time.Minute + 7*time.Second, 3, 25, 7},
		{"zero", 0, 0, 0, 0},
		{"under a minute", 42 * time.Second, 0, 0, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := logingate.Decision{Remaining: tt.remaining}
			h, m, s := d.Countdown()
			assert.Equal(t, tt.wantHours, h)
			assert.Equal(t, tt.wantMinutes, m)
			assert.Equal(t, tt.wantSeconds, s)
		})
	}
}
