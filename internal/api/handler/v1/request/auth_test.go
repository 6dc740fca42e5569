package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SignupRequest
		wantErr bool
	}{
		{
			name:    "valid",
			req:     SignupRequest{Username: "alice", Password: "passw0rd", ConfirmPassword: "passw0rd"},
			wantErr: false,
		},
		{
			name:    "missing username",
			req:     SignupRequest{Password: "passw0rd", ConfirmPassword: "passw0rd"},
			wantErr: true,
		},
		{
			name:    "username too short",
			req:     SignupRequest{Username: "al", Password: "passw0rd", ConfirmPassword: "passw0rd"},
			wantErr: true,
		},
		{
			name:    "password too short",
			req:     SignupRequest{Username: "alice", Password: "pw1", ConfirmPassword: "pw1"},
			wantErr: true,
		},
		{
			name:    "password without digit",
			req:     SignupRequest{Username: "alice", Password: "password", ConfirmPassword: "password"},
			wantErr: true,
		},
		{
			name:    "password without letter",
			req:     SignupRequest{Username: "alice", Password: "12345678", ConfirmPassword: "12345678"},
			wantErr: true,
		},
		{
			name:    "confirmation mismatch",
			req:     SignupRequest{Username: "alice", Password: "passw0rd", ConfirmPassword: "passw1rd"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTradeRequest_Validate(t *testing.T) {
	assert.NoError(t, (&TradeRequest{Symbol: "NFLX", Shares: 10}).Validate())
	assert.Error(t, (&TradeRequest{Shares: 10}).Validate())
	assert.Error(t, (&TradeRequest{Symbol: "NFLX"}).Validate())
	assert.Error(t, (&TradeRequest{Symbol: "NFLX", Shares: -1}).Validate())
	assert.Error(t, (&TradeRequest{Symbol: "TOOLONGSYMBOL", Shares: 1}).Validate())
}
