package validation

import (
	"testing"
)

const errLoginRequired = "login is required."

func TestRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		maxLen    int
		value     string
		wantErr   bool
		errMsg    string
	}{
		{
			name:      "valid input",
			fieldName: "login",
			maxLen:    10,
			value:     "valid",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "login",
			maxLen:    10,
			value:     "",
			wantErr:   true,
			errMsg:    errLoginRequired,
		},
		{
			name:      "whitespace only",
			fieldName: "login",
			maxLen:    10,
			value:     "   ",
			wantErr:   true,
			errMsg:    errLoginRequired,
		},
		{
			name:      "exceeds max length",
			fieldName: "login",
			maxLen:    5,
			value:     "toolong",
			wantErr:   true,
			errMsg:    "login cannot exceed 5 characters.",
		},
		{
			name:      "exactly max length",
			fieldName: "login",
			maxLen:    5,
			value:     "exact",
			wantErr:   false,
		},
		{
			name:      "unicode characters within limit",
			fieldName: "login",
			maxLen:    5,
			value:     "ünïcöd", // 6 runes, some multi-byte
			wantErr:   true,
			errMsg:    "login cannot exceed 5 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Required(tt.fieldName, tt.maxLen)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Required() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Required() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Required() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestProcessCode(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid code",
			value:   "CIV1001",
			wantErr: false,
		},
		{
			name:    "dash and underscore allowed",
			value:   "CIV-1001_A",
			wantErr: false,
		},
		{
			name:    "empty slot allowed",
			value:   "",
			wantErr: false,
		},
		{
			name:    "whitespace slot allowed",
			value:   "   ",
			wantErr: false,
		},
		{
			name:    "path separator rejected",
			value:   "CIV/1001",
			wantErr: true,
			errMsg:  "process code must contain only letters, digits, dashes and underscores.",
		},
		{
			name:    "dot traversal rejected",
			value:   "..",
			wantErr: true,
			errMsg:  "process code must contain only letters, digits, dashes and underscores.",
		},
		{
			name:    "too long",
			value:   "CIV100111",
			wantErr: true,
			errMsg:  "process code cannot exceed 8 characters.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ProcessCode("process code", 8)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("ProcessCode() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("ProcessCode() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("ProcessCode() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid address",
			value:   "clerk@example.com",
			wantErr: false,
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
			errMsg:  "email is required.",
		},
		{
			name:    "missing at sign",
			value:   "clerk.example.com",
			wantErr: true,
			errMsg:  "email must be a valid email address.",
		},
		{
			name:    "missing local part",
			value:   "@example.com",
			wantErr: true,
			errMsg:  "email must be a valid email address.",
		},
		{
			name:    "missing domain",
			value:   "clerk@",
			wantErr: true,
			errMsg:  "email must be a valid email address.",
		},
		{
			name:    "double at sign",
			value:   "clerk@@example.com",
			wantErr: true,
			errMsg:  "email must be a valid email address.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Email("email", 254)
			err := v(tt.value)
			if tt.wantErr && err == "" {
				t.Errorf("Email() expected error but got none")
			}
			if !tt.wantErr && err != "" {
				t.Errorf("Email() unexpected error: %v", err)
			}
			if tt.wantErr && err != tt.errMsg {
				t.Errorf("Email() error = %v, want %v", err, tt.errMsg)
			}
		})
	}
}
