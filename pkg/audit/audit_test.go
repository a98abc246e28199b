package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := AccountEvent{
		AccountName: "alice",
		Operation:   "create",
		Success:     true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.Contains(output, "telehive") {
		t.Error("Expected app name 'telehive' in output")
	}
	if !strings.Contains(output, "account") {
		t.Error("Expected message ID 'account' in output")
	}
	if !strings.Contains(output, "alice") {
		t.Error("Expected account name in output")
	}
	if !strings.Contains(output, "create succeeded") {
		t.Error("Expected success message in output")
	}
}

func TestAccountEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     AccountEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful create",
			event: AccountEvent{
				AccountName: "alice",
				Operation:   "create",
				Success:     true,
			},
			wantMsg:   "create succeeded",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "account",
		},
		{
			name: "failed delete",
			event: AccountEvent{
				AccountName:  "alice",
				Operation:    "delete",
				Success:      false,
				ErrorMessage: "account not found",
			},
			wantMsg:   "delete failed: account not found",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestModuleEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   ModuleEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "catalog registration",
			event: ModuleEvent{
				ModuleName: "greeter",
				Operation:  "register",
				Success:    true,
			},
			wantMsg: "module greeter: register succeeded",
			wantSev: SeverityInfo,
		},
		{
			name: "link names the account",
			event: ModuleEvent{
				AccountName: "alice",
				ModuleName:  "greeter",
				Operation:   "link",
				Success:     true,
			},
			wantMsg: "module greeter on account alice: link succeeded",
			wantSev: SeverityInfo,
		},
		{
			name: "trust elevation is notice level",
			event: ModuleEvent{
				AccountName: "alice",
				ModuleName:  "greeter",
				Operation:   "trust",
				Success:     true,
			},
			wantMsg: "trust succeeded",
			wantSev: SeverityNotice,
		},
		{
			name: "failed unlink",
			event: ModuleEvent{
				AccountName:  "alice",
				ModuleName:   "greeter",
				Operation:    "unlink",
				Success:      false,
				ErrorMessage: "link not found",
			},
			wantMsg: "unlink failed: link not found",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != "module" {
				t.Errorf("MessageID() = %v, want 'module'", tt.event.MessageID())
			}
		})
	}
}

func TestRunEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   RunEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "start",
			event: RunEvent{
				AccountName: "alice",
				Operation:   "start",
				Success:     true,
			},
			wantMsg: "client started",
			wantSev: SeverityInfo,
		},
		{
			name: "start failure",
			event: RunEvent{
				AccountName:  "alice",
				Operation:    "start",
				Success:      false,
				ErrorMessage: "connection refused",
			},
			wantMsg: "client start failed: connection refused",
			wantSev: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityDaemon {
				t.Errorf("Facility() = %v, want FacilityDaemon", tt.event.Facility())
			}
			if tt.event.MessageID() != "run" {
				t.Errorf("MessageID() = %v, want 'run'", tt.event.MessageID())
			}
		})
	}
}

func TestStructuredData(t *testing.T) {
	event := ModuleEvent{
		AccountName: "alice",
		ModuleName:  "greeter",
		Operation:   "link",
		Success:     true,
	}

	sd := event.StructuredData()

	if sd[SDIDSubject]["module"] != "greeter" {
		t.Errorf("StructuredData subject.module = %v, want 'greeter'", sd[SDIDSubject]["module"])
	}
	if sd[SDIDAccount]["name"] != "alice" {
		t.Errorf("StructuredData account.name = %v, want 'alice'", sd[SDIDAccount]["name"])
	}
	if sd[SDIDAction]["operation"] != "link" {
		t.Errorf("StructuredData action.operation = %v, want 'link'", sd[SDIDAction]["operation"])
	}
	if sd[SDIDAction]["result"] != "success" {
		t.Errorf("StructuredData action.result = %v, want 'success'", sd[SDIDAction]["result"])
	}
}

func TestCatalogEventOmitsAccountSD(t *testing.T) {
	event := ModuleEvent{
		ModuleName: "greeter",
		Operation:  "register",
		Success:    true,
	}

	sd := event.StructuredData()
	if _, ok := sd[SDIDAccount]; ok {
		t.Error("catalog-level event should not carry account structured data")
	}
}

func TestAuditToggle(t *testing.T) {
	originalEnabled := auditEnabled
	defer func() {
		auditEnabled = originalEnabled
	}()

	SetEnabled(false)
	if IsEnabled() {
		t.Error("Expected audit to be disabled")
	}

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit to be enabled")
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
