package audit

import "fmt"

// AccountEvent records an account lifecycle operation performed through
// the CLI: create, delete, enable, disable.
type AccountEvent struct {
	AccountName  string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e AccountEvent) MessageID() string {
	return "account"
}

func (e AccountEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("account %s: %s succeeded", e.AccountName, e.Operation)
	}
	msg := fmt.Sprintf("account %s: %s failed", e.AccountName, e.Operation)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AccountEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AccountEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AccountEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAccount: {
			"name": e.AccountName,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}

// ModuleEvent records a module catalog or link operation: register,
// link, unlink, trust, revoke-trust, configure, activate, deactivate.
// AccountName is empty for catalog-level operations.
type ModuleEvent struct {
	AccountName  string
	ModuleName   string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e ModuleEvent) MessageID() string {
	return "module"
}

func (e ModuleEvent) Message() string {
	subject := "module " + e.ModuleName
	if e.AccountName != "" {
		subject += " on account " + e.AccountName
	}
	if e.Success {
		return fmt.Sprintf("%s: %s succeeded", subject, e.Operation)
	}
	msg := fmt.Sprintf("%s: %s failed", subject, e.Operation)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ModuleEvent) Severity() Severity {
	if !e.Success {
		return SeverityWarning
	}
	// Trust changes widen what a module may do; keep them visible.
	if e.Operation == "trust" {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e ModuleEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ModuleEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDSubject: {
			"module": e.ModuleName,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if e.AccountName != "" {
		sd[SDIDAccount] = map[string]string{"name": e.AccountName}
	}
	return sd
}

// RunEvent records the daemon starting or stopping an account's client.
type RunEvent struct {
	AccountName  string
	Operation    string // "start" or "stop"
	Success      bool
	ErrorMessage string
}

func (e RunEvent) MessageID() string {
	return "run"
}

func (e RunEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("account %s: client %s", e.AccountName, e.Operation+"ed")
	}
	msg := fmt.Sprintf("account %s: client %s failed", e.AccountName, e.Operation)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e RunEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e RunEvent) Facility() int {
	return FacilityDaemon
}

func (e RunEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAccount: {
			"name": e.AccountName,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}
