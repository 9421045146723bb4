package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldSessionID   = "session_id"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldTransaction = "transaction_id"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldBalance     = "balance"
	FieldScenario    = "scenario"
	FieldDuration    = "duration"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentSession = "session"
	ComponentReaper  = "reaper"
)

// Operations defines standard operation names
const (
	OpAdd       = "add"
	OpUndo      = "undo"
	OpSetup     = "setup"
	OpFraudScan = "fraud_scan"
	OpScenario  = "scenario"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
