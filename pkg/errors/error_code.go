package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidSignal        ErrorCode = 102
	ErrCodeInvalidTrade         ErrorCode = 103
	ErrCodeInvalidWeights       ErrorCode = 104

	// Strategy errors (400-499)
	ErrCodeEvaluationFailed          ErrorCode = 400
	ErrCodeStrategyNotFound          ErrorCode = 401
	ErrCodeStrategyAlreadyRegistered ErrorCode = 402

	// Trading errors (500-599)
	ErrCodeTradeRejected  ErrorCode = 500
	ErrCodeTradeNotFound  ErrorCode = 501
	ErrCodeTradeClosed    ErrorCode = 502
	ErrCodeEngineNotReady ErrorCode = 503

	// Store errors (600-699)
	ErrCodeStoreInitFailed  ErrorCode = 600
	ErrCodeStoreQueryFailed ErrorCode = 601

	// Market data errors (700-799)
	ErrCodeFetchFailed       ErrorCode = 700
	ErrCodeSymbolUnavailable ErrorCode = 701
)
