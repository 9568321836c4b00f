package cellvalue

// ErrorCode represents standard spreadsheet error codes following
// Excel conventions. Only the codes this package can itself produce
// are defined here; evaluators layer their wider sets on top using
// the same numbering.
type ErrorCode uint8

const (
	ErrorCodeDiv0  ErrorCode = 2 // #DIV/0! - division by zero
	ErrorCodeValue ErrorCode = 3 // #VALUE! - wrong type of argument or operand
	ErrorCodeNum   ErrorCode = 6 // #NUM! - number too large or small to be represented
	ErrorCodeSpill ErrorCode = 9 // #SPILL! - a sequence not yet expanded into cells
)

// ErrorMapper maps error code numbers to their string representations
var ErrorMapper = map[ErrorCode]string{
	ErrorCodeDiv0:  "#DIV/0!",
	ErrorCodeValue: "#VALUE!",
	ErrorCodeNum:   "#NUM!",
	ErrorCodeSpill: "#SPILL!",
}

// SpreadsheetError preserves error code for display in cells
type SpreadsheetError struct {
	ErrorCode ErrorCode
	Message   string
}

func (e *SpreadsheetError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrorMapper[e.ErrorCode]
}

func NewSpreadsheetError(code ErrorCode, message string) *SpreadsheetError {
	if message == "" {
		message = ErrorMapper[code]
	}
	return &SpreadsheetError{
		ErrorCode: code,
		Message:   message,
	}
}
