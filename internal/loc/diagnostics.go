package loc

// DiagnosticCode groups diagnostics by the pipeline stage that produced
// them, mirroring the five-kind disposition table in spec §7.
type DiagnosticCode int

const (
	ErrLexUnterminatedString DiagnosticCode = 1000 + iota
	ErrLexInvalidHexColor
	ErrLexInvalidNumber

	ErrSyntaxUnexpectedToken DiagnosticCode = 1100 + iota
	ErrSyntaxUnexpectedEOF
	ErrSyntaxInvalid

	ErrEvalUnknownToken DiagnosticCode = 1200 + iota
	ErrEvalUnknownComponent
	ErrEvalUnknownSlot
	ErrEvalUnknownVariant
	ErrEvalUnknownTrigger
	ErrEvalCycleImport
	ErrEvalDuplicateAlias

	ErrMutationStaleNode DiagnosticCode = 1300 + iota
	ErrMutationTypeViolation
	ErrMutationIndexOutOfBounds

	ErrTransportTimeout DiagnosticCode = 1400 + iota
	ErrTransportIO
)
