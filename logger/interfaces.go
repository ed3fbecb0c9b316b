package logger

// LoggerInterface is what the other packages log through; tests swap
// in quiet implementations.
type LoggerInterface interface {
	Print(s string)
	Printf(s string, as ...interface{})
	PrintError(source string, err error)
}
