package ports

// Logger defines the interface for logging. Pipeline and predicate
// decisions are reported through it; for rebuild predicates the log line
// naming the offending value is part of the contract, not decoration.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
