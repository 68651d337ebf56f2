// Package ports declares the interfaces the pipeline and the app depend on.
package ports

// Logger reports driver messages. Native tool output does not go through it.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}
