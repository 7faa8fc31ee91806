package logging

import "go.uber.org/zap"

// NewSugaredLogger builds the application logger. Production builds emit
// JSON; anything else uses the human-readable development encoder.
func NewSugaredLogger(env string) *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("cannot initialize zap: " + err.Error())
	}
	return logger.Sugar()
}
