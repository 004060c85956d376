package logger

import "go.uber.org/zap"

// New builds the application logger. Development mode uses the human-readable
// console encoder, everything else the production JSON encoder.
func New(environment string) *zap.SugaredLogger {
	if environment == "dev" {
		return zap.Must(zap.NewDevelopment()).Sugar()
	}
	return zap.Must(zap.NewProduction()).Sugar()
}
