package configs

import (
	"go.uber.org/zap"
)

func NewLogger(env ENV) (*zap.Logger, error) {
	if env.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
