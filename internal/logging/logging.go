package logging

import (
	"go.uber.org/zap"

	"github.com/EduardoAssisAc/Projeto-de-TDD-ECommerce/internal/config"
)

// New cria o logger do serviço. LOG_FORMAT=console usa a saída de desenvolvimento;
// qualquer outro valor usa JSON de produção.
func New(service string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	if config.GetEnv("LOG_FORMAT", "json") == "console" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("service", service)), nil
}
