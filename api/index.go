package handler

import (
	"net/http"

	"rihla/config"
	"rihla/di"
	"rihla/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	service := di.InitializeService()
	service.Handler()(w, r)
}
