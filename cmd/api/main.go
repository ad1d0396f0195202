package main

import (
	"log"

	"github.com/meditrack/server/internal/api"
	"github.com/meditrack/server/internal/repository"
	"github.com/meditrack/server/internal/service"
	"github.com/meditrack/server/pkg/cleanup"
	"github.com/meditrack/server/pkg/clock"
	"github.com/meditrack/server/pkg/config"
)

func init() {
	service.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	clk := clock.System{}
	medicinesRepo := repository.NewMedicinesRepo(&dbCfg)
	historyRepo := repository.NewHistoryRepo(&dbCfg)
	serv := api.New(&api.ServicesList{
		UserService:     service.NewUserService(repository.NewUsersRepo(&dbCfg)),
		MedicineService: service.NewMedicinesService(medicinesRepo, clk),
		HistoryService:  service.NewHistoryService(historyRepo, clk),
		VoiceService:    service.NewVoiceAlertsService(repository.NewVoiceAlertsRepo(&dbCfg)),
	})
	err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":5001"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
