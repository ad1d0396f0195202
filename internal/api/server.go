package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meditrack/server/internal/service"
)

type Server struct {
	mx              *chi.Mux
	userService     service.UserServiceI
	medicineService service.MedicinesServiceI
	historyService  service.HistoryServiceI
	voiceService    service.VoiceAlertsServiceI
}

type ServicesList struct {
	UserService     service.UserServiceI
	MedicineService service.MedicinesServiceI
	HistoryService  service.HistoryServiceI
	VoiceService    service.VoiceAlertsServiceI
}

func New(servicesOptions *ServicesList) *Server {
	s := &Server{
		mx:              chi.NewMux(),
		userService:     servicesOptions.UserService,
		medicineService: servicesOptions.MedicineService,
		historyService:  servicesOptions.HistoryService,
		voiceService:    servicesOptions.VoiceService,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware)
	s.mx.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Group(func(r chi.Router) {
			r.Use(s.IdentityMiddleware, s.LoggerExtensionMiddleware)
			r.Get("/users/profile", s.GetProfile)
			r.Put("/users/profile", s.UpdateProfile)

			r.Get("/medicines", s.GetMedicines)
			r.Post("/medicines", s.AddMedicine)
			r.Get("/medicines/{id}", s.GetMedicine)
			r.Put("/medicines/{id}", s.UpdateMedicine)
			r.Delete("/medicines/{id}", s.DeleteMedicine)
			r.Post("/medicines/{id}/taken", s.MarkAsTaken)
			r.Post("/medicines/{id}/reschedule", s.RescheduleMedicine)

			r.Get("/history", s.GetHistory)
			r.Get("/history/export", s.ExportHistory)

			r.Get("/reminders", s.GetReminders)
			r.Delete("/reminders/{id}", s.ClearReminder)

			r.Get("/voice", s.GetVoiceAlerts)
			r.Post("/voice", s.AddVoiceAlert)
		})
	})
}

// Handler exposes the mux for httptest-driven tests.
func (s *Server) Handler() http.Handler {
	return s.mx
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s.mx)
}
