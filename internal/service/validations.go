package service

import (
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("clock_hhmm", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			parts := strings.Split(value, ":")
			if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
				return false
			}
			hours, err := strconv.Atoi(parts[0])
			if err != nil || hours < 0 || hours > 23 {
				return false
			}
			minutes, err := strconv.Atoi(parts[1])
			if err != nil || minutes < 0 || minutes > 59 {
				return false
			}
			return true
		})
	})
}
