// Package reminder runs the periodic sweep that recomputes watering schedules
// for every tracked plant and dispatches reminders for the ones coming due.
package reminder

import (
	"context"
	"log"
	"time"

	"plantcare-backend/config"
	"plantcare-backend/internal/notification"
	"plantcare-backend/internal/store"
	"plantcare-backend/internal/watering"
	"plantcare-backend/internal/weather"
)

// WeatherAPI is the slice of the weather client the sweep needs.
type WeatherAPI interface {
	Current(ctx context.Context, location string) (*weather.Snapshot, error)
}

// Dispatcher accepts reminder jobs for delivery.
type Dispatcher interface {
	Dispatch(notification.Reminder)
}

// Sweeper walks all user plant assignments, refreshes their cached next
// watering time and hands due reminders to the worker pool.
type Sweeper struct {
	cfg        *config.ReminderConfig
	store      store.Store
	weather    WeatherAPI
	calculator *watering.Calculator
	dispatcher Dispatcher
}

// NewSweeper creates and initializes a reminder sweeper.
func NewSweeper(cfg *config.ReminderConfig, st store.Store, w WeatherAPI, calc *watering.Calculator, d Dispatcher) *Sweeper {
	return &Sweeper{
		cfg:        cfg,
		store:      st,
		weather:    w,
		calculator: calc,
		dispatcher: d,
	}
}

// Run starts the sweep loop.
func (s *Sweeper) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Reminder sweep is disabled. Not starting.")
		return
	}
	log.Println("Starting reminder sweep service...")

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder sweep service shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// SweepOnce performs a single sweep over all user plants.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	log.Println("Executing reminder sweep...")

	userPlants, err := s.store.ListAllUserPlants(ctx)
	if err != nil {
		log.Printf("Error listing user plants: %v", err)
		return
	}

	horizon := float64(s.cfg.DaysAhead) * 24
	dispatched := 0
	for i := range userPlants {
		if ctx.Err() != nil {
			return
		}
		up := &userPlants[i]

		snap, err := s.weather.Current(ctx, up.City)
		if err != nil {
			// Strategies substitute neutral defaults for missing weather.
			log.Printf("Warning: no weather for %q: %v", up.City, err)
			snap = nil
		}

		schedule := s.calculator.NextWatering(watering.PlantData{
			CommonName:     up.Plant.CommonName,
			Family:         up.Plant.Family,
			FamilyFrench:   up.Plant.FamilyFrench,
			WateringLabel:  up.Plant.Watering,
			BenchmarkValue: up.Plant.BenchmarkValue,
			BenchmarkUnit:  up.Plant.BenchmarkUnit,
		}, snap, up.LastWateredAt)

		up.NextWateringAt = &schedule.NextWateringAt
		if err := s.store.UpsertUserPlant(ctx, up); err != nil {
			log.Printf("Warning: failed to cache next watering for user plant %d: %v", up.ID, err)
		}

		if schedule.HoursUntil <= horizon {
			s.dispatcher.Dispatch(notification.Reminder{
				UserID:    up.UserID,
				PlantName: up.Plant.CommonName,
				City:      up.City,
				Schedule:  schedule,
			})
			dispatched++
		}
	}

	log.Printf("Reminder sweep finished: %d plant(s) checked, %d reminder(s) dispatched", len(userPlants), dispatched)
}
