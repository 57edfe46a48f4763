package usecase

import (
	"context"
	"time"
)

func SetClock(u *AnalysisUsecase, now func() time.Time) { u.now = now }

func SetIDGenerator(u *AnalysisUsecase, newID func() string) { u.newID = newID }

func SetSleep(s *Scheduler, sleep func(ctx context.Context, d time.Duration) error) { s.sleep = sleep }
