package service

import (
	"time"

	"github.com/agencyworks/project-system/internal/core/ports"
)

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock used outside of tests.
func SystemClock() ports.Clock { return systemClock{} }
