package ports

import (
	"context"

	"go.trai.ch/recipe/internal/core/domain"
)

// SettingsDetector inspects the host to find default settings.
//
//go:generate mockgen -source=detector.go -destination=mocks/mock_detector.go -package=mocks
type SettingsDetector interface {
	// Detect returns the settings of the machine the driver runs on.
	// Fields that cannot be detected are left empty.
	Detect(ctx context.Context) (domain.Settings, error)
}
