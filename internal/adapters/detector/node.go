package detector

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/recipe/internal/adapters/shell" //nolint:depguard // probes the compiler through the executor
	"go.trai.ch/recipe/internal/core/ports"
)

// NodeID is the unique identifier for the settings detector Graft node.
const NodeID graft.ID = "adapter.settings_detector"

func init() {
	graft.Register(graft.Node[ports.SettingsDetector]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.SettingsDetector, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewHostDetector(executor), nil
		},
	})
}
