package selection

import (
	"context"

	"go.uber.org/zap"
)

// Store keys and limits of the two shortlists
const (
	FavoritesKey    = "favorites"
	CompareKey      = "compareItems"
	CompareCapacity = 4
)

// Manager holds the two independent selection sets
type Manager struct {
	Favorites *Set
	Compare   *Set
}

// NewManager loads both sets from store
func NewManager(ctx context.Context, store Store, logger *zap.Logger) (*Manager, error) {
	favorites, err := Load(ctx, store, Options{
		Name:         "favorites",
		Key:          FavoritesKey,
		StampAddedAt: true,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	compare, err := Load(ctx, store, Options{
		Name:     "compare",
		Key:      CompareKey,
		Capacity: CompareCapacity,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	return &Manager{Favorites: favorites, Compare: compare}, nil
}
