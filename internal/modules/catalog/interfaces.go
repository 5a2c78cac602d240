package catalog

import (
	"context"

	"venuebook/internal/domain"
)

type VenueRepository interface {
	Create(ctx context.Context, v *domain.Venue) error
	AddHall(ctx context.Context, h *domain.Hall) error
	AddFood(ctx context.Context, f *domain.Food) error
	GetByID(ctx context.Context, id int64) (*domain.Venue, error)
	List(ctx context.Context, limit, offset int) ([]domain.Venue, error)
	IsOwner(ctx context.Context, venueID, userID int64) (bool, error)
	GetHall(ctx context.Context, hallID int64) (*domain.Hall, error)
}
