package catalog

import (
	"context"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/validator"
	"venuebook/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	venues VenueRepository
}

func NewService(venues VenueRepository) *Service {
	return &Service{venues: venues}
}

func (s *Service) CreateVenue(ctx context.Context, actor domain.Actor, req CreateVenueRequest) (*domain.Venue, error) {
	if !actor.IsOwner() && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	v := &domain.Venue{
		OwnerID:     actor.ID,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Status:      domain.VenueActive,
	}
	if errs := validator.Validate(v); errs != nil {
		return nil, ErrValidation
	}
	if err := s.venues.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) AddHall(ctx context.Context, actor domain.Actor, venueID int64, req AddHallRequest) (*domain.Hall, error) {
	if req.Capacity <= 0 || req.BasePrice <= 0 {
		return nil, ErrValidation
	}
	if err := s.requireOwner(ctx, actor, venueID); err != nil {
		return nil, err
	}

	h := &domain.Hall{
		VenueID:   venueID,
		Name:      req.Name,
		Capacity:  req.Capacity,
		BasePrice: req.BasePrice,
	}
	if errs := validator.Validate(h); errs != nil {
		return nil, ErrValidation
	}
	if err := s.venues.AddHall(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Service) AddFood(ctx context.Context, actor domain.Actor, venueID int64, req AddFoodRequest) (*domain.Food, error) {
	if req.Price < 0 {
		return nil, ErrValidation
	}
	if err := s.requireOwner(ctx, actor, venueID); err != nil {
		return nil, err
	}

	f := &domain.Food{
		VenueID:  venueID,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	}
	if errs := validator.Validate(f); errs != nil {
		return nil, ErrValidation
	}
	if err := s.venues.AddFood(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Venue, error) {
	v, err := s.venues.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.Venue, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	return s.venues.List(ctx, limit, offset)
}

func (s *Service) requireOwner(ctx context.Context, actor domain.Actor, venueID int64) error {
	if actor.IsAdmin() {
		return nil
	}
	ok, err := s.venues.IsOwner(ctx, venueID, actor.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
