package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type VenueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

type venueModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	OwnerID     int64     `gorm:"column:owner_id;index"`
	Name        string    `gorm:"column:name"`
	Location    string    `gorm:"column:location"`
	Description *string   `gorm:"column:description"`
	Status      string    `gorm:"column:status"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (venueModel) TableName() string { return "venues" }

type hallModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	VenueID   int64     `gorm:"column:venue_id;index"`
	Name      string    `gorm:"column:name"`
	Capacity  int       `gorm:"column:capacity"`
	BasePrice float64   `gorm:"column:base_price"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (hallModel) TableName() string { return "halls" }

type foodModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	VenueID   int64     `gorm:"column:venue_id;index"`
	Name      string    `gorm:"column:name"`
	Category  string    `gorm:"column:category"`
	Price     float64   `gorm:"column:price"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (foodModel) TableName() string { return "foods" }

func toDomainVenue(m venueModel) *domain.Venue {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Venue{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Location:    m.Location,
		Description: desc,
		Status:      domain.VenueStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainHall(m hallModel) domain.Hall {
	return domain.Hall{
		ID:        m.ID,
		VenueID:   m.VenueID,
		Name:      m.Name,
		Capacity:  m.Capacity,
		BasePrice: m.BasePrice,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainFood(m foodModel) domain.Food {
	return domain.Food{
		ID:        m.ID,
		VenueID:   m.VenueID,
		Name:      m.Name,
		Category:  m.Category,
		Price:     m.Price,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *VenueRepository) Create(ctx context.Context, v *domain.Venue) error {
	var desc *string
	if v.Description != "" {
		d := v.Description
		desc = &d
	}
	m := venueModel{
		OwnerID:     v.OwnerID,
		Name:        v.Name,
		Location:    v.Location,
		Description: desc,
		Status:      string(v.Status),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*v = *toDomainVenue(m)
	return nil
}

func (r *VenueRepository) AddHall(ctx context.Context, h *domain.Hall) error {
	m := hallModel{VenueID: h.VenueID, Name: h.Name, Capacity: h.Capacity, BasePrice: h.BasePrice}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*h = toDomainHall(m)
	return nil
}

func (r *VenueRepository) AddFood(ctx context.Context, f *domain.Food) error {
	m := foodModel{VenueID: f.VenueID, Name: f.Name, Category: f.Category, Price: f.Price}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*f = toDomainFood(m)
	return nil
}

// GetByID loads the venue with its halls and foods in two extra queries;
// entities stay reference-only, no gorm association magic.
func (r *VenueRepository) GetByID(ctx context.Context, id int64) (*domain.Venue, error) {
	var m venueModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	v := toDomainVenue(m)

	var halls []hallModel
	if err := r.db.WithContext(ctx).Where("venue_id = ?", id).Find(&halls).Error; err != nil {
		return nil, err
	}
	for _, h := range halls {
		v.Halls = append(v.Halls, toDomainHall(h))
	}

	var foods []foodModel
	if err := r.db.WithContext(ctx).Where("venue_id = ?", id).Find(&foods).Error; err != nil {
		return nil, err
	}
	for _, f := range foods {
		v.Foods = append(v.Foods, toDomainFood(f))
	}
	return v, nil
}

func (r *VenueRepository) List(ctx context.Context, limit, offset int) ([]domain.Venue, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []venueModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.VenueActive)).
		Order("id").Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Venue, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainVenue(m))
	}
	return out, nil
}

func (r *VenueRepository) IsOwner(ctx context.Context, venueID, userID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&venueModel{}).
		Where("id = ? AND owner_id = ?", venueID, userID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *VenueRepository) GetHall(ctx context.Context, hallID int64) (*domain.Hall, error) {
	var m hallModel
	if err := r.db.WithContext(ctx).First(&m, hallID).Error; err != nil {
		return nil, err
	}
	h := toDomainHall(m)
	return &h, nil
}
