package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hotel-booking-backend/internal/model"
)

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("price ASC, name ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &room, nil
}

func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// UpdateRoom overwrites the editable fields of an existing room. Concurrent
// edits are last-write-wins.
func (s *gormStore) UpdateRoom(ctx context.Context, room *model.Room) error {
	res := s.db.WithContext(ctx).Model(&model.Room{ID: room.ID}).
		Select("name", "description", "price", "images").
		Updates(room)
	if res.Error != nil {
		return fmt.Errorf("update room %s: %w", room.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteRoom(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Room{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete room %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListAmenities(ctx context.Context) ([]model.Amenity, error) {
	var amenities []model.Amenity
	if err := s.db.WithContext(ctx).Order("title ASC").Find(&amenities).Error; err != nil {
		return nil, fmt.Errorf("list amenities: %w", err)
	}
	return amenities, nil
}

func (s *gormStore) CreateAmenity(ctx context.Context, amenity *model.Amenity) error {
	if amenity.ID == "" {
		amenity.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(amenity).Error; err != nil {
		return fmt.Errorf("create amenity: %w", err)
	}
	return nil
}

func (s *gormStore) UpdateAmenity(ctx context.Context, amenity *model.Amenity) error {
	res := s.db.WithContext(ctx).Model(&model.Amenity{ID: amenity.ID}).
		Select("icon", "title", "description", "details").
		Updates(amenity)
	if res.Error != nil {
		return fmt.Errorf("update amenity %s: %w", amenity.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteAmenity(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&model.Amenity{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete amenity %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) ListAttractions(ctx context.Context) ([]model.Attraction, error) {
	var attractions []model.Attraction
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&attractions).Error; err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	return attractions, nil
}
