// Package catalog serves rooms, amenities and attractions, and lets admins
// edit rooms and amenities.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"hotel-booking-backend/internal/apperr"
	"hotel-booking-backend/internal/availability"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/session"
	"hotel-booking-backend/internal/store"
)

// Store is the part of store.Store the catalog reads and writes.
type Store interface {
	ListRooms(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, id string) (*model.Room, error)
	CreateRoom(ctx context.Context, room *model.Room) error
	UpdateRoom(ctx context.Context, room *model.Room) error
	DeleteRoom(ctx context.Context, id string) error
	ListAmenities(ctx context.Context) ([]model.Amenity, error)
	CreateAmenity(ctx context.Context, amenity *model.Amenity) error
	UpdateAmenity(ctx context.Context, amenity *model.Amenity) error
	DeleteAmenity(ctx context.Context, id string) error
	ListAttractions(ctx context.Context) ([]model.Attraction, error)
	ListBookings(ctx context.Context, filter store.BookingFilter) ([]model.Booking, error)
}

type Service struct {
	store Store
	loc   *time.Location
	now   func() time.Time
}

func NewService(st Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: st, loc: loc, now: time.Now}
}

// RoomView is a room as listed to visitors.
type RoomView struct {
	model.Room
	OccupiedToday bool `json:"occupiedToday"`
}

// Rooms lists every room with today's occupancy.
func (s *Service) Rooms(ctx context.Context) ([]RoomView, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	return s.withOccupancy(ctx, rooms)
}

// SearchRooms returns the rooms whose name or description contains q,
// ignoring case. An empty query matches every room.
func (s *Service) SearchRooms(ctx context.Context, q string) ([]RoomView, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q != "" {
		matched := rooms[:0]
		for _, r := range rooms {
			if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Description), q) {
				matched = append(matched, r)
			}
		}
		rooms = matched
	}
	return s.withOccupancy(ctx, rooms)
}

// Room returns one room with today's occupancy.
func (s *Service) Room(ctx context.Context, id string) (*RoomView, error) {
	room, err := s.store.GetRoom(ctx, id)
	if err != nil {
		return nil, lookupErr("Room", err)
	}
	views, err := s.withOccupancy(ctx, []model.Room{*room})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// withOccupancy marks the rooms that have a Confirmed stay covering today.
func (s *Service) withOccupancy(ctx context.Context, rooms []model.Room) ([]RoomView, error) {
	confirmed, err := s.store.ListBookings(ctx, store.BookingFilter{Statuses: []model.BookingStatus{model.StatusConfirmed}})
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	occupied := availability.OccupiedRoomIDs(confirmed, s.now().In(s.loc))

	views := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		views = append(views, RoomView{Room: r, OccupiedToday: occupied[r.ID]})
	}
	return views, nil
}

type ImageInput struct {
	URL  string `json:"url" validate:"url"`
	Hint string `json:"hint" validate:"min=2"`
}

// RoomInput creates a room when ID is empty and updates it otherwise.
type RoomInput struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name" validate:"min=2"`
	Description string       `json:"description" validate:"min=10"`
	Price       float64      `json:"price" validate:"gt=0"`
	Images      []ImageInput `json:"images" validate:"min=1,dive"`
}

var roomMessages = apperr.Messages{
	"name":        "Name must be at least 2 characters.",
	"description": "Description must be at least 10 characters.",
	"price":       "Price must be greater than 0.",
	"images":      "At least one image is required.",
	"url":         "Please enter a valid image URL.",
	"hint":        "Hint must be at least 2 characters.",
}

// SaveRoom validates and stores a room. Admins only.
func (s *Service) SaveRoom(ctx context.Context, sess *session.Session, in RoomInput) (*model.Room, error) {
	if !sess.IsAdmin() {
		return nil, apperr.Unauthorized("")
	}
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	for i := range in.Images {
		in.Images[i].URL = strings.TrimSpace(in.Images[i].URL)
		in.Images[i].Hint = strings.TrimSpace(in.Images[i].Hint)
	}
	if err := apperr.Check(in, roomMessages); err != nil {
		return nil, err
	}

	room := &model.Room{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
	}
	for _, img := range in.Images {
		room.Images = append(room.Images, model.RoomImage{URL: img.URL, Hint: img.Hint})
	}

	var err error
	if in.ID == "" {
		err = s.store.CreateRoom(ctx, room)
	} else {
		err = s.store.UpdateRoom(ctx, room)
	}
	if err != nil {
		return nil, lookupErr("Room", err)
	}
	return room, nil
}

// DeleteRoom removes a room. Admins only.
func (s *Service) DeleteRoom(ctx context.Context, sess *session.Session, id string) error {
	if !sess.IsAdmin() {
		return apperr.Unauthorized("")
	}
	if err := s.store.DeleteRoom(ctx, id); err != nil {
		return lookupErr("Room", err)
	}
	return nil
}

// Amenities lists amenities with their icons resolved.
func (s *Service) Amenities(ctx context.Context) ([]model.Amenity, error) {
	amenities, err := s.store.ListAmenities(ctx)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	for i := range amenities {
		amenities[i].Icon = Icon(amenities[i].Icon)
	}
	if amenities == nil {
		amenities = []model.Amenity{}
	}
	return amenities, nil
}

type AmenityInput struct {
	ID          string `json:"id,omitempty"`
	Icon        string `json:"icon" validate:"required"`
	Title       string `json:"title" validate:"min=2"`
	Description string `json:"description" validate:"min=10"`
	Details     string `json:"details" validate:"min=5"`
}

var amenityMessages = apperr.Messages{
	"icon":        "Invalid icon.",
	"title":       "Title must be at least 2 characters.",
	"description": "Description must be at least 10 characters.",
	"details":     "Details must be at least 5 characters.",
}

// SaveAmenity validates and stores an amenity. Admins only.
func (s *Service) SaveAmenity(ctx context.Context, sess *session.Session, in AmenityInput) (*model.Amenity, error) {
	if !sess.IsAdmin() {
		return nil, apperr.Unauthorized("")
	}
	in.ID = strings.TrimSpace(in.ID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Details = strings.TrimSpace(in.Details)
	if err := apperr.Check(in, amenityMessages); err != nil {
		return nil, err
	}
	if !icons[in.Icon] {
		return nil, apperr.Validation("icon", amenityMessages["icon"])
	}

	amenity := &model.Amenity{
		ID:          in.ID,
		Icon:        in.Icon,
		Title:       in.Title,
		Description: in.Description,
		Details:     in.Details,
	}
	var err error
	if in.ID == "" {
		err = s.store.CreateAmenity(ctx, amenity)
	} else {
		err = s.store.UpdateAmenity(ctx, amenity)
	}
	if err != nil {
		return nil, lookupErr("Amenity", err)
	}
	return amenity, nil
}

// DeleteAmenity removes an amenity. Admins only.
func (s *Service) DeleteAmenity(ctx context.Context, sess *session.Session, id string) error {
	if !sess.IsAdmin() {
		return apperr.Unauthorized("")
	}
	if err := s.store.DeleteAmenity(ctx, id); err != nil {
		return lookupErr("Amenity", err)
	}
	return nil
}

func (s *Service) Attractions(ctx context.Context) ([]model.Attraction, error) {
	attractions, err := s.store.ListAttractions(ctx)
	if err != nil {
		return nil, apperr.Upstream("", err)
	}
	for i := range attractions {
		attractions[i].Icon = Icon(attractions[i].Icon)
	}
	if attractions == nil {
		attractions = []model.Attraction{}
	}
	return attractions, nil
}

func lookupErr(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(what)
	}
	return apperr.Upstream("", err)
}
