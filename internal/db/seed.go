package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotel-booking-backend/internal/model"
)

const placeholderImage = "https://placehold.co/600x400.png"

var seedRooms = []model.Room{
	{Name: "Deluxe Queen Room", Price: 150, Description: "A beautifully appointed room with a queen-sized bed, perfect for solo travelers or couples.", Images: []model.RoomImage{{URL: placeholderImage, Hint: "deluxe room"}}},
	{Name: "Executive King Suite", Price: 250, Description: "Spacious and luxurious, this suite features a king-sized bed and a separate living area.", Images: []model.RoomImage{{URL: placeholderImage, Hint: "king suite"}}},
	{Name: "Family Garden View Room", Price: 220, Description: "Ideal for families, with two double beds and a stunning view of our private gardens.", Images: []model.RoomImage{{URL: placeholderImage, Hint: "family room"}}},
	{Name: "Presidential Suite", Price: 800, Description: "The pinnacle of luxury, offering panoramic city views, a private jacuzzi, and butler service.", Images: []model.RoomImage{{URL: placeholderImage, Hint: "presidential suite"}}},
	{Name: "Standard Double Room", Price: 180, Description: "A comfortable and stylish room with two single beds, equipped with all modern amenities.", Images: []model.RoomImage{{URL: placeholderImage, Hint: "double room"}}},
	{Name: "Honeymoon Suite", Price: 350, Description: "A romantic escape with a four-poster bed, private balcony, and complimentary champagne.", Images: []model.RoomImage{{URL: placeholderImage, Hint: "honeymoon suite"}}},
}

var seedAmenities = []model.Amenity{
	{Icon: "Waves", Title: "Swimming Pool", Description: "Relax and rejuvenate in our temperature-controlled indoor and outdoor pools.", Details: "Open 7 AM - 10 PM"},
	{Icon: "Dumbbell", Title: "Fitness Center", Description: "Stay active with our state-of-the-art gym equipment and yoga studio.", Details: "Open 24/7"},
	{Icon: "Sparkles", Title: "Serenity Spa", Description: "Indulge in a range of treatments designed to soothe your body and mind.", Details: "Open 9 AM - 8 PM"},
	{Icon: "Utensils", Title: "Gourmet Dining", Description: "Savor exquisite dishes at our fine dining restaurant, The Gilded Spoon.", Details: "Breakfast, Lunch, Dinner"},
}

var seedAttractions = []model.Attraction{
	{Icon: "Building", Name: "Metropolitan Museum of Art", Distance: "2.5 miles", Description: "One of the world's largest and finest art museums."},
	{Icon: "Trees", Name: "Central Park", Distance: "1.8 miles", Description: "An urban oasis with vast green spaces, lakes, and walking trails."},
	{Icon: "ShoppingBag", Name: "Fifth Avenue Shopping", Distance: "3.0 miles", Description: "Iconic luxury boutiques and flagship stores."},
	{Icon: "MapPin", Name: "Times Square", Distance: "4.0 miles", Description: "The vibrant, neon-lit heart of the city."},
}

// Seed fills empty catalog tables with the default rooms, amenities and
// attractions. Tables that already hold rows are left alone, so Seed can run
// on every start.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := seedTable(tx, &model.Room{}, "rooms", func() any {
			rooms := append([]model.Room(nil), seedRooms...)
			for i := range rooms {
				rooms[i].ID = uuid.NewString()
			}
			return &rooms
		}); err != nil {
			return err
		}
		if err := seedTable(tx, &model.Amenity{}, "amenities", func() any {
			amenities := append([]model.Amenity(nil), seedAmenities...)
			for i := range amenities {
				amenities[i].ID = uuid.NewString()
			}
			return &amenities
		}); err != nil {
			return err
		}
		return seedTable(tx, &model.Attraction{}, "attractions", func() any {
			attractions := append([]model.Attraction(nil), seedAttractions...)
			for i := range attractions {
				attractions[i].ID = uuid.NewString()
			}
			return &attractions
		})
	})
}

func seedTable(tx *gorm.DB, m any, name string, rows func() any) error {
	var count int64
	if err := tx.Model(m).Count(&count).Error; err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	if count > 0 {
		return nil
	}
	if err := tx.Create(rows()).Error; err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}
	log.Printf("Seeded %s.", name)
	return nil
}
