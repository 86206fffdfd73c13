package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/catalog"
	"hotel-booking-backend/internal/mw"
)

// ListRooms handles GET /api/rooms.
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.Catalog.Rooms(c.Request.Context())
	if err != nil {
		fail(c, "list rooms", err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// SearchRooms handles GET /api/rooms/search?q=.
func (h *Handler) SearchRooms(c *gin.Context) {
	rooms, err := h.Catalog.SearchRooms(c.Request.Context(), c.Query("q"))
	if err != nil {
		fail(c, "search rooms", err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetRoom handles GET /api/rooms/:id.
func (h *Handler) GetRoom(c *gin.Context) {
	room, err := h.Catalog.Room(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, "get room", err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) ListAmenities(c *gin.Context) {
	amenities, err := h.Catalog.Amenities(c.Request.Context())
	if err != nil {
		fail(c, "list amenities", err)
		return
	}
	c.JSON(http.StatusOK, amenities)
}

func (h *Handler) ListAttractions(c *gin.Context) {
	attractions, err := h.Catalog.Attractions(c.Request.Context())
	if err != nil {
		fail(c, "list attractions", err)
		return
	}
	c.JSON(http.StatusOK, attractions)
}

// SaveRoom handles PUT /api/admin/rooms. A body without id creates a room.
func (h *Handler) SaveRoom(c *gin.Context) {
	var in catalog.RoomInput
	if !bind(c, &in) {
		return
	}
	room, err := h.Catalog.SaveRoom(c.Request.Context(), mw.CurrentSession(c), in)
	if err != nil {
		fail(c, "save room", err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.Catalog.DeleteRoom(c.Request.Context(), mw.CurrentSession(c), c.Param("id")); err != nil {
		fail(c, "delete room", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveAmenity handles PUT /api/admin/amenities.
func (h *Handler) SaveAmenity(c *gin.Context) {
	var in catalog.AmenityInput
	if !bind(c, &in) {
		return
	}
	amenity, err := h.Catalog.SaveAmenity(c.Request.Context(), mw.CurrentSession(c), in)
	if err != nil {
		fail(c, "save amenity", err)
		return
	}
	c.JSON(http.StatusOK, amenity)
}

func (h *Handler) DeleteAmenity(c *gin.Context) {
	if err := h.Catalog.DeleteAmenity(c.Request.Context(), mw.CurrentSession(c), c.Param("id")); err != nil {
		fail(c, "delete amenity", err)
		return
	}
	c.Status(http.StatusNoContent)
}
