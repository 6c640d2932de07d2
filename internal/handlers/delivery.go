package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/config"
	"github.com/example/samsa/internal/services"
	"github.com/example/samsa/internal/zone"
)

// DeliveryHandler answers delivery-zone checks for both input paths:
// device coordinates and free-text addresses.
type DeliveryHandler struct {
	geocoder *services.GeocodeService
	cfg      *config.Config
}

// NewDeliveryHandler constructs DeliveryHandler.
func NewDeliveryHandler(geocoder *services.GeocodeService, cfg *config.Config) *DeliveryHandler {
	return &DeliveryHandler{geocoder: geocoder, cfg: cfg}
}

type deliveryCheckRequest struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Check classifies the requester into a delivery zone. A resolved address
// outside every band reports zone null; an unresolvable address reports
// not_found — the two states must never be collapsed.
func (h *DeliveryHandler) Check(c *fiber.Ctx) error {
	var req deliveryCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Lat != nil && req.Lon != nil {
		distance := zone.Haversine(h.cfg.OriginLat, h.cfg.OriginLon, *req.Lat, *req.Lon)
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"status":     "ok",
				"distanceKm": distance,
				"zone":       zoneValue(zone.Classify(distance)),
			},
		})
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return fiber.NewError(fiber.StatusBadRequest, "address or coordinates required")
	}
	if !containsDigit(address) {
		return fiber.NewError(fiber.StatusBadRequest, "address must include a house number")
	}

	lookup, err := h.geocoder.Lookup(address)
	if err != nil {
		log.Printf("[Delivery] geocoder lookup failed: %v", err)
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"status":  "unavailable",
				"message": "delivery check is temporarily unavailable, please try again",
			},
		})
	}

	if !lookup.Found {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"status":  "not_found",
				"message": "address not found",
			},
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"status":     "ok",
			"address":    lookup.Address,
			"distanceKm": lookup.DistanceKm,
			"zone":       zoneValue(lookup.Zone),
		},
	})
}

// zoneValue renders the unserviceable zone as JSON null.
func zoneValue(z zone.Zone) any {
	if z == zone.None {
		return nil
	}
	return string(z)
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
