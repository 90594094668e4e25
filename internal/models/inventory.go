package models

import "time"

// InventoryItem represents a product in the shop's canonical catalog.
// ID is assigned at creation and never reused or mutated; Quantity is
// never allowed to go negative.
type InventoryItem struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Quantity   int        `json:"quantity"`
	Unit       string     `json:"unit"`
	Price      float64    `json:"price"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	Image      string     `json:"image,omitempty"`
}

// InventoryUnit represents the unit of measurement for an inventory item
type InventoryUnit string

const (
	// Count units
	UnitPiece  InventoryUnit = "pc"
	UnitPacket InventoryUnit = "packet"
	UnitBox    InventoryUnit = "box"
	UnitDozen  InventoryUnit = "dozen"

	// Weight units
	UnitGram     InventoryUnit = "g"
	UnitKilogram InventoryUnit = "kg"

	// Volume units
	UnitMilliliter InventoryUnit = "ml"
	UnitLiter      InventoryUnit = "l"
)
