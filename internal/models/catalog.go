package models

import "github.com/google/uuid"

// Location is a place boxes live in (shelf, attic, garage).
type Location struct {
	BaseModel
	OwnerID uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Name    string    `json:"name" gorm:"size:255;not null"`
}

type Box struct {
	BaseModel
	OwnerID    uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;uniqueIndex:idx_boxes_owner_code"`
	Code       string     `json:"code" gorm:"size:100;not null;uniqueIndex:idx_boxes_owner_code"`
	Name       string     `json:"name" gorm:"size:255"`
	LocationID *uuid.UUID `json:"location_id" gorm:"type:uuid;index"`

	Location *Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
}

type Item struct {
	BaseModel
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	BoxID       uuid.UUID `json:"box_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Quantity    int       `json:"quantity" gorm:"not null;default:1"`
	PhotoURL    string    `json:"photo_url" gorm:"size:1024"`

	Box *Box `json:"box,omitempty" gorm:"foreignKey:BoxID"`
}
