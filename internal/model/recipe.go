package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays stored as JSON
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONBStringArray", value)
	}

	if len(bytes) == 0 {
		*a = JSONBStringArray{}
		return nil
	}
	return json.Unmarshal(bytes, a)
}

// Recipe is a recipe saved by a user.
type Recipe struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time        `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"userId"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Favorite     bool             `gorm:"not null;default:false;index" json:"favorite"`
	Servings     *int             `json:"servings,omitempty"`
	PrepTime     *int             `json:"prepTime,omitempty"`
	CookTime     *int             `json:"cookTime,omitempty"`
	DateCreated  string           `gorm:"size:64" json:"dateCreated"`
	Tags         datatypes.JSON   `json:"tags,omitempty"`
	ImageKey     string           `gorm:"size:255" json:"-"`
}

// TableName returns the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

// BeforeCreate assigns an ID when the caller did not supply one.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
