package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Enumerations used by the backend. Values are stored exactly as the API
// returns them.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

var PropertyTypes = []string{"apartment", "house", "villa", "plot", "commercial", "other"}

var ItemCategories = []string{
	"electronics", "furniture", "clothing", "books", "vehicles",
	"appliances", "sports", "toys", "other",
}

var ItemConditions = []string{"new", "like-new", "good", "fair", "poor"}

var UserStatuses = []string{StatusActive, StatusInactive}

// OwnerRef points at the user that owns a listing. The backend returns it
// either as a bare id or as a populated user document.
type OwnerRef struct {
	ID          string `json:"_id,omitempty" yaml:"id,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty" yaml:"phone_number,omitempty"`
}

func (o *OwnerRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &o.ID)
	}
	type plain OwnerRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*o = OwnerRef(p)
	return nil
}

type User struct {
	ID          string    `json:"_id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	PhoneNumber string    `json:"phoneNumber" yaml:"phone_number"`
	Address     string    `json:"address" yaml:"address"`
	Status      string    `json:"status" yaml:"status"`
	ProfilePic  string    `json:"profilePic,omitempty" yaml:"profile_pic,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

type Property struct {
	ID           string    `json:"_id" yaml:"id"`
	Title        string    `json:"title" yaml:"title"`
	Description  string    `json:"description" yaml:"description"`
	Price        float64   `json:"price" yaml:"price"`
	Address      string    `json:"address,omitempty" yaml:"address,omitempty"`
	City         string    `json:"city" yaml:"city"`
	State        string    `json:"state" yaml:"state"`
	Country      string    `json:"country" yaml:"country"`
	PropertyType string    `json:"propertyType" yaml:"property_type"`
	Bedrooms     int       `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    int       `json:"bathrooms" yaml:"bathrooms"`
	Area         float64   `json:"area" yaml:"area"`
	Images       []string  `json:"images" yaml:"images"`
	Owner        OwnerRef  `json:"user" yaml:"owner"`
	CreatedAt    time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" yaml:"updated_at"`
}

type Item struct {
	ID          string    `json:"_id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
	Category    string    `json:"category" yaml:"category"`
	Condition   string    `json:"condition" yaml:"condition"`
	Brand       string    `json:"brand" yaml:"brand"`
	Location    string    `json:"location" yaml:"location"`
	City        string    `json:"city" yaml:"city"`
	State       string    `json:"state" yaml:"state"`
	Country     string    `json:"country" yaml:"country"`
	IsAvailable bool      `json:"isAvailable" yaml:"is_available"`
	Images      []string  `json:"images" yaml:"images"`
	Owner       OwnerRef  `json:"user" yaml:"owner"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

type Admin struct {
	ID          string    `json:"_id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Email       string    `json:"email" yaml:"email"`
	PhoneNumber string    `json:"phoneNumber" yaml:"phone_number"`
	Role        string    `json:"role" yaml:"role"`
	Status      string    `json:"status" yaml:"status"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

type BlogPost struct {
	ID          string    `json:"_id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Author      string    `json:"author" yaml:"author"`
	Description string    `json:"description" yaml:"description"`
	Content     string    `json:"content" yaml:"content"`
	ExampleCode string    `json:"exampleCode,omitempty" yaml:"example_code,omitempty"`
	Code        string    `json:"code,omitempty" yaml:"code,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty" yaml:"image_url,omitempty"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

// HasCode reports whether the post carries an example code block.
func (b BlogPost) HasCode() bool {
	return b.ExampleCode != "" || b.Code != ""
}
