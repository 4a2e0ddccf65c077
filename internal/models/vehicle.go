package models

import "time"

// Vehicle represents a customer vehicle.
type Vehicle struct {
	ID                 int64     `bson:"_id" json:"vehicle_id"`
	RegistrationNumber string    `bson:"registration_number" json:"registration_number"`
	CustomerID         int64     `bson:"customer_id" json:"customer_id"`
	Make               string    `bson:"make,omitempty" json:"make,omitempty"`
	Model              string    `bson:"model,omitempty" json:"model,omitempty"`
	Year               int       `bson:"year,omitempty" json:"year,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// Customer represents the owner of a vehicle.
type Customer struct {
	ID        int64  `bson:"_id" json:"customer_id"`
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Email     string `bson:"email" json:"email"`
}

// FullName returns the customer's display name.
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}
