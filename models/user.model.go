package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProfilePic is stored when a user signs up without uploading an image.
const DefaultProfilePic = "https://via.placeholder.com/150"

// User represents a customer account
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	FirstName         string             `bson:"firstName" json:"firstName"`
	LastName          string             `bson:"lastName" json:"lastName"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	ProfilePic        string             `bson:"profilePic" json:"profilePic"`
	IsVerified        bool               `bson:"isVerified" json:"isVerified"`
	VerificationToken string             `bson:"verificationToken,omitempty" json:"-"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Profile is the view of a User that is safe to return to clients.
type Profile struct {
	ID         primitive.ObjectID `json:"id"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Email      string             `json:"email"`
	ProfilePic string             `json:"profilePic"`
	IsVerified bool               `json:"isVerified"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

// Admin is a back-office account, kept in its own collection.
type Admin struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
