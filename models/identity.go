package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is what the auth gateway hands to a protected handler once a
// bearer token has been verified and resolved against a store.
type Identity struct {
	ID    primitive.ObjectID
	Email string
	Role  Role
}
