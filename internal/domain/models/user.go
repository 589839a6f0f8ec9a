// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllowedBranches lists the academic branches a user may register
// under. Each branch also names the chat room its members join.
var AllowedBranches = []string{
	"computer science",
	"electronic",
	"mechanical",
	"civil",
	"electrical",
}

// IsValidBranch reports whether branch is one of AllowedBranches.
// Branch values are stored lowercase.
func IsValidBranch(branch string) bool {
	for _, b := range AllowedBranches {
		if b == branch {
			return true
		}
	}
	return false
}

// User is a registered student account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"` // lowercase, unique
	PasswordHash string             `bson:"password_hash" json:"-"`
	Branch       string             `bson:"branch" json:"branch"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
