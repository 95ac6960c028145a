// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group identifies which workout split an exercise belongs to.
type Group string

const (
	GroupA Group = "A"
	GroupB Group = "B"
	GroupC Group = "C"
)

// Valid reports whether g is one of the known workout groups.
func (g Group) Valid() bool {
	return g == GroupA || g == GroupB || g == GroupC
}

// Exercise represents a single workout entry owned by one user.
// UserID is the identity provider's subject id; every query against the
// exercises collection filters on it, so records never cross users.
type Exercise struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID string             `bson:"userId" json:"-"`
	Group  Group              `bson:"group" json:"group"`
	Name   string             `bson:"name" json:"name"`
	Load   float64            `bson:"load" json:"load"` // kg

	// VideoURL is an external link pasted by the user (e.g. YouTube).
	// VideoObjectKey is set instead when a demo video was uploaded to
	// object storage; the view resolves it to a presigned URL on render.
	VideoURL       string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	VideoObjectKey string `bson:"videoObjectKey,omitempty" json:"-"`

	Done bool `bson:"done" json:"done"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
