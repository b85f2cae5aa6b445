package mongo

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// objectID parses a hex id. Callers treat a malformed id as "no such record".
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// duplicateIndex returns the name of the unique index a write collided with,
// or "" when err is not a duplicate key error.
func duplicateIndex(err error, indexes ...string) string {
	if !mongo.IsDuplicateKeyError(err) {
		return ""
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			for _, name := range indexes {
				if strings.Contains(e.Message, name) {
					return name
				}
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, name := range indexes {
			if strings.Contains(ce.Message, name) {
				return name
			}
		}
	}
	return "unknown"
}
