package mongo

import (
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lostfound/board-api/internal/core/ports"
)

// searchableFields are matched by the free-text search, OR-ed together.
var searchableFields = []string{"title", "description", "location.address"}

// BuildItemFilter translates list parameters into a Mongo filter. Equality
// filters and the search clause are combined with AND; the search clause is a
// case-insensitive literal substring match over searchableFields.
func BuildItemFilter(f ports.ItemFilter) (bson.M, error) {
	filter := bson.M{}

	if !f.IncludeResolved {
		filter["isResolved"] = false
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Category != "" {
		filter["category"] = string(f.Category)
	}
	if f.OwnerID != "" {
		oid, err := primitive.ObjectIDFromHex(f.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid owner id %q: %w", f.OwnerID, err)
		}
		filter["owner"] = oid
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		or := make(bson.A, 0, len(searchableFields))
		for _, field := range searchableFields {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}

	return filter, nil
}

// itemPipeline matches, sorts newest first and expands the owner to its name
// and email. Credentials are projected away before decoding.
func itemPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "ownerDoc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$ownerDoc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "ownerDoc.passwordHash", Value: 0},
			{Key: "ownerDoc.createdAt", Value: 0},
			{Key: "ownerDoc.updatedAt", Value: 0},
		}}},
	}
}
