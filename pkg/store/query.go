package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devhubhq/devhub/pkg/resource"
)

// BuildFilter translates a resource query into a Mongo filter document.
// Substring search becomes a case-insensitive anchored-nowhere $or of
// regex clauses across the declared search fields.
func BuildFilter(q resource.Query) bson.M {
	filter := bson.M{}
	for field, value := range q.Equals {
		filter[field] = value
	}
	if q.Search != "" && len(q.SearchFields) > 0 {
		or := make(bson.A, 0, len(q.SearchFields))
		for _, field := range q.SearchFields {
			or = append(or, bson.M{field: primitive.Regex{
				Pattern: regexp.QuoteMeta(q.Search),
				Options: "i",
			}})
		}
		filter["$or"] = or
	}
	return filter
}

// BuildSort translates the query sort into a Mongo sort document, or nil
// when no sort is requested.
func BuildSort(q resource.Query) bson.D {
	if q.SortField == "" {
		return nil
	}
	dir := 1
	if q.SortDesc {
		dir = -1
	}
	return bson.D{{Key: q.SortField, Value: dir}}
}
