package resource

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-memory Store implementation. It backs package tests
// and local development without a running document store; semantics match
// the Mongo-backed collection, including ErrInvalidID before any lookup.
type MemoryStore[T any, PT Entity[T]] struct {
	mu    sync.RWMutex
	docs  map[string]PT
	order []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[T any, PT Entity[T]]() *MemoryStore[T, PT] {
	return &MemoryStore[T, PT]{docs: make(map[string]PT)}
}

func (s *MemoryStore[T, PT]) Insert(_ context.Context, doc PT) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.DocumentID().IsZero() {
		doc.SetDocumentID(primitive.NewObjectID())
	}
	doc.Touch(time.Now().UTC(), true)

	id := doc.DocumentID().Hex()
	s.docs[id] = doc
	s.order = append(s.order, id)
	return nil
}

func (s *MemoryStore[T, PT]) Get(_ context.Context, id string) (PT, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore[T, PT]) Find(_ context.Context, q Query) ([]PT, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]PT, 0)
	for _, id := range s.order {
		doc := s.docs[id]
		if matches(doc, q) {
			matched = append(matched, doc)
		}
	}
	sortDocs(matched, q)

	if q.Skip > 0 {
		if q.Skip >= int64(len(matched)) {
			return []PT{}, nil
		}
		matched = matched[q.Skip:]
	}
	if q.Limit > 0 && int64(len(matched)) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (s *MemoryStore[T, PT]) Count(_ context.Context, q Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, doc := range s.docs {
		if matches(doc, q) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore[T, PT]) UpdateFields(_ context.Context, id string, fields map[string]any) (PT, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	for name, value := range fields {
		if err := setField(doc, name, value); err != nil {
			return nil, err
		}
	}
	doc.Touch(time.Now().UTC(), false)
	return doc, nil
}

func (s *MemoryStore[T, PT]) Delete(_ context.Context, id string) error {
	if _, err := ParseID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	for i, ord := range s.order {
		if ord == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func matches[PT Document](doc PT, q Query) bool {
	for name, want := range q.Equals {
		if fieldString(doc, name) != want {
			return false
		}
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		found := false
		for _, name := range q.SearchFields {
			if strings.Contains(strings.ToLower(fieldString(doc, name)), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortDocs[PT Document](docs []PT, q Query) {
	if q.SortField == "" {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if q.SortDesc {
			return fieldLess(docs[j], docs[i], q.SortField)
		}
		return fieldLess(docs[i], docs[j], q.SortField)
	})
}

func fieldLess[PT Document](a, b PT, name string) bool {
	av, bv := fieldValue(a, name), fieldValue(b, name)
	switch x := av.(type) {
	case time.Time:
		if y, ok := bv.(time.Time); ok {
			return x.Before(y)
		}
	case string:
		if y, ok := bv.(string); ok {
			return x < y
		}
	}
	return false
}

// fieldValue resolves a stored (bson) field name against a document via its
// struct tags.
func fieldValue(doc any, name string) any {
	v := reflect.ValueOf(doc)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if bsonName(t.Field(i)) == name {
			return v.Field(i).Interface()
		}
	}
	return nil
}

func fieldString(doc any, name string) string {
	switch v := fieldValue(doc, name).(type) {
	case nil:
		return ""
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	case time.Time:
		return v.Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func setField(doc any, name string, value any) error {
	v := reflect.ValueOf(doc)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if bsonName(t.Field(i)) != name {
			continue
		}
		fv := v.Field(i)
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			fv.SetZero()
			return nil
		}
		if rv.Type().AssignableTo(fv.Type()) {
			fv.Set(rv)
			return nil
		}
		if rv.Type().ConvertibleTo(fv.Type()) {
			fv.Set(rv.Convert(fv.Type()))
			return nil
		}
		return fmt.Errorf("cannot set field %s from %T", name, value)
	}
	return fmt.Errorf("unknown field %s", name)
}

func bsonName(f reflect.StructField) string {
	tag := f.Tag.Get("bson")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	return tag
}
