package postgres

import (
	"reflect"
	"sync"
)

// ExtractDBColumns extracts column names from struct "db" tags, descending
// into embedded structs (entity.Versioned, entity.Audit). Called once per
// row type when a repository is built.
//
//	cols := ExtractDBColumns[itemRow]()
//	// ["id", "name", "category", ..., "version", "created_at", "updated_at"]
func ExtractDBColumns[T any]() []string {
	var zero T
	meta := typeMetadataOf(reflect.TypeOf(zero))
	return meta.columns()
}

type fieldInfo struct {
	index int
	dbTag string
}

type typeMetadata struct {
	fields   []fieldInfo
	embedded []embeddedInfo
}

type embeddedInfo struct {
	index int
	meta  *typeMetadata
}

func (m *typeMetadata) columns() []string {
	cols := make([]string, 0, len(m.fields))
	for _, f := range m.fields {
		cols = append(cols, f.dbTag)
	}
	for _, e := range m.embedded {
		cols = append(cols, e.meta.columns()...)
	}
	return cols
}

// map[reflect.Type]*typeMetadata
var typeCache sync.Map

func typeMetadataOf(t reflect.Type) *typeMetadata {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.(*typeMetadata)
	}

	meta := &typeMetadata{}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.Anonymous {
				meta.embedded = append(meta.embedded, embeddedInfo{index: i, meta: typeMetadataOf(field.Type)})
				continue
			}
			tag := field.Tag.Get("db")
			if tag == "" || tag == "-" {
				continue
			}
			meta.fields = append(meta.fields, fieldInfo{index: i, dbTag: tag})
		}
	}

	actual, _ := typeCache.LoadOrStore(t, meta)
	return actual.(*typeMetadata)
}

// StructToMap converts a row struct to a column map using "db" tags.
// Columns listed in omit are left out.
func StructToMap(v any, omit ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	res := make(map[string]any)
	fill(res, rv, typeMetadataOf(rv.Type()))
	for _, col := range omit {
		delete(res, col)
	}
	return res
}

func fill(res map[string]any, rv reflect.Value, meta *typeMetadata) {
	for _, fi := range meta.fields {
		res[fi.dbTag] = rv.Field(fi.index).Interface()
	}
	for _, e := range meta.embedded {
		fv := rv.Field(e.index)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		fill(res, fv, e.meta)
	}
}
