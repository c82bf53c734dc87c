package reflect

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-openapi/inflect"
	"github.com/pkg/errors"
)

// cache is responsible for generating, caching and retrieving reflection
// information about model types.
type cache struct {
	mutex sync.RWMutex
	cache map[reflect.Type]Info
}

var (
	singleCache *cache
	once        sync.Once
)

// Cache returns the process wide reflection cache.
func Cache() *cache {
	once.Do(func() {
		singleCache = &cache{
			cache: make(map[reflect.Type]Info),
		}
	})
	return singleCache
}

// Reflect will return the Info of a given type,
// generating and caching as required.
func (r *cache) Reflect(value any) (Info, error) {
	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return nil, errors.New("cannot reflect nil value")
	}
	v = reflect.Indirect(v)
	if !v.IsValid() {
		return nil, errors.Errorf("cannot reflect nil %T", value)
	}

	r.mutex.RLock()
	info, ok := r.cache[v.Type()]
	r.mutex.RUnlock()
	if ok {
		return info, nil
	}

	info, err := generate(v)
	if err != nil {
		return nil, err
	}

	r.mutex.Lock()
	r.cache[v.Type()] = info
	r.mutex.Unlock()
	return info, nil
}

// generate produces and returns reflection information for the input
// reflect.Value.
func generate(value reflect.Value) (Info, error) {
	// If this is a not a struct, we can not provide
	// any further reflection information.
	if value.Kind() != reflect.Struct {
		return Value{value: value}, nil
	}

	info := Struct{
		Fields: make(map[string]Field),
		value:  value,
	}

	typ := value.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		column, tagged, err := columnName(field)
		if err != nil {
			return nil, err
		}
		if column == "" {
			continue
		}
		if prev, ok := info.Fields[column]; ok {
			return nil, errors.Errorf("fields %s and %s of %s both map to column %q",
				prev.Name, field.Name, typ.Name(), column)
		}

		info.Fields[column] = Field{
			Name:   field.Name,
			Type:   field.Type,
			Tagged: tagged,
		}
	}

	return info, nil
}

// columnName returns the column a struct field maps to. The "db" tag wins,
// a tag of "-" excludes the field, and untagged fields use the snake case
// form of their name.
func columnName(field reflect.StructField) (string, bool, error) {
	tag, ok := field.Tag.Lookup("db")
	if !ok {
		return inflect.Underscore(field.Name), false, nil
	}
	if tag == "-" {
		return "", false, nil
	}

	options := strings.Split(tag, ",")
	if len(options) > 1 && strings.ToLower(options[1]) != "omitempty" {
		return "", false, errors.Errorf("unexpected tag value %q", options[1])
	}
	if options[0] == "" {
		return "", false, errors.Errorf("empty column name in tag of field %s", field.Name)
	}
	return options[0], true, nil
}
