package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// extraKnownFields are accepted in config files although they have no
// JSON-mapped struct field.
var extraKnownFields = map[string]bool{
	"$schema":                   true,
	"additionalParams.callback": true,
}

// detectUnknownFields compares a raw config record with the fields Config knows.
func detectUnknownFields(raw map[string]any) []string {
	var warnings []string
	walkUnknown(raw, reflect.TypeOf(Config{}), "", &warnings)
	sort.Strings(warnings)
	return warnings
}

func walkUnknown(raw map[string]any, t reflect.Type, prefix string, warnings *[]string) {
	fields := getJSONFields(t)
	for key, val := range raw {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if extraKnownFields[path] {
			continue
		}
		ft, ok := fields[key]
		if !ok {
			location := "root level"
			if prefix != "" {
				location = prefix
			}
			*warnings = append(*warnings, fmt.Sprintf("unknown field %q in %s (ignored)", key, location))
			continue
		}
		if nested, ok := asRecord(val); ok && ft.Kind() == reflect.Struct {
			walkUnknown(nested, ft, path, warnings)
		}
	}
}

// getJSONFields returns the JSON field names of a struct type with their types.
func getJSONFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = field.Type
		}
	}
	return fields
}
