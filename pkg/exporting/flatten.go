package exporting

import (
	"sort"
	"strconv"
	"strings"
)

// FlattenSeparator joins nested keys.
const FlattenSeparator = "."

// Flatten expands nested maps and slices of a normalized record into
// top-level keys: network.interfaces.0.rx_bytes, processes.3.pid.
// Empty maps and slices disappear.
func Flatten(r Record) Record {
	if r == nil {
		return nil
	}
	result := make(Record, len(r))
	for k, v := range r {
		flattenValue(k, v, result)
	}
	return result
}

func flattenValue(prefix string, v any, result Record) {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			flattenValue(prefix+FlattenSeparator+k, val, result)
		}
	case map[string]string:
		for k, val := range t {
			result[prefix+FlattenSeparator+k] = val
		}
	case []any:
		for i, val := range t {
			flattenValue(prefix+FlattenSeparator+strconv.Itoa(i), val, result)
		}
	default:
		result[prefix] = v
	}
}

// Unflatten rebuilds nested maps and slices from flattened keys. A level
// whose keys are all indexes becomes a slice.
func Unflatten(r Record) Record {
	root := make(map[string]any)
	keys := sortedKeys(r)
	for _, key := range keys {
		parts := strings.Split(key, FlattenSeparator)
		node := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = r[key]
	}
	for k, child := range root {
		root[k] = listify(child)
	}
	return Record(root)
}

// listify turns index-keyed maps into slices, bottom up.
func listify(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = listify(child)
	}

	indexes := make([]int, 0, len(m))
	for k := range m {
		i, err := strconv.Atoi(k)
		if err != nil || i < 0 {
			return m
		}
		indexes = append(indexes, i)
	}
	if len(indexes) == 0 {
		return m
	}
	sort.Ints(indexes)
	list := make([]any, 0, len(indexes))
	for _, i := range indexes {
		list = append(list, m[strconv.Itoa(i)])
	}
	return list
}
