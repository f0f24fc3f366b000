package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the paginated list envelope some list endpoints return. Others
// return a bare array; UnwrapList absorbs both shapes.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// UnwrapList decodes a list payload that is either a paginated envelope or a
// bare JSON array into a normalized slice. A payload that is neither is an
// error, never a panic.
func UnwrapList[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty list payload")
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}

	var page Page[T]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	if page.Results == nil {
		return nil, fmt.Errorf("list payload has no results field")
	}
	return page.Results, nil
}
