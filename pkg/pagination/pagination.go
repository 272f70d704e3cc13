// Copyright (c) 2026 Souq. All rights reserved.

// Package pagination parses page/limit query parameters and builds the
// pagination block of the list response envelope.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is the first page; pages are 1-indexed.
	DefaultPage = 1
	// DefaultLimit applies when the client sends no usable limit.
	DefaultLimit = 20
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params is a sanitized page request.
type Params struct {
	Page  int
	Limit int
}

// Offset converts the page number into a SQL OFFSET.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination block of a list response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewMeta derives TotalPages with ceiling division over the total row count.
func NewMeta(page, limit, total int) Meta {
	meta := Meta{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		meta.TotalPages = (total + limit - 1) / limit
	}
	return meta
}

/*
FromRequest reads "page" and "limit" from the query string.

Anything unparseable, non-positive, or above [MaxLimit] falls back to the
defaults, so handlers never see a hostile page request.
*/
func FromRequest(r *http.Request) Params {
	params := Params{
		Page:  queryInt(r, "page", DefaultPage),
		Limit: queryInt(r, "limit", DefaultLimit),
	}
	if params.Page < 1 {
		params.Page = DefaultPage
	}
	if params.Limit < 1 || params.Limit > MaxLimit {
		params.Limit = DefaultLimit
	}
	return params
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
