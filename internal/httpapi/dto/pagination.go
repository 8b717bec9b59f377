package dto

import (
	"net/url"
	"strconv"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Page is the list envelope: total count plus next/previous links rebuilt
// from the request URL with a shifted offset.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func NewPage(requestURL *url.URL, count int64, limit, offset int, results any) Page {
	page := Page{Count: count, Results: results}

	if int64(offset+limit) < count {
		page.Next = pageLink(requestURL, limit, offset+limit)
	}
	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		page.Previous = pageLink(requestURL, limit, prev)
	}
	return page
}

func pageLink(requestURL *url.URL, limit, offset int) *string {
	u := *requestURL
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
