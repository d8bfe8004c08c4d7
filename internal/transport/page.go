package transport

import (
	"net/url"
	"strconv"
)

// Page mirrors the length-aware paginator document clients of this API
// already consume.
type Page[T any] struct {
	CurrentPage  int     `json:"current_page"`
	Data         []T     `json:"data"`
	FirstPageURL string  `json:"first_page_url"`
	From         *int    `json:"from"`
	LastPage     int     `json:"last_page"`
	LastPageURL  string  `json:"last_page_url"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           *int    `json:"to"`
	Total        int64   `json:"total"`
}

func NewPage[T any](items []T, total int64, page, perPage, lastPage int, path string, query url.Values) Page[T] {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{
		CurrentPage:  page,
		Data:         items,
		FirstPageURL: pageURL(path, query, 1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(path, query, lastPage),
		Path:         path,
		PerPage:      perPage,
		Total:        total,
	}
	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From, p.To = &from, &to
	}
	if page < lastPage {
		next := pageURL(path, query, page+1)
		p.NextPageURL = &next
	}
	if page > 1 {
		prev := pageURL(path, query, page-1)
		p.PrevPageURL = &prev
	}
	return p
}

func pageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}
