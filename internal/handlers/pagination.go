package handlers

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageParams reads page/page_size query values, clamping to sane bounds.
func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

type pageEnvelope struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// paginate wraps a result slice in the standard list envelope with absolute
// next/previous links derived from the request URL.
func paginate(c *gin.Context, results any, total, page, pageSize int) pageEnvelope {
	env := pageEnvelope{Count: total, Results: results}

	if page*pageSize < total {
		env.Next = pageLink(c, page+1)
	}
	if page > 1 {
		env.Previous = pageLink(c, page-1)
	}
	return env
}

func pageLink(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	link := (&url.URL{
		Scheme:   requestScheme(c),
		Host:     c.Request.Host,
		Path:     u.Path,
		RawQuery: u.RawQuery,
	}).String()
	return &link
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
		return "https"
	}
	return "http"
}
