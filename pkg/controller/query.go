package controller

import (
	"encoding/json"
	"strconv"

	"github.com/PrjctQ/qcore/pkg/apierror"
	"github.com/PrjctQ/qcore/pkg/dao"
	"github.com/gin-gonic/gin"
)

// ParseListQuery parses the list query parameters into a filter map and
// query options. `filter` and `sort` are JSON-encoded objects; `limit` and
// `skip` are plain integers. Malformed values fail with a bad-request error.
func ParseListQuery(c *gin.Context) (map[string]any, dao.QueryOptions, error) {
	var (
		filter map[string]any
		opts   dao.QueryOptions
	)

	if raw := c.Query("filter"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &filter); err != nil {
			return nil, opts, apierror.NewBadRequest("filter", "Query parameter 'filter' must be a JSON object")
		}
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, opts, apierror.NewBadRequest("limit", "Query parameter 'limit' must be a non-negative integer")
		}
		opts.Limit = limit
	}

	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return nil, opts, apierror.NewBadRequest("skip", "Query parameter 'skip' must be a non-negative integer")
		}
		opts.Skip = skip
	}

	if raw := c.Query("sort"); raw != "" {
		sort, err := parseSort(raw)
		if err != nil {
			return nil, opts, err
		}
		opts.Sort = sort
	}

	return filter, opts, nil
}

// ParseID converts a path identifier to an integer when it is numeric.
// Strict dialects reject comparing a text parameter against an integer key
// column, so the conversion has to happen before the value reaches the DAO;
// non-numeric identifiers (UUIDs, slugs) pass through as strings.
func ParseID(raw string) any {
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return n
	}
	return raw
}

// parseSort accepts either a JSON object ({"created_at":"desc"}) or a bare
// field name (ascending).
func parseSort(raw string) (map[string]string, error) {
	if raw[0] == '{' {
		var sort map[string]string
		if err := json.Unmarshal([]byte(raw), &sort); err != nil {
			return nil, apierror.NewBadRequest("sort", "Query parameter 'sort' must be a JSON object of field to direction")
		}
		return sort, nil
	}
	return map[string]string{raw: "asc"}, nil
}
