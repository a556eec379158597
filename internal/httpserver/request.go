package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/domain"
	catalogsvc "site-catalog/internal/service/catalog"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type siteRequest struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	CategoryID flexID `json:"category_id"`
}

func (r categoryRequest) input() catalogsvc.CategoryInput {
	return catalogsvc.CategoryInput{Name: r.Name}
}

func (r siteRequest) input() catalogsvc.SiteInput {
	return catalogsvc.SiteInput{Name: r.Name, URL: r.URL, CategoryID: int64(r.CategoryID)}
}

// flexID accepts an id as a JSON number or a numeric string, since form
// posts deliver every value as a string. Empty and null decode to zero.
type flexID int64

var errFlexID = errors.New("id must be an integer")

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	s := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return errFlexID
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return errFlexID
	}
	*f = flexID(n)
	return nil
}

// bindJSON decodes the request body, reporting malformed input as a
// validation error so it maps to 422.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, errFlexID) {
			return domain.NewValidationError("category_id", "The category id field must be an integer.")
		}
		return domain.NewValidationError("body", "The request body must be a valid JSON object.")
	}
	return nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "The id must be a positive integer.")
	}
	return id, nil
}
