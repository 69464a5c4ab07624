package server

import (
	"fmt"
	"strconv"

	"stock-trend/src/helpers"

	"github.com/gin-gonic/gin"
)

// activation query keys as the range buttons name them
var activationKeys = map[string]string{
	"m1": "1M",
	"m6": "6M",
	"y1": "1Y",
	"y5": "5Y",
}

// -----------------------------------------------------------------------------

// activationsFromQuery reads ?m1=&m6=&y1=&y5= button timestamps. Missing keys count as never pressed.
func activationsFromQuery(c *gin.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(activationKeys))
	for key, preset := range activationKeys {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ts < 0 {
			return nil, helpers.NewValidationError(fmt.Sprintf("%s must be a non-negative integer timestamp", key), err)
		}
		out[preset] = ts
	}
	return out, nil
}
