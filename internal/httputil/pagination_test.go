package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
		wantErr    string
	}{
		{name: "Defaults", query: "", wantOffset: 0, wantLimit: 50},
		{name: "Explicit", query: "offset=20&limit=10", wantOffset: 20, wantLimit: 10},
		{name: "MaxLimit", query: "limit=100", wantOffset: 0, wantLimit: 100},
		{name: "StatusIgnored", query: "status=failed&limit=5", wantOffset: 0, wantLimit: 5},
		{name: "NegativeOffset", query: "offset=-1", wantErr: "invalid offset parameter"},
		{name: "NonNumericOffset", query: "offset=next", wantErr: "invalid offset parameter"},
		{name: "ZeroLimit", query: "limit=0", wantErr: "invalid limit parameter"},
		{name: "LimitTooLarge", query: "limit=101", wantErr: "between 1 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/v1/work-items?"+tt.query, nil)

			offset, limit, err := ParsePagination(c)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
