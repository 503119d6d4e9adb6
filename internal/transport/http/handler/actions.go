package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type ActionRule struct {
	PathPattern string `json:"pathPattern"`
	APIPath     string `json:"apiPath"`
}

type ActionRules struct {
	Rules []ActionRule `json:"rules"`
}

// Actions serves the static route-rules document consumed by clients that
// rewrite logical action paths to absolute API paths. The single rule maps
// the sendcredits pattern to this deployment's API path.
//
//	@Summary	Action routing rules
//	@Produce	json
//	@Success	200	{object}	handler.ActionRules
//	@Router		/actions.json [get]
func Actions(basePath string) gin.HandlerFunc {
	rules := ActionRules{
		Rules: []ActionRule{
			{
				PathPattern: "/sendcredits*",
				APIPath:     strings.TrimSuffix(basePath, "/") + "/api/sendcredits",
			},
		},
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, rules)
	}
}
