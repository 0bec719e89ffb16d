package utils

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// populateAliases maps the populate keys accepted on user endpoints to
// relation names of models.User.
// "postion" is the spelling used by the dashboard's content API.
var populateAliases = map[string]string{
	"postion":  "Position",
	"position": "Position",
	"tasks":    "Tasks",
}

// GetPopulate parses the comma-separated populate query parameter into
// relation names. Unknown keys (such as "role" or "user") are ignored.
func GetPopulate(c *gin.Context) []string {
	return ParsePopulate(c.Query("populate"))
}

// ParsePopulate parses a comma-separated populate value into relation names
func ParsePopulate(raw string) []string {
	if raw == "" {
		return nil
	}

	seen := make(map[string]struct{})
	relations := make([]string, 0, 2)
	for _, key := range strings.Split(raw, ",") {
		relation, ok := populateAliases[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			continue
		}
		if _, dup := seen[relation]; dup {
			continue
		}
		seen[relation] = struct{}{}
		relations = append(relations, relation)
	}

	return relations
}

// HasRelation reports whether relations contains name
func HasRelation(relations []string, name string) bool {
	for _, r := range relations {
		if r == name {
			return true
		}
	}
	return false
}
