package v1

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"contesthub/docs"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

func TestSwaggerDocumentsEveryRoute(t *testing.T) {
	env := newTestEnv(t)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("swagger document is not valid JSON: %v", err)
	}

	for _, route := range env.router.Routes() {
		if route.Path == "/metrics" || strings.HasPrefix(route.Path, "/swagger/") {
			continue
		}
		path := pathParam.ReplaceAllString(route.Path, "{$1}")
		if _, ok := doc.Paths[path][strings.ToLower(route.Method)]; !ok {
			t.Errorf("%s %s is not documented", route.Method, path)
		}
	}
}
