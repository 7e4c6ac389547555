package database

import (
	"fmt"
	"strings"
)

// ConstructDatabaseURL joins a server URL and a database name into a DSN.
// An empty name returns the base URL untouched. sslmode=disable is added
// unless the URL already sets sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, _ := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	base = strings.TrimRight(base, "/")

	params := []string{}
	if query != "" {
		params = append(params, query)
	}
	if !strings.Contains(query, "sslmode=") {
		params = append(params, "sslmode=disable")
	}

	return fmt.Sprintf("%s/%s?%s", base, databaseName, strings.Join(params, "&"))
}
