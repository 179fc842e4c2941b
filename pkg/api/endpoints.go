package api

import "net/url"

// Collection paths relative to the API base URL
const (
	PathAdmins     = "/admin"
	PathAdminMe    = "/admin/me"
	PathUsers      = "/users"
	PathProperties = "/properties"
	PathItems      = "/items"
	PathBlogs      = "/blogs"
)

// ByID returns the path of one record inside a collection
func ByID(collection, id string) string {
	return collection + "/" + url.PathEscape(id)
}
