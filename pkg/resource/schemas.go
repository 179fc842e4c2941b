package resource

import (
	"strconv"
	"strings"
	"time"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
)

// Kinds lists the collection names in navigation order
var Kinds = []string{"users", "properties", "items", "admins", "blogs"}

// PurgeableKinds lists the collections that may be deleted in bulk
var PurgeableKinds = []string{"users", "properties", "items"}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

func ownerLabel(o models.OwnerRef) string {
	switch {
	case o.Name != "" && o.PhoneNumber != "":
		return o.Name + " (" + o.PhoneNumber + ")"
	case o.Name != "":
		return o.Name
	default:
		return o.ID
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func typeSummaries[T any](values []string, get func(T) string) []Summary[T] {
	out := make([]Summary[T], 0, len(values))
	for _, v := range values {
		v := v
		out = append(out, Summary[T]{
			Label: titleCase(v),
			Match: func(r T) bool { return get(r) == v },
		})
	}
	return out
}

func statusSummaries[T any](get func(T) string) []Summary[T] {
	return []Summary[T]{
		{Label: "Active", Match: func(r T) bool { return get(r) == models.StatusActive }},
		{Label: "Inactive", Match: func(r T) bool { return get(r) == models.StatusInactive }},
		{Label: "Total", Match: func(T) bool { return true }},
	}
}

// Users describes platform users
var Users = &Schema[models.User]{
	Name:     "User",
	Plural:   "users",
	Endpoint: api.PathUsers,
	ID:       func(u models.User) string { return u.ID },
	Title:    func(u models.User) string { return u.Name },
	SearchFields: []func(models.User) string{
		func(u models.User) string { return u.Name },
		func(u models.User) string { return u.PhoneNumber },
		func(u models.User) string { return u.Address },
	},
	Filters: []Filter[models.User]{
		{Key: "status", Label: "Status", Values: models.UserStatuses, Value: func(u models.User) string { return u.Status }},
	},
	Summaries: statusSummaries(func(u models.User) string { return u.Status }),
	Columns: []Column[models.User]{
		{Header: "NAME", Value: func(u models.User) string { return u.Name }},
		{Header: "PHONE", Value: func(u models.User) string { return u.PhoneNumber }},
		{Header: "ADDRESS", Value: func(u models.User) string { return u.Address }},
		{Header: "STATUS", Value: func(u models.User) string { return u.Status }},
	},
	Details: []Column[models.User]{
		{Header: "PROFILE PIC", Value: func(u models.User) string { return u.ProfilePic }},
		{Header: "JOINED", Value: func(u models.User) string { return formatDate(u.CreatedAt) }},
	},
	Form: &FormSchema{
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: FieldText, Required: true},
			{Key: "phoneNumber", Label: "Phone number", Kind: FieldText, Required: true},
			{Key: "address", Label: "Address", Kind: FieldTextarea},
			{Key: "status", Label: "Status", Kind: FieldChoice, Options: models.UserStatuses, Default: models.StatusActive},
			{Key: "profilePic", Label: "Profile picture URL", Kind: FieldImage},
			{Key: "password", Label: "New password", Kind: FieldSecret, Help: "leave blank to keep the current password"},
		},
		UploadPrefix: "users",
	},
	Purgeable: true,
}

// Properties describes real estate listings
var Properties = &Schema[models.Property]{
	Name:     "Property",
	Plural:   "properties",
	Endpoint: api.PathProperties,
	ID:       func(p models.Property) string { return p.ID },
	Title:    func(p models.Property) string { return p.Title },
	SearchFields: []func(models.Property) string{
		func(p models.Property) string { return p.Title },
		func(p models.Property) string { return p.Description },
		func(p models.Property) string { return p.City },
		func(p models.Property) string { return p.State },
	},
	Filters: []Filter[models.Property]{
		{Key: "type", Label: "Type", Values: models.PropertyTypes, Value: func(p models.Property) string { return p.PropertyType }},
	},
	Summaries: typeSummaries([]string{"apartment", "house", "villa", "commercial"},
		func(p models.Property) string { return p.PropertyType }),
	Columns: []Column[models.Property]{
		{Header: "TITLE", Value: func(p models.Property) string { return p.Title }},
		{Header: "TYPE", Value: func(p models.Property) string { return p.PropertyType }},
		{Header: "PRICE", Value: func(p models.Property) string { return formatPrice(p.Price) }},
		{Header: "CITY", Value: func(p models.Property) string { return p.City }},
		{Header: "BEDS", Value: func(p models.Property) string { return strconv.Itoa(p.Bedrooms) }},
	},
	Details: []Column[models.Property]{
		{Header: "BATHS", Value: func(p models.Property) string { return strconv.Itoa(p.Bathrooms) }},
		{Header: "AREA", Value: func(p models.Property) string { return formatPrice(p.Area) }},
		{Header: "ADDRESS", Value: func(p models.Property) string { return p.Address }},
		{Header: "LOCATION", Value: func(p models.Property) string { return joinNonEmpty(p.City, p.State, p.Country) }},
		{Header: "OWNER", Value: func(p models.Property) string { return ownerLabel(p.Owner) }},
		{Header: "IMAGES", Value: func(p models.Property) string { return strings.Join(p.Images, ", ") }},
		{Header: "LISTED", Value: func(p models.Property) string { return formatDate(p.CreatedAt) }},
	},
	Body: func(p models.Property) string { return p.Description },
	Form: &FormSchema{
		Fields: []Field{
			{Key: "title", Label: "Title", Kind: FieldText, Required: true},
			{Key: "price", Label: "Price", Kind: FieldNumber, Required: true},
			{Key: "propertyType", Label: "Property type", Kind: FieldChoice, Options: models.PropertyTypes, Default: "apartment"},
			{Key: "description", Label: "Description", Kind: FieldTextarea},
			{Key: "bedrooms", Label: "Bedrooms", Kind: FieldInteger},
			{Key: "bathrooms", Label: "Bathrooms", Kind: FieldInteger},
			{Key: "area", Label: "Area (sq ft)", Kind: FieldNumber},
			{Key: "address", Label: "Address", Kind: FieldText, Required: true},
			{Key: "city", Label: "City", Kind: FieldText},
			{Key: "state", Label: "State", Kind: FieldText},
			{Key: "country", Label: "Country", Kind: FieldText},
			{Key: "images", Label: "Image URLs", Kind: FieldList, Help: "comma separated"},
		},
		UploadPrefix: "properties",
	},
	Purgeable: true,
}

// Items describes second-hand marketplace listings
var Items = &Schema[models.Item]{
	Name:     "Item",
	Plural:   "items",
	Endpoint: api.PathItems,
	ID:       func(i models.Item) string { return i.ID },
	Title:    func(i models.Item) string { return i.Title },
	SearchFields: []func(models.Item) string{
		func(i models.Item) string { return i.Title },
		func(i models.Item) string { return i.Description },
		func(i models.Item) string { return i.Brand },
		func(i models.Item) string { return i.City },
	},
	Filters: []Filter[models.Item]{
		{Key: "category", Label: "Category", Values: models.ItemCategories, Value: func(i models.Item) string { return i.Category }},
		{Key: "condition", Label: "Condition", Values: models.ItemConditions, Value: func(i models.Item) string { return i.Condition }},
	},
	Summaries: []Summary[models.Item]{
		{Label: "Available", Match: func(i models.Item) bool { return i.IsAvailable }},
		{Label: "Sold", Match: func(i models.Item) bool { return !i.IsAvailable }},
		{Label: "Categories", Distinct: func(i models.Item) string { return i.Category }},
		{Label: "Total", Match: func(models.Item) bool { return true }},
	},
	Columns: []Column[models.Item]{
		{Header: "TITLE", Value: func(i models.Item) string { return i.Title }},
		{Header: "CATEGORY", Value: func(i models.Item) string { return i.Category }},
		{Header: "CONDITION", Value: func(i models.Item) string { return i.Condition }},
		{Header: "PRICE", Value: func(i models.Item) string { return formatPrice(i.Price) }},
		{Header: "CITY", Value: func(i models.Item) string { return i.City }},
		{Header: "AVAILABLE", Value: func(i models.Item) string { return strconv.FormatBool(i.IsAvailable) }},
	},
	Details: []Column[models.Item]{
		{Header: "BRAND", Value: func(i models.Item) string { return i.Brand }},
		{Header: "LOCATION", Value: func(i models.Item) string { return joinNonEmpty(i.Location, i.City, i.State, i.Country) }},
		{Header: "OWNER", Value: func(i models.Item) string { return ownerLabel(i.Owner) }},
		{Header: "IMAGES", Value: func(i models.Item) string { return strings.Join(i.Images, ", ") }},
		{Header: "LISTED", Value: func(i models.Item) string { return formatDate(i.CreatedAt) }},
	},
	Body: func(i models.Item) string { return i.Description },
	Form: &FormSchema{
		Fields: []Field{
			{Key: "title", Label: "Title", Kind: FieldText, Required: true},
			{Key: "price", Label: "Price", Kind: FieldNumber, Required: true},
			{Key: "category", Label: "Category", Kind: FieldChoice, Options: models.ItemCategories, Default: "other"},
			{Key: "condition", Label: "Condition", Kind: FieldChoice, Options: models.ItemConditions, Default: "good"},
			{Key: "description", Label: "Description", Kind: FieldTextarea},
			{Key: "brand", Label: "Brand", Kind: FieldText},
			{Key: "location", Label: "Location", Kind: FieldText, Required: true},
			{Key: "city", Label: "City", Kind: FieldText},
			{Key: "state", Label: "State", Kind: FieldText},
			{Key: "country", Label: "Country", Kind: FieldText},
			{Key: "isAvailable", Label: "Available", Kind: FieldBool, Default: "true"},
			{Key: "images", Label: "Image URLs", Kind: FieldList, Help: "comma separated"},
		},
		UploadPrefix: "items",
	},
	Purgeable: true,
}

// Admins describes console administrators. They are edited only through
// the profile screen.
var Admins = &Schema[models.Admin]{
	Name:     "Admin",
	Plural:   "admins",
	Endpoint: api.PathAdmins,
	ID:       func(a models.Admin) string { return a.ID },
	Title:    func(a models.Admin) string { return a.Name },
	SearchFields: []func(models.Admin) string{
		func(a models.Admin) string { return a.Name },
		func(a models.Admin) string { return a.Email },
		func(a models.Admin) string { return a.PhoneNumber },
	},
	Filters: []Filter[models.Admin]{
		{Key: "status", Label: "Status", Values: models.UserStatuses, Value: func(a models.Admin) string { return a.Status }},
	},
	Summaries: statusSummaries(func(a models.Admin) string { return a.Status }),
	Columns: []Column[models.Admin]{
		{Header: "NAME", Value: func(a models.Admin) string { return a.Name }},
		{Header: "EMAIL", Value: func(a models.Admin) string { return a.Email }},
		{Header: "PHONE", Value: func(a models.Admin) string { return a.PhoneNumber }},
		{Header: "ROLE", Value: func(a models.Admin) string { return a.Role }},
		{Header: "STATUS", Value: func(a models.Admin) string { return a.Status }},
	},
	Details: []Column[models.Admin]{
		{Header: "JOINED", Value: func(a models.Admin) string { return formatDate(a.CreatedAt) }},
	},
}

// Blogs describes blog posts
var Blogs = &Schema[models.BlogPost]{
	Name:     "Blog",
	Plural:   "blogs",
	Endpoint: api.PathBlogs,
	ID:       func(b models.BlogPost) string { return b.ID },
	Title:    func(b models.BlogPost) string { return b.Title },
	SearchFields: []func(models.BlogPost) string{
		func(b models.BlogPost) string { return b.Title },
		func(b models.BlogPost) string { return b.Author },
	},
	Summaries: []Summary[models.BlogPost]{
		{Label: "Authors", Distinct: func(b models.BlogPost) string { return b.Author }},
		{Label: "With code", Match: func(b models.BlogPost) bool { return b.HasCode() }},
		{Label: "Total", Match: func(models.BlogPost) bool { return true }},
	},
	Columns: []Column[models.BlogPost]{
		{Header: "TITLE", Value: func(b models.BlogPost) string { return b.Title }},
		{Header: "AUTHOR", Value: func(b models.BlogPost) string { return b.Author }},
		{Header: "CREATED", Value: func(b models.BlogPost) string { return formatDate(b.CreatedAt) }},
	},
	Details: []Column[models.BlogPost]{
		{Header: "DESCRIPTION", Value: func(b models.BlogPost) string { return b.Description }},
		{Header: "IMAGE", Value: func(b models.BlogPost) string { return b.ImageURL }},
	},
	Body: func(b models.BlogPost) string {
		body := PlainText(b.Content)
		for _, code := range []string{b.ExampleCode, b.Code} {
			if code != "" {
				body += "\n\n" + code
			}
		}
		return body
	},
	Form: &FormSchema{
		Fields: []Field{
			{Key: "title", Label: "Title", Kind: FieldText, Required: true},
			{Key: "author", Label: "Author", Kind: FieldText, Required: true},
			{Key: "description", Label: "Description", Kind: FieldTextarea, Required: true},
			{Key: "content", Label: "Content (HTML)", Kind: FieldTextarea, Required: true},
			{Key: "exampleCode", Label: "Example code", Kind: FieldTextarea},
			{Key: "code", Label: "Code", Kind: FieldTextarea},
			{Key: "imageUrl", Label: "Cover image", Kind: FieldImage, Help: "local file to upload or an image URL"},
		},
		UploadPrefix: "blogs",
	},
	Creatable: true,
}
