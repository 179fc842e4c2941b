package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/upload"
)

var (
	// ErrSubmitting rejects a second submit while one is in flight
	ErrSubmitting = errors.New("a submission is already in progress")
	// ErrRequired is wrapped by validation failures
	ErrRequired = errors.New("required field is empty")
)

// FieldKind selects how a form value is edited and encoded
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldTextarea FieldKind = "textarea"
	FieldNumber   FieldKind = "number"
	FieldInteger  FieldKind = "integer"
	FieldBool     FieldKind = "bool"
	FieldChoice   FieldKind = "choice"
	FieldList     FieldKind = "list"
	FieldSecret   FieldKind = "secret"
	FieldImage    FieldKind = "image"
)

// Field describes one form input. Key is the JSON payload key.
type Field struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	Options  []string
	Default  string
	Help     string
}

// FormSchema is the ordered set of inputs for an entity kind
type FormSchema struct {
	Fields []Field
	// UploadPrefix names the object key folder for image fields
	UploadPrefix string
	// EditOnly lists keys shown only when editing
	EditOnly []string
}

// Field returns the field with key
func (f *FormSchema) Field(key string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// FormMode distinguishes create from edit
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeEdit
)

func (m FormMode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// FormState is the lifecycle of a form
type FormState int

const (
	FormIdle FormState = iota
	FormEditing
	FormSubmitting
	FormSuccess
	FormRedirecting
)

func (s FormState) String() string {
	switch s {
	case FormEditing:
		return "editing"
	case FormSubmitting:
		return "submitting"
	case FormSuccess:
		return "success"
	case FormRedirecting:
		return "redirecting"
	default:
		return "idle"
	}
}

// FormController holds the values of one create or edit form and submits
// them. It is safe to call Submit from a background command while the UI
// reads state.
type FormController struct {
	client   *api.Client
	uploads  upload.Store
	name     string
	plural   string
	endpoint string
	schema   *FormSchema
	timing   Timing

	mu     sync.Mutex
	mode   FormMode
	id     string
	values map[string]string
	seeded map[string]string // edit mode: values as fetched
	state  FormState
	err    error
}

// NewCreateForm returns a form seeded with defaults
func NewCreateForm[T any](client *api.Client, s *Schema[T], uploads upload.Store) (*FormController, error) {
	if s.Form == nil || !s.Creatable {
		return nil, fmt.Errorf("%s cannot be created from the console", s.Plural)
	}
	fc := newForm(client, s, uploads, ModeCreate)
	fc.values = fc.defaults()
	return fc, nil
}

// NewEditForm returns a form seeded from record
func NewEditForm[T any](client *api.Client, s *Schema[T], uploads upload.Store, record T) (*FormController, error) {
	if s.Form == nil {
		return nil, fmt.Errorf("%s cannot be edited from the console", s.Plural)
	}
	fc := newForm(client, s, uploads, ModeEdit)
	fc.id = s.ID(record)
	values, err := seedValues(s.Form, record)
	if err != nil {
		return nil, err
	}
	fc.values = values
	fc.seeded = make(map[string]string, len(values))
	for k, v := range values {
		fc.seeded[k] = v
	}
	return fc, nil
}

// LoadEditForm fetches the record with id and seeds an edit form from it
func LoadEditForm[T any](ctx context.Context, client *api.Client, s *Schema[T], uploads upload.Store, id string) (*FormController, error) {
	detail := NewDetailController(client, s)
	if err := detail.Load(ctx, id); err != nil {
		return nil, err
	}
	record, _ := detail.Record()
	return NewEditForm(client, s, uploads, record)
}

func newForm[T any](client *api.Client, s *Schema[T], uploads upload.Store, mode FormMode) *FormController {
	if uploads == nil {
		uploads = upload.Disabled{}
	}
	return &FormController{
		client:   client,
		uploads:  uploads,
		name:     s.Name,
		plural:   s.Plural,
		endpoint: s.Endpoint,
		schema:   s.Form,
		timing:   DefaultTiming(),
		mode:     mode,
		state:    FormIdle,
	}
}

// SetTiming overrides notice timings
func (f *FormController) SetTiming(t Timing) {
	f.timing = t
}

// Fields returns the inputs shown in the current mode
func (f *FormController) Fields() []Field {
	fields := make([]Field, 0, len(f.schema.Fields))
	for _, field := range f.schema.Fields {
		if f.mode == ModeCreate && f.editOnly(field.Key) {
			continue
		}
		fields = append(fields, field)
	}
	return fields
}

func (f *FormController) editOnly(key string) bool {
	for _, k := range f.schema.EditOnly {
		if k == key {
			return true
		}
	}
	return false
}

// Name returns the entity's singular name
func (f *FormController) Name() string { return f.name }

// Mode returns create or edit
func (f *FormController) Mode() FormMode { return f.mode }

// ID returns the record id being edited
func (f *FormController) ID() string { return f.id }

// State returns the current lifecycle state
func (f *FormController) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the last submit failure
func (f *FormController) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Value returns the raw value of key
func (f *FormController) Value(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[key]
}

// Values returns a copy of every raw value
func (f *FormController) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Set changes one value. Editing is refused while submitting.
func (f *FormController) Set(key, value string) error {
	field, ok := f.schema.Field(key)
	if !ok {
		return fmt.Errorf("unknown field %q for %s", key, f.plural)
	}
	if field.Kind == FieldChoice && value != "" && !contains(field.Options, value) {
		return fmt.Errorf("invalid %s %q (valid: %s)", field.Label, value, strings.Join(field.Options, ", "))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSubmitting {
		return ErrSubmitting
	}
	f.values[key] = value
	f.state = FormEditing
	f.err = nil
	return nil
}

// Validate checks required fields only
func (f *FormController) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate(f.values)
}

func (f *FormController) validate(values map[string]string) error {
	var missing []string
	for _, field := range f.Fields() {
		if field.Required && strings.TrimSpace(values[field.Key]) == "" {
			missing = append(missing, field.Label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrRequired, strings.Join(missing, ", "))
	}
	return nil
}

// Payload encodes the current values for the backend
func (f *FormController) Payload() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload(f.values)
}

func (f *FormController) payload(values map[string]string) map[string]any {
	payload := make(map[string]any, len(values))
	for _, field := range f.Fields() {
		raw := values[field.Key]
		switch field.Kind {
		case FieldNumber:
			payload[field.Key] = parseNumber(raw)
		case FieldInteger:
			payload[field.Key] = parseInteger(raw)
		case FieldBool:
			b, _ := strconv.ParseBool(strings.TrimSpace(raw))
			payload[field.Key] = b
		case FieldList:
			payload[field.Key] = splitList(raw)
		case FieldSecret:
			if strings.TrimSpace(raw) != "" {
				payload[field.Key] = raw
			}
		default:
			payload[field.Key] = strings.TrimSpace(raw)
		}
	}
	return payload
}

// Submit validates, uploads pending images, then sends one create or
// update request. Uploaded objects are not removed if the request fails.
func (f *FormController) Submit(ctx context.Context) (Notice, error) {
	f.mu.Lock()
	if f.state == FormSubmitting {
		f.mu.Unlock()
		return Notice{}, ErrSubmitting
	}
	if err := f.validate(f.values); err != nil {
		f.state = FormEditing
		f.err = err
		f.mu.Unlock()
		return Notice{Kind: NoticeError, Text: err.Error()}, err
	}
	f.state = FormSubmitting
	f.err = nil
	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	f.mu.Unlock()

	if err := f.uploadImages(ctx, values); err != nil {
		return f.fail(err)
	}

	payload := f.payload(values)
	var err error
	if f.mode == ModeCreate {
		err = f.client.Post(ctx, f.endpoint, payload, nil)
	} else {
		err = f.client.Put(ctx, api.ByID(f.endpoint, f.id), payload, nil)
	}
	if err != nil {
		return f.fail(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeCreate {
		f.values = f.defaults()
		f.state = FormSuccess
		return Notice{
			Kind:       NoticeSuccess,
			Text:       fmt.Sprintf("%s created successfully", f.name),
			ClearAfter: f.timing.ClearAfter,
		}, nil
	}

	f.values = values
	f.state = FormRedirecting
	return Notice{
		Kind:          NoticeSuccess,
		Text:          fmt.Sprintf("%s updated successfully", f.name),
		Redirect:      &Route{View: ViewDetail, Resource: f.plural, ID: f.id},
		RedirectAfter: f.timing.RedirectAfter,
	}, nil
}

func (f *FormController) fail(err error) (Notice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = FormEditing
	f.err = err
	verb := "create"
	if f.mode == ModeEdit {
		verb = "update"
	}
	return Notice{
		Kind: NoticeError,
		Text: fmt.Sprintf("Failed to %s %s: %s", verb, strings.ToLower(f.name), api.Message(err)),
	}, err
}

// uploadImages replaces local paths in image fields with uploaded URLs.
// Values unchanged since the record was fetched are sent as they are.
func (f *FormController) uploadImages(ctx context.Context, values map[string]string) error {
	for _, field := range f.Fields() {
		if field.Kind != FieldImage || !upload.IsLocalPath(values[field.Key]) {
			continue
		}
		if seeded, ok := f.seeded[field.Key]; ok && seeded == values[field.Key] {
			continue
		}
		url, err := upload.File(ctx, f.uploads, f.schema.UploadPrefix, strings.TrimSpace(values[field.Key]))
		if err != nil {
			return err
		}
		values[field.Key] = url

		f.mu.Lock()
		f.values[field.Key] = url
		f.mu.Unlock()
	}
	return nil
}

func (f *FormController) defaults() map[string]string {
	values := make(map[string]string, len(f.schema.Fields))
	for _, field := range f.schema.Fields {
		values[field.Key] = field.Default
	}
	return values
}

// seedValues renders a record's JSON fields as form strings
func seedValues(schema *FormSchema, record any) (map[string]string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	values := make(map[string]string, len(schema.Fields))
	for _, field := range schema.Fields {
		if field.Kind == FieldSecret {
			values[field.Key] = ""
			continue
		}
		v, ok := raw[field.Key]
		if !ok || v == nil {
			values[field.Key] = field.Default
			continue
		}
		values[field.Key] = formatValue(v)
	}
	return values, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, formatValue(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}

// parseNumber returns 0 for anything that is not a number
func parseNumber(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// parseInteger truncates numeric input toward zero; anything that is not a
// number or does not fit an int is 0
func parseInteger(raw string) int {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	n := parseNumber(raw)
	if n >= math.MaxInt || n <= math.MinInt {
		return 0
	}
	return int(n)
}

func splitList(raw string) []string {
	items := []string{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
