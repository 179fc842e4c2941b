package commands

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
	"github.com/marketdesk/marketdesk-terminal/pkg/upload"
)

// formDocument renders the form's fields as an editable YAML mapping, in
// field order, with each field's label and constraints as a comment.
func formDocument(form *resource.FormController) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	values := form.Values()

	for _, field := range form.Fields() {
		key := &yaml.Node{
			Kind:        yaml.ScalarNode,
			Value:       field.Key,
			HeadComment: fieldComment(field),
		}
		value := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: values[field.Key],
		}
		if field.Kind == resource.FieldTextarea {
			value.Style = yaml.LiteralStyle
		}
		doc.Content = append(doc.Content, key, value)
	}

	var b strings.Builder
	action := "Edit"
	if form.Mode() == resource.ModeCreate {
		action = "New"
	}
	fmt.Fprintf(&b, "# %s %s. Save and close the editor to submit.\n", action, form.Name())
	fmt.Fprintf(&b, "# Leave the file unchanged to cancel.\n\n")

	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode form: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode form: %w", err)
	}
	return b.String(), nil
}

func fieldComment(field resource.Field) string {
	parts := []string{field.Label}
	if field.Required {
		parts = append(parts, "required")
	}
	switch field.Kind {
	case resource.FieldChoice:
		parts = append(parts, "one of: "+strings.Join(field.Options, ", "))
	case resource.FieldList:
		parts = append(parts, "comma separated")
	case resource.FieldBool:
		parts = append(parts, "true or false")
	case resource.FieldSecret:
		parts = append(parts, "leave blank to keep")
	case resource.FieldImage:
		parts = append(parts, "URL or local file path")
	}
	if field.Help != "" {
		parts = append(parts, field.Help)
	}
	return strings.Join(parts, " | ")
}

// parseFormDocument reads an edited document back into raw values
func parseFormDocument(content string) (map[string]string, error) {
	values := map[string]string{}
	if err := yaml.Unmarshal([]byte(content), &values); err != nil {
		return nil, fmt.Errorf("failed to parse edited form: %w", err)
	}
	for key, value := range values {
		values[key] = strings.TrimRight(value, "\n")
	}
	return values, nil
}

// changedValues returns the entries of after that differ from before
func changedValues(before, after map[string]string) map[string]string {
	changed := map[string]string{}
	for key, value := range after {
		if before[key] != value {
			changed[key] = value
		}
	}
	return changed
}

// submitError prefers the notice text, which names the entity and action
func submitError(notice resource.Notice, err error) error {
	if notice.Text == "" {
		return err
	}
	return errors.New(notice.Text)
}

// checkImagePaths fails early when an image field names a local file that
// is missing
func checkImagePaths(form *resource.FormController) error {
	for _, field := range form.Fields() {
		value := strings.TrimSpace(form.Value(field.Key))
		if field.Kind != resource.FieldImage || !upload.IsLocalPath(value) {
			continue
		}
		if err := cli.ValidateFilePath(value); err != nil {
			return fmt.Errorf("%s: %w", field.Label, err)
		}
	}
	return nil
}
