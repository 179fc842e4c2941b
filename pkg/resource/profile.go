package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
	"github.com/marketdesk/marketdesk-terminal/pkg/models"
)

// ProfileUpdate is the editable part of the signed-in admin
type ProfileUpdate struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// FetchProfile returns the admin the session belongs to
func FetchProfile(ctx context.Context, client *api.Client) (models.Admin, error) {
	var resp struct {
		Success bool         `json:"success"`
		Admin   models.Admin `json:"admin"`
	}
	if err := client.Get(ctx, api.PathAdminMe, &resp); err != nil {
		return models.Admin{}, &LoadError{Subject: "profile", Err: err}
	}
	if !resp.Success || resp.Admin.ID == "" {
		return models.Admin{}, &LoadError{Subject: "profile", Err: api.ErrUnexpectedShape}
	}
	return resp.Admin, nil
}

// UpdateProfile saves name, email and phone number for the admin with id
func UpdateProfile(ctx context.Context, client *api.Client, id string, update ProfileUpdate) (models.Admin, error) {
	update.Name = strings.TrimSpace(update.Name)
	update.Email = strings.TrimSpace(update.Email)
	update.PhoneNumber = strings.TrimSpace(update.PhoneNumber)

	var missing []string
	if update.Name == "" {
		missing = append(missing, "Name")
	}
	if update.Email == "" {
		missing = append(missing, "Email")
	}
	if len(missing) > 0 {
		return models.Admin{}, fmt.Errorf("%w: %s", ErrRequired, strings.Join(missing, ", "))
	}

	var resp struct {
		Success bool         `json:"success"`
		Admin   models.Admin `json:"admin"`
	}
	if err := client.Put(ctx, api.ByID(api.PathAdmins, id), update, &resp); err != nil {
		return models.Admin{}, fmt.Errorf("failed to update profile: %w", err)
	}
	if !resp.Success || resp.Admin.ID == "" {
		return models.Admin{}, fmt.Errorf("failed to update profile: %w", api.ErrUnexpectedShape)
	}
	return resp.Admin, nil
}
