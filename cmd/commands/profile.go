package commands

import (
	"github.com/spf13/cobra"

	"github.com/marketdesk/marketdesk-terminal/internal/cli"
	"github.com/marketdesk/marketdesk-terminal/pkg/resource"
)

var (
	profileName  string
	profileEmail string
	profilePhone string
)

// NewProfileCommand creates the profile command
func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your admin profile",
		Long: `Show the admin account the session belongs to. With any of --name,
--email or --phone, update those fields and keep the rest.

Examples:
  # Who am I
  marketdesk profile

  # Change the contact email
  marketdesk profile --email ops@example.com`,
		Args: cobra.NoArgs,
		RunE: runProfile,
	}

	cmd.Flags().StringVar(&profileName, "name", "", "New display name")
	cmd.Flags().StringVar(&profileEmail, "email", "", "New email address")
	cmd.Flags().StringVar(&profilePhone, "phone", "", "New phone number")

	return cmd
}

func runProfile(cmd *cobra.Command, args []string) error {
	cc, err := commandContext(cmd)
	if err != nil {
		return err
	}
	defer cc.Close()

	format, err := outputFormat(cmd, cc)
	if err != nil {
		return err
	}

	client, err := cc.Client()
	if err != nil {
		return err
	}
	admin, err := resource.FetchProfile(cmd.Context(), client)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("name") || flags.Changed("email") || flags.Changed("phone") {
		update := resource.ProfileUpdate{
			Name:        admin.Name,
			Email:       admin.Email,
			PhoneNumber: admin.PhoneNumber,
		}
		if flags.Changed("name") {
			update.Name = profileName
		}
		if flags.Changed("email") {
			update.Email = profileEmail
		}
		if flags.Changed("phone") {
			update.PhoneNumber = profilePhone
		}

		updated, err := resource.UpdateProfile(cmd.Context(), client, admin.ID, update)
		if err != nil {
			return err
		}
		admin = updated
		cli.PrintSuccess("Profile updated successfully")
		if format == "text" {
			return nil
		}
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json", "yaml":
		return cli.OutputResults(w, format, admin)
	}
	writeDetail(w, resource.Admins, admin)
	return nil
}
