package resource

import (
	"context"
	"encoding/json"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/marketdesk/marketdesk-terminal/pkg/api"
)

// Stats are the headline counts on the dashboard
type Stats struct {
	Users      int `json:"users" yaml:"users"`
	Properties int `json:"properties" yaml:"properties"`
	Items      int `json:"items" yaml:"items"`
	Admins     int `json:"admins" yaml:"admins"`
}

// Counts returns the stats in display order
func (s Stats) Counts() []Count {
	return []Count{
		{Label: "Users", Value: s.Users},
		{Label: "Properties", Value: s.Properties},
		{Label: "Items", Value: s.Items},
		{Label: "Admins", Value: s.Admins},
	}
}

// FetchCounts reads the four collections concurrently. Any failed read
// fails the whole result; a response that is not an array counts as 0.
func FetchCounts(ctx context.Context, client *api.Client) (Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	targets := []struct {
		path string
		dst  *int
	}{
		{api.PathUsers, &stats.Users},
		{api.PathProperties, &stats.Properties},
		{api.PathItems, &stats.Items},
		{api.PathAdmins, &stats.Admins},
	}
	for _, target := range targets {
		target := target
		g.Go(func() error {
			n, err := countCollection(ctx, client, target.path)
			if err != nil {
				return err
			}
			*target.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Stats{}, &LoadError{Subject: "dashboard data", Err: err}
	}
	return stats, nil
}

func countCollection(ctx context.Context, client *api.Client, path string) (int, error) {
	records, err := api.GetList[json.RawMessage](ctx, client, path)
	if errors.Is(err, api.ErrUnexpectedShape) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
