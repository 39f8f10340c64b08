package google

import (
	"context"
	"fmt"

	"github.com/JaimeTPT/google-calendar-st-api/internal/config"
	"github.com/JaimeTPT/google-calendar-st-api/pkg/roster"
	log "github.com/sirupsen/logrus"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/option"
)

const directoryPageSize = 200

// Directory lists the Workspace accounts eligible for calendar mirroring.
type Directory interface {
	ListIdentities(ctx context.Context) ([]roster.WorkspaceIdentity, error)
}

type DirectoryImpl struct {
	auth     *Auth
	customer string
}

func NewDirectory(auth *Auth, cfg config.Google) *DirectoryImpl {
	return &DirectoryImpl{auth: auth, customer: cfg.Customer}
}

// ListIdentities pages through the Workspace user directory, ordered by
// email. Every identity in a fresh fetch is active; deactivation happens at
// roster merge time.
func (d *DirectoryImpl) ListIdentities(ctx context.Context) ([]roster.WorkspaceIdentity, error) {
	client, err := d.auth.client(ctx, d.auth.adminUser, admin.AdminDirectoryUserReadonlyScope)
	if err != nil {
		return nil, err
	}
	service, err := admin.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		err := fmt.Errorf("unable to create directory client: %w", err)
		log.Error(err)
		return nil, err
	}

	var identities []roster.WorkspaceIdentity
	pageToken := ""
	for {
		call := service.Users.List().
			Customer(d.customer).
			MaxResults(directoryPageSize).
			OrderBy("email")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		response, err := call.Context(ctx).Do()
		if err != nil {
			err := fmt.Errorf("unable to list workspace users: %w", err)
			log.Error(err)
			return nil, err
		}
		for _, user := range response.Users {
			name := ""
			if user.Name != nil {
				name = user.Name.FullName
			}
			identities = append(identities, roster.WorkspaceIdentity{
				Id:          user.Id,
				DisplayName: name,
				Email:       user.PrimaryEmail,
				Active:      true,
			})
		}
		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return identities, nil
}
