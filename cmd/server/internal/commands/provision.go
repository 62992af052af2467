package commands

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/assettrack/internal/auth"
	"github.com/wolfeidau/assettrack/internal/logger"
	"github.com/wolfeidau/assettrack/internal/models"
	"github.com/wolfeidau/assettrack/internal/store"
	postgresstore "github.com/wolfeidau/assettrack/internal/store/postgres"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ProvisionCmd creates an organization and a user inside it. This is the
// only way organizations and users come into existence; there is no
// self-service signup. If the organization slug already exists the user is
// added to the existing organization.
type ProvisionCmd struct {
	OrgName  string `help:"organization name" required:""`
	OrgSlug  string `help:"URL-safe organization slug" required:""`
	Email    string `help:"user email address" required:""`
	Password string `help:"user password" required:"" env:"ASSETTRACK_PROVISION_PASSWORD"`
	Role     string `help:"user role (informational only)" default:"admin" enum:"admin,member"`

	Postgres PostgresFlags `embed:"" prefix:"postgres-"`
}

func (c *ProvisionCmd) Validate() error {
	if !slugPattern.MatchString(c.OrgSlug) {
		return fmt.Errorf("organization slug must be lowercase letters, digits and hyphens")
	}
	return nil
}

func (c *ProvisionCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	pool, err := postgresstore.NewPool(ctx, &postgresstore.PoolConfig{
		ConnString: c.Postgres.ConnString,
	})
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if c.Postgres.AutoMigrate {
		if err := postgresstore.RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	orgs := postgresstore.NewOrganizationStore(pool)
	users := postgresstore.NewUserStore(pool)

	now := time.Now()
	org := &models.Organization{
		OrgID:     uuid.Must(uuid.NewV7()),
		Name:      c.OrgName,
		Slug:      c.OrgSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = orgs.Create(ctx, org)
	switch {
	case errors.Is(err, store.ErrOrganizationAlreadyExists):
		org, err = orgs.GetBySlug(ctx, c.OrgSlug)
		if err != nil {
			return fmt.Errorf("failed to load existing organization: %w", err)
		}
		log.Info().Str("slug", org.Slug).Msg("Organization already exists, adding user to it")
	case err != nil:
		return fmt.Errorf("failed to create organization: %w", err)
	default:
		log.Info().Str("org_id", org.OrgID.String()).Str("slug", org.Slug).Msg("Created organization")
	}

	digest, err := auth.HashPassword(c.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		UserID:         uuid.Must(uuid.NewV7()),
		OrgID:          org.OrgID,
		Email:          c.Email,
		PasswordDigest: digest,
		Role:           c.Role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return fmt.Errorf("user %s already exists", c.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Str("user_id", user.UserID.String()).
		Str("org_id", org.OrgID.String()).
		Str("email", user.Email).
		Msg("Created user")

	return nil
}
