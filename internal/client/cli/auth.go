package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/landchain/landchain/internal/client/client"
	"github.com/landchain/landchain/internal/common"
	"github.com/landchain/landchain/internal/server/dto"
	"github.com/landchain/landchain/internal/server/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in")

func roleChoices() string {
	names := make([]string, 0, len(models.Roles))
	for _, r := range models.Roles {
		names = append(names, string(r))
	}
	return strings.Join(names, "/")
}

// Register prompts for the registration form and prints the unique ID the
// server assigned. Validation errors come back from the server verbatim.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role ("+roleChoices()+")", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	res, err := a.api.Register(ctx, dto.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
		Role:            role,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, res.Message)
	fmt.Fprintf(a.out, "Your Unique ID: %s\n", res.UniqueID)
	return nil
}

// Login prompts for unique ID, role and password. On success the session
// cookie is kept by the client and the dashboard path is printed.
func (a *App) Login(ctx context.Context) error {
	uniqueID, err := getSimpleText(a.reader, "Enter unique ID", a.out)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Enter role ("+roleChoices()+")", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, dto.LoginRequest{UniqueID: uniqueID, Password: string(password), Role: role})
	if err != nil {
		return err
	}

	a.session = res
	fmt.Fprintf(a.out, "Welcome, %s! Dashboard: %s\n", res.Username, res.Redirect)
	return nil
}

// Dashboard shows the dashboard of the signed-in role. A refused session
// signs the CLI out.
func (a *App) Dashboard(ctx context.Context) error {
	if a.session == nil {
		return errNotLoggedIn
	}

	d, err := a.api.Dashboard(ctx, models.Role(a.session.Role))
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.session = nil
		}
		return err
	}

	fmt.Fprintf(a.out, "Dashboard (%s)\n  user: %s\n  unique id: %s\n", d.Role, d.Username, d.UniqueID)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if a.session == nil {
		return errNotLoggedIn
	}
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
