package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/landchain/landchain/internal/client/client"
	"github.com/landchain/landchain/internal/client/config"
	"github.com/landchain/landchain/internal/server/dto"
	"github.com/landchain/landchain/internal/server/models"
)

// apiClient is the part of client.Client the commands use.
type apiClient interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*client.RegisterResult, error)
	Login(ctx context.Context, req dto.LoginRequest) (*client.LoginResult, error)
	Dashboard(ctx context.Context, role models.Role) (*models.Dashboard, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
}

type App struct {
	config  *config.Config
	api     apiClient
	reader  *bufio.Reader
	out     io.Writer
	session *client.LoginResult
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.New(c.ServerURL, c.Timeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return "(" + a.session.Username + " " + a.session.Role + ")"
}

// Run checks the server once and then hands the terminal to the REPL.
func (a *App) Run(ctx context.Context) {
	if err := a.api.Ping(ctx); err != nil {
		printlnFn("Warning:", err.Error())
	}
	printlnFn("Welcome to LandChain CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
