package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/jack-weilage/bwrs/internal/client/api"
	"github.com/jack-weilage/bwrs/internal/client/config"
	"github.com/jack-weilage/bwrs/internal/client/models"
	"github.com/jack-weilage/bwrs/internal/client/repositories/state"
	"github.com/jack-weilage/bwrs/internal/client/services"
	"github.com/jack-weilage/bwrs/internal/cryptox"
	"github.com/jack-weilage/bwrs/internal/logging"

	_ "modernc.org/sqlite"
)

// stateFile is the local sqlite database holding non-secret client state.
const stateFile = "bwrs.db"

// App wires the interactive surface to the auth service. It also acts as
// the SecondFactorPrompter for the login pipeline.
type App struct {
	config      *config.Config
	authService services.AuthService
	log         logging.Logger
	reader      *bufio.Reader

	// In-memory session for this process. The keys are wiped on logout
	// and on exit.
	email   string
	session *models.Session
	keys    *cryptox.Keys
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := state.InitDatabase(ctx, stateFile)
	if err != nil {
		log.Error(ctx, "error initializing state database", "error", err)
		return nil, err
	}
	states := state.NewSQLiteRepository(db)

	deviceID, err := services.EnsureDeviceIdentifier(ctx, states)
	if err != nil {
		return nil, err
	}

	device := models.DeviceInfo{
		Type:       models.DeviceTypeForOS(),
		Identifier: deviceID,
		Name:       c.DeviceName,
	}
	apiClient := api.NewHTTP(c.APIURL, c.IdentityURL, device, c.RequestTimeout, log)

	app := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin)}
	app.authService = services.NewAuthService(apiClient, states, app, log)
	return app, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.dropKeys()
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

// dropKeys wipes and forgets the in-memory key material.
func (a *App) dropKeys() {
	if a.keys != nil {
		a.keys.Wipe()
		a.keys = nil
	}
	a.session = nil
	a.email = ""
}
