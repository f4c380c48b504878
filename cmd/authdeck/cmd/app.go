package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/albin6/authdeck/client"
	"github.com/albin6/authdeck/internal/util"
	"github.com/albin6/authdeck/session"
	"github.com/albin6/authdeck/storage"
	bboltstorage "github.com/albin6/authdeck/storage/bbolt"
	"github.com/albin6/authdeck/storage/sealed"
)

// sealPassphraseEnv names the environment variable that, when set,
// encrypts the token store at rest.
const sealPassphraseEnv = "AUTHDECK_SEAL_PASSPHRASE"

// app bundles the wiring every command needs: the on-disk token store,
// the HTTP client, and the session controller.
type app struct {
	backend *bboltstorage.Backend
	store   *storage.TokenStore
	client  *client.Client
	ctrl    *session.Controller
}

func newApp() (*app, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	backend, err := bboltstorage.NewBackendFromFile(filepath.Join(dataDir, "session.db"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open session storage: %w", err)
	}

	storeOpts := []storage.Option{}
	if pass := os.Getenv(sealPassphraseEnv); pass != "" {
		box, err := openSealBox(pass)
		if err != nil {
			backend.Close()
			return nil, err
		}
		storeOpts = append(storeOpts, storage.WithBox(box))
	}
	store := storage.NewTokenStore(backend, storeOpts...)

	a := &app{backend: backend, store: store}
	a.client = client.New(serverURL, store,
		client.WithLogger(slog.Default()),
		client.WithOnUnauthorized(func() {
			if a.ctrl != nil {
				a.ctrl.HandleUnauthorized()
			}
		}),
	)
	a.ctrl = session.NewController(a.client, store,
		session.WithLogger(slog.Default()),
		session.WithNotifier(terminalNotifier),
	)
	return a, nil
}

func (a *app) Close() {
	if err := a.backend.Close(); err != nil {
		slog.Warn("closing session storage failed", slog.String("error", err.Error()))
	}
}

// openSealBox derives the sealing key from the passphrase and a salt
// persisted next to the database. The salt is created on first use.
func openSealBox(passphrase string) (*sealed.Box, error) {
	saltPath := filepath.Join(dataDir, "seal.salt")
	salt, err := os.ReadFile(saltPath)
	switch {
	case err == nil:
		if len(salt) != sealed.SaltLen {
			return nil, fmt.Errorf("corrupt salt file %s: %d bytes", saltPath, len(salt))
		}
	case os.IsNotExist(err):
		salt, err = sealed.NewSalt()
		if err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		if err := os.WriteFile(saltPath, salt, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write salt file: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read salt file: %w", err)
	}

	return sealed.NewBox(passphrase, salt, util.DefaultArgon2idParams())
}

// terminalNotifier renders controller notifications on stderr so that
// command output on stdout stays scriptable.
var terminalNotifier = session.NotifierFunc(func(n session.Notification) {
	prefix := "\x1b[32m✔\x1b[0m"
	if n.Variant == session.VariantDestructive {
		prefix = "\x1b[31m✘\x1b[0m"
	}
	fmt.Fprintf(os.Stderr, "%s %s: %s\n", prefix, n.Title, n.Description)
})
