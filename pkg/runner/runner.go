// Package runner owns the account lifecycle: load the persisted
// session, connect, then activate the account's linked modules with
// the capability level its trust flags allow. Each account runs in its
// own goroutine and its failures never touch the other accounts.
package runner

import (
	"context"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/telehive/telehive/pkg/audit"
	"github.com/telehive/telehive/pkg/config"
	"github.com/telehive/telehive/pkg/manifest"
	"github.com/telehive/telehive/pkg/modcache"
	"github.com/telehive/telehive/pkg/protocol"
	"github.com/telehive/telehive/pkg/sandbox"
	"github.com/telehive/telehive/pkg/secrets"
	"github.com/telehive/telehive/pkg/session"
	"github.com/telehive/telehive/pkg/store"
)

// Loader executes a registered plugin against a client handle. The
// handle is already capability-decided: loaders never see the trust
// flags, only the handle they are allowed to pass on.
type Loader interface {
	Load(ctx context.Context, mod store.ActiveModule, client protocol.Client, man *manifest.Manifest) (modcache.Instance, error)
}

// Runner starts and stops account tasks.
type Runner struct {
	db       *gorm.DB
	cipher   secrets.Cipher
	accounts store.AccountsStore
	modules  store.ModulesStore
	dialer   protocol.Dialer
	loader   Loader
	cache    *modcache.Cache
	cfg      *config.HiveConfig

	mu      sync.Mutex
	clients map[int64]protocol.Client
}

func New(
	db *gorm.DB,
	cipher secrets.Cipher,
	accounts store.AccountsStore,
	modules store.ModulesStore,
	dialer protocol.Dialer,
	loader Loader,
	cache *modcache.Cache,
	cfg *config.HiveConfig,
) *Runner {
	return &Runner{
		db:       db,
		cipher:   cipher,
		accounts: accounts,
		modules:  modules,
		dialer:   dialer,
		loader:   loader,
		cache:    cache,
		cfg:      cfg,
		clients:  make(map[int64]protocol.Client),
	}
}

// Run starts every enabled account and blocks until all account tasks
// have returned. A failed account is logged and isolated; it never
// stops the others.
func (r *Runner) Run(ctx context.Context) error {
	accounts, err := r.accounts.ListAccounts()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	var wg sync.WaitGroup
	for i := range accounts {
		account := accounts[i]
		if !account.Enabled {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := r.StartAccount(ctx, &account)
			event := audit.RunEvent{AccountName: account.Name, Operation: "start", Success: err == nil}
			if err != nil {
				log.Printf("ERROR: account %q failed to start: %v", account.Name, err)
				event.ErrorMessage = err.Error()
			}
			audit.Log(event)
		}()
	}
	wg.Wait()

	<-ctx.Done()
	r.StopAll()
	return ctx.Err()
}

// StartAccount runs the startup sequence for one account: load session,
// dial, record the remote identity on first authentication, then
// activate the linked modules. A failure anywhere leaves the persisted
// session untouched; nothing derived is written until the step that
// produced it has fully succeeded.
func (r *Runner) StartAccount(ctx context.Context, account *store.Account) error {
	sess := session.New(r.db, r.cipher, account.ID)
	if err := sess.Load(ctx); err != nil {
		// A decryption failure means the stored key is unusable under
		// the current data key; the account needs re-authentication.
		return fmt.Errorf("failed to load session: %w", err)
	}

	client, err := r.dialer.Dial(ctx, sess, r.dialOptions(account))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	authorized, err := client.IsAuthorized(ctx)
	if err != nil {
		return fmt.Errorf("failed to check authorization: %w", err)
	}
	if !authorized {
		return fmt.Errorf("account %q is not authorized; log in first", account.Name)
	}

	if account.RemoteIdentityID == nil {
		self, err := client.Self(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch self: %w", err)
		}
		if err := r.accounts.SetRemoteIdentity(account.ID, self.ID); err != nil {
			return fmt.Errorf("failed to record remote identity: %w", err)
		}
	}

	r.mu.Lock()
	r.clients[account.ID] = client
	r.mu.Unlock()

	if err := r.activateModules(ctx, account, client); err != nil {
		return err
	}

	log.Printf("account %q started", account.Name)
	return nil
}

func (r *Runner) dialOptions(account *store.Account) protocol.DialOptions {
	opts := protocol.DialOptions{
		APIID:         account.APIID,
		APIHash:       account.APIHash,
		DeviceModel:   account.DeviceModel,
		SystemVersion: account.SystemVersion,
		AppVersion:    account.AppVersion,
		LangCode:      account.LangCode,
	}
	if opts.DeviceModel == "" {
		opts.DeviceModel = r.cfg.DeviceModel
	}
	if opts.SystemVersion == "" {
		opts.SystemVersion = r.cfg.SystemVersion
	}
	if opts.AppVersion == "" {
		opts.AppVersion = r.cfg.AppVersion
	}
	if opts.LangCode == "" {
		opts.LangCode = r.cfg.DefaultLangCode
	}
	if account.Proxy != nil {
		opts.Proxy = &protocol.ProxyOptions{
			Type:     account.Proxy.Type,
			Host:     account.Proxy.Host,
			Port:     account.Proxy.Port,
			Username: account.Proxy.Username,
			Password: account.Proxy.Password,
		}
	}
	return opts
}

func (r *Runner) activateModules(ctx context.Context, account *store.Account, client protocol.Client) error {
	active, err := r.modules.ActiveModules(account.ID)
	if err != nil {
		return fmt.Errorf("failed to list active modules: %w", err)
	}

	for _, mod := range active {
		if err := r.activateModule(ctx, account, client, mod); err != nil {
			log.Printf("WARN: account %q: module %q not activated: %v", account.Name, mod.Name, err)
		}
	}
	return nil
}

func (r *Runner) activateModule(ctx context.Context, account *store.Account, client protocol.Client, mod store.ActiveModule) error {
	man, err := manifest.ParseFile(mod.Path)
	if err != nil {
		return fmt.Errorf("manifest rejected: %w", err)
	}

	// A module demanding a raw handle only gets one if this account
	// explicitly trusts it. The module never decides for itself.
	handle := protocol.Client(nil)
	switch {
	case mod.Trusted:
		handle = client
	case man.Trusted:
		return fmt.Errorf("module requires trust but the link is untrusted")
	default:
		restricted, err := sandbox.NewRestricted(client)
		if err != nil {
			return fmt.Errorf("failed to restrict client: %w", err)
		}
		handle = restricted
	}

	mod.Config = mergeConfig(man.Config, mod.Config)

	instance, err := r.loader.Load(ctx, mod, handle, man)
	if err != nil {
		return fmt.Errorf("failed to load: %w", err)
	}

	return r.cache.Put(modcache.Key{AccountID: account.ID, Module: mod.Name}, instance)
}

// mergeConfig overlays the link's stored configuration on the
// manifest's declared defaults.
func mergeConfig(defaults, stored map[string]any) map[string]any {
	if len(defaults) == 0 {
		return stored
	}
	merged := make(map[string]any, len(defaults)+len(stored))
	for key, value := range defaults {
		merged[key] = value
	}
	for key, value := range stored {
		merged[key] = value
	}
	return merged
}

// StopAccount evicts the account's module instances and disconnects
// its client.
func (r *Runner) StopAccount(accountID int64) error {
	if err := r.cache.EvictAccount(accountID); err != nil {
		log.Printf("WARN: account %d: module close failed: %v", accountID, err)
	}

	r.mu.Lock()
	client, ok := r.clients[accountID]
	delete(r.clients, accountID)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	return client.Disconnect()
}

// StopAll stops every running account.
func (r *Runner) StopAll() {
	r.mu.Lock()
	ids := make([]int64, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		if err := r.StopAccount(id); err != nil {
			log.Printf("WARN: account %d: disconnect failed: %v", id, err)
		}
	}
}

// Client returns the live handle for a started account, if any. Used
// by operator tooling, never handed to plugin code directly.
func (r *Runner) Client(accountID int64) (protocol.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[accountID]
	return client, ok
}
