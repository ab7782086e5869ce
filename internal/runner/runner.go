// Package runner wires configuration, credentials, the AppSync client and the
// run journal together for the command-line tools.
package runner

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/raulc0399/arcane-kitchen/internal/appsync"
	"github.com/raulc0399/arcane-kitchen/internal/awsauth"
	"github.com/raulc0399/arcane-kitchen/internal/config"
	"github.com/raulc0399/arcane-kitchen/internal/journal"
	"github.com/raulc0399/arcane-kitchen/internal/kitchen"
	"github.com/raulc0399/arcane-kitchen/internal/logging"
)

// Env is everything a tool needs for one run
type Env struct {
	Script  string
	Config  config.Config
	Logger  logging.Logger
	Client  *appsync.Client
	Kitchen *kitchen.Kitchen
	Run     journal.Run

	store    journal.Store
	identity awsauth.IdentityAPI
}

type options struct {
	credentials aws.CredentialsProvider
	identity    awsauth.IdentityAPI
	store       journal.Store
	httpClient  *http.Client
	logger      logging.Logger
}

// Option overrides one dependency, mostly for tests
type Option func(*options)

// WithCredentials skips profile loading and signs with provider
func WithCredentials(provider aws.CredentialsProvider) Option {
	return func(o *options) { o.credentials = provider }
}

// WithIdentity sets the STS client used for the identity banner
func WithIdentity(api awsauth.IdentityAPI) Option {
	return func(o *options) { o.identity = api }
}

// WithStore replaces the journal configured by JOURNAL_DRIVER
func WithStore(store journal.Store) Option {
	return func(o *options) { o.store = store }
}

// WithHTTPClient replaces the HTTP client of the AppSync client
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger replaces the stderr logger
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Build creates the environment for the named tool
func Build(ctx context.Context, script string, opts ...Option) (*Env, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	envFiles := config.LoadEnv("")

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogger(script)
	}
	envFiles.Log(logger)

	cfg, err := config.Load(script)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	credentials, identity, err := buildCredentials(ctx, cfg, o)
	if err != nil {
		return nil, err
	}

	if cfg.UserPoolID != "" {
		token, err := awsauth.CognitoToken(ctx, cfg.UserPoolID, cfg.UserPoolClientID)
		if err != nil {
			logger.Warn("User pool token unavailable", logging.F("error", err))
		} else if token == "" {
			logger.Debug("No user pool token, signing with IAM", logging.F("userPoolId", cfg.UserPoolID))
		}
	}

	store, run := buildJournal(ctx, script, cfg, o.store, logger)

	clientOpts := []appsync.Option{
		appsync.WithLogger(logger),
		appsync.WithRecorder(run),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, appsync.WithHTTPClient(o.httpClient))
	}

	client, err := appsync.NewClient(appsync.Config{
		Endpoint: cfg.Endpoint,
		Region:   cfg.Region,
		Timeout:  cfg.ReadTimeout,
	}, credentials, clientOpts...)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to build AppSync client: %w", err)
	}

	logger.Debug("Environment ready",
		logging.F("endpoint", client.Endpoint()),
		logging.F("region", cfg.Region),
		logging.F("runId", run.ID()))

	return &Env{
		Script: script,
		Config: cfg,
		Logger: logger,
		Client: client,
		Kitchen: kitchen.New(client, kitchen.Timeouts{
			Read:    cfg.ReadTimeout,
			Message: cfg.MessageTimeout,
		}),
		Run:      run,
		store:    store,
		identity: identity,
	}, nil
}

func buildCredentials(ctx context.Context, cfg config.Config, o *options) (aws.CredentialsProvider, awsauth.IdentityAPI, error) {
	if o.credentials != nil {
		return o.credentials, o.identity, nil
	}

	awsCfg, err := awsauth.LoadConfig(ctx, cfg.Profile, cfg.Region)
	if err != nil {
		return nil, nil, err
	}

	identity := o.identity
	if identity == nil {
		identity = awsauth.NewIdentityClient(awsCfg)
	}
	return awsCfg.Credentials, identity, nil
}

// buildJournal never fails: a journal that cannot be opened degrades to a no-op
func buildJournal(ctx context.Context, script string, cfg config.Config, store journal.Store, logger logging.Logger) (journal.Store, journal.Run) {
	if store == nil {
		opened, err := journal.Open(cfg.JournalDriver, cfg.JournalDSN)
		if err != nil {
			logger.Warn("Journal unavailable, continuing without it",
				logging.F("driver", cfg.JournalDriver), logging.F("error", err))
			opened = journal.NoOpStore{}
		}
		store = opened
	}

	run, err := store.StartRun(ctx, script, map[string]interface{}{
		"endpoint": cfg.Endpoint,
		"region":   cfg.Region,
		"profile":  cfg.Profile,
	})
	if err != nil {
		logger.Warn("Failed to start journal run", logging.F("error", err))
		store.Close()
		store = journal.NoOpStore{}
		run, _ = store.StartRun(ctx, script, nil)
	}
	return store, run
}

// Banner prints the endpoint, region, user pool and signing identity
func (e *Env) Banner(ctx context.Context, w io.Writer) {
	fmt.Fprintf(w, "Endpoint: %s\n", e.Client.Endpoint())
	fmt.Fprintf(w, "Region: %s\n", e.Config.Region)
	if e.Config.UserPoolID != "" {
		fmt.Fprintf(w, "User Pool: %s\n", e.Config.UserPoolID)
	}

	if e.identity == nil {
		return
	}
	id, err := awsauth.WhoAmI(ctx, e.identity)
	if err != nil {
		e.Logger.Warn("Could not resolve signing identity", logging.F("error", err))
		return
	}
	fmt.Fprintf(w, "Signing as: %s\n", id.Arn)
}

// Finish closes the journal run with the tool's result and returns err unchanged
func (e *Env) Finish(ctx context.Context, err error) error {
	ctx = context.WithoutCancel(ctx)

	var journalErr error
	if err != nil {
		journalErr = e.Run.Fail(ctx, err.Error())
	} else {
		journalErr = e.Run.Complete(ctx)
	}
	if journalErr != nil {
		e.Logger.Warn("Failed to close journal run", logging.F("runId", e.Run.ID()), logging.F("error", journalErr))
	}
	if closeErr := e.store.Close(); closeErr != nil {
		e.Logger.Warn("Failed to close journal", logging.F("error", closeErr))
	}
	return err
}
