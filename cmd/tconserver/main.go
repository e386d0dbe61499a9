/*
Tconserver starts a TunaCon server and begins listening for new connections.

Usage:

	tconserver [flags]
	tconserver [flags] -l [[ADDRESS]:PORT]

Once started, the TunaCon server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This can
be changed with the --listen/-l flag (or config via environment var). The flag
argument must be either a full address with port, such as "192.168.0.2:6001", or
just the port preceeded by a colon, such as ":6001".

Environment variables are read from the process and from a .env file in the
current directory if one exists. Flags override environment variables.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
either CLI flags or environment variable if running in production.

If the DB has no accounts when the server starts, an account called "admin" is
created with a random password. The password is written to the log once and is
not shown again.

The flags are:

	-v, --version
		Give the current version of the TunaCon server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		TUNACON_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable TUNACON_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable TUNACON_DATABASE. If neither is
		given, an in-memory database is used.

	-f, --defs FILE
		Load the console's commands, variables, and enumerations from the given
		TCD file. If not given, will default to the value of environment
		variable TUNACON_DEFS. If neither is given, the console starts with
		only the built-in commands.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/dekarrin/tunacon/internal/version"
	"github.com/dekarrin/tunacon/server"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates that the flags or environment were not valid.
	ExitUsageError

	// ExitInitError indicates that the server could not be started.
	ExitInitError
)

// EnvPrefix is the prefix of every environment variable that is read.
const EnvPrefix = "TUNACON_"

// environment is the configuration that can be given with environment
// variables.
type environment struct {
	Listen string `env:"LISTEN_ADDRESS"`
	Secret string `env:"TOKEN_SECRET"`
	DB     string `env:"DATABASE"`
	Defs   string `env:"DEFS"`

	// UnauthDelayMillis is not settable by flag.
	UnauthDelayMillis int `env:"UNAUTH_DELAY_MS"`
}

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of TunaCon server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagDefs    = pflag.StringP("defs", "f", "", "Load console definitions from the given TCD file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (TunaCon v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(ExitUsageError)
	}

	if err := godotenv.Load(); err != nil {
		log.Printf("DEBUG No .env file loaded: %v", err)
	}

	var envCfg environment
	if err := env.ParseWithOptions(&envCfg, env.Options{Prefix: EnvPrefix}); err != nil {
		fmt.Fprintf(os.Stderr, "Could not read environment: %s\n", err)
		os.Exit(ExitUsageError)
	}
	if pflag.Lookup("listen").Changed {
		envCfg.Listen = *flagListen
	}
	if pflag.Lookup("secret").Changed {
		envCfg.Secret = *flagSecret
	}
	if pflag.Lookup("db").Changed {
		envCfg.DB = *flagDB
	}
	if pflag.Lookup("defs").Changed {
		envCfg.Defs = *flagDefs
	}

	addr, port, err := parseListenAddress(envCfg.Listen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitUsageError)
	}

	cfg := server.Config{
		DefsPath:          envCfg.Defs,
		UnauthDelayMillis: envCfg.UnauthDelayMillis,
	}

	if envCfg.DB != "" {
		cfg.DB, err = server.ParseDBConnString(envCfg.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err)
			os.Exit(ExitUsageError)
		}
	}

	cfg.TokenSecret, err = tokenSecret(envCfg.Secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(ExitUsageError)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Printf("FATAL could not start server: %s", err.Error())
		os.Exit(ExitInitError)
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	// create the admin user so we have someone we can log in as.
	adminPass, err := srv.EnsureAdmin(context.Background())
	if err != nil {
		log.Printf("FATAL could not create initial admin user: %v", err)
		os.Exit(ExitInitError)
	}
	if adminPass != "" {
		log.Printf("INFO  Added initial user %q with password %q", server.AdminUsername, adminPass)
	}

	log.Printf("INFO  Starting TunaCon server %s...", version.ServerCurrent)
	srv.ServeForever(addr, port)
}

// parseListenAddress splits a listen address in ADDRESS:PORT or :PORT format.
// An empty listen address gives the zero values.
func parseListenAddress(listen string) (addr string, port int, err error) {
	if listen == "" {
		return "", 0, nil
	}

	bindParts := strings.SplitN(listen, ":", 2)
	if len(bindParts) != 2 {
		return "", 0, fmt.Errorf("listen address is not in ADDRESS:PORT or :PORT format")
	}

	port, err = strconv.Atoi(bindParts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", bindParts[1])
	}

	return bindParts[0], port, nil
}

// tokenSecret gives the secret to sign tokens with. A given secret is repeated
// until it is at least server.MinSecretSize bytes. An empty one is replaced by
// random bytes.
func tokenSecret(given string) ([]byte, error) {
	if given == "" {
		// use all possible bytes if doing a generated secret
		secret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("could not generate token secret: %w", err)
		}

		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
		return secret, nil
	}

	secret := []byte(given)
	for len(secret) < server.MinSecretSize {
		secret = append(secret, secret...)
	}

	if len(secret) > server.MaxSecretSize {
		// keys would be chopped at 64, so rather than the user thinking they
		// have more security by giving a longer key, refuse to start.
		return nil, fmt.Errorf("token secret is %d bytes, but it must be <= %d bytes", len(secret), server.MaxSecretSize)
	}

	return secret, nil
}
