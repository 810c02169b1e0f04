package config

import (
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/secmon-lab/pulumi-connector/pkg/service/pulumi"
)

// Pulumi holds the connection settings against the Pulumi Cloud REST API.
// Flags and environment variables take precedence over the optional TOML
// config file.
type Pulumi struct {
	configFile   string
	token        string
	organization string
	baseURL      string

	connectTimeout time.Duration
	requestTimeout time.Duration

	proxyHost     string
	proxyPort     int
	proxyUser     string
	proxyPassword string
}

// fileConfig is the TOML shape of the connection settings.
type fileConfig struct {
	Token        string `toml:"token"`
	Organization string `toml:"organization"`
	BaseURL      string `toml:"base_url"`

	ConnectTimeout string `toml:"connect_timeout"`
	RequestTimeout string `toml:"request_timeout"`

	Proxy struct {
		Host     string `toml:"host"`
		Port     int    `toml:"port"`
		User     string `toml:"user"`
		Password string `toml:"password"`
	} `toml:"proxy"`
}

func (x *Pulumi) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Category:    "Pulumi",
			Usage:       "TOML file with connection settings (flags take precedence)",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_CONFIG"),
			Destination: &x.configFile,
		},
		&cli.StringFlag{
			Name:        "token",
			Category:    "Pulumi",
			Usage:       "Access token for the Pulumi REST API",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_TOKEN"),
			Destination: &x.token,
		},
		&cli.StringFlag{
			Name:        "organization",
			Aliases:     []string{"o"},
			Category:    "Pulumi",
			Usage:       "Organization name",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_ORGANIZATION"),
			Destination: &x.organization,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Category:    "Pulumi",
			Usage:       "API endpoint override (mainly for testing)",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.DurationFlag{
			Name:        "connect-timeout",
			Category:    "Pulumi",
			Usage:       "TCP connect timeout",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_CONNECT_TIMEOUT"),
			Destination: &x.connectTimeout,
		},
		&cli.DurationFlag{
			Name:        "request-timeout",
			Category:    "Pulumi",
			Usage:       "Whole-request timeout covering read and write",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_REQUEST_TIMEOUT"),
			Destination: &x.requestTimeout,
		},
		&cli.StringFlag{
			Name:        "proxy-host",
			Category:    "Pulumi",
			Usage:       "HTTP proxy host",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_PROXY_HOST"),
			Destination: &x.proxyHost,
		},
		&cli.IntFlag{
			Name:        "proxy-port",
			Category:    "Pulumi",
			Usage:       "HTTP proxy port",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_PROXY_PORT"),
			Destination: &x.proxyPort,
		},
		&cli.StringFlag{
			Name:        "proxy-user",
			Category:    "Pulumi",
			Usage:       "HTTP proxy user",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_PROXY_USER"),
			Destination: &x.proxyUser,
		},
		&cli.StringFlag{
			Name:        "proxy-password",
			Category:    "Pulumi",
			Usage:       "HTTP proxy password",
			Sources:     cli.EnvVars("PULUMI_CONNECTOR_PROXY_PASSWORD"),
			Destination: &x.proxyPassword,
		},
	}
}

func (x Pulumi) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("organization", x.organization),
		slog.Int("token.len", len(x.token)),
		slog.String("base-url", x.baseURL),
		slog.Duration("connect-timeout", x.connectTimeout),
		slog.Duration("request-timeout", x.requestTimeout),
		slog.String("proxy-host", x.proxyHost),
	)
}

// mergeFile fills unset fields from the TOML config file.
func (x *Pulumi) mergeFile() error {
	if x.configFile == "" {
		return nil
	}

	data, err := os.ReadFile(x.configFile)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.V("path", x.configFile))
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", x.configFile))
	}

	if x.token == "" {
		x.token = fc.Token
	}
	if x.organization == "" {
		x.organization = fc.Organization
	}
	if x.baseURL == "" {
		x.baseURL = fc.BaseURL
	}
	if fc.ConnectTimeout != "" {
		d, err := time.ParseDuration(fc.ConnectTimeout)
		if err != nil {
			return goerr.Wrap(err, "invalid connect_timeout", goerr.V("value", fc.ConnectTimeout))
		}
		x.connectTimeout = d
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return goerr.Wrap(err, "invalid request_timeout", goerr.V("value", fc.RequestTimeout))
		}
		x.requestTimeout = d
	}
	if x.proxyHost == "" {
		x.proxyHost = fc.Proxy.Host
		x.proxyPort = fc.Proxy.Port
		x.proxyUser = fc.Proxy.User
		x.proxyPassword = fc.Proxy.Password
	}

	return nil
}

// Configure builds the REST client from the merged settings.
func (x *Pulumi) Configure() (*pulumi.Client, error) {
	if err := x.mergeFile(); err != nil {
		return nil, err
	}

	if x.token == "" {
		return nil, goerr.New("access token is required: set --token or PULUMI_CONNECTOR_TOKEN")
	}
	if x.organization == "" {
		return nil, goerr.New("organization is required: set --organization or PULUMI_CONNECTOR_ORGANIZATION")
	}

	var options []pulumi.Option
	if x.baseURL != "" {
		options = append(options, pulumi.WithBaseURL(x.baseURL))
	}

	if x.proxyHost != "" {
		proxyURL := &url.URL{
			Scheme: "http",
			Host:   x.proxyHost,
		}
		if x.proxyPort != 0 {
			proxyURL.Host = net.JoinHostPort(x.proxyHost, strconv.Itoa(x.proxyPort))
		}
		if x.proxyUser != "" {
			proxyURL.User = url.UserPassword(x.proxyUser, x.proxyPassword)
		}
		options = append(options, pulumi.WithProxy(proxyURL, x.connectTimeout, x.requestTimeout))
	} else {
		options = append(options, pulumi.WithTimeouts(x.connectTimeout, x.requestTimeout))
	}

	token := x.token
	return pulumi.New(x.organization, func() string { return token }, options...)
}
