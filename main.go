package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/xalt7x/thingsboard/adapters"
	"github.com/xalt7x/thingsboard/application"
)

var Flags = []cli.Flag{
	FlagLogLevel,
	FlagLogWriter,
	FlagConfig,
	FlagConfigVersion,
	FlagServiceID,
}

// cliNodeContext is the pipeline boundary for the CLI runner: outcomes are
// reported to the log.
type cliNodeContext struct {
	tenantID  uuid.UUID
	nodeID    uuid.UUID
	serviceID string

	log zerolog.Logger
}

func (c *cliNodeContext) TenantID() uuid.UUID { return c.tenantID }
func (c *cliNodeContext) NodeID() uuid.UUID   { return c.nodeID }
func (c *cliNodeContext) ServiceID() string   { return c.serviceID }

func (c *cliNodeContext) TellSuccess(msg application.Message) {
	c.log.Info().Str("msg_id", msg.ID.String()).Msg("published")
}

func (c *cliNodeContext) TellFailure(msg application.Message, cause error) {
	c.log.Error().Str("msg_id", msg.ID.String()).Str("error", msg.Metadata["error"]).Msg("publish failed")
}

var _ application.NodeContext = &cliNodeContext{}

// loadNodeConfig reads the configuration document, upgrades it to the
// current schema and parses it over the defaults.
func loadNodeConfig(path string, fromVersion int, log zerolog.Logger) (application.NodeConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return application.NodeConfig{}, fmt.Errorf("read config: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return application.NodeConfig{}, fmt.Errorf("parse config: %w", err)
	}

	changed, doc := application.UpgradeConfig(fromVersion, doc)
	if changed {
		log.Info().Int("from_version", fromVersion).Msg("config document upgraded")
	}

	upgraded, err := json.Marshal(doc)
	if err != nil {
		return application.NodeConfig{}, fmt.Errorf("marshal upgraded config: %w", err)
	}

	config := application.DefaultNodeConfig()
	if err := json.Unmarshal(upgraded, &config); err != nil {
		return application.NodeConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func main() {
	var logger zerolog.Logger

	app := cli.App{
		Name:    "mqtt-node",
		Version: "v0.1.0",
		Flags:   Flags,
		Before: func(ctx *cli.Context) error {
			var logWriter io.Writer
			if ctx.String(FlagLogWriter.Name) == "console" {
				logWriter = zerolog.ConsoleWriter{
					Out:        os.Stderr,
					TimeFormat: time.RFC3339Nano,
				}
			} else if ctx.String(FlagLogWriter.Name) == "json" {
				logWriter = os.Stderr
			}

			logger = zerolog.New(logWriter).With().Timestamp().
				Str("service", "mqtt-node").
				Str("module", "main").
				Logger()

			level, err := zerolog.ParseLevel(ctx.String(FlagLogLevel.Name))
			if err != nil {
				return err
			}

			zerolog.SetGlobalLevel(level)

			return nil
		},
		Action: func(ctx *cli.Context) error {
			logger.Info().Msg("service starting...")

			appCtx, cancel := context.WithCancel(logger.WithContext(context.Background()))
			go func() {
				c := make(chan os.Signal, 1)
				signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

				<-c

				logger.Warn().Msg("interrupt signal received")
				cancel()
			}()

			config, err := loadNodeConfig(ctx.String(FlagConfig.Name), ctx.Int(FlagConfigVersion.Name), logger)
			if err != nil {
				return err
			}

			node, err := application.NewMQTTNode(application.MQTTNodeParams{
				ClientFactory: func(clientConfig application.MQTTClientConfig) application.MQTTClient {
					return adapters.NewMQTTClientFromConfig(clientConfig,
						logger.With().Str("module", "mqtt-client").Logger())
				},
				Log: logger.With().Str("module", "mqtt-node").Logger(),
			})
			if err != nil {
				return err
			}

			nodeCtx := &cliNodeContext{
				tenantID:  uuid.New(),
				nodeID:    uuid.New(),
				serviceID: ctx.String(FlagServiceID.Name),
				log:       logger.With().Str("module", "pipeline").Logger(),
			}

			if err := node.Init(nodeCtx, config); err != nil {
				return err
			}
			defer node.Destroy()

			// each stdin line becomes one message
			messages := make(chan application.Message)
			go func() {
				defer close(messages)

				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					select {
					case messages <- application.NewMessage(scanner.Text(), nil):
					case <-appCtx.Done():
						return
					}
				}
			}()

			runner, err := application.NewNodeRunner(application.NodeRunnerParams{
				Node:     node,
				NodeCtx:  nodeCtx,
				Messages: messages,
				Log:      logger.With().Str("module", "runner").Logger(),
			})
			if err != nil {
				return err
			}

			logger.Info().Msg("service started")
			if err := runner.Run(appCtx); err != nil {
				return err
			}

			logger.Info().Msg("service terminating...")
			return nil
		},
		Authors: []*cli.Author{
			{
				Name: "xalt7x",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Err(err).Msg("service terminated")
	}
}
