package main

import "github.com/urfave/cli/v2"

var FlagLogLevel = &cli.StringFlag{
	Name:     "log-level",
	EnvVars:  []string{"LOG_LEVEL"},
	Value:    "info",
	Required: false,
}

var FlagLogWriter = &cli.StringFlag{
	Name:     "log-writer",
	EnvVars:  []string{"LOG_WRITER"},
	Value:    "console",
	Required: false,
}

var FlagConfig = &cli.StringFlag{
	Name:     "config",
	Usage:    "path to the node configuration document (json)",
	EnvVars:  []string{"MQTT_NODE_CONFIG"},
	Required: true,
}

var FlagConfigVersion = &cli.IntFlag{
	Name:     "config-version",
	Usage:    "schema version of the configuration document",
	EnvVars:  []string{"MQTT_NODE_CONFIG_VERSION"},
	Value:    0,
	Required: false,
}

var FlagServiceID = &cli.StringFlag{
	Name:     "service-id",
	Usage:    "deployment-unique service identifier, used for client id suffixing",
	EnvVars:  []string{"MQTT_NODE_SERVICE_ID"},
	Value:    "mqtt-node",
	Required: false,
}
