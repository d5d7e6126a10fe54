package main

import (
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/env"
	"github.com/x-xyz/settlement/base/log"
)

func init() {
	pflag.String("config", "configs/config.yaml", "config file")
	pflag.String("scenario", "configs/scenario.yaml", "scenario of operations to run")
	pflag.String("store.kind", "", "override store.kind (memory or mongo)")
}

// setup parses the flags and reads the config file they point at
func setup() {
	pflag.Parse()
	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		panic(err)
	}

	viper.SetDefault("app_name", env.AppName())
	viper.SetConfigType("yaml")
	viper.SetConfigFile(viper.GetString("config"))
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}

	if err := log.Configure(viper.GetBool(`debug`)); err != nil {
		panic(err)
	}
	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	setup()
	c := ctx.WithValues(ctx.Background(), map[string]interface{}{
		"app": viper.GetString("app_name"),
		"env": env.EnvName(),
	})

	cfg, err := loadEngineCfg()
	if err != nil {
		c.WithField("err", err).Panic("loadEngineCfg failed")
	}
	e, err := buildEngine(c, cfg, time.Now().UTC())
	if err != nil {
		c.WithField("err", err).Panic("buildEngine failed")
	}

	steps, err := loadScenario(viper.GetString("scenario"))
	if err != nil {
		c.WithField("err", err).Panic("loadScenario failed")
	}

	_, runErr := e.run(c, steps)
	if err := e.house.Close(); err != nil {
		c.WithField("err", err).Error("house.Close failed")
	}
	if runErr != nil {
		_ = log.Sync()
		os.Exit(1)
	}
	c.WithField("steps", len(steps)).Info("scenario done")
	_ = log.Sync()
}
