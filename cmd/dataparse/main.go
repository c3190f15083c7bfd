/*
Copyright 2023 Loggie Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/loggie-io/dataformat/cmd/subcmd"
	"github.com/loggie-io/dataformat/pkg/control"
	"github.com/loggie-io/dataformat/pkg/core/log"
	_ "github.com/loggie-io/dataformat/pkg/include"
)

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "dataparse.yml", "config file")
}

func main() {
	if err := subcmd.SwitchSubCommand(); err != nil {
		if err != subcmd.ErrExit {
			log.Fatal("%v", err)
		}
		return
	}

	flag.Parse()
	log.InitDefaultLogger()

	// Automatically set GOMAXPROCS to match Linux container CPU quota
	if _, err := maxprocs.Set(maxprocs.Logger(log.Debug)); err != nil {
		log.Fatal("set maxprocs error: %v", err)
	}
	log.Info("real GOMAXPROCS %d", runtime.GOMAXPROCS(-1))

	config, err := control.LoadConfig(configFile)
	if err != nil {
		log.Fatal("unpack config file %s error: %+v", configFile, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	controller, err := control.NewController(config, os.Stdout)
	if err != nil {
		log.Fatal("create controller error: %+v", err)
	}
	defer controller.Close()

	if config.Http.Enabled {
		go func() {
			if err := controller.ServeHttp(); err != nil {
				log.Fatal("http listen and serve err: %v", err)
			}
		}()
	}

	summary, err := controller.Run(ctx)
	if err != nil {
		log.Error("run stopped: %v", err)
	}
	if summary.Failed > 0 || err != nil {
		controller.Close()
		os.Exit(1)
	}
}
