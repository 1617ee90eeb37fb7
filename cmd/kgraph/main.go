// Copyright 2025 Kgraph Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kgraph-io/kgraph/internal/config"
	"github.com/kgraph-io/kgraph/internal/graph"
	"github.com/kgraph-io/kgraph/internal/hadoop"
	"github.com/kgraph-io/kgraph/internal/orchestrator"
	"github.com/kgraph-io/kgraph/internal/queue"
	"github.com/kgraph-io/kgraph/internal/router"
	"github.com/kgraph-io/kgraph/internal/server/http"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/kgraph-io/kgraph/pkg/version"
	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "kgraph",
	Short: "Knowledge graph build service",
	Run: func(cmd *cobra.Command, args []string) {
		run()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "conf", "conf.d", "config directory, e.g. --conf ./conf.d")
	rootCmd.AddCommand(version.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() {
	appConf := config.ProvideConf(configDir)

	log.MustInit(&appConf.Log)

	redisClient := config.ProvideRedisClient(appConf)
	queueConf := config.ProvideQueueConfig(appConf, redisClient)

	dispatcher, err := queue.NewDispatcher(queueConf)
	if err != nil {
		log.Fatalf("create dispatcher: %v", err)
	}
	defer dispatcher.Close()

	hadoopClient := hadoop.NewClient(config.ProvideHadoopConfig(appConf))

	store := orchestrator.NewStore()
	orc := orchestrator.ProvideOrchestrator(store, dispatcher, hadoop.Pipeline(hadoopClient), orchestrator.ProvideCollector())

	// 终态任务定期清理
	if appConf.Retention.SweepInterval > 0 && appConf.Retention.MaxAgeHours > 0 {
		stopSweeper := orc.StartSweeper(
			time.Duration(appConf.Retention.SweepInterval)*time.Minute,
			time.Duration(appConf.Retention.MaxAgeHours)*time.Hour,
		)
		defer stopSweeper()
	}

	// 队列消费端，消费下游图谱构建任务
	if appConf.TaskQueue.Enabled {
		queueServer, err := queue.NewServer(queueConf)
		if err != nil {
			log.Fatalf("create queue server: %v", err)
		}
		if err := queue.RegisterGraphHandlers(queueServer, graph.NewBuilder(hadoopClient)); err != nil {
			log.Fatalf("register graph handlers: %v", err)
		}
		if err := queueServer.Start(); err != nil {
			log.Fatalf("start queue server: %v", err)
		}
		defer queueServer.Shutdown()
	}

	httpConf := config.ProvideHttpConfig(appConf)
	engine := http.NewHTTPEngine(httpConf, router.NewRouter(orc).Register)
	httpClean := http.NewHTTP(httpConf, engine)

	code := 1
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

EXIT:
	for {
		sig := <-sc
		log.Infow("received signal", "signal", sig.String())
		switch sig {
		case syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
			code = 0
			break EXIT
		case syscall.SIGHUP:
			// 配置文件热加载由 viper watch 处理
		default:
			break EXIT
		}
	}

	httpClean()
	log.Info("server exit")
	os.Exit(code)
}
