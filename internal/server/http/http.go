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

package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/kgraph-io/kgraph/pkg/httpx"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/kgraph-io/kgraph/pkg/version"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP http server 配置
type HTTP struct {
	Host            string
	Port            int
	Mode            string
	ContextPath     string
	PProf           bool
	ExposeMetrics   bool
	AccessLog       bool
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	TLS             TLS
}

type TLS struct {
	CertFile string
	KeyFile  string
}

// SetDefaults 填充缺省配置
func (c *HTTP) SetDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port <= 0 {
		c.Port = 8080
	}
	if c.Mode == "" {
		c.Mode = gin.ReleaseMode
	}
	if c.ContextPath == "" {
		c.ContextPath = "/api"
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 30
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10
	}
}

// NewHTTPEngine 创建 gin 引擎并挂载业务路由
func NewHTTPEngine(cfg *HTTP, register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(cfg.Mode)

	r := gin.New()
	// panic recover
	r.Use(gin.Recovery())

	if cfg.AccessLog {
		r.Use(gin.LoggerWithFormatter(httpx.AccessLogFormat))
	}

	if cfg.PProf {
		pprof.Register(r, "/debug/pprof")
	}

	if cfg.ExposeMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.GetVersion())
	})

	api := r.Group(cfg.ContextPath)
	{
		register(api)
	}

	return r
}

// NewHTTP 启动 http server，返回优雅关闭函数
func NewHTTP(cfg *HTTP, handler http.Handler) func() {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infow("http server started", "addr", addr)

		if cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "" {
			if err := srv.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil && err != http.ErrServerClosed {
				panic(err)
			}
		} else {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				panic(err)
			}
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*time.Duration(cfg.ShutdownTimeout))
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorw("http server shutdown error", "error", err)
			return
		}

		log.Info("http server exited")
	}
}
