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

package hadoop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kgraph-io/kgraph/pkg/log"
	"github.com/kgraph-io/kgraph/pkg/retry"
	"github.com/pkg/errors"
)

// Client WebHDFS 客户端
// 目录操作和文件读写走 NameNode 的 WebHDFS REST 接口，
// 写入是两段式：NameNode 返回 307 重定向，数据写给 DataNode。
type Client struct {
	conf *Conf
	// rest 跟随重定向，用于读和元数据操作
	rest *resty.Client
	// restNoRedirect 不跟随重定向，用于拿到 DataNode 写入地址
	restNoRedirect *resty.Client
}

// NewClient 创建 WebHDFS 客户端
func NewClient(conf *Conf) *Client {
	conf.SetDefaults()

	timeout := time.Duration(conf.HTTPTimeout) * time.Second

	rest := resty.New().
		SetBaseURL(conf.NameNodeURL).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	restNoRedirect := resty.New().
		SetBaseURL(conf.NameNodeURL).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.NoRedirectPolicy())

	return &Client{
		conf:           conf,
		rest:           rest,
		restNoRedirect: restNoRedirect,
	}
}

// Conf 返回客户端配置
func (c *Client) Conf() *Conf {
	return c.conf
}

// MkdirAll 创建 HDFS 目录，已存在时为空操作
func (c *Client) MkdirAll(ctx context.Context, path string) error {
	return c.withRetry(ctx, fmt.Sprintf("mkdirs %s", path), func(ctx context.Context) error {
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParams(c.commonParams("MKDIRS")).
			Put(webhdfsPath(path))
		if err != nil {
			return err
		}
		if resp.IsError() {
			return errors.Errorf("mkdirs %s: %s", path, resp.Status())
		}
		return nil
	})
}

// Exists 判断 HDFS 路径是否存在
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	var exists bool
	err := c.withRetry(ctx, fmt.Sprintf("stat %s", path), func(ctx context.Context) error {
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParams(c.commonParams("GETFILESTATUS")).
			Get(webhdfsPath(path))
		if err != nil {
			return err
		}
		switch {
		case resp.StatusCode() == http.StatusNotFound:
			exists = false
			return nil
		case resp.IsError():
			return errors.Errorf("stat %s: %s", path, resp.Status())
		default:
			exists = true
			return nil
		}
	})
	return exists, err
}

// Delete 删除 HDFS 路径
func (c *Client) Delete(ctx context.Context, path string, recursive bool) error {
	return c.withRetry(ctx, fmt.Sprintf("delete %s", path), func(ctx context.Context) error {
		resp, err := c.rest.R().
			SetContext(ctx).
			SetQueryParams(c.commonParams("DELETE")).
			SetQueryParam("recursive", fmt.Sprintf("%t", recursive)).
			Delete(webhdfsPath(path))
		if err != nil {
			return err
		}
		if resp.IsError() {
			return errors.Errorf("delete %s: %s", path, resp.Status())
		}
		return nil
	})
}

// WriteFile 写入 HDFS 文件，两段式 CREATE
func (c *Client) WriteFile(ctx context.Context, path string, data []byte) error {
	return c.withRetry(ctx, fmt.Sprintf("write %s", path), func(ctx context.Context) error {
		// 第一段：向 NameNode 要 DataNode 写入地址
		resp, err := c.restNoRedirect.R().
			SetContext(ctx).
			SetQueryParams(c.commonParams("CREATE")).
			SetQueryParam("overwrite", "true").
			Put(webhdfsPath(path))
		if err != nil && resp == nil {
			return err
		}
		if resp.StatusCode() != http.StatusTemporaryRedirect {
			return errors.Errorf("create %s: expected redirect, got %s", path, resp.Status())
		}

		location := resp.Header().Get("Location")
		if location == "" {
			return errors.Errorf("create %s: redirect without location", path)
		}

		// 第二段：把数据写给 DataNode
		dataResp, err := c.rest.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/octet-stream").
			SetBody(data).
			Put(location)
		if err != nil {
			return err
		}
		if dataResp.StatusCode() != http.StatusCreated {
			return errors.Errorf("write %s: %s", path, dataResp.Status())
		}
		return nil
	})
}

// ReadFile 读取 HDFS 文件内容
func (c *Client) ReadFile(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := c.withRetry(ctx, fmt.Sprintf("read %s", path), func(ctx context.Context) error {
		resp, err := c.rest.R().
			SetContext(ctx).
			SetDoNotParseResponse(true).
			SetQueryParams(c.commonParams("OPEN")).
			Get(webhdfsPath(path))
		if err != nil {
			return err
		}
		raw := resp.RawBody()
		defer raw.Close()

		if resp.IsError() {
			return errors.Errorf("read %s: %s", path, resp.Status())
		}

		body, err = io.ReadAll(raw)
		return err
	})
	return body, err
}

// withRetry 对 WebHDFS 操作做带退避的重试
func (c *Client) withRetry(ctx context.Context, op string, fn retry.Func) error {
	err := retry.Do(ctx, fn,
		retry.WithMaxAttempts(c.conf.MaxRetries),
		retry.WithBackoff(retry.Exponential(500*time.Millisecond, 5*time.Second)),
		retry.WithJitter(retry.FullJitter),
	)
	if err != nil {
		log.Errorw("webhdfs operation failed", "op", op, "error", err)
		return errors.Wrapf(err, "webhdfs %s", op)
	}
	return nil
}

func (c *Client) commonParams(op string) map[string]string {
	return map[string]string{
		"op":        op,
		"user.name": c.conf.User,
	}
}

func webhdfsPath(path string) string {
	return "/webhdfs/v1" + path
}
