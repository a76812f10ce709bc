package renderer

import (
	"context"
	"fmt"

	"monitoria-system/config"
	"monitoria-system/internal/global/httpclient"

	"github.com/go-resty/resty/v2"
)

const (
	TemplateProjectProposal = "project-proposal"
	TemplateEdital          = "edital"
)

// Renderer 把模板数据渲染成 PDF
type Renderer interface {
	Render(ctx context.Context, template string, data any) ([]byte, error)
}

var Default Renderer

type Client struct {
	http *resty.Client
}

func Init() {
	Default = New(config.Get().Renderer)
}

func New(cfg config.Renderer) *Client {
	return &Client{http: httpclient.New(cfg.BaseURL, cfg.Timeout)}
}

type renderRequest struct {
	Template string `json:"template"`
	Data     any    `json:"data"`
}

func (c *Client) Render(ctx context.Context, template string, data any) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/pdf").
		SetBody(renderRequest{Template: template, Data: data}).
		Post("/render")
	if err != nil {
		return nil, fmt.Errorf("调用渲染服务失败: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("渲染服务返回 %d: %s", resp.StatusCode(), resp.String())
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("渲染服务返回空文档")
	}
	return resp.Body(), nil
}
