package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tinytelemetry/digits/internal/feed"
	"github.com/tinytelemetry/digits/internal/tcpserver"
)

// InputSourcePlugin is a small plugin primitive for wiring snapshot feeds.
type InputSourcePlugin interface {
	Name() string
	Enabled() bool
	Build(ctx context.Context) (feed.Source, error)
}

// InputPluginConfig defines runtime input selection.
type InputPluginConfig struct {
	TCPEnabled   bool
	TCPAddr      string
	RedisEnabled bool
	Redis        feed.RedisConfig
}

func buildInputPlugins(cfg InputPluginConfig) []InputSourcePlugin {
	plugins := make([]InputSourcePlugin, 0, 3)
	plugins = append(plugins, tcpInputPlugin{
		addr:    cfg.TCPAddr,
		enabled: cfg.TCPEnabled,
	})
	plugins = append(plugins, redisInputPlugin{
		cfg:     cfg.Redis,
		enabled: cfg.RedisEnabled,
	})
	plugins = append(plugins, stdinInputPlugin{})
	return plugins
}

type tcpInputPlugin struct {
	addr    string
	enabled bool
}

func (p tcpInputPlugin) Name() string { return "tcp" }

func (p tcpInputPlugin) Enabled() bool { return p.enabled }

func (p tcpInputPlugin) Build(_ context.Context) (feed.Source, error) {
	server := tcpserver.NewServer(p.addr)
	if err := server.Start(); err != nil {
		return nil, fmt.Errorf("start tcp server: %w", err)
	}
	return feed.NewTCPSource(server), nil
}

type redisInputPlugin struct {
	cfg     feed.RedisConfig
	enabled bool
}

func (p redisInputPlugin) Name() string { return "redis" }

func (p redisInputPlugin) Enabled() bool { return p.enabled }

func (p redisInputPlugin) Build(ctx context.Context) (feed.Source, error) {
	src, err := feed.NewRedisSource(ctx, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("start redis subscription: %w", err)
	}
	return src, nil
}

type stdinInputPlugin struct{}

func (p stdinInputPlugin) Name() string { return "stdin" }

// Enabled reports whether stdin is piped rather than a terminal.
func (p stdinInputPlugin) Enabled() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func (p stdinInputPlugin) Build(ctx context.Context) (feed.Source, error) {
	return feed.NewStdinSource(ctx), nil
}

// buildSources starts every enabled plugin. A plugin that fails to start is
// logged and skipped.
func buildSources(ctx context.Context, plugins []InputSourcePlugin, logf func(string, ...any)) []feed.Source {
	sources := make([]feed.Source, 0, len(plugins))
	for _, plugin := range plugins {
		if !plugin.Enabled() {
			continue
		}
		src, err := plugin.Build(ctx)
		if err != nil {
			logf("Error initializing input plugin %q: %v", plugin.Name(), err)
			continue
		}
		sources = append(sources, src)
	}
	return sources
}
