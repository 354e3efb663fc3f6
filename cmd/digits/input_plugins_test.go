package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/tinytelemetry/digits/internal/feed"
	"github.com/tinytelemetry/digits/internal/model"
)

func TestBuildInputPlugins_RegistersPrimitives(t *testing.T) {
	t.Parallel()

	plugins := buildInputPlugins(InputPluginConfig{
		TCPEnabled: true,
		TCPAddr:    "127.0.0.1:4100",
	})

	if len(plugins) != 3 {
		t.Fatalf("expected 3 plugins, got %d", len(plugins))
	}
	for i, want := range []string{"tcp", "redis", "stdin"} {
		if plugins[i].Name() != want {
			t.Fatalf("plugins[%d] name = %q, want %q", i, plugins[i].Name(), want)
		}
	}
	if !plugins[0].Enabled() {
		t.Fatal("expected tcp plugin to be enabled when TCPEnabled=true")
	}
	if plugins[1].Enabled() {
		t.Fatal("expected redis plugin to be disabled by default")
	}
}

func TestBuildInputPlugins_TCPDisabled(t *testing.T) {
	t.Parallel()

	plugins := buildInputPlugins(InputPluginConfig{
		TCPEnabled: false,
		TCPAddr:    "127.0.0.1:4100",
	})

	if plugins[0].Enabled() {
		t.Fatal("expected tcp plugin to be disabled when TCPEnabled=false")
	}
}

func TestRedisInputPlugin_BuildFailsWhenUnreachable(t *testing.T) {
	t.Parallel()

	plugins := buildInputPlugins(InputPluginConfig{
		RedisEnabled: true,
		Redis:        feed.RedisConfig{Addr: "127.0.0.1:1"},
	})
	redisPlugin := plugins[1]
	if !redisPlugin.Enabled() {
		t.Fatal("expected redis plugin to be enabled when RedisEnabled=true")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := redisPlugin.Build(ctx); err == nil {
		t.Fatal("Build() error = nil, want connection failure")
	}
}

func TestTCPInputPlugin_BuildStartsListener(t *testing.T) {
	t.Parallel()

	src, err := tcpInputPlugin{addr: "127.0.0.1:0", enabled: true}.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer src.Stop()

	tcp, ok := src.(*feed.TCPSource)
	if !ok {
		t.Fatalf("Build() returned %T, want *feed.TCPSource", src)
	}
	conn, err := net.Dial("tcp", tcp.Addr())
	if err != nil {
		t.Fatalf("dial %s: %v", tcp.Addr(), err)
	}
	_ = conn.Close()
}

type stubPlugin struct {
	name    string
	enabled bool
	err     error
}

func (p stubPlugin) Name() string  { return p.name }
func (p stubPlugin) Enabled() bool { return p.enabled }

func (p stubPlugin) Build(_ context.Context) (feed.Source, error) {
	if p.err != nil {
		return nil, p.err
	}
	return stubSource{name: p.name}, nil
}

type stubSource struct{ name string }

func (s stubSource) Lines() <-chan model.IngestEnvelope { return nil }
func (s stubSource) Stop()                              {}
func (s stubSource) Name() string                       { return s.name }

func TestBuildSources_SkipsDisabledAndFailing(t *testing.T) {
	t.Parallel()

	var logged []string
	logf := func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}

	sources := buildSources(context.Background(), []InputSourcePlugin{
		stubPlugin{name: "tcp", enabled: true, err: errors.New("address in use")},
		stubPlugin{name: "off", enabled: false},
		stubPlugin{name: "stdin", enabled: true},
	}, logf)

	if len(sources) != 1 || sources[0].Name() != "stdin" {
		t.Fatalf("buildSources() = %v, want only stdin", sources)
	}
	if len(logged) != 1 {
		t.Fatalf("logged %d messages, want 1", len(logged))
	}
	if !stdinPiped(sources) {
		t.Fatal("stdinPiped() = false, want true")
	}
}
