/*
Sandbox application: a grid of instanced cubes drawn through the
OpenGL backend of the engine.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/rx-engine/engine"
	"github.com/spaghettifunk/rx-engine/engine/assets"
	"github.com/spaghettifunk/rx-engine/engine/config"
	"github.com/spaghettifunk/rx-engine/engine/core"
	"github.com/spaghettifunk/rx-engine/engine/platform"
	"github.com/spaghettifunk/rx-engine/engine/renderer"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl"
	"github.com/spaghettifunk/rx-engine/engine/renderer/opengl/native"
	"github.com/spaghettifunk/rx-engine/testbed"
)

func main() {
	configPath := flag.String("config", "rx.toml", "path to the TOML configuration")
	grid := flag.Int("grid", 10, "cubes per side of the sandbox grid")
	flag.Parse()

	if err := run(*configPath, *grid); err != nil {
		core.LogFatal("%v", err)
	}
}

func run(configPath string, grid int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := core.SetLogLevel(cfg.Log.Level); err != nil {
		return err
	}
	appConfig := engine.NewApplicationConfig(cfg)

	p := platform.New()
	if err := p.Startup(appConfig.Name, appConfig.StartWidth, appConfig.StartHeight, appConfig.VSync); err != nil {
		return err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		_ = p.Shutdown()
		return err
	}
	if err := am.Initialize(cfg.Assets.ShadersDir, cfg.Assets.Watch); err != nil {
		_ = p.Shutdown()
		return err
	}
	sources, err := engine.LoadShaderSources(am, appConfig.VertexShader, appConfig.FragmentShader)
	if err != nil {
		_ = am.Shutdown()
		_ = p.Shutdown()
		return err
	}

	f, err := native.New()
	if err != nil {
		_ = am.Shutdown()
		_ = p.Shutdown()
		return err
	}
	device := opengl.NewDevice(f)
	api := opengl.NewAPI(device, p.SwapBuffers)

	r, err := renderer.NewRenderer(device, api, appConfig.Renderer, renderer.NewCubeMesh(1), sources)
	if err != nil {
		_ = am.Shutdown()
		_ = p.Shutdown()
		return err
	}

	sandbox := testbed.NewSandbox(appConfig, grid)
	e := engine.New(sandbox.Game, p, r, am)
	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		return err
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	go func() {
		<-sigCh
		e.Stop()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	return runErr
}
