/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/anima-g3d/engine"
	"github.com/spaghettifunk/anima-g3d/engine/core"
	"github.com/spaghettifunk/anima-g3d/testbed"
)

func main() {
	configPath := flag.String("config", "", "path to the application config (TOML)")
	headless := flag.Bool("headless", false, "render against a recording backend without opening a window")
	frames := flag.Uint64("frames", 0, "stop after this many frames, 0 runs until the window is closed")
	flag.Parse()

	config := engine.DefaultApplicationConfig()
	if *configPath != "" {
		c, err := engine.LoadApplicationConfig(*configPath)
		if err != nil {
			core.LogFatal("failed to load %s: %s", *configPath, err.Error())
		}
		config = c
	}
	if *headless {
		config.Headless = true
	}
	if *frames > 0 {
		config.MaxFrames = *frames
	}
	if config.Headless && config.MaxFrames == 0 {
		config.MaxFrames = 120
	}

	tb := testbed.NewTestGame(config)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal("failed to create the engine: %s", err.Error())
	}

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("failed to initialize the engine: %s", err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// stop the main loop on sigterm and other system calls
	go func() {
		<-sigCh
		e.Quit()
	}()

	runErr := e.Run()

	m := e.Metrics()
	fps, ms := m.Frame()
	core.LogInfo("%d frames, %.0f fps (%.2f ms), last frame: %d draw calls, %d shader switches, %d texture binds, %d texture reuses",
		e.FrameCount(), fps, ms, m.LastDrawCalls, m.LastShaderSwitches, m.LastTextureBinds, m.LastTextureReuses)

	if err := e.Shutdown(); err != nil {
		core.LogError("%s", err)
		os.Exit(1)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
