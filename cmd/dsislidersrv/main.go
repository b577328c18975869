package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jypelle/dsislider/internal/srv"
	"github.com/jypelle/dsislider/internal/srv/config"
	"github.com/jypelle/dsislider/internal/version"
	"github.com/sirupsen/logrus"
)

const configSuffix = "dsislider"

type options struct {
	debugMode      bool
	simulationMode bool
	configDir      string
}

type command struct {
	name    string
	summary string
	run     func(opts options) error
}

var commands = []command{
	{"run", "Run the slider server", runServer},
	{"check", "Load the configuration and the slides, then exit", checkSetup},
	{"version", "Show the version number", showVersion},
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	mainCommand := filepath.Base(os.Args[0])

	var opts options
	flag.BoolVar(&opts.debugMode, "d", false, "Enable debug mode")
	flag.BoolVar(&opts.simulationMode, "s", false, "Enable simulation mode (no hardware, simulation window)")
	flag.StringVar(&opts.configDir, "c", defaultConfigDir(), "Location of dsislider config folder")

	flag.Usage = func() {
		fmt.Printf("\nUsage: %s [OPTIONS] COMMAND\n", mainCommand)
		fmt.Printf("\nA touch image slider for tearing effect panels\n")
		fmt.Printf("\nOptions:\n")
		flag.PrintDefaults()
		fmt.Printf("\nCommands:\n")
		for _, c := range commands {
			fmt.Printf("  %-9s %s\n", c.name, c.summary)
		}
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	cmd := findCommand(flag.Arg(0))
	if cmd == nil {
		fmt.Printf("\n%s is not a dsislider command\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}

	cmdFlags := flag.NewFlagSet(cmd.name, flag.ExitOnError)
	cmdFlags.Usage = func() {
		fmt.Printf("\nUsage: %s %s\n\n%s\n", mainCommand, cmd.name, cmd.summary)
	}
	cmdFlags.Parse(flag.Args()[1:])
	if cmdFlags.NArg() > 0 {
		fmt.Printf("\n\"%s %s\" accepts no arguments\n", mainCommand, cmd.name)
		cmdFlags.Usage()
		os.Exit(1)
	}

	if opts.debugMode {
		logrus.SetLevel(logrus.DebugLevel)
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339Nano})
		logrus.Printf("Debug mode activated")
	}

	if err := cmd.run(opts); err != nil {
		logrus.Fatalf("%s: %v", cmd.name, err)
	}
}

func defaultConfigDir() string {
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(userConfigDir, configSuffix)
	}
	return "./." + configSuffix
}

func findCommand(name string) *command {
	for i := range commands {
		if commands[i].name == name {
			return &commands[i]
		}
	}
	return nil
}

func runServer(opts options) error {
	serverApp := srv.NewServerApp(opts.configDir, opts.debugMode, opts.simulationMode)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)

	serverApp.Start()

	sig := <-ch
	logrus.Infof("Received signal: %v", sig)
	serverApp.Stop()
	return nil
}

func checkSetup(opts options) error {
	sc, err := config.LoadServerConfig(opts.configDir, opts.debugMode, opts.simulationMode)
	if err != nil {
		return err
	}
	imageSet, err := srv.LoadImageSet(sc)
	if err != nil {
		return err
	}

	size := sc.PanelSize()
	fmt.Printf("Config folder  %s\n", sc.ConfigDir)
	fmt.Printf("Panel          %dx%d @ %d Hz\n", size.X, size.Y, sc.PanelParam.RefreshRate)
	fmt.Printf("Slides         %d\n", imageSet.Count())
	fmt.Printf("Saved position image %d, %s axis\n", sc.ServerState.Index()+1, sc.ServerState.Axis())
	return nil
}

func showVersion(options) error {
	fmt.Printf("Version %s\n", version.AppVersion.String())
	return nil
}
