// Copyright (c) 2015 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command sonnet trains an HMM on a sonnets corpus and generates verse.
package main

import (
	"flag"
	"os"
	osuser "os/user"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
	"github.com/akualab/sonnet"
	"github.com/alecthomas/kingpin/v2"
	"github.com/golang/glog"
)

const (
	appName    = "sonnet"
	appVersion = "0.1"
)

var (
	props  *Properties
	logDir *string
	config *sonnet.Config
)

var (
	app         = kingpin.New(appName, "Train hidden Markov models on sonnets and compose new ones.")
	configFile  = app.Flag("config", "YAML config file. Flags override its values.").Short('c').String()
	logToStderr = app.Flag("log-stderr", "Logs are written to standard error instead of files.").Default("true").Bool()
	vLevel      = app.Flag("log-level", "Enable V-leveled logging at the specified level.").Default("0").Short('v').String()
	storeDSN    = app.Flag("store", "SQLite model store.").String()
)

// Properties of the sonnet tool.
type Properties struct {
	Workspace string `toml:"workspace_dir"`
	LogDir    string `toml:"log_dir"`
	Store     string `toml:"store"`
}

// propertiesPath returns $SONNET_PROPERTIES or ~/.config/sonnet/properties.toml.
func propertiesPath(currDir string) string {
	if p := os.Getenv("SONNET_PROPERTIES"); len(p) > 0 {
		return p
	}
	propPath := currDir
	if u, e := osuser.Current(); e == nil {
		propPath = filepath.Join(u.HomeDir, ".config", "sonnet")
	}
	return filepath.Join(propPath, "properties.toml")
}

// readProperties returns empty properties if the file does not exist.
func readProperties(fn string) (*Properties, error) {
	p := new(Properties)
	if _, e := os.Stat(fn); e != nil {
		glog.V(2).Infof("unable to read properties file: %v", e)
		return p, nil
	}
	if _, e := toml.DecodeFile(fn, p); e != nil {
		return nil, e
	}
	return p, nil
}

func init() {
	currDir, e := os.Getwd()
	sonnet.Fatal(e)
	props, e = readProperties(propertiesPath(currDir))
	sonnet.Fatal(e)
	defaultLogDir := filepath.Join(currDir, "log")
	if len(props.LogDir) > 0 {
		defaultLogDir = props.LogDir
	}
	logDir = app.Flag("log", "Log output dir.").Default(defaultLogDir).String()
}

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())
	app.Version(appVersion)
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	initGlog()
	defer glog.Flush()
	initConfig()
	printAppValues()
	checkDir(props.Workspace)

	switch cmd {
	case trainCmd.FullCommand():
		glog.V(3).Info("start train command")
		doTrain()
	case generateCmd.FullCommand():
		glog.V(3).Info("start generate command")
		doGenerate()
	case showCmd.FullCommand():
		glog.V(3).Info("start show command")
		doShow()
	case modelsCmd.FullCommand():
		glog.V(3).Info("start models command")
		doModels()
	default:
		app.Usage(os.Args[1:])
	}
}

// initConfig reads the config file and resolves the store location.
func initConfig() {
	config = sonnet.DefaultConfig()
	if len(*configFile) > 0 {
		c, e := sonnet.ReadConfig(*configFile)
		sonnet.Fatal(e)
		config = c
	}
	switch {
	case len(*storeDSN) > 0:
		config.Store = *storeDSN
	case len(config.Store) == 0:
		config.Store = props.Store
	}
}

// Creates dir if it doesn't exist.
func checkDir(path string) {

	if len(path) == 0 {
		return
	}
	e := os.MkdirAll(path, 0755)
	if e != nil {
		glog.Fatal(e)
	}
}

func initGlog() {

	checkDir(*logDir)
	if *logToStderr {
		flag.Set("alsologtostderr", "true")
	}
	flag.Set("v", *vLevel)
	flag.Set("log_dir", *logDir)
}

func printAppValues() {
	glog.Info("app properties: ", *props)
	glog.Info("app version: ", appVersion)
	glog.Info("app config: ", *config)
	glog.Info("app log to std err: ", *logToStderr)
	glog.Info("app log level: ", *vLevel)
	glog.Info("app log dir: ", *logDir)
}

// Flag values override config values when set.
func overrideString(flagVal string, param *string) {
	if len(flagVal) > 0 {
		*param = flagVal
	}
}

func overrideInt(flagVal int, param *int) {
	if flagVal > 0 {
		*param = flagVal
	}
}
