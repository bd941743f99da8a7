package main

import (
	"flag"
	"io/ioutil"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/config"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/internal/gui"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/logging"
	"github.com/lzkmylz/Research-on-Mission-Planning-Algorithms-for-Large-scale-Hybrid-Constellations/sim"
)

var log = logging.Get()

type fileConfig struct {
	General config.GeneralConfig `yaml:"general"`
	Search  config.AWCSATConfig  `yaml:"search"`
}

func main() {
	config_file_path := flag.String("config_file", "", "Path to config file")
	flag.Parse()

	cfg := fileConfig{Search: config.DefaultAWCSATConfig()}

	if *config_file_path != "" {
		yamlFile, err := ioutil.ReadFile(*config_file_path)
		if err != nil {
			log.Err(err).Msgf("could not load config")
			os.Exit(1)
		}
		if err := yaml.UnmarshalStrict(yamlFile, &cfg); err != nil {
			log.Err(err).Msgf("could not load config")
			os.Exit(1)
		}
	}
	config.PlannerGeneralConfig = cfg.General

	if err := cfg.Search.Validate(); err != nil {
		log.Err(err).Msg("invalid search configuration")
		os.Exit(1)
	}

	start, stop, err := scenarioSpan(cfg.General)
	if err != nil {
		log.Err(err).Msg("invalid scenario span")
		os.Exit(1)
	}

	scenario := sim.DefaultScenario(start, stop)
	if cfg.General.Name != "" {
		scenario.Name = cfg.General.Name
	}

	runner, err := sim.NewRunner(scenario, cfg.Search)
	if err != nil {
		log.Err(err).Msg("could not initiate planner")
		os.Exit(1)
	}

	bridge, err := runner.Run()
	if err != nil {
		log.Err(err).Msg("could not run planner")
		os.Exit(1)
	}

	gui.SetUp(bridge)
	gui.Run(cfg.General.GuiPort)
}

// scenarioSpan parses the configured horizon, defaulting to a 24 hour
// window starting now.
func scenarioSpan(general config.GeneralConfig) (time.Time, time.Time, error) {
	if general.ScenarioStart == "" || general.ScenarioStop == "" {
		start := time.Now().UTC().Truncate(time.Minute)
		return start, start.Add(24 * time.Hour), nil
	}
	start, err := time.Parse(time.RFC3339, general.ScenarioStart)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	stop, err := time.Parse(time.RFC3339, general.ScenarioStop)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, stop, nil
}
