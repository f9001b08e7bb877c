package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/fretcheck/algorithms/common"
	"github.com/RyanBlaney/fretcheck/capture"
	"github.com/RyanBlaney/fretcheck/coach/config"
	"github.com/RyanBlaney/fretcheck/logging"
	"github.com/RyanBlaney/fretcheck/transcode"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

// ensureConfig loads the configuration once and installs the global logger.
// Logs go to stderr so stdout stays clean for results and JSON.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}

		levelName := cfg.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			levelName = *c.logLevelFlag
		}
		level, err := logging.ParseLevel(levelName)
		if err != nil {
			c.configErr = err
			return
		}
		logging.SetGlobalLogger(logging.NewWriterLogger(cmd.ErrOrStderr(), level))
		logging.Debug("Configuration loaded", logging.Fields{
			"path":   resolved,
			"exists": exists,
		})

		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// openSource returns a file source when path is set and the default
// microphone otherwise.
func (c *commandContext) openSource(ctx context.Context, path string) (capture.Source, error) {
	cfg := c.config
	if strings.TrimSpace(path) != "" {
		decoderCfg := transcode.DefaultDecoderConfig()
		decoderCfg.TargetSampleRate = cfg.Capture.SampleRate
		return capture.NewFileSource(ctx, path, decoderCfg)
	}

	mic, err := capture.OpenMicrophone(cfg.Capture.SampleRate, cfg.Capture.FramesPerRead)
	if err != nil {
		return nil, err
	}
	return mic, nil
}

// record reads seconds of audio from a file or the microphone.
func (c *commandContext) record(ctx context.Context, path string, seconds float64) (common.SampleBuffer, error) {
	src, err := c.openSource(ctx, path)
	if err != nil {
		return common.SampleBuffer{}, err
	}
	defer src.Close()

	return capture.Record(ctx, src, time.Duration(seconds*float64(time.Second)))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
