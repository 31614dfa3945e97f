package config

import (
	"bytes"
	"context"
	"encoding/json"

	"ledserial-go/bus"
	"ledserial-go/errcode"
	"ledserial-go/types"
	"ledserial-go/x/logx"
	"ledserial-go/x/strx"
)

const (
	serviceName  = "config"
	configPrefix = "config"
)

type ctxKey string

// CtxDeviceKey is the context key holding the device ID.
const CtxDeviceKey ctxKey = "device"

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) ([]byte, bool) {
	b, ok := embeddedConfigs[device]
	return b, ok
}

// Defaults is the configuration used for any field a document leaves out.
func Defaults() types.Config {
	return types.Config{
		Console: types.ConsoleConfig{
			Prompt: "\ncommand> ",
			Echo:   true,
			Baud:   115200,
			TXPin:  0,
			RXPin:  1,
		},
		Actuator: types.ActuatorConfig{
			MaxBlinkHz:       33,
			BrightnessTickMs: 10,
		},
		Log: types.LogConfig{
			Pages:    64,
			PageSize: 64,
			I2CAddr:  0x50,
			SDAPin:   4,
			SCLPin:   5,
			I2CHz:    400_000,
		},
		PWM: types.PWMConfig{
			Pin:    25,
			FreqHz: 1000,
			Top:    1000,
		},
		Heartbeat: types.HeartbeatConfig{Interval: 0},
	}
}

// Decode overlays raw onto Defaults. Unknown keys are rejected.
func Decode(raw []byte) (types.Config, error) {
	cfg := Defaults()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return types.Config{}, errcode.Wrap(errcode.InvalidArgument, "config_decode", err)
	}
	if err := validate(&cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func validate(cfg *types.Config) error {
	d := Defaults()
	cfg.Console.Prompt = strx.Coalesce(cfg.Console.Prompt, d.Console.Prompt)
	if cfg.Actuator.MaxBlinkHz <= 0 {
		cfg.Actuator.MaxBlinkHz = d.Actuator.MaxBlinkHz
	}
	if cfg.Actuator.BrightnessTickMs == 0 {
		cfg.Actuator.BrightnessTickMs = d.Actuator.BrightnessTickMs
	}
	switch {
	case cfg.Log.Pages < 2 || cfg.Log.Pages > 256:
		return errcode.New(errcode.OutOfRange, "config_log", "pages must be in 2..256")
	case cfg.Log.PageSize < 2:
		return errcode.New(errcode.OutOfRange, "config_log", "page_size too small")
	case cfg.PWM.Top == 0:
		return errcode.New(errcode.OutOfRange, "config_pwm", "top must be non-zero")
	case cfg.Heartbeat.Interval < 0:
		return errcode.New(errcode.OutOfRange, "config_heartbeat", "interval must not be negative")
	}
	return nil
}

// Load resolves the embedded document for device and decodes it.
func Load(device string) (types.Config, error) {
	raw, ok := EmbeddedConfigLookup(device)
	if !ok || len(raw) == 0 {
		return types.Config{}, errcode.New(errcode.InvalidArgument, "config_load", "no embedded config for device: "+device)
	}
	return Decode(raw)
}

// ConfigService publishes the decoded configuration, one retained message
// per section on config/<section>.
type ConfigService struct {
	Name string
	// Adjust, when set, edits the loaded config before it is published.
	Adjust func(cfg *types.Config)
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Publish emits every section of cfg as retained messages.
func (s *ConfigService) Publish(conn *bus.Connection, cfg types.Config) {
	sections := []struct {
		key string
		val any
	}{
		{"console", cfg.Console},
		{"actuator", cfg.Actuator},
		{"log", cfg.Log},
		{"pwm", cfg.PWM},
		{"heartbeat", cfg.Heartbeat},
	}
	for _, sec := range sections {
		conn.Publish(conn.NewMessage(bus.Topic{configPrefix, sec.key}, sec.val, true))
	}
}

// Start loads the config for the device named in ctx and publishes it.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) (types.Config, error) {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return types.Config{}, errcode.New(errcode.MissingArgument, "config_start", "missing device ID in context")
	}
	cfg, err := Load(device)
	if err != nil {
		return types.Config{}, err
	}
	if s.Adjust != nil {
		s.Adjust(&cfg)
	}
	s.Publish(conn, cfg)
	logx.Info("config published", "service", s.Name, "device", device)
	return cfg, nil
}
