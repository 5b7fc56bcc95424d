package config

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string `json:"port"`
	FormsDir        string `json:"formsDir"`        // доп. формы (*.yaml, *.form); пусто = только встроенные
	DefaultFormType string `json:"defaultFormType"` // форма, которая открывается в новой сессии

	MessageTTL  Duration `json:"messageTTL"`  // сколько живёт сообщение об успехе/ошибке
	SessionTTL  Duration `json:"sessionTTL"`  // простой сессии до удаления
	SweepEvery  Duration `json:"sweepEvery"`  // период чистки сессий
	MockLatency Duration `json:"mockLatency"` // искусственная задержка мок-источника

	LogLevel   string `json:"logLevel"`
	DevLogging bool   `json:"devLogging"`
}

// Duration — time.Duration, которая в JSON пишется строкой ("3s", "30m").
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		// допускаем число наносекунд
		var n int64
		if err2 := json.Unmarshal(b, &n); err2 != nil {
			return err
		}
		*d = Duration(n)
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func def() Config {
	return Config{
		Port:            "8080",
		FormsDir:        "",
		DefaultFormType: "User Information",

		MessageTTL:  Duration(3 * time.Second),
		SessionTTL:  Duration(30 * time.Minute),
		SweepEvery:  Duration(time.Minute),
		MockLatency: 0,

		LogLevel:   "info",
		DevLogging: false,
	}
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		if b, ok := parseBool(v); ok {
			return b
		}
	}
	return fallback
}

func getenvDuration(k string, fallback Duration) Duration {
	if v, ok := os.LookupEnv(k); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return Duration(d)
		}
	}
	return fallback
}

func parseBool(v string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "1", "true", "yes":
		return true, true
	case "0", "false", "no":
		return false, true
	}
	return false, false
}

// LoadWithPath читает JSON по указанному пути, потом применяет ENV и флаги из args.
func LoadWithPath(jsonPath string, args []string) (Config, error) {
	cfg := def()

	// JSON (если файл существует)
	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		c2, err := loadJSON(jsonPath)
		if err != nil {
			return cfg, err
		}
		cfg = c2
	}

	// ENV overrides
	cfg.Port = getenv("DYNFORM_PORT", cfg.Port)
	cfg.FormsDir = getenv("DYNFORM_FORMS_DIR", cfg.FormsDir)
	cfg.DefaultFormType = getenv("DYNFORM_DEFAULT_FORM", cfg.DefaultFormType)
	cfg.MessageTTL = getenvDuration("DYNFORM_MESSAGE_TTL", cfg.MessageTTL)
	cfg.SessionTTL = getenvDuration("DYNFORM_SESSION_TTL", cfg.SessionTTL)
	cfg.SweepEvery = getenvDuration("DYNFORM_SWEEP_EVERY", cfg.SweepEvery)
	cfg.MockLatency = getenvDuration("DYNFORM_MOCK_LATENCY", cfg.MockLatency)
	cfg.LogLevel = getenv("DYNFORM_LOG_LEVEL", cfg.LogLevel)
	cfg.DevLogging = getenvBool("DYNFORM_DEV_LOGGING", cfg.DevLogging)

	// Flags overrides
	fs := flag.NewFlagSet("dynform", flag.ContinueOnError)
	configPath := fs.String("config", jsonPath, "Path to config JSON")
	port := fs.String("port", cfg.Port, "HTTP port")
	forms := fs.String("forms", cfg.FormsDir, "Directory with extra form definitions")
	defForm := fs.String("default-form", cfg.DefaultFormType, "Form type opened in a new session")
	msgTTL := fs.Duration("message-ttl", cfg.MessageTTL.Std(), "Lifetime of success/error messages")
	sessTTL := fs.Duration("session-ttl", cfg.SessionTTL.Std(), "Idle session lifetime (0 = forever)")
	sweep := fs.Duration("sweep-every", cfg.SweepEvery.Std(), "Idle session sweep period")
	latency := fs.Duration("mock-latency", cfg.MockLatency.Std(), "Artificial latency of the mock form source")
	level := fs.String("log-level", cfg.LogLevel, "Log level (debug/info/warn/error)")
	dev := fs.String("dev-logging", strconv.FormatBool(cfg.DevLogging), "Console logging (true/false)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	// Если через флаг передали другой конфиг — перечитаем
	if *configPath != jsonPath {
		return LoadWithPath(*configPath, args)
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.FormsDir = strings.TrimSpace(*forms)
	cfg.DefaultFormType = strings.TrimSpace(*defForm)
	cfg.MessageTTL = Duration(*msgTTL)
	cfg.SessionTTL = Duration(*sessTTL)
	cfg.SweepEvery = Duration(*sweep)
	cfg.MockLatency = Duration(*latency)
	cfg.LogLevel = strings.TrimSpace(*level)
	if b, ok := parseBool(*dev); ok {
		cfg.DevLogging = b
	}

	return cfg, nil
}
