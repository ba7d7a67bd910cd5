package config

import (
	"fmt"
	"strings"

	"github.com/BaSui01/synax/dispatch"
)

var (
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"json": true, "console": true}
	validDrivers    = map[string]bool{"postgres": true, "mysql": true, "sqlite": true, "sqlite3": true}
)

// Validate 验证配置，汇总所有问题后一次性返回
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "invalid HTTP port")
	}
	if c.Server.RateLimitRPS < 0 || (c.Server.RateLimitRPS > 0 && c.Server.RateLimitBurst <= 0) {
		errs = append(errs, "rate_limit_burst must be positive when rate limiting is enabled")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format %q", c.Log.Format))
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.OTLPEndpoint == "" {
			errs = append(errs, "telemetry.otlp_endpoint is required when telemetry is enabled")
		}
		if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
			errs = append(errs, "telemetry.sample_rate must be between 0 and 1")
		}
	}

	if c.Metrics.Enabled && (c.Metrics.MaxErrorRate <= 0 || c.Metrics.MaxErrorRate > 1) {
		errs = append(errs, "metrics.max_error_rate must be in (0, 1]")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis.addr is required when redis is enabled")
	}

	if c.Database.Enabled && !validDrivers[c.Database.Driver] {
		errs = append(errs, fmt.Sprintf("unsupported database driver %q", c.Database.Driver))
	}

	errs = append(errs, c.Routing.validate()...)

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// validate 检查 id 唯一性与引用完整性。
// 分组引用的提供方必须在 providers 中声明；use 必须是已声明的调度器或 "default"。
func (r *RoutingConfig) validate() []string {
	var errs []string

	providers := make(map[string]bool, len(r.Providers))
	for i, p := range r.Providers {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Sprintf("routing.providers[%d]: id is required", i))
		case providers[p.ID]:
			errs = append(errs, fmt.Sprintf("routing.providers[%d]: duplicate id %q", i, p.ID))
		}
		if p.Use == "" {
			errs = append(errs, fmt.Sprintf("routing.providers[%d]: use is required", i))
		}
		providers[p.ID] = true
	}

	dispatchers := map[string]bool{dispatch.DefaultName: true}
	for i, d := range r.Dispatchers {
		switch {
		case d.ID == "":
			errs = append(errs, fmt.Sprintf("routing.dispatchers[%d]: id is required", i))
		case dispatchers[d.ID]:
			errs = append(errs, fmt.Sprintf("routing.dispatchers[%d]: duplicate id %q", i, d.ID))
		}
		if d.Use == "" {
			errs = append(errs, fmt.Sprintf("routing.dispatchers[%d]: use is required", i))
		}
		dispatchers[d.ID] = true
	}

	groups := make(map[string]bool, len(r.Groups))
	for i := range r.Groups {
		g := &r.Groups[i]
		if err := g.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("routing.groups[%d]: %v", i, err))
			continue
		}
		if groups[g.ID] {
			errs = append(errs, fmt.Sprintf("routing.groups[%d]: duplicate id %q", i, g.ID))
		}
		groups[g.ID] = true

		if g.Use != "" && !dispatchers[g.Use] {
			errs = append(errs, fmt.Sprintf("group %q uses unknown dispatcher %q", g.ID, g.Use))
		}
		for _, m := range g.Members {
			if !providers[m.Provider] {
				errs = append(errs, fmt.Sprintf("group %q references unknown provider %q", g.ID, m.Provider))
			}
		}
	}

	return errs
}
