// Package config loads and merges irmend configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (IRMEND_FORMAT, IRMEND_LOG_LEVEL, IRMEND_CACHE, etc.)
//  3. Config file ($XDG_CONFIG_HOME/irmend/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [Save] to write one back. The
// backend chain is part of the config: backends run in listed order and are
// skipped individually when their API key environment variable is empty.
package config
