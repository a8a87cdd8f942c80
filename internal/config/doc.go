// SPDX-License-Identifier: MIT

// Package config loads the wellcheck daemon configuration.
//
// Precedence is ENV > file > defaults. The YAML file is parsed strictly:
// unknown keys are rejected so typos do not silently fall back to defaults.
package config
