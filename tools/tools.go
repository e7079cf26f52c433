//go:build tools

// Package tools pins the lint toolchain used for the reporter module.
package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
)
