//go:build race

package reporter

const raceBuild = true
