//go:build mage

// Package main provides build targets for the storefront project using Mage.
//
// Usage:
//
//	mage build             Compile the storefront binary to bin/
//	mage test:all          Run all tests (unit + integration)
//	mage test:unit         Run only unit tests (exclude integration)
//	mage test:integration  Run only integration tests (builds first)
//	mage test:cover        Run unit tests with a coverage profile
//	mage lint              Run golangci-lint
//	mage vet               Run go vet
//	mage clean             Remove build artifacts
//	mage install           Install storefront to GOPATH/bin
//	mage stats             Print Go line counts per top-level directory
package main
