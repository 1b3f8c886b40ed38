//go:build !debug

package main

import (
	"context"

	"github.com/macrat/topodown/internal/store"
)

func startDebugLogger(context.Context, *store.Store) {}
