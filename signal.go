// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// shutdownRequestChannel is used to initiate shutdown from one of the
// subsystems using the same code paths as when an interrupt signal is received.
var shutdownRequestChannel = make(chan struct{})

// interruptSignals defines the default signals to catch in order to do a proper
// shutdown.
var interruptSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// interruptListener listens for OS Signals such as SIGINT (Ctrl+C) and shutdown
// requests from shutdownRequestChannel.  The returned context is cancelled
// when either is received or parent is done.
func interruptListener(parent context.Context, log zerolog.Logger) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)
		defer signal.Stop(interruptChannel)

		select {
		case sig := <-interruptChannel:
			log.Info().Msgf("Received signal (%s).  Shutting down...", sig)
		case <-shutdownRequestChannel:
			log.Info().Msg("Shutdown requested.  Shutting down...")
		case <-parent.Done():
		}
		cancel()

		// Listen for repeated signals and display a message so the user
		// knows the shutdown is in progress and the process is not
		// hung.
		for {
			select {
			case sig := <-interruptChannel:
				log.Info().Msgf("Received signal (%s).  Already shutting down...", sig)
			case <-shutdownRequestChannel:
				log.Info().Msg("Shutdown requested.  Already shutting down...")
			case <-parent.Done():
				return
			}
		}
	}()

	return ctx
}
