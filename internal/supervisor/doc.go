// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

/*
Package supervisor runs the long-lived MovieRex services under a suture v4
supervisor tree.

	RootSupervisor ("movierex")
	├── StorageSupervisor ("storage-layer")
	│   └── StorageGCService (badger store only)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold failures
accumulate (decaying at FailureDecay per second). Supervisor events are
logged through sutureslog into the zerolog-backed slog handler from
internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddStorageService(services.NewStorageGCService(store, 10*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
