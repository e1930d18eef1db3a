// MovieRex - Movie Recommendation Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierex

/*
Package services adapts MovieRex components to the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

HTTPServerService turns http.Server's blocking ListenAndServe into Serve and
shuts the server down gracefully when the context ends.

StorageGCService runs badger value log garbage collection on a ticker. A GC
error is logged and counted; only a closed store ends the service.

Every wrapper implements fmt.Stringer so suture can name it in log lines.
*/
package services
