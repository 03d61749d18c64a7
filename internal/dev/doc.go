// Package dev supports editing a site while it is being served.
//
// A polling Watcher reports changes to page files, the render context and
// scraps.json in batches. Server checks every changed page before telling
// browsers anything: a page that no longer parses is shown in an error
// overlay, and browsers reload once every page is valid again.
//
//	devSrv := dev.NewServer(dev.ServerOptions{Config: cfg, Logger: logger})
//	go devSrv.Start(ctx)
//
//	srv := server.New(st, server.Config{
//	    ReloadHandler: devSrv.ReloadHandler(),
//	    ReloadScript:  devSrv.Script(),
//	})
//
// # Reload Protocol
//
// Browsers connect to /_scraps/reload via WebSocket. Messages are JSON:
//
//	{"type": "reload"}                                // reload the page
//	{"type": "error", "page": "index", "error": "..."} // show the overlay
//	{"type": "clear"}                                 // hide the overlay
package dev
