// Package server serves stored pages over HTTP.
//
// Every request loads the page from a store.Store, builds it and renders
// it with a context made of the query parameters layered over the site
// context:
//
//	GET /              the index page
//	GET /{page}        the page as HTML
//	GET /{page}.css    the page's generated stylesheet
//	GET /healthz       liveness
//	GET /metrics       Prometheus metrics
//
// Responses carry a BLAKE3 ETag unless Config.ETag is off, in which case
// pages are streamed to the client root by root. Unknown pages are 404;
// pages that fail to parse or render are 500 and logged with their error
// code.
//
//	st := store.NewDirStore("pages", ".space")
//	srv := server.New(st, server.DefaultConfig())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
