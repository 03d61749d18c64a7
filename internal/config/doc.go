// Package config provides configuration parsing for scraps sites.
//
// The configuration is stored in scraps.json at the site root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-site",
//	  "site": {
//	    "pages": "pages",
//	    "extension": ".space",
//	    "index": "index"
//	  },
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "gzip": true,
//	    "etag": true,
//	    "metricsPath": "/metrics",
//	    "tracing": false
//	  },
//	  "dev": {
//	    "watch": true,
//	    "reload": true,
//	    "debounce": "100ms"
//	  },
//	  "store": {
//	    "driver": "s3",
//	    "bucket": "my-pages",
//	    "prefix": "site/",
//	    "region": "eu-west-1"
//	  },
//	  "context": "context.yaml"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
